package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/DRSN-tech/futburguer-cart/internal/cfg"
	"github.com/DRSN-tech/futburguer-cart/internal/infrastructure/auth"
	"github.com/DRSN-tech/futburguer-cart/pkg/logger"
	"github.com/DRSN-tech/futburguer-cart/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	// SessionHeader позволяет клиентам без cookie явно указать корзину
	SessionHeader = "X-Cart-Session"
	ownerKey      = "owner"
)

type ownerCtxKey struct{}

// OwnerFromCtx возвращает идентификатор корзины текущего запроса
func OwnerFromCtx(ctx context.Context) string {
	owner, _ := ctx.Value(ownerCtxKey{}).(string)
	return owner
}

func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerCtxKey{}, owner)
}

// Sessions привязывает запрос к корзине: заголовок X-Cart-Session или подписанная cookie.
// Новым клиентам выдаётся cookie со случайным идентификатором.
type Sessions struct {
	store  *sessions.CookieStore
	name   string
	logger logger.Logger
}

func NewSessions(cfg *cfg.SessionCfg, logger logger.Logger) *Sessions {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &Sessions{store: store, name: cfg.CookieName, logger: logger}
}

func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if owner := strings.TrimSpace(r.Header.Get(SessionHeader)); owner != "" {
			next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
			return
		}

		// Повреждённая или чужая cookie заменяется новой сессией
		session, err := s.store.Get(r, s.name)
		if err != nil {
			s.logger.Debugf("session cookie rejected: %v", err)
		}

		owner, _ := session.Values[ownerKey].(string)
		if owner == "" {
			owner = uuid.NewString()
			session.Values[ownerKey] = owner
			if err := session.Save(r, w); err != nil {
				s.logger.Warnf("failed to save session: %v", err)
			}
		}

		next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
	})
}

// Authenticate кладёт пользователя в контекст, если передан валидный bearer-токен.
// Невалидный токен не блокирует запрос: пользователь остаётся анонимным.
func Authenticate(a *auth.JWTAuth, logger logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !a.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			user, err := a.Verify(header)
			if err != nil {
				logger.Debugf("bearer token ignored: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
		})
	}
}

// Instrument считает запросы и их длительность по шаблону маршрута
func Instrument(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			m.ObserveRequest(route, status, started)
		})
	}
}
