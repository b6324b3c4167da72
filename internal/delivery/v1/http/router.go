package http

import (
	"net/http"

	_ "github.com/DRSN-tech/futburguer-cart/docs" // Регистрация описания API для swagger
	"github.com/DRSN-tech/futburguer-cart/internal/infrastructure/auth"
	"github.com/DRSN-tech/futburguer-cart/internal/usecase"
	"github.com/DRSN-tech/futburguer-cart/pkg/logger"
	"github.com/DRSN-tech/futburguer-cart/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router   *chi.Mux
	logger   logger.Logger
	metrics  *metrics.Metrics
	sessions *Sessions
	auth     *auth.JWTAuth
}

func NewRouter(router *chi.Mux, logger logger.Logger, metrics *metrics.Metrics, sessions *Sessions, auth *auth.JWTAuth) *Router {
	return &Router{
		router:   router,
		logger:   logger,
		metrics:  metrics,
		sessions: sessions,
		auth:     auth,
	}
}

// Init регистрирует маршруты. cartWS обслуживает WebSocket-подписки на изменения корзины.
func (r *Router) Init(cartUC usecase.CartUC, orderUC usecase.OrderUC, notifications NotificationSource, cartWS http.Handler) {
	r.router.Use(middleware.Recoverer)
	r.router.Use(Instrument(r.metrics))

	r.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteSuccess(w, http.StatusOK, nil)
	})
	r.router.Handle("/metrics", r.metrics.Handler())
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(r.sessions.Middleware)
		v1.Use(Authenticate(r.auth, r.logger))

		cartHandler := NewCartHandler(cartUC, notifications, r.logger)
		registerCartRoutes(v1, cartHandler, cartWS)

		orderHandler := NewOrderHandler(orderUC, r.logger)
		registerOrderRoutes(v1, orderHandler)
	})
}

func registerCartRoutes(router chi.Router, h *CartHandler, cartWS http.Handler) {
	router.Route("/cart", func(c chi.Router) {
		c.Get("/", h.getCart)
		c.Delete("/", h.clearCart)
		c.Get("/summary", h.getSummary)
		c.Get("/total", h.getTotal)
		c.Get("/notification", h.getNotification)
		c.Post("/items", h.addItem)
		c.Patch("/items/{id}", h.updateQuantity)
		c.Delete("/items/{id}", h.removeItem)
		if cartWS != nil {
			c.Handle("/ws", cartWS)
		}
	})
}

func registerOrderRoutes(router chi.Router, h *OrderHandler) {
	router.Route("/orders", func(o chi.Router) {
		o.Post("/preview", h.previewOrder)
		o.Post("/send", h.sendOrder)
		o.Post("/qrcode", h.orderQRCode)
	})
}
