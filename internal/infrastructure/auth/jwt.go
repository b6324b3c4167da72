// Package auth проверяет ID-токены внешнего провайдера аутентификации.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/DRSN-tech/futburguer-cart/internal/cfg"
	"github.com/DRSN-tech/futburguer-cart/internal/domain"
	"github.com/DRSN-tech/futburguer-cart/pkg/e"
	"github.com/golang-jwt/jwt/v5"
)

type userKey struct{}

// Claims — поля ID-токена, нужные корзине
type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// JWTAuth проверяет HS256-токены общим секретом. Без секрета все пользователи анонимны.
type JWTAuth struct {
	secret []byte
	issuer string
}

func NewJWTAuth(cfg *cfg.AuthCfg) *JWTAuth {
	return &JWTAuth{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
	}
}

func (a *JWTAuth) Enabled() bool {
	return len(a.secret) > 0
}

// Verify разбирает bearer-токен ("Bearer xxx" или сам токен) и возвращает пользователя
func (a *JWTAuth) Verify(token string) (*domain.UserRef, error) {
	if !a.Enabled() {
		return nil, e.ErrInvalidToken
	}

	token = strings.TrimSpace(token)
	if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return nil, e.ErrInvalidToken
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return nil, errors.Join(e.ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return nil, e.ErrInvalidToken
	}

	return &domain.UserRef{UID: claims.Subject, Email: claims.Email, Name: claims.Name}, nil
}

// Issue подписывает токен для пользователя. Используется в тестах и локальной отладке.
func (a *JWTAuth) Issue(user domain.UserRef, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = user.UID
	if claims.Issuer == "" {
		claims.Issuer = a.issuer
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email:            user.Email,
		Name:             user.Name,
		RegisteredClaims: claims,
	})

	return t.SignedString(a.secret)
}

// WithUser кладёт проверенного пользователя в контекст
func WithUser(ctx context.Context, user *domain.UserRef) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

func (a *JWTAuth) CurrentUser(ctx context.Context) (*domain.UserRef, bool) {
	user, ok := ctx.Value(userKey{}).(*domain.UserRef)
	return user, ok && user != nil
}

func (a *JWTAuth) IsAuthenticated(ctx context.Context) bool {
	_, ok := a.CurrentUser(ctx)
	return ok
}
