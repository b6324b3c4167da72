package grpc

import (
	"context"
	"strings"

	"github.com/DRSN-tech/futburguer-cart/internal/infrastructure/auth"
	"github.com/DRSN-tech/futburguer-cart/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

const (
	sessionMetadataKey = "x-cart-session"
	authMetadataKey    = "authorization"
)

type ownerCtxKey struct{}

func OwnerFromCtx(ctx context.Context) string {
	owner, _ := ctx.Value(ownerCtxKey{}).(string)
	return owner
}

// SessionInterceptor берёт идентификатор корзины из метаданных и проверяет bearer-токен.
// Невалидный токен не отклоняет вызов: клиент считается анонимным.
func SessionInterceptor(a *auth.JWTAuth, logger logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		md, _ := metadata.FromIncomingContext(ctx)

		if v := md.Get(sessionMetadataKey); len(v) > 0 {
			ctx = context.WithValue(ctx, ownerCtxKey{}, strings.TrimSpace(v[0]))
		}

		if v := md.Get(authMetadataKey); len(v) > 0 && a.Enabled() {
			user, err := a.Verify(v[0])
			if err != nil {
				logger.Debugf("bearer token ignored: %v", err)
			} else {
				ctx = auth.WithUser(ctx, user)
			}
		}

		return handler(ctx, req)
	}
}
