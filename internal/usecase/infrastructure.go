package usecase

import (
	"context"

	"github.com/DRSN-tech/futburguer-cart/internal/domain"
)

// CartEventPublisher рассылает изменения корзины подписчикам (UI, Kafka, метрики).
type CartEventPublisher interface {
	PublishCartChanged(ctx context.Context, event domain.CartChanged)
}

// OrderPublisher сообщает внешним системам об отправленном заказе.
type OrderPublisher interface {
	PublishOrderSent(ctx context.Context, event domain.OrderSent)
}

// Notifier показывает временное уведомление владельцу корзины. Fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, owner, message string, kind domain.NotificationKind)
}

// AuthProvider — доступ к внешнему провайдеру аутентификации.
type AuthProvider interface {
	IsAuthenticated(ctx context.Context) bool
	CurrentUser(ctx context.Context) (*domain.UserRef, bool)
}

// AssetResolver превращает ссылку на изображение в URL для отображения.
type AssetResolver interface {
	ResolveImage(ctx context.Context, ref string) string
}
