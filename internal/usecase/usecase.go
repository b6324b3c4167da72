package usecase

import (
	"context"

	"github.com/DRSN-tech/futburguer-cart/internal/domain"
	"github.com/shopspring/decimal"
)

// CartUC — операции хранилища корзины. owner задаёт идентификатор клиентской сессии.
type CartUC interface {
	GetCart(ctx context.Context, owner string) (domain.Cart, error)
	AddItem(ctx context.Context, owner string, product *domain.Product) (domain.Cart, error)
	RemoveItem(ctx context.Context, owner string, productID string) (domain.Cart, error)
	UpdateQuantity(ctx context.Context, owner string, productID string, quantity int) (domain.Cart, error)
	ClearCart(ctx context.Context, owner string) error
	GetSubtotal(ctx context.Context, owner string) (decimal.Decimal, error)
	GetItemCount(ctx context.Context, owner string) (int, error)
	GetTotal(ctx context.Context, owner string, deliveryFee, discount decimal.Decimal) (decimal.Decimal, error)
	IsEmpty(ctx context.Context, owner string) (bool, error)
	GetSummary(ctx context.Context, owner string) (*CartSummary, error)
}

// OrderUC — формирование заказа и ссылки на мессенджер.
type OrderUC interface {
	FormatOrder(ctx context.Context, req *OrderReq) (*OrderMessage, error)
	SendOrder(ctx context.Context, req *OrderReq) (*SendOrderRes, error)
}
