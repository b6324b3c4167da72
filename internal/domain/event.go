package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartChanged рассылается после каждой мутации корзины
type CartChanged struct {
	Owner     string
	ItemCount int
	Cart      Cart
	At        time.Time
}

// OrderSent фиксирует сформированную ссылку на заказ
type OrderSent struct {
	Owner     string
	Customer  Customer
	Cart      Cart
	Subtotal  decimal.Decimal
	Total     decimal.Decimal
	DeepLink  string
	Loyalty   bool
	CreatedAt time.Time
}
