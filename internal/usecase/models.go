package usecase

import (
	"github.com/DRSN-tech/futburguer-cart/internal/domain"
	"github.com/shopspring/decimal"
)

// CART USECASE

// CartSummary — снимок корзины для отображения.
type CartSummary struct {
	Items     []SummaryItem
	ItemCount int
	Subtotal  decimal.Decimal
	IsEmpty   bool
}

// SummaryItem — позиция корзины с URL изображения и итоговой стоимостью.
type SummaryItem struct {
	domain.LineItem
	ImageURL string
	Total    decimal.Decimal
}

// ORDER USECASE

// OrderReq — запрос на формирование заказа. DeliveryFee == nil означает стоимость доставки по умолчанию.
type OrderReq struct {
	Owner       string
	Customer    *domain.Customer
	DeliveryFee *decimal.Decimal
}

// OrderMessage — текст заказа и его URL-кодированная форма.
type OrderMessage struct {
	Text        string
	Encoded     string
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
	Loyalty     bool
}

// SendOrderRes содержит ссылку для открытия мессенджера.
type SendOrderRes struct {
	DeepLink    string
	Message     *OrderMessage
	CartCleared bool
}

// MAPPERS

func NewOrderReq(owner string, customer *domain.Customer, deliveryFee *decimal.Decimal) *OrderReq {
	return &OrderReq{
		Owner:       owner,
		Customer:    customer,
		DeliveryFee: deliveryFee,
	}
}

func NewCartSummary(items []SummaryItem, itemCount int, subtotal decimal.Decimal) *CartSummary {
	return &CartSummary{
		Items:     items,
		ItemCount: itemCount,
		Subtotal:  subtotal,
		IsEmpty:   len(items) == 0,
	}
}

func NewSendOrderRes(deepLink string, message *OrderMessage, cleared bool) *SendOrderRes {
	return &SendOrderRes{
		DeepLink:    deepLink,
		Message:     message,
		CartCleared: cleared,
	}
}
