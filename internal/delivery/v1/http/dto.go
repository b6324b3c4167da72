package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/DRSN-tech/futburguer-cart/internal/domain"
	"github.com/DRSN-tech/futburguer-cart/internal/usecase"
	"github.com/shopspring/decimal"
)

// productID принимает идентификатор товара строкой или числом
type productID string

func (p *productID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = productID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("unexpected product id %s", string(data))
	}
	*p = productID(n.String())

	return nil
}

type ProductRequest struct {
	ID       productID       `json:"id" swaggertype:"string"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price" swaggertype:"number"`
	Image    string          `json:"image"`
	Category string          `json:"category"`
}

type QuantityRequest struct {
	Quantity json.Number `json:"quantity" swaggertype:"integer"`
}

type AddressRequest struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
}

type CustomerRequest struct {
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	Email         string          `json:"email"`
	Address       *AddressRequest `json:"address"`
	PaymentMethod string          `json:"paymentMethod"`
}

type OrderRequest struct {
	Customer    *CustomerRequest `json:"customer"`
	DeliveryFee *decimal.Decimal `json:"deliveryFee,omitempty" swaggertype:"number"`
}

type LineItemResponse struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Price    json.Number `json:"price" swaggertype:"number"`
	Quantity int         `json:"quantity"`
	Image    string      `json:"image"`
	Category string      `json:"category"`
	Total    json.Number `json:"total" swaggertype:"number"`
	ImageURL string      `json:"imageUrl,omitempty"`
}

type CartResponse struct {
	Items     []LineItemResponse `json:"items"`
	ItemCount int                `json:"itemCount"`
	Subtotal  json.Number        `json:"subtotal" swaggertype:"number"`
	IsEmpty   bool               `json:"isEmpty"`
}

type TotalResponse struct {
	Subtotal    json.Number `json:"subtotal" swaggertype:"number"`
	DeliveryFee json.Number `json:"deliveryFee" swaggertype:"number"`
	Discount    json.Number `json:"discount" swaggertype:"number"`
	Total       json.Number `json:"total" swaggertype:"number"`
}

type NotificationResponse struct {
	Message   string    `json:"message"`
	Kind      string    `json:"kind"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type OrderPreviewResponse struct {
	Text        string      `json:"text"`
	Encoded     string      `json:"encoded"`
	Subtotal    json.Number `json:"subtotal" swaggertype:"number"`
	DeliveryFee json.Number `json:"deliveryFee" swaggertype:"number"`
	Total       json.Number `json:"total" swaggertype:"number"`
	Loyalty     bool        `json:"loyalty"`
}

type SendOrderResponse struct {
	DeepLink    string               `json:"deepLink"`
	CartCleared bool                 `json:"cartCleared"`
	Message     OrderPreviewResponse `json:"message"`
}

func (p *ProductRequest) toDomain() *domain.Product {
	return domain.NewProduct(
		strings.TrimSpace(string(p.ID)),
		p.Name,
		p.Price,
		p.Image,
		p.Category,
	)
}

func (c *CustomerRequest) toDomain() *domain.Customer {
	if c == nil {
		return nil
	}

	customer := &domain.Customer{
		Name:          c.Name,
		Phone:         c.Phone,
		Email:         c.Email,
		PaymentMethod: domain.PaymentMethod(strings.ToLower(strings.TrimSpace(c.PaymentMethod))),
	}

	if c.Address != nil {
		customer.Address = &domain.Address{
			Street:       c.Address.Street,
			Number:       c.Address.Number,
			Complement:   c.Address.Complement,
			Neighborhood: c.Address.Neighborhood,
			City:         c.Address.City,
			State:        c.Address.State,
			ZipCode:      c.Address.ZipCode,
		}
	}

	return customer
}

func toCartResponse(cart domain.Cart) CartResponse {
	items := make([]LineItemResponse, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, toLineItemResponse(it, ""))
	}

	return CartResponse{
		Items:     items,
		ItemCount: cart.ItemCount(),
		Subtotal:  money(cart.Subtotal()),
		IsEmpty:   cart.IsEmpty(),
	}
}

func toSummaryResponse(s *usecase.CartSummary) CartResponse {
	items := make([]LineItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, toLineItemResponse(it.LineItem, it.ImageURL))
	}

	return CartResponse{
		Items:     items,
		ItemCount: s.ItemCount,
		Subtotal:  money(s.Subtotal),
		IsEmpty:   s.IsEmpty,
	}
}

func toLineItemResponse(it domain.LineItem, imageURL string) LineItemResponse {
	return LineItemResponse{
		ID:       it.ID,
		Name:     it.Name,
		Price:    money(it.UnitPrice),
		Quantity: it.Quantity,
		Image:    it.Image,
		Category: it.Category,
		Total:    money(it.Total()),
		ImageURL: imageURL,
	}
}

func toOrderPreviewResponse(m *usecase.OrderMessage) OrderPreviewResponse {
	return OrderPreviewResponse{
		Text:        m.Text,
		Encoded:     m.Encoded,
		Subtotal:    money(m.Subtotal),
		DeliveryFee: money(m.DeliveryFee),
		Total:       money(m.Total),
		Loyalty:     m.Loyalty,
	}
}
