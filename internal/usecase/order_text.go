package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/DRSN-tech/futburguer-cart/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	orderHeader    = "🍔 *NOVO PEDIDO - FUTBURGUER* ⚽"
	orderSeparator = "━━━━━━━━━━━━━━━━━━━"
	loyaltyNote    = "[Cliente cadastrado - Ganhará pontos fidelidade]"
)

type orderText struct {
	Cart        domain.Cart
	Customer    *domain.Customer
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
	At          time.Time
	Loyalty     bool
}

// formatOrderText собирает многострочное сообщение заказа для WhatsApp.
func formatOrderText(o orderText) string {
	var b strings.Builder

	b.WriteString(orderHeader + "\n\n")

	b.WriteString(fmt.Sprintf("*Cliente:* %s\n", o.Customer.Name))
	b.WriteString(fmt.Sprintf("*Telefone:* %s\n", o.Customer.Phone))
	if o.Customer.Email != "" {
		b.WriteString(fmt.Sprintf("*Email:* %s\n", o.Customer.Email))
	}
	b.WriteString("\n")

	if addr := o.Customer.Address; addr != nil {
		b.WriteString("*Endereço de Entrega:*\n")
		b.WriteString(fmt.Sprintf("%s, %s\n", addr.Street, addr.Number))
		if addr.Complement != "" {
			b.WriteString(addr.Complement + "\n")
		}
		b.WriteString(fmt.Sprintf("%s - %s, %s\n", addr.Neighborhood, addr.City, addr.State))
		if addr.ZipCode != "" {
			b.WriteString(fmt.Sprintf("CEP: %s\n", addr.ZipCode))
		}
		b.WriteString("\n")
	}

	b.WriteString("*Pedido:*\n")
	b.WriteString(orderSeparator + "\n")
	for _, item := range o.Cart.Items {
		b.WriteString(fmt.Sprintf("%dx %s - R$ %s\n", item.Quantity, item.Name, money(item.Total())))
	}
	b.WriteString(orderSeparator + "\n\n")

	b.WriteString(fmt.Sprintf("*Subtotal:* R$ %s\n", money(o.Subtotal)))
	b.WriteString(fmt.Sprintf("*Taxa de entrega:* R$ %s\n", money(o.DeliveryFee)))
	b.WriteString(fmt.Sprintf("*TOTAL:* R$ %s\n\n", money(o.Total)))

	if label, ok := o.Customer.PaymentMethod.Label(); ok {
		b.WriteString(fmt.Sprintf("*Forma de pagamento:* %s\n\n", label))
	}

	b.WriteString(fmt.Sprintf("✅ Pedido realizado em: %s às %s\n", o.At.Format("02/01/2006"), o.At.Format("15:04")))

	if o.Loyalty {
		b.WriteString("\n" + loyaltyNote)
	}

	return b.String()
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
