package ws

import (
	"encoding/json"
	"time"

	"github.com/DRSN-tech/futburguer-cart/internal/domain"
)

const (
	frameCartUpdated  = "cart_updated"
	frameNotification = "notification"
)

type itemFrame struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Price    json.Number `json:"price"`
	Quantity int         `json:"quantity"`
	Image    string      `json:"image"`
	Category string      `json:"category"`
	Total    json.Number `json:"total"`
}

type cartFrame struct {
	Type      string      `json:"type"`
	ItemCount int         `json:"itemCount"`
	Subtotal  json.Number `json:"subtotal"`
	Cart      []itemFrame `json:"cart"`
	UI        []UIPatch   `json:"ui"`
}

type notificationFrame struct {
	Type      string     `json:"type"`
	Message   string     `json:"message"`
	Kind      string     `json:"kind,omitempty"`
	Visible   bool       `json:"visible"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func newCartFrame(cart domain.Cart) cartFrame {
	items := make([]itemFrame, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, itemFrame{
			ID:       it.ID,
			Name:     it.Name,
			Price:    json.Number(it.UnitPrice.StringFixed(2)),
			Quantity: it.Quantity,
			Image:    it.Image,
			Category: it.Category,
			Total:    json.Number(it.Total().StringFixed(2)),
		})
	}

	count := cart.ItemCount()
	return cartFrame{
		Type:      frameCartUpdated,
		ItemCount: count,
		Subtotal:  json.Number(cart.Subtotal().StringFixed(2)),
		Cart:      items,
		UI:        BadgePatches(count),
	}
}

// newNotificationFrame: пустое уведомление скрывает плашку
func newNotificationFrame(n domain.Notification) notificationFrame {
	if n.Dismissed() {
		return notificationFrame{Type: frameNotification}
	}

	expires := n.ExpiresAt
	return notificationFrame{
		Type:      frameNotification,
		Message:   n.Message,
		Kind:      string(n.Kind),
		Visible:   true,
		ExpiresAt: &expires,
	}
}
