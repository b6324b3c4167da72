package events

import (
	"context"

	"github.com/DRSN-tech/futburguer-cart/internal/domain"
	"github.com/DRSN-tech/futburguer-cart/pkg/logger"
	"github.com/DRSN-tech/futburguer-cart/pkg/metrics"
)

// CartPublisher публикует изменения корзины в шину
type CartPublisher struct {
	bus *Bus[domain.CartChanged]
}

func NewCartPublisher(bus *Bus[domain.CartChanged]) *CartPublisher {
	return &CartPublisher{bus: bus}
}

func (p *CartPublisher) PublishCartChanged(ctx context.Context, event domain.CartChanged) {
	p.bus.Publish(ctx, event)
}

// OrderPublisher публикует отправленные заказы в шину
type OrderPublisher struct {
	bus *Bus[domain.OrderSent]
}

func NewOrderPublisher(bus *Bus[domain.OrderSent]) *OrderPublisher {
	return &OrderPublisher{bus: bus}
}

func (p *OrderPublisher) PublishOrderSent(ctx context.Context, event domain.OrderSent) {
	p.bus.Publish(ctx, event)
}

// LogCartChanges пишет каждое изменение корзины в debug-лог
func LogCartChanges(log logger.Logger) Handler[domain.CartChanged] {
	return func(_ context.Context, ev domain.CartChanged) {
		log.Debugf("cart of %q changed: %d items, subtotal %s", ev.Owner, ev.ItemCount, ev.Cart.Subtotal().StringFixed(2))
	}
}

func CountCartChanges(m *metrics.Metrics) Handler[domain.CartChanged] {
	return func(_ context.Context, ev domain.CartChanged) {
		m.ObserveCartChange(ev.ItemCount)
	}
}

func CountOrders(m *metrics.Metrics) Handler[domain.OrderSent] {
	return func(_ context.Context, _ domain.OrderSent) {
		m.OrdersSent.Inc()
	}
}
