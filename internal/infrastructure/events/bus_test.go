package events

import (
	"context"
	"testing"

	"github.com/DRSN-tech/futburguer-cart/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestBus_DeliversInSubscriptionOrder(t *testing.T) {
	bus := NewBus[int]()

	var got []string
	bus.Subscribe(func(_ context.Context, v int) { got = append(got, "a") })
	bus.Subscribe(func(_ context.Context, v int) { got = append(got, "b") })

	bus.Publish(context.Background(), 1)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus[string]()

	var first, second int
	unsub := bus.Subscribe(func(context.Context, string) { first++ })
	bus.Subscribe(func(context.Context, string) { second++ })
	assert.Equal(t, 2, bus.Len())

	bus.Publish(context.Background(), "x")
	unsub()
	unsub()
	bus.Publish(context.Background(), "y")

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
	assert.Equal(t, 1, bus.Len())
}

func TestBus_UnsubscribeDuringPublish(t *testing.T) {
	bus := NewBus[int]()

	calls := 0
	var unsub func()
	unsub = bus.Subscribe(func(context.Context, int) {
		calls++
		unsub()
	})

	bus.Publish(context.Background(), 1)
	bus.Publish(context.Background(), 2)

	assert.Equal(t, 1, calls)
	assert.Zero(t, bus.Len())
}

func TestPublishers(t *testing.T) {
	carts := NewBus[domain.CartChanged]()
	orders := NewBus[domain.OrderSent]()

	var changed []domain.CartChanged
	var sent []domain.OrderSent
	carts.Subscribe(func(_ context.Context, ev domain.CartChanged) { changed = append(changed, ev) })
	orders.Subscribe(func(_ context.Context, ev domain.OrderSent) { sent = append(sent, ev) })

	NewCartPublisher(carts).PublishCartChanged(context.Background(), domain.CartChanged{Owner: "o", ItemCount: 2})
	NewOrderPublisher(orders).PublishOrderSent(context.Background(), domain.OrderSent{Owner: "o", DeepLink: "https://wa.me/1?text=x"})

	if assert.Len(t, changed, 1) {
		assert.Equal(t, 2, changed[0].ItemCount)
	}
	if assert.Len(t, sent, 1) {
		assert.Equal(t, "https://wa.me/1?text=x", sent[0].DeepLink)
	}
}
