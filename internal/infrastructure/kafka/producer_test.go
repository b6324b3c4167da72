package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/futburguer-cart/internal/cfg"
	"github.com/DRSN-tech/futburguer-cart/internal/domain"
	"github.com/DRSN-tech/futburguer-cart/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu       sync.Mutex
	failures int
	calls    int
	written  []kafka.Message
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.calls++
	if w.failures > 0 {
		w.failures--
		return errors.New("broker not available")
	}

	w.written = append(w.written, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
	return nil
}

func (w *fakeWriter) messages() []kafka.Message {
	w.mu.Lock()
	defer w.mu.Unlock()

	return append([]kafka.Message(nil), w.written...)
}

func testKafkaCfg() *cfg.KafkaCfg {
	return &cfg.KafkaCfg{
		Enabled:    true,
		Brokers:    []string{"localhost:9092"},
		CartTopic:  "cart.updated",
		OrderTopic: "order.sent",
		QueueSize:  8,
		MaxRetries: 1,
	}
}

func sampleCart() domain.Cart {
	return domain.Cart{Items: []domain.LineItem{
		{ID: "burger1", Name: "X-Burger", UnitPrice: decimal.RequireFromString("25"), Quantity: 2},
	}}
}

func TestProducer_DeliversCartEvent(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, logger.NewNop(), testKafkaCfg())
	p.Start(context.Background())

	p.PublishCartChanged(context.Background(), domain.CartChanged{Owner: "o1", ItemCount: 2, Cart: sampleCart()})
	require.NoError(t, p.Close(context.Background()))

	msgs := w.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "cart.updated", msgs[0].Topic)
	assert.Equal(t, "o1", string(msgs[0].Key))
	assert.True(t, w.closed)

	var ev cartUpdatedEvent
	require.NoError(t, json.Unmarshal(msgs[0].Value, &ev))
	assert.NotEmpty(t, ev.EventID)
	assert.Equal(t, 2, ev.ItemCount)
	assert.Equal(t, "50.00", ev.Subtotal)
	require.Len(t, ev.Items, 1)
	assert.Equal(t, "25.00", ev.Items[0].UnitPrice)
}

func TestProducer_OrderEvent(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, logger.NewNop(), testKafkaCfg())
	p.Start(context.Background())

	p.PublishOrderSent(context.Background(), domain.OrderSent{
		Owner:    "o1",
		Customer: domain.Customer{Name: "Ana", Phone: "81999990000", PaymentMethod: domain.PaymentCash},
		Cart:     sampleCart(),
		Subtotal: decimal.RequireFromString("50"),
		Total:    decimal.RequireFromString("55"),
		DeepLink: "https://wa.me/5581995343404?text=x",
		Loyalty:  true,
	})
	require.NoError(t, p.Close(context.Background()))

	msgs := w.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "order.sent", msgs[0].Topic)

	var ev orderSentEvent
	require.NoError(t, json.Unmarshal(msgs[0].Value, &ev))
	assert.Equal(t, "Ana", ev.CustomerName)
	assert.Equal(t, "cash", ev.PaymentMethod)
	assert.Equal(t, "55.00", ev.Total)
	assert.True(t, ev.Loyalty)
}

func TestProducer_RetriesFailedWrite(t *testing.T) {
	w := &fakeWriter{failures: 1}
	p := newProducer(w, logger.NewNop(), testKafkaCfg())
	p.Start(context.Background())

	p.PublishCartChanged(context.Background(), domain.CartChanged{Owner: "o1"})

	require.Eventually(t, func() bool { return len(w.messages()) == 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, p.Close(context.Background()))

	w.mu.Lock()
	defer w.mu.Unlock()
	assert.Equal(t, 2, w.calls)
}

func TestProducer_GivesUpAfterMaxRetries(t *testing.T) {
	w := &fakeWriter{failures: 10}
	c := testKafkaCfg()
	c.MaxRetries = 0
	p := newProducer(w, logger.NewNop(), c)
	p.Start(context.Background())

	p.PublishCartChanged(context.Background(), domain.CartChanged{Owner: "o1"})
	require.NoError(t, p.Close(context.Background()))

	assert.Empty(t, w.messages())
	assert.Equal(t, 1, w.calls)
}

func TestProducer_DropsWhenQueueIsFull(t *testing.T) {
	w := &fakeWriter{}
	c := testKafkaCfg()
	c.QueueSize = 2
	p := newProducer(w, logger.NewNop(), c)

	for i := 0; i < 5; i++ {
		p.PublishCartChanged(context.Background(), domain.CartChanged{Owner: "o1", ItemCount: i})
	}
	assert.Len(t, p.queue, 2)

	p.Start(context.Background())
	require.NoError(t, p.Close(context.Background()))

	msgs := w.messages()
	require.Len(t, msgs, 2)

	var first cartUpdatedEvent
	require.NoError(t, json.Unmarshal(msgs[0].Value, &first))
	assert.Equal(t, 0, first.ItemCount, "earliest events are kept")
}
