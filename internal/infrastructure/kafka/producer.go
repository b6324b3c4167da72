package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/DRSN-tech/futburguer-cart/internal/cfg"
	"github.com/DRSN-tech/futburguer-cart/internal/domain"
	"github.com/DRSN-tech/futburguer-cart/pkg/e"
	"github.com/DRSN-tech/futburguer-cart/pkg/jitter"
	"github.com/DRSN-tech/futburguer-cart/pkg/logger"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
)

const (
	retryBase = 200 * time.Millisecond
	retryMax  = 5 * time.Second
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer асинхронно отправляет события корзины и заказов в Kafka.
// События попадают в ограниченную очередь; при переполнении новое событие отбрасывается.
type Producer struct {
	writer messageWriter
	logger logger.Logger
	cfg    *cfg.KafkaCfg

	queue chan kafka.Message
	stop  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup
}

func NewProducer(logger logger.Logger, cfg *cfg.KafkaCfg) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    10,
		BatchTimeout: 100 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
	}

	return newProducer(writer, logger, cfg)
}

func newProducer(writer messageWriter, logger logger.Logger, cfg *cfg.KafkaCfg) *Producer {
	size := cfg.QueueSize
	if size <= 0 {
		size = 1
	}

	return &Producer{
		writer: writer,
		logger: logger,
		cfg:    cfg,
		queue:  make(chan kafka.Message, size),
		stop:   make(chan struct{}),
	}
}

// Start запускает отправку очереди. Останавливается через Close.
func (p *Producer) Start(ctx context.Context) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.run(ctx)
	}()
}

// PublishCartChanged ставит событие cart.updated в очередь
func (p *Producer) PublishCartChanged(_ context.Context, ev domain.CartChanged) {
	p.enqueue(p.cfg.CartTopic, ev.Owner, newCartUpdatedEvent(ev))
}

// PublishOrderSent ставит событие order.sent в очередь
func (p *Producer) PublishOrderSent(_ context.Context, ev domain.OrderSent) {
	p.enqueue(p.cfg.OrderTopic, ev.Owner, newOrderSentEvent(ev))
}

// Close дожидается отправки очереди или отмены ctx и закрывает writer
func (p *Producer) Close(ctx context.Context) error {
	p.once.Do(func() { close(p.stop) })

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		p.logger.Warnf("kafka producer closed with %d undelivered events", len(p.queue))
	}

	if err := p.writer.Close(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// EnsureTopics создаёт топики событий, если их ещё нет
func (p *Producer) EnsureTopics(timeout time.Duration) error {
	conn, err := kafka.Dial(p.cfg.NetworkMode, p.cfg.Brokers[0])
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	var missing []kafka.TopicConfig
	for _, topic := range []string{p.cfg.CartTopic, p.cfg.OrderTopic} {
		partitions, err := conn.ReadPartitions(topic)
		if err == nil && len(partitions) > 0 {
			continue
		}

		missing = append(missing, kafka.TopicConfig{
			Topic:             topic,
			NumPartitions:     p.cfg.Partitions,
			ReplicationFactor: p.cfg.ReplicationFactor,
		})
	}

	if len(missing) == 0 {
		return nil
	}

	if err := conn.CreateTopics(missing...); err != nil {
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("failed to create topics: %w", err))
	}

	return nil
}

func (p *Producer) enqueue(topic, owner string, payload any) {
	value, err := json.Marshal(payload)
	if err != nil {
		p.logger.Errorf(err, "failed to encode %s event", topic)
		return
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(owner),
		Value: value,
	}

	select {
	case p.queue <- msg:
	default:
		p.logger.Warnf("kafka queue is full, %s event of %q dropped", topic, owner)
	}
}

func (p *Producer) run(ctx context.Context) {
	for {
		select {
		case msg := <-p.queue:
			p.deliver(ctx, msg)
		case <-ctx.Done():
			return
		case <-p.stop:
			p.drain(ctx)
			return
		}
	}
}

// drain отправляет то, что осталось в очереди на момент остановки
func (p *Producer) drain(ctx context.Context) {
	for {
		select {
		case msg := <-p.queue:
			p.deliver(ctx, msg)
		default:
			return
		}
	}
}

func (p *Producer) deliver(ctx context.Context, msg kafka.Message) {
	for attempt := 0; ; attempt++ {
		err := p.writer.WriteMessages(ctx, msg)
		if err == nil {
			return
		}

		if attempt >= p.cfg.MaxRetries {
			p.logger.Errorf(err, "kafka %s event of %q dropped after %d attempts", msg.Topic, string(msg.Key), attempt+1)
			return
		}

		wait := jitter.ExponentialBackoff(retryBase, retryMax, attempt, jitter.DefaultJitter)
		p.logger.Warnf("kafka write to %s failed, retry in %s: %v", msg.Topic, wait, err)

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return
		}
	}
}

type eventItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

type cartUpdatedEvent struct {
	EventID    string      `json:"eventId"`
	OccurredAt time.Time   `json:"occurredAt"`
	Owner      string      `json:"owner"`
	ItemCount  int         `json:"itemCount"`
	Subtotal   string      `json:"subtotal"`
	Items      []eventItem `json:"items"`
}

type orderSentEvent struct {
	EventID       string      `json:"eventId"`
	OccurredAt    time.Time   `json:"occurredAt"`
	Owner         string      `json:"owner"`
	CustomerName  string      `json:"customerName"`
	CustomerPhone string      `json:"customerPhone"`
	PaymentMethod string      `json:"paymentMethod,omitempty"`
	Items         []eventItem `json:"items"`
	Subtotal      string      `json:"subtotal"`
	Total         string      `json:"total"`
	DeepLink      string      `json:"deepLink"`
	Loyalty       bool        `json:"loyalty"`
}

func newCartUpdatedEvent(ev domain.CartChanged) cartUpdatedEvent {
	return cartUpdatedEvent{
		EventID:    uuid.NewString(),
		OccurredAt: ev.At,
		Owner:      ev.Owner,
		ItemCount:  ev.ItemCount,
		Subtotal:   ev.Cart.Subtotal().StringFixed(2),
		Items:      toEventItems(ev.Cart),
	}
}

func newOrderSentEvent(ev domain.OrderSent) orderSentEvent {
	return orderSentEvent{
		EventID:       uuid.NewString(),
		OccurredAt:    ev.CreatedAt,
		Owner:         ev.Owner,
		CustomerName:  ev.Customer.Name,
		CustomerPhone: ev.Customer.Phone,
		PaymentMethod: string(ev.Customer.PaymentMethod),
		Items:         toEventItems(ev.Cart),
		Subtotal:      ev.Subtotal.StringFixed(2),
		Total:         ev.Total.StringFixed(2),
		DeepLink:      ev.DeepLink,
		Loyalty:       ev.Loyalty,
	}
}

func toEventItems(cart domain.Cart) []eventItem {
	items := make([]eventItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, eventItem{
			ID:        it.ID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice.StringFixed(2),
			Quantity:  it.Quantity,
		})
	}

	return items
}
