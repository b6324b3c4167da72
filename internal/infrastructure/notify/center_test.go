package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/futburguer-cart/internal/domain"
	"github.com/DRSN-tech/futburguer-cart/internal/infrastructure/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	mu   sync.Mutex
	seen []domain.Notification
}

func (c *collector) handle(_ context.Context, n domain.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = append(c.seen, n)
}

func (c *collector) snapshot() []domain.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Notification(nil), c.seen...)
}

func newTestCenter(t *testing.T, ttl time.Duration) (*Center, *collector) {
	t.Helper()

	bus := events.NewBus[domain.Notification]()
	col := &collector{}
	bus.Subscribe(col.handle)

	c := NewCenter(ttl, bus)
	t.Cleanup(func() { _ = c.Close(context.Background()) })

	return c, col
}

func TestCenter_NotifyPublishesAndIsCurrent(t *testing.T) {
	c, col := newTestCenter(t, time.Minute)

	c.Notify(context.Background(), "o1", "X-Burger adicionado ao carrinho!", domain.NotificationSuccess)

	n, ok := c.Current("o1")
	require.True(t, ok)
	assert.Equal(t, "X-Burger adicionado ao carrinho!", n.Message)
	assert.Equal(t, domain.NotificationSuccess, n.Kind)

	_, ok = c.Current("o2")
	assert.False(t, ok)

	seen := col.snapshot()
	require.Len(t, seen, 1)
	assert.Equal(t, "o1", seen[0].Owner)
}

func TestCenter_NewNotificationReplacesPrevious(t *testing.T) {
	c, _ := newTestCenter(t, time.Minute)
	ctx := context.Background()

	c.Notify(ctx, "o1", "first", domain.NotificationInfo)
	c.Notify(ctx, "o1", "second", domain.NotificationWarning)

	n, ok := c.Current("o1")
	require.True(t, ok)
	assert.Equal(t, "second", n.Message)
}

func TestCenter_AutoDismiss(t *testing.T) {
	c, col := newTestCenter(t, 20*time.Millisecond)

	c.Notify(context.Background(), "o1", "Carrinho está vazio!", domain.NotificationError)

	require.Eventually(t, func() bool {
		seen := col.snapshot()
		return len(seen) == 2 && seen[1].Dismissed()
	}, time.Second, 5*time.Millisecond)

	_, ok := c.Current("o1")
	assert.False(t, ok)
	assert.Equal(t, "o1", col.snapshot()[1].Owner)
}

func TestCenter_ReplacedNotificationDismissedOnce(t *testing.T) {
	c, col := newTestCenter(t, 30*time.Millisecond)
	ctx := context.Background()

	c.Notify(ctx, "o1", "first", domain.NotificationInfo)
	c.Notify(ctx, "o1", "second", domain.NotificationInfo)

	require.Eventually(t, func() bool {
		_, ok := c.Current("o1")
		return !ok
	}, time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)

	dismissed := 0
	for _, n := range col.snapshot() {
		if n.Dismissed() {
			dismissed++
		}
	}
	assert.Equal(t, 1, dismissed)
}
