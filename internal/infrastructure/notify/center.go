// Package notify хранит временные уведомления владельцев корзин.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/DRSN-tech/futburguer-cart/internal/domain"
	"github.com/DRSN-tech/futburguer-cart/internal/infrastructure/events"
)

type slot struct {
	notification domain.Notification
	timer        *time.Timer
	gen          uint64
}

// Center держит не более одного видимого уведомления на владельца.
// Новое уведомление заменяет предыдущее, через ttl оно скрывается автоматически.
type Center struct {
	ttl time.Duration
	bus *events.Bus[domain.Notification]
	now func() time.Time

	mu    sync.Mutex
	gen   uint64
	slots map[string]*slot
}

func NewCenter(ttl time.Duration, bus *events.Bus[domain.Notification]) *Center {
	return &Center{
		ttl:   ttl,
		bus:   bus,
		now:   time.Now,
		slots: make(map[string]*slot),
	}
}

func (c *Center) Notify(ctx context.Context, owner, message string, kind domain.NotificationKind) {
	n := domain.Notification{
		Owner:     owner,
		Message:   message,
		Kind:      kind,
		ExpiresAt: c.now().Add(c.ttl),
	}

	c.mu.Lock()
	if prev, ok := c.slots[owner]; ok {
		prev.timer.Stop()
	}

	c.gen++
	gen := c.gen
	s := &slot{notification: n, gen: gen}
	s.timer = time.AfterFunc(c.ttl, func() { c.dismiss(owner, gen) })
	c.slots[owner] = s
	c.mu.Unlock()

	c.bus.Publish(ctx, n)
}

// Current возвращает видимое уведомление владельца
func (c *Center) Current(owner string) (domain.Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.slots[owner]
	if !ok || !c.now().Before(s.notification.ExpiresAt) {
		return domain.Notification{}, false
	}

	return s.notification, true
}

// Close останавливает таймеры скрытия
func (c *Center) Close(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for owner, s := range c.slots {
		s.timer.Stop()
		delete(c.slots, owner)
	}

	return nil
}

func (c *Center) dismiss(owner string, gen uint64) {
	c.mu.Lock()
	s, ok := c.slots[owner]
	if !ok || s.gen != gen {
		c.mu.Unlock()
		return
	}
	delete(c.slots, owner)
	c.mu.Unlock()

	c.bus.Publish(context.Background(), domain.Notification{Owner: owner})
}
