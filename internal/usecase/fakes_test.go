package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/DRSN-tech/futburguer-cart/internal/cfg"
	"github.com/DRSN-tech/futburguer-cart/internal/domain"
	"github.com/DRSN-tech/futburguer-cart/internal/repository/memory"
	"github.com/DRSN-tech/futburguer-cart/pkg/logger"
	"github.com/shopspring/decimal"
)

var errDiskFull = errors.New("quota exceeded")

type note struct {
	owner   string
	message string
	kind    domain.NotificationKind
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []note
}

func (n *recordingNotifier) Notify(_ context.Context, owner, message string, kind domain.NotificationKind) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note{owner: owner, message: message, kind: kind})
}

func (n *recordingNotifier) last() (note, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notes) == 0 {
		return note{}, false
	}
	return n.notes[len(n.notes)-1], true
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.CartChanged
	orders []domain.OrderSent
}

func (p *recordingPublisher) PublishCartChanged(_ context.Context, ev domain.CartChanged) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) PublishOrderSent(_ context.Context, ev domain.OrderSent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.orders = append(p.orders, ev)
}

type fakeAuth struct {
	user *domain.UserRef
}

func (a fakeAuth) IsAuthenticated(context.Context) bool {
	return a.user != nil
}

func (a fakeAuth) CurrentUser(context.Context) (*domain.UserRef, bool) {
	return a.user, a.user != nil
}

// prefixAssets имитирует подпись ссылок: ключи объектов получают префикс CDN
type prefixAssets struct{}

func (prefixAssets) ResolveImage(_ context.Context, ref string) string {
	if strings.HasPrefix(ref, "assets/") {
		return ref
	}
	return "https://cdn.test/" + ref
}

// brokenStorage отказывает на каждой операции
type brokenStorage struct{}

func (brokenStorage) Get(context.Context, string) (string, bool, error) {
	return "", false, errDiskFull
}

func (brokenStorage) Set(context.Context, string, string) error {
	return errDiskFull
}

func (brokenStorage) Remove(context.Context, string) error {
	return errDiskFull
}

func testCartCfg() *cfg.CartCfg {
	return &cfg.CartCfg{
		StorageKey:      "futburguer_cart",
		DefaultImage:    "assets/images/default.png",
		DefaultCategory: "outros",
	}
}

func testOrderCfg() *cfg.OrderCfg {
	loc, err := time.LoadLocation("America/Recife")
	if err != nil {
		panic(err)
	}

	return &cfg.OrderCfg{
		DeliveryFee:   decimal.RequireFromString("5.00"),
		MessagingHost: "wa.me",
		Destination:   "5581995343404",
		Location:      loc,
	}
}

type cartFixture struct {
	storage   CartStorage
	notifier  *recordingNotifier
	publisher *recordingPublisher
	uc        *CartUseCase
}

func newCartFixture() *cartFixture {
	return newCartFixtureWith(memory.NewCartStorage())
}

func newCartFixtureWith(storage CartStorage) *cartFixture {
	f := &cartFixture{
		storage:   storage,
		notifier:  &recordingNotifier{},
		publisher: &recordingPublisher{},
	}
	f.uc = NewCartUC(storage, f.publisher, f.notifier, prefixAssets{}, testCartCfg(), logger.NewNop())

	return f
}

func product(id, name, price string) *domain.Product {
	return domain.NewProduct(id, name, decimal.RequireFromString(price), "", "")
}
