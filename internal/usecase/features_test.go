package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/futburguer-cart/internal/domain"
	"github.com/DRSN-tech/futburguer-cart/internal/repository/memory"
	"github.com/DRSN-tech/futburguer-cart/pkg/logger"
	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
)

type storeTestContext struct {
	storage  *memory.CartStorage
	cart     *cartFixture
	orders   *OrderUseCase
	owner    string
	sent     *SendOrderRes
	lastCart domain.Cart
	err      error
}

func (c *storeTestContext) reset() {
	c.storage = memory.NewCartStorage()
	c.restart()
	c.owner = ""
	c.sent = nil
	c.lastCart = domain.Cart{}
	c.err = nil
}

func (c *storeTestContext) restart() {
	c.cart = newCartFixtureWith(c.storage)
	c.orders = NewOrderUC(c.cart.uc, fakeAuth{}, c.cart.notifier, c.cart.publisher, testOrderCfg(), logger.NewNop(), func() time.Time {
		return time.Date(2024, 3, 5, 17, 7, 0, 0, time.UTC)
	})
}

func (c *storeTestContext) anEmptyCartForSession(owner string) error {
	c.owner = owner
	return c.cart.uc.ClearCart(context.Background(), owner)
}

func (c *storeTestContext) iAddProduct(id, name, price string) error {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}

	c.lastCart, c.err = c.cart.uc.AddItem(context.Background(), c.owner, domain.NewProduct(id, name, p, "", ""))
	return c.err
}

func (c *storeTestContext) iSetTheQuantity(id string, qty int) error {
	c.lastCart, c.err = c.cart.uc.UpdateQuantity(context.Background(), c.owner, id, qty)
	return nil
}

func (c *storeTestContext) iClearTheCart() error {
	return c.cart.uc.ClearCart(context.Background(), c.owner)
}

func (c *storeTestContext) theStoreIsRestarted() error {
	c.restart()
	return nil
}

func (c *storeTestContext) iSendTheOrder(name, phone string) error {
	c.sent, c.err = c.orders.SendOrder(context.Background(), NewOrderReq(c.owner, &domain.Customer{Name: name, Phone: phone}, nil))
	return nil
}

func (c *storeTestContext) current() (domain.Cart, error) {
	return c.cart.uc.GetCart(context.Background(), c.owner)
}

func (c *storeTestContext) theCartHasLines(n int) error {
	cart, err := c.current()
	if err != nil {
		return err
	}
	if len(cart.Items) != n {
		return fmt.Errorf("expected %d lines, got %d", n, len(cart.Items))
	}
	return nil
}

func (c *storeTestContext) theCartHoldsItems(n int) error {
	cart, err := c.current()
	if err != nil {
		return err
	}
	if cart.ItemCount() != n {
		return fmt.Errorf("expected %d items, got %d", n, cart.ItemCount())
	}
	return nil
}

func (c *storeTestContext) theCartIsEmpty() error {
	return c.theCartHasLines(0)
}

func (c *storeTestContext) theSubtotalIs(want string) error {
	got, err := c.cart.uc.GetSubtotal(context.Background(), c.owner)
	if err != nil {
		return err
	}
	if got.StringFixed(2) != want {
		return fmt.Errorf("expected subtotal %s, got %s", want, got.StringFixed(2))
	}
	return nil
}

func (c *storeTestContext) theTotalIs(fee, discount, want string) error {
	f, err := decimal.NewFromString(fee)
	if err != nil {
		return err
	}
	d, err := decimal.NewFromString(discount)
	if err != nil {
		return err
	}

	got, err := c.cart.uc.GetTotal(context.Background(), c.owner, f, d)
	if err != nil {
		return err
	}
	if got.StringFixed(2) != want {
		return fmt.Errorf("expected total %s, got %s", want, got.StringFixed(2))
	}
	return nil
}

func (c *storeTestContext) theLastNotificationIs(message, kind string) error {
	n, ok := c.cart.notifier.last()
	if !ok {
		return errors.New("no notification was raised")
	}
	if n.message != message || string(n.kind) != kind {
		return fmt.Errorf("expected %q (%s), got %q (%s)", message, kind, n.message, n.kind)
	}
	return nil
}

func (c *storeTestContext) theOperationFailsWith(message string) error {
	if c.err == nil {
		return errors.New("expected operation to fail but it succeeded")
	}
	if !strings.Contains(c.err.Error(), message) {
		return fmt.Errorf("expected error to contain %q, got %q", message, c.err.Error())
	}
	return nil
}

func (c *storeTestContext) theDeepLinkStartsWith(prefix string) error {
	if c.err != nil {
		return fmt.Errorf("expected order to be sent, got %v", c.err)
	}
	if !strings.HasPrefix(c.sent.DeepLink, prefix) {
		return fmt.Errorf("unexpected deep link %q", c.sent.DeepLink)
	}
	return nil
}

func (c *storeTestContext) theOrderMessageContains(fragment string) error {
	if c.sent == nil {
		return errors.New("no order was sent")
	}
	if !strings.Contains(c.sent.Message.Text, fragment) {
		return fmt.Errorf("expected message to contain %q, got:\n%s", fragment, c.sent.Message.Text)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &storeTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given / When
	ctx.Step(`^an empty cart for session "([^"]*)"$`, tc.anEmptyCartForSession)
	ctx.Step(`^I add product "([^"]*)" named "([^"]*)" priced "([^"]*)"$`, tc.iAddProduct)
	ctx.Step(`^I set the quantity of "([^"]*)" to (-?\d+)$`, tc.iSetTheQuantity)
	ctx.Step(`^I clear the cart$`, tc.iClearTheCart)
	ctx.Step(`^the store is restarted$`, tc.theStoreIsRestarted)
	ctx.Step(`^I send the order for customer "([^"]*)" with phone "([^"]*)"$`, tc.iSendTheOrder)

	// Then
	ctx.Step(`^the cart has (\d+) lines$`, tc.theCartHasLines)
	ctx.Step(`^the cart holds (\d+) items$`, tc.theCartHoldsItems)
	ctx.Step(`^the cart is empty$`, tc.theCartIsEmpty)
	ctx.Step(`^the subtotal is "([^"]*)"$`, tc.theSubtotalIs)
	ctx.Step(`^the total with delivery fee "([^"]*)" and discount "([^"]*)" is "([^"]*)"$`, tc.theTotalIs)
	ctx.Step(`^the last notification is "([^"]*)" of kind "([^"]*)"$`, tc.theLastNotificationIs)
	ctx.Step(`^the operation fails with "([^"]*)"$`, tc.theOperationFailsWith)
	ctx.Step(`^the deep link starts with "([^"]*)"$`, tc.theDeepLinkStartsWith)
	ctx.Step(`^the order message contains "([^"]*)"$`, tc.theOrderMessageContains)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../../features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
