package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DRSN-tech/futburguer-cart/internal/cfg"
	"github.com/DRSN-tech/futburguer-cart/internal/domain"
	"github.com/DRSN-tech/futburguer-cart/pkg/e"
	"github.com/DRSN-tech/futburguer-cart/pkg/logger"
	"github.com/shopspring/decimal"
)

// CartUseCase — хранилище корзины: чтение, мутации, производные суммы и рассылка изменений.
// Между запросами одного владельца блокировок нет: при гонке побеждает последняя запись.
type CartUseCase struct {
	storage  CartStorage
	events   CartEventPublisher
	notifier Notifier
	assets   AssetResolver
	cfg      *cfg.CartCfg
	logger   logger.Logger
	now      func() time.Time
}

func NewCartUC(
	storage CartStorage,
	events CartEventPublisher,
	notifier Notifier,
	assets AssetResolver,
	cfg *cfg.CartCfg,
	logger logger.Logger,
) *CartUseCase {
	return &CartUseCase{
		storage:  storage,
		events:   events,
		notifier: notifier,
		assets:   assets,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// GetCart возвращает сохранённую корзину. Отсутствующий ключ и нечитаемое содержимое дают пустую корзину;
// ошибка возвращается только при недоступности хранилища.
func (c *CartUseCase) GetCart(ctx context.Context, owner string) (domain.Cart, error) {
	const op = "CartUseCase.GetCart"

	key := c.cartKey(owner)
	raw, found, err := c.storage.Get(ctx, key)
	if err != nil {
		return domain.NewEmptyCart(), storageError(op, err)
	}

	if !found || strings.TrimSpace(raw) == "" {
		return domain.NewEmptyCart(), nil
	}

	cart, skipped, err := decodeCart(raw)
	if err != nil {
		c.logger.Warnf("malformed cart under %q treated as empty: %v", key, e.Wrap(op, err))
		return domain.NewEmptyCart(), nil
	}

	if len(skipped) > 0 {
		c.logger.Warnf("invalid cart items under %q skipped: %s", key, strings.Join(skipped, ", "))
	}

	return cart, nil
}

// AddItem увеличивает количество существующей позиции на 1 или добавляет новую с количеством 1.
func (c *CartUseCase) AddItem(ctx context.Context, owner string, product *domain.Product) (domain.Cart, error) {
	const op = "CartUseCase.AddItem"

	if err := validateProduct(product); err != nil {
		return domain.Cart{}, e.Wrap(op, err)
	}

	cart, err := c.GetCart(ctx, owner)
	if err != nil {
		return domain.Cart{}, e.Wrap(op, err)
	}

	if idx := cart.Find(product.ID); idx >= 0 {
		cart.Items[idx].Quantity++
	} else {
		cart.Items = append(cart.Items, c.newLineItem(product))
	}

	if err := c.save(ctx, owner, cart); err != nil {
		return domain.Cart{}, e.Wrap(op, err)
	}

	c.logger.Debugf("product %q added to cart of %q", product.ID, owner)
	c.notifier.Notify(ctx, owner, fmt.Sprintf("%s adicionado ao carrinho!", product.Name), domain.NotificationSuccess)

	return cart, nil
}

// RemoveItem удаляет позицию. Отсутствие позиции не считается ошибкой.
func (c *CartUseCase) RemoveItem(ctx context.Context, owner string, productID string) (domain.Cart, error) {
	const op = "CartUseCase.RemoveItem"

	cart, err := c.GetCart(ctx, owner)
	if err != nil {
		return domain.Cart{}, e.Wrap(op, err)
	}

	// имя ищется до удаления, чтобы попасть в уведомление
	name := productID
	if idx := cart.Find(productID); idx >= 0 {
		name = cart.Items[idx].Name
	}

	cart = cart.Without(productID)
	if err := c.save(ctx, owner, cart); err != nil {
		return domain.Cart{}, e.Wrap(op, err)
	}

	c.logger.Debugf("product %q removed from cart of %q", productID, owner)
	c.notifier.Notify(ctx, owner, fmt.Sprintf("%s removido do carrinho", name), domain.NotificationWarning)

	return cart, nil
}

// UpdateQuantity перезаписывает количество. Неизвестный ID даёт ErrProductNotFound без изменений,
// quantity <= 0 удаляет позицию.
func (c *CartUseCase) UpdateQuantity(ctx context.Context, owner string, productID string, quantity int) (domain.Cart, error) {
	const op = "CartUseCase.UpdateQuantity"

	cart, err := c.GetCart(ctx, owner)
	if err != nil {
		return domain.Cart{}, e.Wrap(op, err)
	}

	idx := cart.Find(productID)
	if idx < 0 {
		return domain.Cart{}, e.Wrap(op, e.ErrProductNotFound)
	}

	if quantity <= 0 {
		return c.RemoveItem(ctx, owner, productID)
	}

	cart.Items[idx].Quantity = quantity
	if err := c.save(ctx, owner, cart); err != nil {
		return domain.Cart{}, e.Wrap(op, err)
	}

	c.logger.Debugf("quantity of %q in cart of %q set to %d", productID, owner, quantity)
	return cart, nil
}

// ClearCart удаляет запись корзины целиком. Идемпотентна.
func (c *CartUseCase) ClearCart(ctx context.Context, owner string) error {
	const op = "CartUseCase.ClearCart"

	if err := c.storage.Remove(ctx, c.cartKey(owner)); err != nil {
		return storageError(op, err)
	}

	c.publish(ctx, owner, domain.NewEmptyCart())
	c.logger.Debugf("cart of %q cleared", owner)

	return nil
}

func (c *CartUseCase) GetSubtotal(ctx context.Context, owner string) (decimal.Decimal, error) {
	cart, err := c.GetCart(ctx, owner)
	if err != nil {
		return decimal.Zero, err
	}

	return cart.Subtotal(), nil
}

// GetItemCount возвращает сумму количеств всех позиций.
func (c *CartUseCase) GetItemCount(ctx context.Context, owner string) (int, error) {
	cart, err := c.GetCart(ctx, owner)
	if err != nil {
		return 0, err
	}

	return cart.ItemCount(), nil
}

// GetTotal = subtotal + deliveryFee - discount.
func (c *CartUseCase) GetTotal(ctx context.Context, owner string, deliveryFee, discount decimal.Decimal) (decimal.Decimal, error) {
	subtotal, err := c.GetSubtotal(ctx, owner)
	if err != nil {
		return decimal.Zero, err
	}

	return subtotal.Add(deliveryFee).Sub(discount), nil
}

func (c *CartUseCase) IsEmpty(ctx context.Context, owner string) (bool, error) {
	cart, err := c.GetCart(ctx, owner)
	if err != nil {
		return false, err
	}

	return cart.IsEmpty(), nil
}

// GetSummary возвращает снимок корзины для отображения.
func (c *CartUseCase) GetSummary(ctx context.Context, owner string) (*CartSummary, error) {
	const op = "CartUseCase.GetSummary"

	cart, err := c.GetCart(ctx, owner)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	items := make([]SummaryItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, SummaryItem{
			LineItem: item,
			ImageURL: c.assets.ResolveImage(ctx, item.Image),
			Total:    item.Total(),
		})
	}

	return NewCartSummary(items, cart.ItemCount(), cart.Subtotal()), nil
}

// save сохраняет корзину и рассылает событие изменения.
func (c *CartUseCase) save(ctx context.Context, owner string, cart domain.Cart) error {
	const op = "CartUseCase.save"

	raw, err := encodeCart(cart)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, e.ErrCartSerialization, err)
	}

	if err := c.storage.Set(ctx, c.cartKey(owner), raw); err != nil {
		return storageError(op, err)
	}

	c.publish(ctx, owner, cart)
	return nil
}

func (c *CartUseCase) publish(ctx context.Context, owner string, cart domain.Cart) {
	snapshot := cart.Clone()
	c.events.PublishCartChanged(ctx, domain.CartChanged{
		Owner:     owner,
		ItemCount: snapshot.ItemCount(),
		Cart:      snapshot,
		At:        c.now(),
	})
}

func (c *CartUseCase) newLineItem(product *domain.Product) domain.LineItem {
	image := product.Image
	if strings.TrimSpace(image) == "" {
		image = c.cfg.DefaultImage
	}

	category := product.Category
	if strings.TrimSpace(category) == "" {
		category = c.cfg.DefaultCategory
	}

	return domain.LineItem{
		ID:        product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  1,
		Image:     image,
		Category:  category,
	}
}

// cartKey возвращает ключ корзины владельца. Пустой владелец использует базовый ключ.
func (c *CartUseCase) cartKey(owner string) string {
	if owner == "" {
		return c.cfg.StorageKey
	}

	return c.cfg.StorageKey + ":" + owner
}

// validateProduct проверяет продукт перед добавлением в корзину.
func validateProduct(product *domain.Product) error {
	if product == nil || strings.TrimSpace(product.ID) == "" {
		return e.ErrProductIDRequired
	}

	if strings.TrimSpace(product.Name) == "" {
		return e.ErrProductNameRequired
	}

	if product.Price.IsNegative() {
		return e.ErrInvalidPrice
	}

	return nil
}

func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, e.ErrStorageUnavailable, err)
}
