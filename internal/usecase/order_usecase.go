package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/DRSN-tech/futburguer-cart/internal/cfg"
	"github.com/DRSN-tech/futburguer-cart/internal/domain"
	"github.com/DRSN-tech/futburguer-cart/pkg/e"
	"github.com/DRSN-tech/futburguer-cart/pkg/logger"
	"github.com/shopspring/decimal"
)

// OrderUseCase формирует текст заказа и ссылку на WhatsApp. Корзину не изменяет,
// кроме явно включённой политики очистки после отправки.
type OrderUseCase struct {
	cart      CartUC
	auth      AuthProvider
	notifier  Notifier
	publisher OrderPublisher
	cfg       *cfg.OrderCfg
	logger    logger.Logger
	now       func() time.Time
}

func NewOrderUC(
	cart CartUC,
	auth AuthProvider,
	notifier Notifier,
	publisher OrderPublisher,
	cfg *cfg.OrderCfg,
	logger logger.Logger,
	now func() time.Time,
) *OrderUseCase {
	if now == nil {
		now = time.Now
	}

	return &OrderUseCase{
		cart:      cart,
		auth:      auth,
		notifier:  notifier,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		now:       now,
	}
}

// FormatOrder собирает текст заказа из текущей корзины и данных клиента.
func (o *OrderUseCase) FormatOrder(ctx context.Context, req *OrderReq) (*OrderMessage, error) {
	const op = "OrderUseCase.FormatOrder"

	fee, err := o.validateOrder(req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	cart, err := o.cart.GetCart(ctx, req.Owner)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return o.buildMessage(ctx, cart, req.Customer, fee), nil
}

// SendOrder отказывает при пустой корзине, иначе возвращает ссылку на мессенджер с текстом заказа.
func (o *OrderUseCase) SendOrder(ctx context.Context, req *OrderReq) (*SendOrderRes, error) {
	const op = "OrderUseCase.SendOrder"

	cart, err := o.cart.GetCart(ctx, req.Owner)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if cart.IsEmpty() {
		o.notifier.Notify(ctx, req.Owner, "Carrinho está vazio!", domain.NotificationError)
		return nil, e.Wrap(op, e.ErrEmptyCart)
	}

	fee, err := o.validateOrder(req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	msg := o.buildMessage(ctx, cart, req.Customer, fee)
	link := o.deepLink(msg.Encoded)

	cleared := false
	if o.cfg.ClearOnSend {
		if err := o.cart.ClearCart(ctx, req.Owner); err != nil {
			o.logger.Warnf("order sent but cart was not cleared: %v", e.Wrap(op, err))
		} else {
			cleared = true
		}
	}

	o.publisher.PublishOrderSent(ctx, domain.OrderSent{
		Owner:     req.Owner,
		Customer:  *req.Customer,
		Cart:      cart.Clone(),
		Subtotal:  msg.Subtotal,
		Total:     msg.Total,
		DeepLink:  link,
		Loyalty:   msg.Loyalty,
		CreatedAt: o.now(),
	})

	o.logger.Infof("order of %q sent to messaging link (%d items)", req.Owner, cart.ItemCount())
	return NewSendOrderRes(link, msg, cleared), nil
}

func (o *OrderUseCase) buildMessage(ctx context.Context, cart domain.Cart, customer *domain.Customer, fee decimal.Decimal) *OrderMessage {
	subtotal := cart.Subtotal()
	total := subtotal.Add(fee)
	loyalty := o.auth.IsAuthenticated(ctx)

	text := formatOrderText(orderText{
		Cart:        cart,
		Customer:    customer,
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       total,
		At:          o.now().In(o.cfg.Location),
		Loyalty:     loyalty,
	})

	return &OrderMessage{
		Text:        text,
		Encoded:     encodeURIComponent(text),
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       total,
		Loyalty:     loyalty,
	}
}

func (o *OrderUseCase) deepLink(encoded string) string {
	return fmt.Sprintf("https://%s/%s?text=%s", o.cfg.MessagingHost, o.cfg.Destination, encoded)
}

// validateOrder проверяет данные клиента и возвращает стоимость доставки с учётом значения по умолчанию.
func (o *OrderUseCase) validateOrder(req *OrderReq) (decimal.Decimal, error) {
	if req == nil || req.Customer == nil || strings.TrimSpace(req.Customer.Name) == "" {
		return decimal.Zero, e.ErrCustomerNameRequired
	}

	if strings.TrimSpace(req.Customer.Phone) == "" {
		return decimal.Zero, e.ErrCustomerPhoneRequired
	}

	if pm := req.Customer.PaymentMethod; pm != "" {
		if _, ok := pm.Label(); !ok {
			return decimal.Zero, e.Wrap(string(pm), e.ErrUnknownPaymentMethod)
		}
	}

	fee := o.cfg.DeliveryFee
	if req.DeliveryFee != nil {
		fee = *req.DeliveryFee
	}

	if fee.IsNegative() {
		return decimal.Zero, e.ErrInvalidAmount
	}

	return fee, nil
}

// uriUnreserved возвращает пробел как %20 и символы, которые url.QueryEscape кодирует, а encodeURIComponent нет
var uriUnreserved = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeURIComponent кодирует текст для query-параметра; пробел кодируется как %20.
func encodeURIComponent(s string) string {
	return uriUnreserved.Replace(url.QueryEscape(s))
}
