package grpc

import (
	"context"

	"github.com/DRSN-tech/futburguer-cart/internal/usecase"
	"github.com/DRSN-tech/futburguer-cart/pkg/e"
	"github.com/DRSN-tech/futburguer-cart/pkg/logger"
	"google.golang.org/protobuf/types/known/structpb"
)

// CartService реализует futburguer.cart.v1.CartService поверх usecase-слоя.
type CartService struct {
	cartUC  usecase.CartUC
	orderUC usecase.OrderUC
	logger  logger.Logger
}

func NewCartService(cartUC usecase.CartUC, orderUC usecase.OrderUC, logger logger.Logger) *CartService {
	return &CartService{cartUC: cartUC, orderUC: orderUC, logger: logger}
}

func (g *CartService) GetCart(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.GetCart"

	cart, err := g.cartUC.GetCart(ctx, OwnerFromCtx(ctx))
	if err != nil {
		return nil, g.fail(op, err)
	}

	return g.reply(op)(cartStruct(cart))
}

func (g *CartService) GetSummary(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.GetSummary"

	summary, err := g.cartUC.GetSummary(ctx, OwnerFromCtx(ctx))
	if err != nil {
		return nil, g.fail(op, err)
	}

	return g.reply(op)(summaryStruct(summary))
}

func (g *CartService) AddItem(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.AddItem"

	product, err := toProduct(req)
	if err != nil {
		return nil, g.fail(op, err)
	}

	cart, err := g.cartUC.AddItem(ctx, OwnerFromCtx(ctx), product)
	if err != nil {
		return nil, g.fail(op, err)
	}

	return g.reply(op)(cartStruct(cart))
}

func (g *CartService) RemoveItem(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.RemoveItem"

	cart, err := g.cartUC.RemoveItem(ctx, OwnerFromCtx(ctx), getString(req, "id"))
	if err != nil {
		return nil, g.fail(op, err)
	}

	return g.reply(op)(cartStruct(cart))
}

func (g *CartService) UpdateQuantity(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.UpdateQuantity"

	qty, err := getInt(req, "quantity")
	if err != nil {
		return nil, g.fail(op, err)
	}

	cart, err := g.cartUC.UpdateQuantity(ctx, OwnerFromCtx(ctx), getString(req, "id"), qty)
	if err != nil {
		return nil, g.fail(op, err)
	}

	return g.reply(op)(cartStruct(cart))
}

func (g *CartService) ClearCart(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.ClearCart"

	if err := g.cartUC.ClearCart(ctx, OwnerFromCtx(ctx)); err != nil {
		return nil, g.fail(op, err)
	}

	return g.reply(op)(structpb.NewStruct(map[string]any{"success": true}))
}

func (g *CartService) GetTotal(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.GetTotal"

	fee, _, err := getDecimal(req, "deliveryFee")
	if err != nil {
		return nil, g.fail(op, err)
	}

	discount, _, err := getDecimal(req, "discount")
	if err != nil {
		return nil, g.fail(op, err)
	}

	if fee.IsNegative() || discount.IsNegative() {
		return nil, g.fail(op, e.ErrInvalidAmount)
	}

	owner := OwnerFromCtx(ctx)
	subtotal, err := g.cartUC.GetSubtotal(ctx, owner)
	if err != nil {
		return nil, g.fail(op, err)
	}

	total, err := g.cartUC.GetTotal(ctx, owner, fee, discount)
	if err != nil {
		return nil, g.fail(op, err)
	}

	return g.reply(op)(structpb.NewStruct(map[string]any{
		"deliveryFee": amount(fee),
		"discount":    amount(discount),
		"total":       amount(total),
		"subtotal":    amount(subtotal),
	}))
}

func (g *CartService) FormatOrder(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.FormatOrder"

	orderReq, err := toOrderReq(OwnerFromCtx(ctx), req)
	if err != nil {
		return nil, g.fail(op, err)
	}

	msg, err := g.orderUC.FormatOrder(ctx, orderReq)
	if err != nil {
		return nil, g.fail(op, err)
	}

	return g.reply(op)(structpb.NewStruct(messageMap(msg)))
}

func (g *CartService) SendOrder(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.SendOrder"

	orderReq, err := toOrderReq(OwnerFromCtx(ctx), req)
	if err != nil {
		return nil, g.fail(op, err)
	}

	res, err := g.orderUC.SendOrder(ctx, orderReq)
	if err != nil {
		return nil, g.fail(op, err)
	}

	return g.reply(op)(structpb.NewStruct(map[string]any{
		"deepLink":    res.DeepLink,
		"cartCleared": res.CartCleared,
		"message":     messageMap(res.Message),
	}))
}

func (g *CartService) fail(op string, err error) error {
	g.logger.Warnf("%v", e.Wrap(op, err))
	return GRPCErrorResponse(err)
}

// reply превращает ошибку сборки ответа в Internal
func (g *CartService) reply(op string) func(*structpb.Struct, error) (*structpb.Struct, error) {
	return func(s *structpb.Struct, err error) (*structpb.Struct, error) {
		if err != nil {
			g.logger.Errorf(e.Wrap(op, err), "failed to build %s response", op)
			return nil, GRPCErrorResponse(err)
		}
		return s, nil
	}
}
