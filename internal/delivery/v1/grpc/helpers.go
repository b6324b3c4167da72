package grpc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/DRSN-tech/futburguer-cart/internal/domain"
	"github.com/DRSN-tech/futburguer-cart/internal/usecase"
	"github.com/DRSN-tech/futburguer-cart/pkg/e"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// GRPCErrorResponse сопоставляет ошибку с gRPC-статусом
func GRPCErrorResponse(err error) error {
	validation := []error{
		e.ErrStatusBadRequest,
		e.ErrProductIDRequired,
		e.ErrProductNameRequired,
		e.ErrInvalidPrice,
		e.ErrInvalidQuantity,
		e.ErrInvalidAmount,
		e.ErrCustomerNameRequired,
		e.ErrCustomerPhoneRequired,
		e.ErrUnknownPaymentMethod,
	}
	for _, v := range validation {
		if errors.Is(err, v) {
			return status.Error(codes.InvalidArgument, v.Error())
		}
	}

	switch {
	case errors.Is(err, e.ErrProductNotFound):
		return status.Error(codes.NotFound, e.ErrProductNotFound.Error())
	case errors.Is(err, e.ErrEmptyCart):
		return status.Error(codes.FailedPrecondition, e.ErrEmptyCart.Error())
	case errors.Is(err, e.ErrStorageUnavailable), errors.Is(err, e.ErrCartSerialization):
		return status.Error(codes.Unavailable, e.ErrStorageUnavailable.Error())
	case errors.Is(err, e.ErrInvalidToken):
		return status.Error(codes.Unauthenticated, e.ErrInvalidToken.Error())
	default:
		return status.Error(codes.Internal, e.ErrInternalServerError.Error())
	}
}

// getString читает строковое поле; числа приводятся к строке
func getString(s *structpb.Struct, key string) string {
	v, ok := s.GetFields()[key]
	if !ok {
		return ""
	}

	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return strings.TrimSpace(k.StringValue)
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(k.NumberValue, 'f', -1, 64)
	default:
		return ""
	}
}

// getDecimal читает сумму из числа или строки; при отсутствии поля present == false
func getDecimal(s *structpb.Struct, key string) (decimal.Decimal, bool, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return decimal.Zero, false, nil
	}

	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		return decimal.NewFromFloat(k.NumberValue), true, nil
	case *structpb.Value_StringValue:
		d, err := decimal.NewFromString(strings.TrimSpace(k.StringValue))
		if err != nil {
			return decimal.Zero, true, e.Wrap(key, e.ErrInvalidAmount)
		}
		return d, true, nil
	case *structpb.Value_NullValue:
		return decimal.Zero, false, nil
	default:
		return decimal.Zero, true, e.Wrap(key, e.ErrInvalidAmount)
	}
}

func getInt(s *structpb.Struct, key string) (int, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, e.Wrap(key, e.ErrInvalidQuantity)
	}

	n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
	if !isNumber || n.NumberValue != float64(int(n.NumberValue)) {
		return 0, e.Wrap(fmt.Sprint(v.AsInterface()), e.ErrInvalidQuantity)
	}

	return int(n.NumberValue), nil
}

func toProduct(s *structpb.Struct) (*domain.Product, error) {
	price, _, err := getDecimal(s, "price")
	if err != nil {
		return nil, e.Wrap("price", e.ErrInvalidPrice)
	}

	return domain.NewProduct(
		getString(s, "id"),
		getString(s, "name"),
		price,
		getString(s, "image"),
		getString(s, "category"),
	), nil
}

func toOrderReq(owner string, s *structpb.Struct) (*usecase.OrderReq, error) {
	var fee *decimal.Decimal
	d, present, err := getDecimal(s, "deliveryFee")
	if err != nil {
		return nil, err
	}
	if present {
		fee = &d
	}

	c := s.GetFields()["customer"].GetStructValue()
	if c == nil {
		return usecase.NewOrderReq(owner, nil, fee), nil
	}

	customer := &domain.Customer{
		Name:          getString(c, "name"),
		Phone:         getString(c, "phone"),
		Email:         getString(c, "email"),
		PaymentMethod: domain.PaymentMethod(strings.ToLower(getString(c, "paymentMethod"))),
	}

	if a := c.GetFields()["address"].GetStructValue(); a != nil {
		customer.Address = &domain.Address{
			Street:       getString(a, "street"),
			Number:       getString(a, "number"),
			Complement:   getString(a, "complement"),
			Neighborhood: getString(a, "neighborhood"),
			City:         getString(a, "city"),
			State:        getString(a, "state"),
			ZipCode:      getString(a, "zipCode"),
		}
	}

	return usecase.NewOrderReq(owner, customer, fee), nil
}

func amount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func itemMap(it domain.LineItem, imageURL string) map[string]any {
	m := map[string]any{
		"id":       it.ID,
		"name":     it.Name,
		"price":    amount(it.UnitPrice),
		"quantity": it.Quantity,
		"image":    it.Image,
		"category": it.Category,
		"total":    amount(it.Total()),
	}
	if imageURL != "" {
		m["imageUrl"] = imageURL
	}

	return m
}

func cartStruct(cart domain.Cart) (*structpb.Struct, error) {
	items := make([]any, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, itemMap(it, ""))
	}

	return structpb.NewStruct(map[string]any{
		"items":     items,
		"itemCount": cart.ItemCount(),
		"subtotal":  amount(cart.Subtotal()),
		"isEmpty":   cart.IsEmpty(),
	})
}

func summaryStruct(s *usecase.CartSummary) (*structpb.Struct, error) {
	items := make([]any, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, itemMap(it.LineItem, it.ImageURL))
	}

	return structpb.NewStruct(map[string]any{
		"items":     items,
		"itemCount": s.ItemCount,
		"subtotal":  amount(s.Subtotal),
		"isEmpty":   s.IsEmpty,
	})
}

func messageMap(m *usecase.OrderMessage) map[string]any {
	return map[string]any{
		"text":        m.Text,
		"encoded":     m.Encoded,
		"subtotal":    amount(m.Subtotal),
		"deliveryFee": amount(m.DeliveryFee),
		"total":       amount(m.Total),
		"loyalty":     m.Loyalty,
	}
}
