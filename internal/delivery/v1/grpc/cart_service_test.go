package grpc

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/futburguer-cart/internal/cfg"
	"github.com/DRSN-tech/futburguer-cart/internal/domain"
	"github.com/DRSN-tech/futburguer-cart/internal/infrastructure/auth"
	"github.com/DRSN-tech/futburguer-cart/internal/infrastructure/events"
	"github.com/DRSN-tech/futburguer-cart/internal/infrastructure/notify"
	"github.com/DRSN-tech/futburguer-cart/internal/repository/memory"
	"github.com/DRSN-tech/futburguer-cart/internal/repository/minio"
	"github.com/DRSN-tech/futburguer-cart/internal/usecase"
	"github.com/DRSN-tech/futburguer-cart/pkg/e"
	"github.com/DRSN-tech/futburguer-cart/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type grpcFixture struct {
	conn *grpc.ClientConn
	auth *auth.JWTAuth
}

func newGRPCFixture(t *testing.T) *grpcFixture {
	t.Helper()
	log := logger.NewNop()

	center := notify.NewCenter(time.Minute, events.NewBus[domain.Notification]())
	t.Cleanup(func() { _ = center.Close(context.Background()) })

	cartUC := usecase.NewCartUC(
		memory.NewCartStorage(),
		events.NewCartPublisher(events.NewBus[domain.CartChanged]()),
		center,
		minio.StaticResolver{},
		&cfg.CartCfg{StorageKey: "futburguer_cart", DefaultImage: "assets/images/default.png", DefaultCategory: "outros"},
		log,
	)

	jwtAuth := auth.NewJWTAuth(&cfg.AuthCfg{JWTSecret: "s3cret"})
	orderUC := usecase.NewOrderUC(
		cartUC,
		jwtAuth,
		center,
		events.NewOrderPublisher(events.NewBus[domain.OrderSent]()),
		&cfg.OrderCfg{DeliveryFee: decimal.RequireFromString("5"), MessagingHost: "wa.me", Destination: "5581995343404", Location: time.UTC},
		log,
		nil,
	)

	srv := NewGRPCServer(&cfg.GRPCConfig{NetworkMode: "tcp"}, jwtAuth, log)
	srv.RegisterServices(cartUC, orderUC)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.server.Serve(lis) }()
	t.Cleanup(func() { _ = srv.Stop(context.Background()) })

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &grpcFixture{conn: conn, auth: jwtAuth}
}

func (f *grpcFixture) call(ctx context.Context, name string, in map[string]any) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(in)
	if err != nil {
		return nil, err
	}

	out := new(structpb.Struct)
	err = f.conn.Invoke(ctx, "/"+serviceName+"/"+name, req, out)
	return out, err
}

func session(owner string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), sessionMetadataKey, owner)
}

func TestCartService_AddAndTotal(t *testing.T) {
	f := newGRPCFixture(t)
	ctx := session("s1")

	out, err := f.call(ctx, "AddItem", map[string]any{"id": 7, "name": "X-Burger", "price": "25.50"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, out.GetFields()["itemCount"].GetNumberValue())

	items := out.GetFields()["items"].GetListValue().GetValues()
	require.Len(t, items, 1)
	assert.Equal(t, "7", items[0].GetStructValue().GetFields()["id"].GetStringValue())

	_, err = f.call(ctx, "AddItem", map[string]any{"id": "7", "name": "X-Burger", "price": 25.5})
	require.NoError(t, err)

	total, err := f.call(ctx, "GetTotal", map[string]any{"deliveryFee": 5, "discount": "1"})
	require.NoError(t, err)
	assert.InDelta(t, 51.0, total.GetFields()["subtotal"].GetNumberValue(), 0.001)
	assert.InDelta(t, 55.0, total.GetFields()["total"].GetNumberValue(), 0.001)

	other, err := f.call(session("s2"), "GetCart", nil)
	require.NoError(t, err)
	assert.True(t, other.GetFields()["isEmpty"].GetBoolValue())
}

func TestCartService_Errors(t *testing.T) {
	f := newGRPCFixture(t)
	ctx := session("s1")

	_, err := f.call(ctx, "AddItem", map[string]any{"name": "X"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = f.call(ctx, "UpdateQuantity", map[string]any{"id": "missing", "quantity": 2})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = f.call(ctx, "UpdateQuantity", map[string]any{"id": "missing", "quantity": 1.5})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = f.call(ctx, "SendOrder", map[string]any{"customer": map[string]any{"name": "Ana", "phone": "1"}})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	assert.Equal(t, "Carrinho vazio", status.Convert(err).Message())

	_, err = f.call(ctx, "GetTotal", map[string]any{"discount": -1})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestCartService_SendOrderWithLoyalty(t *testing.T) {
	f := newGRPCFixture(t)

	token, err := f.auth.Issue(domain.UserRef{UID: "uid-1"}, jwt.RegisteredClaims{})
	require.NoError(t, err)
	ctx := metadata.AppendToOutgoingContext(session("s1"), authMetadataKey, "Bearer "+token)

	_, err = f.call(ctx, "AddItem", map[string]any{"id": "burger1", "name": "X-Burger", "price": 25})
	require.NoError(t, err)

	out, err := f.call(ctx, "SendOrder", map[string]any{
		"customer":    map[string]any{"name": "Ana", "phone": "81999990000", "paymentMethod": "card"},
		"deliveryFee": 0,
	})
	require.NoError(t, err)

	link := out.GetFields()["deepLink"].GetStringValue()
	assert.True(t, strings.HasPrefix(link, "https://wa.me/5581995343404?text="))

	msg := out.GetFields()["message"].GetStructValue().GetFields()
	assert.True(t, msg["loyalty"].GetBoolValue())
	assert.InDelta(t, 25.0, msg["total"].GetNumberValue(), 0.001)
	assert.Contains(t, msg["text"].GetStringValue(), "*Forma de pagamento:* Cartão")
}

func TestGRPCErrorResponse(t *testing.T) {
	cases := map[error]codes.Code{
		e.Wrap("op", e.ErrInvalidPrice):       codes.InvalidArgument,
		e.Wrap("op", e.ErrProductNotFound):    codes.NotFound,
		e.Wrap("op", e.ErrEmptyCart):          codes.FailedPrecondition,
		e.Wrap("op", e.ErrStorageUnavailable): codes.Unavailable,
		e.ErrInvalidToken:                     codes.Unauthenticated,
		context.Canceled:                      codes.Internal,
	}

	for err, want := range cases {
		assert.Equal(t, want, status.Code(GRPCErrorResponse(err)), err.Error())
	}
}

func TestGetDecimal(t *testing.T) {
	s, err := structpb.NewStruct(map[string]any{"a": 1.5, "b": "2.25", "c": "abc", "d": nil})
	require.NoError(t, err)

	d, present, err := getDecimal(s, "a")
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, "1.50", d.StringFixed(2))

	d, _, err = getDecimal(s, "b")
	require.NoError(t, err)
	assert.Equal(t, "2.25", d.StringFixed(2))

	_, _, err = getDecimal(s, "c")
	require.ErrorIs(t, err, e.ErrInvalidAmount)

	_, present, err = getDecimal(s, "d")
	require.NoError(t, err)
	assert.False(t, present)

	_, present, _ = getDecimal(s, "missing")
	assert.False(t, present)
}
