package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const serviceName = "futburguer.cart.v1.CartService"

// CartServiceServer — контракт сервиса корзины. Сообщения передаются как google.protobuf.Struct.
type CartServiceServer interface {
	GetCart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSummary(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddItem(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveItem(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateQuantity(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ClearCart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTotal(context.Context, *structpb.Struct) (*structpb.Struct, error)
	FormatOrder(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SendOrder(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(CartServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func method(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}

			if interceptor == nil {
				return call(srv.(CartServiceServer), ctx, in)
			}

			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + serviceName + "/" + name,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(CartServiceServer), ctx, req.(*structpb.Struct))
			}

			return interceptor(ctx, in, info, handler)
		},
	}
}

// CartServiceDesc описывает сервис для grpc.Server.RegisterService
var CartServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*CartServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		method("GetCart", CartServiceServer.GetCart),
		method("GetSummary", CartServiceServer.GetSummary),
		method("AddItem", CartServiceServer.AddItem),
		method("RemoveItem", CartServiceServer.RemoveItem),
		method("UpdateQuantity", CartServiceServer.UpdateQuantity),
		method("ClearCart", CartServiceServer.ClearCart),
		method("GetTotal", CartServiceServer.GetTotal),
		method("FormatOrder", CartServiceServer.FormatOrder),
		method("SendOrder", CartServiceServer.SendOrder),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "futburguer/cart/v1/cart.proto",
}

func RegisterCartServiceServer(s grpc.ServiceRegistrar, srv CartServiceServer) {
	s.RegisterService(&CartServiceDesc, srv)
}
