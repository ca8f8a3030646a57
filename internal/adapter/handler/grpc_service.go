package handler

import (
	"context"

	"google.golang.org/grpc"
)

const CartServiceName = "storefront.cart.v1.CartService"

type CreateSessionRequest struct{}

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

type GetCartRequest struct {
	SessionID string `json:"session_id"`
}

type AddToCartGRPCRequest struct {
	SessionID string `json:"session_id"`
	ProductID string `json:"product_id"`
	RequestID string `json:"request_id"`
}

type ItemRequest struct {
	SessionID string `json:"session_id"`
	ProductID string `json:"product_id"`
}

type CartReply struct {
	Items        []LineItemResponse `json:"items"`
	Total        string             `json:"total"`
	TotalDisplay string             `json:"total_display"`
	Currency     string             `json:"currency"`
}

type CartServiceServer interface {
	CreateSession(context.Context, *CreateSessionRequest) (*CreateSessionResponse, error)
	GetCart(context.Context, *GetCartRequest) (*CartReply, error)
	AddToCart(context.Context, *AddToCartGRPCRequest) (*CartReply, error)
	RemoveFromCart(context.Context, *ItemRequest) (*CartReply, error)
	IncrementQuantity(context.Context, *ItemRequest) (*CartReply, error)
	DecrementQuantity(context.Context, *ItemRequest) (*CartReply, error)
}

var CartServiceDesc = grpc.ServiceDesc{
	ServiceName: CartServiceName,
	HandlerType: (*CartServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("CreateSession", CartServiceServer.CreateSession),
		unaryMethod("GetCart", CartServiceServer.GetCart),
		unaryMethod("AddToCart", CartServiceServer.AddToCart),
		unaryMethod("RemoveFromCart", CartServiceServer.RemoveFromCart),
		unaryMethod("IncrementQuantity", CartServiceServer.IncrementQuantity),
		unaryMethod("DecrementQuantity", CartServiceServer.DecrementQuantity),
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterCartServiceServer(s grpc.ServiceRegistrar, srv CartServiceServer) {
	s.RegisterService(&CartServiceDesc, srv)
}

func unaryMethod[Req, Resp any](name string, call func(CartServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + CartServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CartServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(CartServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// CartClient calls the cart service over a gRPC connection using the JSON
// codec.
type CartClient struct {
	cc grpc.ClientConnInterface
}

func NewCartClient(cc grpc.ClientConnInterface) *CartClient {
	return &CartClient{cc: cc}
}

func (c *CartClient) CreateSession(ctx context.Context, in *CreateSessionRequest, opts ...grpc.CallOption) (*CreateSessionResponse, error) {
	out := new(CreateSessionResponse)
	if err := c.invoke(ctx, "CreateSession", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CartClient) GetCart(ctx context.Context, in *GetCartRequest, opts ...grpc.CallOption) (*CartReply, error) {
	return c.cart(ctx, "GetCart", in, opts)
}

func (c *CartClient) AddToCart(ctx context.Context, in *AddToCartGRPCRequest, opts ...grpc.CallOption) (*CartReply, error) {
	return c.cart(ctx, "AddToCart", in, opts)
}

func (c *CartClient) RemoveFromCart(ctx context.Context, in *ItemRequest, opts ...grpc.CallOption) (*CartReply, error) {
	return c.cart(ctx, "RemoveFromCart", in, opts)
}

func (c *CartClient) IncrementQuantity(ctx context.Context, in *ItemRequest, opts ...grpc.CallOption) (*CartReply, error) {
	return c.cart(ctx, "IncrementQuantity", in, opts)
}

func (c *CartClient) DecrementQuantity(ctx context.Context, in *ItemRequest, opts ...grpc.CallOption) (*CartReply, error) {
	return c.cart(ctx, "DecrementQuantity", in, opts)
}

func (c *CartClient) cart(ctx context.Context, method string, in any, opts []grpc.CallOption) (*CartReply, error) {
	out := new(CartReply)
	if err := c.invoke(ctx, method, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CartClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+CartServiceName+"/"+method, in, out, opts...)
}
