package grpc

import (
	"context"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const serviceName = "civ.GameService"

const (
	MethodCreate   = "/" + serviceName + "/Create"
	MethodExecute  = "/" + serviceName + "/Execute"
	MethodSnapshot = "/" + serviceName + "/Snapshot"
	MethodJournal  = "/" + serviceName + "/Journal"
)

// GameServiceServer 请求和回包都是 structpb.Struct，字段与 HTTP 接口的 JSON 一致。
type GameServiceServer interface {
	Create(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Execute(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Snapshot(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Journal(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterGameServiceServer(s gogrpc.ServiceRegistrar, srv GameServiceServer) {
	s.RegisterService(&GameServiceDesc, srv)
}

type unaryMethod func(GameServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) gogrpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor gogrpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(GameServiceServer), ctx, in)
		}
		info := &gogrpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(GameServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var GameServiceDesc = gogrpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*GameServiceServer)(nil),
	Methods: []gogrpc.MethodDesc{
		{MethodName: "Create", Handler: unaryHandler(MethodCreate, GameServiceServer.Create)},
		{MethodName: "Execute", Handler: unaryHandler(MethodExecute, GameServiceServer.Execute)},
		{MethodName: "Snapshot", Handler: unaryHandler(MethodSnapshot, GameServiceServer.Snapshot)},
		{MethodName: "Journal", Handler: unaryHandler(MethodJournal, GameServiceServer.Journal)},
	},
	Streams:  []gogrpc.StreamDesc{},
	Metadata: "civ/game.proto",
}

type GameServiceClient struct {
	cc gogrpc.ClientConnInterface
}

func NewGameServiceClient(cc gogrpc.ClientConnInterface) *GameServiceClient {
	return &GameServiceClient{cc: cc}
}

func (c *GameServiceClient) Create(ctx context.Context, in *structpb.Struct, opts ...gogrpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodCreate, in, opts...)
}

func (c *GameServiceClient) Execute(ctx context.Context, in *structpb.Struct, opts ...gogrpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodExecute, in, opts...)
}

func (c *GameServiceClient) Snapshot(ctx context.Context, in *structpb.Struct, opts ...gogrpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodSnapshot, in, opts...)
}

func (c *GameServiceClient) Journal(ctx context.Context, in *structpb.Struct, opts ...gogrpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodJournal, in, opts...)
}

func (c *GameServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...gogrpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
