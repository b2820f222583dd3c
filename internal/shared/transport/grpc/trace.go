package grpc

import (
	"context"

	"Civilization/modules/kit/tracex"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

const (
	traceIDHeader = "x-trace-id"
	spanIDHeader  = "x-span-id"
)

// UnaryClientTraceInterceptor 客户端 unary 请求注入 trace/span。
func UnaryClientTraceInterceptor() gogrpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *gogrpc.ClientConn,
		invoker gogrpc.UnaryInvoker, opts ...gogrpc.CallOption) error {
		return invoker(injectTraceToOutgoing(ctx), method, req, reply, cc, opts...)
	}
}

// StreamClientTraceInterceptor 客户端 stream 请求注入 trace/span。
func StreamClientTraceInterceptor() gogrpc.StreamClientInterceptor {
	return func(ctx context.Context, desc *gogrpc.StreamDesc, cc *gogrpc.ClientConn, method string,
		streamer gogrpc.Streamer, opts ...gogrpc.CallOption) (gogrpc.ClientStream, error) {
		return streamer(injectTraceToOutgoing(ctx), desc, cc, method, opts...)
	}
}

// UnaryServerTraceInterceptor 服务端 unary 请求提取 trace/span，没有就新建 trace。
func UnaryServerTraceInterceptor() gogrpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *gogrpc.UnaryServerInfo, handler gogrpc.UnaryHandler) (any, error) {
		return handler(extractTraceFromIncoming(ctx), req)
	}
}

// StreamServerTraceInterceptor 服务端 stream 请求提取 trace/span。
func StreamServerTraceInterceptor() gogrpc.StreamServerInterceptor {
	return func(srv any, ss gogrpc.ServerStream, info *gogrpc.StreamServerInfo, handler gogrpc.StreamHandler) error {
		return handler(srv, &wrappedServerStream{
			ServerStream: ss,
			ctx:          extractTraceFromIncoming(ss.Context()),
		})
	}
}

type wrappedServerStream struct {
	gogrpc.ServerStream
	ctx context.Context
}

func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}

func injectTraceToOutgoing(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	var kv []string
	if traceID, ok := tracex.TraceIDFrom(ctx); ok {
		kv = append(kv, traceIDHeader, traceID)
	}
	if spanID, ok := tracex.SpanIDFrom(ctx); ok {
		kv = append(kv, spanIDHeader, spanID)
	}
	if len(kv) == 0 {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, kv...)
}

func extractTraceFromIncoming(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := first(md, traceIDHeader); v != "" {
			ctx = tracex.WithTraceID(ctx, v)
		}
		if v := first(md, spanIDHeader); v != "" {
			ctx = tracex.WithSpanID(ctx, v)
		}
	}
	if _, ok := tracex.TraceIDFrom(ctx); !ok {
		ctx = tracex.WithTraceID(ctx, tracex.NewTraceID())
	}
	return ctx
}

func first(md metadata.MD, key string) string {
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}
