package grpc

import (
	"context"
	"fmt"
	"time"

	"Civilization/internal/shared/transport"
	"Civilization/modules/kit/logx"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// NewServer 带 trace 和访问日志拦截器的 grpc server。
func NewServer(log logx.Logger, opts ...gogrpc.ServerOption) *gogrpc.Server {
	opts = append(opts,
		gogrpc.ChainUnaryInterceptor(UnaryServerTraceInterceptor(), UnaryServerAccessInterceptor(log)),
		gogrpc.ChainStreamInterceptor(StreamServerTraceInterceptor()),
	)
	return gogrpc.NewServer(opts...)
}

// Dial 建立连接（不阻塞），客户端自动透传 trace。
// grpc.NewClient 只创建 ClientConn，真正的连接在第一次调用时建立。
func Dial(target string, opts ...gogrpc.DialOption) (*gogrpc.ClientConn, error) {
	opts = append([]gogrpc.DialOption{
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
		gogrpc.WithChainUnaryInterceptor(UnaryClientTraceInterceptor()),
		gogrpc.WithChainStreamInterceptor(StreamClientTraceInterceptor()),
	}, opts...)
	conn, err := gogrpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s failed: %w", target, err)
	}
	return conn, nil
}

// UnaryServerAccessInterceptor 每次 unary 调用一条访问日志，业务码取自 grpc status。
func UnaryServerAccessInterceptor(log logx.Logger) gogrpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *gogrpc.UnaryServerInfo, handler gogrpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := transport.OK
		if err != nil {
			code = transport.SystemError
			if st, ok := status.FromError(err); ok {
				code = httpLikeCode(st.Code())
			}
		}
		logx.ReportAccess(ctx, log, logx.Access{
			Action:  "GRPC " + info.FullMethod,
			Code:    code,
			Latency: time.Since(start),
		})
		return resp, err
	}
}
