package tracex

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type traceIDKey struct{}
type spanIDKey struct{}
type gameIDKey struct{}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

func TraceIDFrom(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(traceIDKey{}).(string)
	return s, ok && s != ""
}

func WithSpanID(ctx context.Context, spanID string) context.Context {
	return context.WithValue(ctx, spanIDKey{}, spanID)
}

func SpanIDFrom(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(spanIDKey{}).(string)
	return s, ok && s != ""
}

// WithGameID 把对局 id 挂到 ctx 上，日志会自动带出 game_id。
func WithGameID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, gameIDKey{}, id)
}

func GameIDFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(gameIDKey{}).(int64)
	return id, ok && id > 0
}

// NewTraceID 返回 32 位 hex 的 trace_id。
func NewTraceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NewSpanID 返回 16 位 hex 的 span_id。
func NewSpanID() string {
	return NewTraceID()[:16]
}

// Ensure 保证 ctx 上有 trace_id，并为本次调用开一个新的 span。
func Ensure(ctx context.Context) context.Context {
	if _, ok := TraceIDFrom(ctx); !ok {
		ctx = WithTraceID(ctx, NewTraceID())
	}
	return WithSpanID(ctx, NewSpanID())
}
