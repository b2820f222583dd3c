package transport

import (
	"context"
	"sync"
	"time"

	"Civilization/modules/kit/logx"
	"Civilization/modules/kit/tracex"

	"go.uber.org/zap"
)

// AccessLog 一次请求的访问日志上下文，HTTP/WS/gRPC 共用。
// handler 可以往里追加对局 id、命令名等字段，请求结束时一并输出。
type AccessLog struct {
	mu          sync.Mutex
	BizCode     BizCode
	ErrorReason string
	codeSet     bool
	fields      []zap.Field
	start       time.Time
	action      string
}

type accessLogKey struct{}

func NewContext(action, span string) context.Context {
	return NewContextWithParent(context.Background(), action, span)
}

// NewContextWithParent 沿用父 context 的取消信号和 trace id。
func NewContextWithParent(parent context.Context, action, span string) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	if action == "" {
		action = "unknown"
	}
	ctx := parent
	if _, ok := tracex.TraceIDFrom(ctx); !ok {
		ctx = tracex.WithTraceID(ctx, tracex.NewTraceID())
	}
	if span != "" {
		ctx = tracex.WithSpanID(ctx, span)
	}
	return context.WithValue(ctx, accessLogKey{}, &AccessLog{
		BizCode: BizCode(SystemError),
		start:   time.Now(),
		action:  action,
	})
}

func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

func SetBizCode(ctx context.Context, code BizCode) {
	if al := FromContext(ctx); al != nil {
		al.mu.Lock()
		al.BizCode = code
		al.codeSet = true
		al.mu.Unlock()
	}
}

// BizCodeOf 第二个返回值表示 handler 是否显式设置过业务码。
func BizCodeOf(ctx context.Context) (BizCode, bool) {
	al := FromContext(ctx)
	if al == nil {
		return BizCode(SystemError), false
	}
	al.mu.Lock()
	defer al.mu.Unlock()
	return al.BizCode, al.codeSet
}

// SetErrorReason 空串忽略。
func SetErrorReason(ctx context.Context, reason string) {
	if reason == "" {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.mu.Lock()
		al.ErrorReason = reason
		al.mu.Unlock()
	}
}

// AddFields 追加业务字段，例如 game_id、command。
func AddFields(ctx context.Context, fields ...zap.Field) {
	if al := FromContext(ctx); al != nil {
		al.mu.Lock()
		al.fields = append(al.fields, fields...)
		al.mu.Unlock()
	}
}

// WriteAccessLog 在中间件或分发器里 defer 调用，一个请求只写一次。
func WriteAccessLog(ctx context.Context, log logx.Logger) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}
	al.mu.Lock()
	code, reason := al.BizCode, al.ErrorReason
	fields := append([]zap.Field(nil), al.fields...)
	al.mu.Unlock()

	if code == BizCode(OK) {
		fields = append(fields, zap.String("result", "success"))
	} else {
		fields = append(fields, zap.String("result", "failure"))
		if reason != "" {
			fields = append(fields, zap.String("error_reason", reason))
		}
	}
	logx.ReportAccess(ctx, log, logx.Access{
		Action:  al.action,
		Code:    int(code),
		Latency: time.Since(al.start),
	}, fields...)
}
