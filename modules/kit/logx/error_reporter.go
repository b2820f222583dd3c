package logx

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Access 是一次请求（HTTP/WS/gRPC/actor 命令）的访问记录。
type Access struct {
	Action  string
	Code    int
	Latency time.Duration
}

// ReportAccess 按业务码分级：0 INFO，1~499 WARN，>=500 ERROR。
func ReportAccess(ctx context.Context, l Logger, a Access, fields ...zap.Field) {
	if l == nil {
		return
	}
	base := append([]zap.Field{
		zap.String("log_type", "access"),
		zap.String("action", a.Action),
		zap.Int("biz_code", a.Code),
		zap.Duration("latency", a.Latency),
	}, fields...)
	lc := l.WithContext(ctx)
	switch {
	case a.Code == 0:
		lc.Info("access", base...)
	case a.Code >= 500:
		lc.Error("access", base...)
	default:
		lc.Warn("access", base...)
	}
}

// ReportReject 记录规则拒绝：INFO，不带栈。
func ReportReject(ctx context.Context, l Logger, action string, err error, fields ...zap.Field) {
	if l == nil || err == nil {
		return
	}
	meta := BuildErrorLog(err)
	base := []zap.Field{
		zap.String("err_type", "biz"),
		zap.String("action", action),
		zap.String("error_code", meta.Code),
		zap.String("error_family", meta.Family),
	}
	if len(meta.Data) != 0 {
		base = append(base, zap.Any("error_data", meta.Data))
	}
	base = append(base, fields...)
	l.WithContext(ctx).Info(action+" rejected: "+meta.Code, base...)
}

// ReportFailure 记录技术错误：ERROR，附 cause 链和发生处栈。
func ReportFailure(ctx context.Context, l Logger, action string, err error, fields ...zap.Field) {
	if l == nil || err == nil {
		return
	}
	meta := BuildErrorLog(err)
	base := []zap.Field{
		zap.String("err_type", "sys"),
		zap.String("action", action),
		zap.String("error_code", meta.Code),
	}
	if len(meta.CauseChain) != 0 {
		base = append(base, zap.Strings("cause_chain", meta.CauseChain))
	}
	if len(meta.Data) != 0 {
		base = append(base, zap.Any("error_data", meta.Data))
	}
	if meta.Origin != "" {
		base = append(base, zap.String("origin_caller", meta.Origin), zap.String("stack_origin", meta.Stack))
	}
	base = append(base, fields...)
	msg := action + ", error:" + meta.Error
	if meta.Reason != "" {
		msg = action + ", reason:" + meta.Reason + ", error:" + meta.Error
	}
	l.WithContext(ctx).Error(msg, base...)
}

// Report 按错误类型分流到 ReportReject / ReportFailure。
func Report(ctx context.Context, l Logger, action string, err error, fields ...zap.Field) {
	if err == nil {
		return
	}
	if BuildErrorLog(err).Biz {
		ReportReject(ctx, l, action, err, fields...)
		return
	}
	ReportFailure(ctx, l, action, err, fields...)
}
