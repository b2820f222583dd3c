package logx

import (
	"context"

	"Civilization/modules/kit/tracex"

	"go.uber.org/zap"
)

// ZapLogger 把 *zap.Logger 适配成 Logger；WithContext 会带出 trace_id、span_id、game_id。
type ZapLogger struct {
	logger *zap.Logger
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapLogger{logger: l}
}

func (z *ZapLogger) With(fields ...zap.Field) Logger {
	if z == nil {
		return NewZapLogger(nil)
	}
	return &ZapLogger{logger: z.logger.With(fields...)}
}

func (z *ZapLogger) WithContext(ctx context.Context) Logger {
	if z == nil {
		return NewZapLogger(nil)
	}
	if ctx == nil {
		return z
	}
	fields := make([]zap.Field, 0, 3)
	if tid, ok := tracex.TraceIDFrom(ctx); ok {
		fields = append(fields, zap.String("trace_id", tid))
	}
	if sid, ok := tracex.SpanIDFrom(ctx); ok {
		fields = append(fields, zap.String("span_id", sid))
	}
	if gid, ok := tracex.GameIDFrom(ctx); ok {
		fields = append(fields, zap.Int64("game_id", gid))
	}
	if len(fields) == 0 {
		return z
	}
	return &ZapLogger{logger: z.logger.With(fields...)}
}

func (z *ZapLogger) Info(msg string, fields ...zap.Field)  { z.logger.Info(msg, fields...) }
func (z *ZapLogger) Error(msg string, fields ...zap.Field) { z.logger.Error(msg, fields...) }
func (z *ZapLogger) Debug(msg string, fields ...zap.Field) { z.logger.Debug(msg, fields...) }
func (z *ZapLogger) Warn(msg string, fields ...zap.Field)  { z.logger.Warn(msg, fields...) }
