package logs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Civilization/modules/kit/logx"

	"go.uber.org/zap"
	glogger "gorm.io/gorm/logger"
)

// maxSQLLen 对局状态以压缩二进制落库，完整语句可能很长，日志里截断。
const maxSQLLen = 512

// GormLogger 把 GORM 的语句日志接到 logx，ctx 上的 trace_id、game_id 会一并带出。
// 找不到记录是正常分支（新对局），不记错误。
type GormLogger struct {
	log   logx.Logger
	level glogger.LogLevel
	slow  time.Duration
}

func NewGormLogger(l logx.Logger, level glogger.LogLevel, slow time.Duration) glogger.Interface {
	if l == nil {
		l = logx.Nop()
	}
	return &GormLogger{log: l.With(zap.String("component", "gorm")), level: level, slow: slow}
}

func (g *GormLogger) LogMode(level glogger.LogLevel) glogger.Interface {
	next := *g
	next.level = level
	return &next
}

func (g *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if g.level >= glogger.Info {
		g.log.WithContext(ctx).Info(fmt.Sprintf(msg, data...))
	}
}

func (g *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if g.level >= glogger.Warn {
		g.log.WithContext(ctx).Warn(fmt.Sprintf(msg, data...))
	}
}

func (g *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if g.level >= glogger.Error {
		g.log.WithContext(ctx).Error(fmt.Sprintf(msg, data...))
	}
}

func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if g.level <= glogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, glogger.ErrRecordNotFound)
	slow := g.slow > 0 && elapsed > g.slow
	if !failed && !slow && g.level < glogger.Info {
		return
	}

	sql, rows := fc()
	if len(sql) > maxSQLLen {
		sql = sql[:maxSQLLen] + "..."
	}
	l := g.log.WithContext(ctx)
	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}
	switch {
	case failed:
		l.Error("sql failed", append(fields, zap.Error(err))...)
	case slow:
		l.Warn("sql slow", append(fields, zap.Duration("threshold", g.slow))...)
	default:
		l.Debug("sql", fields...)
	}
}
