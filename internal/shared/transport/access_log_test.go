package transport

import (
	"context"
	"testing"

	"Civilization/modules/kit/errx"
	"Civilization/modules/kit/logx"
	"Civilization/modules/kit/tracex"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewContextWithParent_沿用已有trace(t *testing.T) {
	parent := tracex.WithTraceID(context.Background(), "trace-1")
	ctx := NewContextWithParent(parent, "POST /api/games", "game")
	if tid, _ := tracex.TraceIDFrom(ctx); tid != "trace-1" {
		t.Fatalf("应沿用父 trace, got=%q", tid)
	}
	if sid, _ := tracex.SpanIDFrom(ctx); sid != "game" {
		t.Fatalf("span 不符: %q", sid)
	}
	if al := FromContext(ctx); al == nil || al.BizCode != BizCode(SystemError) {
		t.Fatalf("默认业务码应为 SystemError: %+v", al)
	}
}

func TestWriteAccessLog_按业务码分级(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := logx.NewZapLogger(zap.New(core))

	ok := NewContext("WS game.state", "ws")
	SetBizCode(ok, OK)
	WriteAccessLog(ok, l)

	rejected := NewContext("WS game.command", "ws")
	SetBizCode(rejected, 120)
	SetErrorReason(rejected, "UNIT_NOT_FOUND")
	WriteAccessLog(rejected, l)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("应有 2 条访问日志, got=%d", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel || entries[1].Level != zapcore.WarnLevel {
		t.Fatalf("级别不符: %v %v", entries[0].Level, entries[1].Level)
	}
	if entries[1].ContextMap()["error_reason"] != "UNIT_NOT_FOUND" {
		t.Fatalf("缺少 error_reason: %v", entries[1].ContextMap())
	}
}

func TestSysCode_技术错误映射(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, OK},
		{errx.ErrTimeout, Timeout},
		{errx.ErrRateLimited, RateLimited},
		{errx.ErrUnavailable.WithReason("mongo down"), Unavailable},
		{errx.ErrUnauthorized, Unauthorized},
		{context.Canceled, SystemError},
	}
	for _, c := range cases {
		if got := SysCode(c.err); got != c.want {
			t.Fatalf("SysCode(%v)=%d want=%d", c.err, got, c.want)
		}
	}
}
