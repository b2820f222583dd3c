package logx

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"Civilization/modules/kit/errx"
)

// ErrorLog 是一条错误日志需要的全部上下文。
type ErrorLog struct {
	Error      string
	Code       string
	Family     string
	Msg        string
	Reason     string
	Biz        bool
	Data       map[string]any
	CauseChain []string
	Origin     string
	Stack      string
}

// BuildErrorLog 从错误链上提取 code/族/上下文/cause 链/发生处栈。
func BuildErrorLog(err error) ErrorLog {
	if err == nil {
		return ErrorLog{}
	}
	out := ErrorLog{Error: err.Error()}

	var e *errx.Error
	if errors.As(err, &e) {
		out.Code = e.CodeText()
		out.Family = string(e.Family())
		out.Msg = e.Msg()
		out.Reason = e.Reason()
		out.Biz = e.IsBiz()
		out.Data = e.Data()
	} else {
		out.Code = string(errx.CodeInternal)
		out.Family = string(errx.FamilySystem)
	}

	var sp interface{ Stack() []uintptr }
	if errors.As(err, &sp) {
		out.Origin, out.Stack = formatStack(sp.Stack(), 32)
	}
	out.CauseChain = causeChain(err, 20)
	return out
}

func causeChain(err error, maxDepth int) []string {
	var out []string
	cur := errors.Unwrap(err)
	for i := 0; i < maxDepth && cur != nil; i++ {
		out = append(out, fmt.Sprintf("%T: %v", cur, cur))
		cur = errors.Unwrap(cur)
	}
	return out
}

func formatStack(pcs []uintptr, maxFrames int) (origin string, stack string) {
	if len(pcs) == 0 {
		return "", ""
	}
	frames := runtime.CallersFrames(pcs)
	lines := make([]string, 0, maxFrames)
	for i := 0; i < maxFrames; i++ {
		f, more := frames.Next()
		if f.Function == "" && f.File == "" {
			break
		}
		line := f.Function + " " + f.File + ":" + strconv.Itoa(f.Line)
		if origin == "" {
			origin = line
		}
		lines = append(lines, line)
		if !more {
			break
		}
	}
	return origin, strings.Join(lines, "\n")
}
