package errx

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Code 是错误的稳定标识，格式为 <FAMILY>_<NAME>，跨进程/跨协议保持不变。
type Code string

// Family 是错误族（UNIT/CITY/TILE/RESEARCH/BUILDING/GAME ...），用于分类映射。
type Family string

type kind uint8

const (
	kindBiz kind = iota
	kindSys
)

// Error 是通用错误模型：
// - code/msg：对外语义
// - family：错误族，决定接口层的映射规则
// - data：附加上下文（只读，派生时复制）
// - cause：底层错误链，只用于溯源
// - stack：系统类错误第一次挂 cause 时捕获
type Error struct {
	code   Code
	family Family
	msg    string
	data   map[string]any
	cause  error
	stack  []uintptr
	kind   kind
}

// NewBiz 创建业务拒绝类错误（规则不满足，调用方可预期），不会捕获栈。
func NewBiz(code Code, msg string) *Error {
	return &Error{code: code, family: familyFromCode(code), msg: msg, kind: kindBiz}
}

// NewSys 创建系统类错误（依赖故障、超时等）。
func NewSys(code Code, msg string) *Error {
	return &Error{code: code, family: FamilySystem, msg: msg, kind: kindSys}
}

// Biz 在错误族下定义一个业务错误：UNIT.Biz("NOT_FOUND", ...) => UNIT_NOT_FOUND。
func (f Family) Biz(name, msg string) *Error {
	return &Error{code: Code(string(f) + "_" + name), family: f, msg: msg, kind: kindBiz}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(string(e.code))
	if e.msg != "" {
		b.WriteString(": ")
		b.WriteString(e.msg)
	}
	if e.cause != nil {
		fmt.Fprintf(&b, ": %v", e.cause)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is 只比较 code，msg/data/cause 不参与语义判断。
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return false
	}
	t, ok := target.(*Error)
	return ok && t != nil && e.code == t.code
}

func (e *Error) Code() Code {
	if e == nil {
		return ""
	}
	return e.code
}

func (e *Error) CodeText() string { return string(e.Code()) }

func (e *Error) Family() Family {
	if e == nil {
		return ""
	}
	return e.family
}

func (e *Error) Msg() string {
	if e == nil {
		return ""
	}
	return e.msg
}

func (e *Error) IsBiz() bool { return e != nil && e.kind == kindBiz }

// Data 返回拷贝。
func (e *Error) Data() map[string]any {
	if e == nil {
		return nil
	}
	return cloneAnyMap(e.data)
}

// Reason 读取 data.reason。
func (e *Error) Reason() string {
	if e == nil {
		return ""
	}
	s, _ := e.data["reason"].(string)
	return s
}

func (e *Error) Stack() []uintptr {
	if e == nil {
		return nil
	}
	return cloneStack(e.stack)
}

func (e *Error) WithData(key string, value any) *Error {
	next := e.clone()
	if next.data == nil {
		next.data = make(map[string]any, 1)
	}
	next.data[key] = value
	return next
}

func (e *Error) WithDataMap(data map[string]any) *Error {
	next := e.clone()
	if len(data) == 0 {
		return next
	}
	if next.data == nil {
		next.data = make(map[string]any, len(data))
	}
	for k, v := range data {
		next.data[k] = v
	}
	return next
}

func (e *Error) WithReason(reason string) *Error {
	return e.WithData("reason", reason)
}

func (e *Error) WithCause(cause error) *Error {
	next := e.clone()
	next.cause = cause
	// 下层链路里已经有栈就不再重复捕获
	if next.kind == kindSys && cause != nil && len(next.stack) == 0 && !hasStackInChain(cause) {
		next.stack = captureStack(3)
	}
	return next
}

func (e *Error) clone() *Error {
	return &Error{
		code:   e.code,
		family: e.family,
		msg:    e.msg,
		data:   cloneAnyMap(e.data),
		cause:  e.cause,
		stack:  cloneStack(e.stack),
		kind:   e.kind,
	}
}

// CodeOf 取错误链上第一个 *Error 的 code，没有则返回 CodeInternal。
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	return CodeInternal
}

// FamilyOf 取错误链上第一个 *Error 的错误族。
func FamilyOf(err error) Family {
	var e *Error
	if errors.As(err, &e) {
		return e.family
	}
	return FamilySystem
}

// IsBiz 判断错误链上是否是业务拒绝。
func IsBiz(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.IsBiz()
}

func familyFromCode(code Code) Family {
	s := string(code)
	if i := strings.IndexByte(s, '_'); i > 0 {
		return Family(s[:i])
	}
	return Family(s)
}

func cloneAnyMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneStack(in []uintptr) []uintptr {
	if len(in) == 0 {
		return nil
	}
	out := make([]uintptr, len(in))
	copy(out, in)
	return out
}

func captureStack(skip int) []uintptr {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(skip, pcs)
	if n <= 0 {
		return nil
	}
	return pcs[:n]
}

func hasStackInChain(err error) bool {
	for i := 0; i < 32 && err != nil; i++ {
		if sp, ok := err.(interface{ Stack() []uintptr }); ok && len(sp.Stack()) != 0 {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
