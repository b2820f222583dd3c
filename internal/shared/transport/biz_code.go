package transport

import (
	"errors"

	"Civilization/modules/kit/errx"
)

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 通用业务码。1~499 是可预期的拒绝，>=500 是服务端故障。
const (
	OK           = 0
	InvalidParam = 400
	Unauthorized = 401
	Forbidden    = 403
	NotFound     = 404
	RateLimited  = 429
	SystemError  = 500
	Unavailable  = 503
	Timeout      = 504
)

// SysCode 技术错误到业务码的映射，非 errx 错误一律 SystemError。
func SysCode(err error) int {
	switch {
	case err == nil:
		return OK
	case errors.Is(err, errx.ErrInvalidParam):
		return InvalidParam
	case errors.Is(err, errx.ErrUnauthorized):
		return Unauthorized
	case errors.Is(err, errx.ErrRateLimited):
		return RateLimited
	case errors.Is(err, errx.ErrTimeout):
		return Timeout
	case errors.Is(err, errx.ErrUnavailable), errors.Is(err, errx.ErrShuttingDown):
		return Unavailable
	}
	return SystemError
}
