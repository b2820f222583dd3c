package errx

// 系统类错误码：依赖故障、超时、限流等技术问题统一归到这里。
// 领域错误码由各自的包按 Family 定义，不放在 kit 里。

const FamilySystem Family = "SYSTEM"

const (
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeUnavailable  Code = "SERVICE_UNAVAILABLE"
	CodeTimeout      Code = "TIMEOUT"
	CodeRateLimited  Code = "RATE_LIMITED"
	CodeInvalidParam Code = "INVALID_PARAM"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeShuttingDown Code = "SHUTTING_DOWN"
)

var (
	ErrInternal     = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable  = NewSys(CodeUnavailable, "服务不可用")
	ErrTimeout      = NewSys(CodeTimeout, "请求超时")
	ErrRateLimited  = NewSys(CodeRateLimited, "请求过于频繁")
	ErrInvalidParam = NewSys(CodeInvalidParam, "请求参数错误")
	ErrUnauthorized = NewSys(CodeUnauthorized, "未登录或令牌无效")
	ErrShuttingDown = NewSys(CodeShuttingDown, "服务正在关闭")
)
