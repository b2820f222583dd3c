package middleware

import (
	"net/http"

	"Civilization/internal/shared/transport"
	"Civilization/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

// AccessLog 每个请求一条访问日志。业务码由 handler 通过 transport.SetBizCode 写入，
// 没写的按 HTTP 状态推断。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		ctx := transport.NewContextWithParent(c.Request.Context(), c.Request.Method+" "+route, "http")
		c.Request = c.Request.WithContext(ctx)
		defer transport.WriteAccessLog(ctx, log)

		c.Next()

		if _, set := transport.BizCodeOf(ctx); !set {
			transport.SetBizCode(ctx, statusBizCode(c.Writer.Status()))
		}
		if len(c.Errors) > 0 {
			transport.SetErrorReason(ctx, c.Errors.Last().Error())
		}
	}
}

func statusBizCode(status int) transport.BizCode {
	switch {
	case status >= http.StatusBadRequest:
		return transport.BizCode(status)
	default:
		return transport.BizCode(transport.OK)
	}
}
