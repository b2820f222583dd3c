package ws

import (
	"context"
	"sort"
	"strings"

	"Civilization/internal/shared/logs"
	"Civilization/internal/shared/transport"
	"Civilization/modules/kit/logx"
)

type HandlerFunc func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp)

// Registrar 业务模块向 ws 路由注册自己的 handler。
type Registrar interface {
	WsRegister(r *Router)
}

// Group 同一前缀下的一组路由，只用于注册。
type Group struct {
	prefix string
	router *Router
}

func (g *Group) Handle(name string, h HandlerFunc) {
	g.router.routes[g.prefix+"."+name] = h
}

// Router 按完整路由名 "<组>.<处理器>" 分发。
type Router struct {
	routes map[string]HandlerFunc
	log    logx.Logger
}

func NewRouter(l logx.Logger) *Router {
	if l == nil {
		l = logx.NewZapLogger(logs.Logger())
	}
	return &Router{routes: make(map[string]HandlerFunc), log: l}
}

func (r *Router) Group(prefix string) *Group {
	return &Group{prefix: prefix, router: r}
}

// Routes 已注册的完整路由名（排序后）。
func (r *Router) Routes() []string {
	out := make([]string, 0, len(r.routes))
	for name := range r.routes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Dispatch 每个请求恰好写一条访问日志；handler 漏设结果时按系统错误返回。
func (r *Router) Dispatch(req *WsMsgReq, resp *WsMsgResp) {
	action := "WS unknown"
	if req != nil && req.Body != nil {
		action = "WS " + req.Body.Name
	}
	ctx := transport.NewContext(action, "ws")
	defer func() {
		transport.SetBizCode(ctx, transport.BizCode(resp.Code()))
		transport.WriteAccessLog(ctx, r.log)
	}()

	if req == nil || req.Body == nil || resp == nil || resp.Body == nil {
		resp.Fail(transport.InvalidParam, "参数有误")
		return
	}
	resp.Fail(transport.SystemError, "")
	resp.Body.Msg = nil

	h, msg := r.lookup(req.Body.Name)
	if h == nil {
		resp.Fail(transport.InvalidParam, msg)
		return
	}
	h(ctx, req, resp)
}

func (r *Router) lookup(name string) (HandlerFunc, string) {
	prefix, handler, ok := strings.Cut(name, ".")
	if !ok || prefix == "" || handler == "" || strings.Contains(handler, ".") {
		return nil, "路由参数有误"
	}
	h := r.routes[name]
	if h == nil {
		return nil, "路由不存在"
	}
	return h, ""
}
