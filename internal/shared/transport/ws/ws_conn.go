package ws

import "Civilization/internal/shared/transport"

// ReqBody 客户端帧。Name 形如 "game.command"；Seq 原样带回给对应的响应。
type ReqBody struct {
	Seq   int64  `json:"seq"`
	Name  string `json:"name"`
	Msg   any    `json:"msg"`
	Proxy string `json:"proxy"`
}

// RespBody 响应与推送共用；推送的 Seq 为 0。
type RespBody struct {
	Seq  int64  `json:"seq"`
	Name string `json:"name"`
	Code int    `json:"code"`
	Msg  any    `json:"msg"`
}

type WsMsgReq struct {
	Body *ReqBody
	Conn WSConn
}

type WsMsgResp struct {
	Body *RespBody
}

// NewResp 按请求生成响应骨架，默认回显请求体。
func NewResp(req *ReqBody) *WsMsgResp {
	return &WsMsgResp{Body: &RespBody{Seq: req.Seq, Name: req.Name, Msg: req.Msg}}
}

func newPush(name string, data any) *WsMsgResp {
	return &WsMsgResp{Body: &RespBody{Name: name, Code: transport.OK, Msg: data}}
}

func (r *WsMsgResp) OK(data any) {
	if r == nil || r.Body == nil {
		return
	}
	r.Body.Code = transport.OK
	r.Body.Msg = data
}

func (r *WsMsgResp) Fail(code int, msg string) {
	if r == nil || r.Body == nil {
		return
	}
	r.Body.Code = code
	r.Body.Msg = msg
}

// Code 响应体缺失时按系统错误算。
func (r *WsMsgResp) Code() int {
	if r == nil || r.Body == nil {
		return transport.SystemError
	}
	return r.Body.Code
}

// WSConn 一条 ws 连接；属性表存握手密钥、uid 等会话数据。
type WSConn interface {
	SetProperty(key string, value any)
	GetProperty(key string) any
	RemoveProperty(key string)
	Addr() string
	Push(name string, data any)
	Close()
	// Done 连接关闭时关闭
	Done() <-chan struct{}
}

type Handshake struct {
	Key string `json:"key"`
}

type Heartbeat struct {
	CTime int64 `json:"ctime"`
	STime int64 `json:"stime"`
}

const (
	HandshakeMsg = "handshake"
	HeartbeatMsg = "heartbeat"
	// RateLimitedMsg 当前连接请求过快时的提示
	RateLimitedMsg = "rateLimited"

	SecretKey  = "secretKey"
	ConnKeyUID = "uid"
)
