package dto

// Envelope HTTP 与 gRPC 回包统一外壳；HTTP 状态码恒为 200，结果看 code。
type Envelope struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

func Success(code int, data any) Envelope {
	return Envelope{Code: code, Msg: "ok", Data: data}
}

func Error(code int, msg string) Envelope {
	return Envelope{Code: code, Msg: msg}
}
