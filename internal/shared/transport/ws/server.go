package ws

import (
	"net/http"

	"Civilization/modules/kit/logx"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Server struct {
	router   *Router
	log      logx.Logger
	opts     Options
	upgrader websocket.Upgrader
	onOpen   func(conn WSConn)
}

func NewServer(r *Router, l logx.Logger, opts Options) *Server {
	if l == nil {
		l = logx.Nop()
	}
	return &Server{
		router: r,
		log:    l,
		opts:   opts,
		upgrader: websocket.Upgrader{
			// 允许所有 CORS 跨域请求
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// OnOpen 握手完成后的回调，例如把连接交给会话管理。
func (s *Server) OnOpen(fn func(conn WSConn)) {
	s.onOpen = fn
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	wsConn, err := s.upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.Error("websocket upgrade error", zap.Error(err))
		return
	}
	s.log.Debug("websocket upgrade success", zap.String("addr", wsConn.RemoteAddr().String()))

	wsServer := NewWsServer(wsConn, s.log, s.opts)
	wsServer.Router(s.router)
	wsServer.handshake()
	if s.onOpen != nil {
		s.onOpen(wsServer)
	}
	wsServer.Run()
}
