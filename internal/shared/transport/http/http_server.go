package http

import (
	"context"
	"errors"
	nethttp "net/http"
	"time"

	"Civilization/internal/shared/transport/http/middleware"
	"Civilization/modules/kit/logx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Registrar 业务模块向 HTTP 路由组注册自己的 handler。
type Registrar interface {
	HttpRegister(g *gin.RouterGroup)
}

// Options 为零值时只有 recovery、跨域、访问日志和 /healthz。
type Options struct {
	Middlewares []gin.HandlerFunc
	// Mounts 按路径挂载原生 handler，例如 /metrics、/ws。
	// 路径以 /* 结尾时匹配子路径。
	Mounts map[string]nethttp.Handler
	// ShutdownTimeout Run 收到取消后等待在途请求的时长，默认 10s。
	ShutdownTimeout time.Duration
}

type Server struct {
	engine  *gin.Engine
	srv     *nethttp.Server
	log     logx.Logger
	timeout time.Duration
}

func NewHttpServer(addr string, logger logx.Logger, opts Options) *Server {
	if logger == nil {
		logger = logx.Nop()
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), middleware.Cors(), middleware.AccessLog(logger))
	engine.Use(opts.Middlewares...)
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"status": "ok"})
	})
	for path, h := range opts.Mounts {
		engine.Any(path, gin.WrapH(h))
	}

	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Server{
		engine:  engine,
		log:     logger,
		timeout: timeout,
		srv: &nethttp.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Register 把各业务模块挂到根路由组。
func (s *Server) Register(mods ...Registrar) {
	g := s.engine.Group("")
	for _, m := range mods {
		m.HttpRegister(g)
	}
}

// Run 阻塞到 ctx 取消或监听失败；取消时优雅关闭，返回 nil。
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", s.srv.Addr))
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, nethttp.ErrServerClosed) {
		return err
	}
	return nil
}

// Handler 测试里直接 ServeHTTP 用。
func (s *Server) Handler() nethttp.Handler {
	return s.engine
}
