package interfaces

import (
	"Civilization/internal/game/interfaces/handler"
	grpchandler "Civilization/internal/game/interfaces/handler/grpc"
	"Civilization/internal/game/interfaces/handler/http"
	ws2 "Civilization/internal/game/interfaces/handler/ws"
	"Civilization/internal/game/service"
	"Civilization/internal/shared/session"
	transporthttp "Civilization/internal/shared/transport/http"
	"Civilization/internal/shared/transport/ws"
	"Civilization/modules/kit/logx"

	"github.com/gin-gonic/gin"
	gogrpc "google.golang.org/grpc"
)

type Module struct {
	wsHandler   *ws2.WsHandler
	httpHandler *http.HttpHandler
	grpcHandler *grpchandler.GrpcHandler
}

func New(svc *service.GameService, s session.Manager, log logx.Logger) *Module {
	game := handler.NewGame(svc, s, log)
	return &Module{
		wsHandler:   ws2.NewWsHandler(game),
		httpHandler: http.NewHttpHandler(game),
		grpcHandler: grpchandler.NewGrpcHandler(game),
	}
}

func (m *Module) WsRegister(r *ws.Router) {
	m.wsHandler.RegisterRoutes(r)
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
}

func (m *Module) GrpcRegister(s gogrpc.ServiceRegistrar) {
	grpchandler.RegisterGameServiceServer(s, m.grpcHandler)
}

var _ ws.Registrar = (*Module)(nil)
var _ transporthttp.Registrar = (*Module)(nil)
