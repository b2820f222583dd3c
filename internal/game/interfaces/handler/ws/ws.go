package ws

import (
	"context"
	"encoding/json"

	"Civilization/internal/game/entity"
	"Civilization/internal/game/interfaces/handler"
	"Civilization/internal/game/interfaces/handler/dto"
	"Civilization/internal/game/service"
	"Civilization/internal/shared/transport"
	"Civilization/internal/shared/transport/ws"

	"go.uber.org/zap"
)

// PushState 命令提交后推给观战连接的消息名。
const PushState = "game.state"

type WsHandler struct {
	game *handler.Game
}

func NewWsHandler(g *handler.Game) *WsHandler {
	h := &WsHandler{game: g}
	if g.Session != nil {
		g.Service.OnCommitted(h.broadcast)
	}
	return h
}

func (h *WsHandler) RegisterRoutes(r *ws.Router) {
	gameGroup := r.Group("game")
	gameGroup.Handle("auth", h.Auth)
	gameGroup.Handle("create", h.Create)
	gameGroup.Handle("command", h.Command)
	gameGroup.Handle("state", h.State)
	gameGroup.Handle("journal", h.Journal)
	gameGroup.Handle("watch", h.Watch)
	gameGroup.Handle("unwatch", h.Unwatch)
}

// Auth 把 token 里的 uid 绑定到连接，之后的请求不必再带 token。
func (h *WsHandler) Auth(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	if !valid(wsReq, wsResp) {
		wsResp.Fail(transport.InvalidParam, "参数有误")
		return
	}
	var req dto.AuthReq
	if err := ws.BindJSON(wsReq, &req); err != nil {
		wsResp.Fail(transport.InvalidParam, "参数有误")
		return
	}
	uid, err := handler.Authenticate(req.Token)
	if err != nil {
		h.error(ctx, wsResp, err)
		return
	}
	wsReq.Conn.SetProperty(ws.ConnKeyUID, uid)
	if h.game.Session != nil {
		h.game.Session.Bind(uid, wsReq.Conn)
	}
	wsResp.OK(dto.AuthResp{UID: uid})
}

func (h *WsHandler) Create(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	if !valid(wsReq, wsResp) {
		wsResp.Fail(transport.InvalidParam, "参数有误")
		return
	}
	var req service.CreateInput
	if err := ws.BindJSON(wsReq, &req); err != nil {
		wsResp.Fail(transport.InvalidParam, "参数有误")
		return
	}
	uid, err := h.uid(wsReq)
	if err != nil {
		h.error(ctx, wsResp, err)
		return
	}
	view, err := h.game.Service.CreateGame(ctx, uid, req)
	if err != nil {
		h.error(ctx, wsResp, err)
		return
	}
	// 创建者默认观战自己的对局
	if h.game.Session != nil {
		h.game.Session.Watch(view.GameID, wsReq.Conn)
	}
	wsResp.OK(view)
}

func (h *WsHandler) Command(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	if !valid(wsReq, wsResp) {
		wsResp.Fail(transport.InvalidParam, "参数有误")
		return
	}
	var req dto.CommandReq
	if err := ws.BindJSON(wsReq, &req); err != nil || req.GameID <= 0 || req.Command == "" {
		wsResp.Fail(transport.InvalidParam, "参数有误")
		return
	}
	transport.AddFields(ctx, zap.Int64("game_id", req.GameID), zap.String("command", req.Command))
	var args json.RawMessage
	if len(req.Args) > 0 {
		raw, err := json.Marshal(req.Args)
		if err != nil {
			wsResp.Fail(transport.InvalidParam, "参数有误")
			return
		}
		args = raw
	}
	uid, err := h.uid(wsReq)
	if err != nil {
		h.error(ctx, wsResp, err)
		return
	}

	out, err := h.game.Service.ExecuteCommand(ctx, uid, entity.GameID(req.GameID), service.ExecuteInput{
		Command: req.Command,
		Args:    args,
		Seed:    req.Seed,
	})
	if err != nil {
		h.error(ctx, wsResp, err)
		return
	}
	wsResp.OK(out)
}

func (h *WsHandler) State(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	id, uid, ok := h.gameRequest(ctx, wsReq, wsResp)
	if !ok {
		return
	}
	view, err := h.game.Service.GetGame(ctx, uid, id)
	if err != nil {
		h.error(ctx, wsResp, err)
		return
	}
	wsResp.OK(view)
}

func (h *WsHandler) Journal(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	id, uid, ok := h.gameRequest(ctx, wsReq, wsResp)
	if !ok {
		return
	}
	entries, err := h.game.Service.Journal(ctx, uid, id)
	if err != nil {
		h.error(ctx, wsResp, err)
		return
	}
	wsResp.OK(dto.NewJournalResp(int64(id), entries))
}

// Watch 先按归属校验再订阅，回包带当前状态。
func (h *WsHandler) Watch(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	id, uid, ok := h.gameRequest(ctx, wsReq, wsResp)
	if !ok {
		return
	}
	if h.game.Session == nil {
		wsResp.Fail(transport.Unavailable, "推送未开启")
		return
	}
	view, err := h.game.Service.GetGame(ctx, uid, id)
	if err != nil {
		h.error(ctx, wsResp, err)
		return
	}
	h.game.Session.Watch(int64(id), wsReq.Conn)
	wsResp.OK(view)
}

func (h *WsHandler) Unwatch(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	id, _, ok := h.gameRequest(ctx, wsReq, wsResp)
	if !ok {
		return
	}
	if h.game.Session != nil {
		h.game.Session.Unwatch(int64(id), wsReq.Conn)
	}
	wsResp.OK(nil)
}

func (h *WsHandler) broadcast(ctx context.Context, out *service.CommandOutcome) {
	n := h.game.Session.Broadcast(out.View.GameID, PushState, out)
	if n > 0 {
		h.game.Log.WithContext(ctx).Debug("推送对局状态",
			zap.Int64("game_id", out.View.GameID),
			zap.Int("watchers", n),
		)
	}
}

func (h *WsHandler) gameRequest(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) (entity.GameID, string, bool) {
	if !valid(wsReq, wsResp) {
		wsResp.Fail(transport.InvalidParam, "参数有误")
		return 0, "", false
	}
	var req dto.GameReq
	if err := ws.BindJSON(wsReq, &req); err != nil || req.GameID <= 0 {
		wsResp.Fail(transport.InvalidParam, "参数有误")
		return 0, "", false
	}
	uid, err := h.uid(wsReq)
	if err != nil {
		h.error(ctx, wsResp, err)
		return 0, "", false
	}
	return entity.GameID(req.GameID), uid, true
}

// uid 优先取请求里的 token，其次是 game.auth 绑定在连接上的 uid。
func (h *WsHandler) uid(wsReq *ws.WsMsgReq) (string, error) {
	var req dto.AuthReq
	if err := ws.BindJSON(wsReq, &req); err == nil && req.Token != "" {
		return handler.Authenticate(req.Token)
	}
	if uid, ok := wsReq.Conn.GetProperty(ws.ConnKeyUID).(string); ok {
		return uid, nil
	}
	if h.game.Session != nil {
		if uid, ok := h.game.Session.UID(wsReq.Conn); ok {
			return uid, nil
		}
	}
	return "", nil
}

func valid(wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) bool {
	return wsReq != nil && wsReq.Body != nil && wsReq.Conn != nil && wsResp != nil && wsResp.Body != nil
}


func (h *WsHandler) error(ctx context.Context, wsResp *ws.WsMsgResp, err error) {
	code, msg := handler.HandleError(ctx, err)
	wsResp.Fail(code, msg)
}
