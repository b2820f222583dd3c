package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"strconv"

	"Civilization/internal/game/entity"
	"Civilization/internal/game/interfaces/handler"
	"Civilization/internal/game/interfaces/handler/dto"
	"Civilization/internal/game/service"
	"Civilization/internal/shared/transport"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const ctxKeyUID = "uid"

type HttpHandler struct {
	game *handler.Game
}

func NewHttpHandler(g *handler.Game) *HttpHandler {
	return &HttpHandler{game: g}
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	games := group.Group("/api/games", Auth())
	games.POST("", h.Create)
	games.GET("/:id", h.Get)
	games.GET("/:id/journal", h.Journal)
	games.POST("/:id/commands/:name", h.Command)
	games.DELETE("/:id", h.Close)
}

// Auth 可选的 Bearer JWT；带了但无效直接 401。
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, err := handler.Authenticate(handler.BearerToken(c.GetHeader("Authorization")))
		if err != nil {
			code, msg := handler.HandleError(c.Request.Context(), err)
			transport.SetBizCode(c.Request.Context(), transport.BizCode(code))
			c.AbortWithStatusJSON(nethttp.StatusUnauthorized, dto.Error(code, msg))
			return
		}
		c.Set(ctxKeyUID, uid)
		c.Next()
	}
}

func (h *HttpHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req service.CreateInput
	if err := bindOptionalJSON(c, &req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	view, err := h.game.Service.CreateGame(ctx, c.GetString(ctxKeyUID), req)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, view)
}

func (h *HttpHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := h.gameID(c)
	if !ok {
		return
	}
	view, err := h.game.Service.GetGame(ctx, c.GetString(ctxKeyUID), id)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, view)
}

func (h *HttpHandler) Journal(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := h.gameID(c)
	if !ok {
		return
	}
	entries, err := h.game.Service.Journal(ctx, c.GetString(ctxKeyUID), id)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, dto.NewJournalResp(int64(id), entries))
}

// commandBody 命令参数平铺在请求体里，seed 可选。
type commandBody struct {
	Seed *service.Seed `json:"seed"`
}

func (h *HttpHandler) Command(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := h.gameID(c)
	if !ok {
		return
	}

	transport.AddFields(ctx, zap.Int64("game_id", int64(id)), zap.String("command", c.Param("name")))

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	var body commandBody
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			h.fail(c, transport.InvalidParam, "参数有误")
			return
		}
	}

	out, err := h.game.Service.ExecuteCommand(ctx, c.GetString(ctxKeyUID), id, service.ExecuteInput{
		Command: c.Param("name"),
		Args:    raw,
		Seed:    body.Seed,
	})
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, out)
}

func (h *HttpHandler) Close(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := h.gameID(c)
	if !ok {
		return
	}
	out, err := h.game.Service.CloseGame(ctx, c.GetString(ctxKeyUID), id)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, out)
}

func (h *HttpHandler) gameID(c *gin.Context) (entity.GameID, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.fail(c, transport.InvalidParam, "对局 id 有误")
		return 0, false
	}
	return entity.GameID(id), true
}

func bindOptionalJSON(c *gin.Context, dst any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	transport.SetBizCode(c.Request.Context(), transport.OK)
	c.JSON(nethttp.StatusOK, dto.Success(transport.OK, data))
}

func (h *HttpHandler) fail(c *gin.Context, code int, msg string) {
	transport.SetBizCode(c.Request.Context(), transport.BizCode(code))
	c.JSON(nethttp.StatusOK, dto.Error(code, msg))
}

func (h *HttpHandler) error(ctx context.Context, c *gin.Context, err error) {
	code, msg := handler.HandleError(ctx, err)
	h.fail(c, code, msg)
}
