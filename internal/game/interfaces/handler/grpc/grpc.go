package grpc

import (
	"context"
	"encoding/json"

	"Civilization/internal/game/entity"
	"Civilization/internal/game/interfaces/handler"
	"Civilization/internal/game/interfaces/handler/dto"
	"Civilization/internal/game/service"
	"Civilization/modules/kit/errx"
	"Civilization/modules/kit/tracex"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

type GrpcHandler struct {
	game *handler.Game
}

func NewGrpcHandler(g *handler.Game) *GrpcHandler {
	return &GrpcHandler{game: g}
}

var _ GameServiceServer = (*GrpcHandler)(nil)

// executeReq 与 ws 的 game.command 同形；structpb 的数字是 float64，game_id 和 seed 走字符串。
type executeReq struct {
	GameID  int64           `json:"game_id,string"`
	Command string          `json:"command"`
	Args    json.RawMessage `json:"args"`
	Seed    *service.Seed   `json:"seed"`
}

func (h *GrpcHandler) Create(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	ctx = tracex.WithSpanID(ctx, "game")
	uid, err := h.uid(ctx)
	if err != nil {
		return nil, handler.ToRPCError(err)
	}
	var req service.CreateInput
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	view, err := h.game.Service.CreateGame(ctx, uid, req)
	if err != nil {
		return nil, h.report(ctx, "grpc.create", err)
	}
	return encode(view)
}

func (h *GrpcHandler) Execute(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	ctx = tracex.WithSpanID(ctx, "game")
	uid, err := h.uid(ctx)
	if err != nil {
		return nil, handler.ToRPCError(err)
	}
	var req executeReq
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	if req.GameID <= 0 || req.Command == "" {
		return nil, status.Error(codes.InvalidArgument, "game_id and command are required")
	}
	out, err := h.game.Service.ExecuteCommand(ctx, uid, entity.GameID(req.GameID), service.ExecuteInput{
		Command: req.Command,
		Args:    req.Args,
		Seed:    req.Seed,
	})
	if err != nil {
		return nil, h.report(ctx, "grpc.execute", err)
	}
	return encode(out)
}

func (h *GrpcHandler) Snapshot(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	ctx = tracex.WithSpanID(ctx, "game")
	id, uid, err := h.gameRequest(ctx, in)
	if err != nil {
		return nil, err
	}
	view, err := h.game.Service.GetGame(ctx, uid, id)
	if err != nil {
		return nil, h.report(ctx, "grpc.snapshot", err)
	}
	return encode(view)
}

func (h *GrpcHandler) Journal(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	ctx = tracex.WithSpanID(ctx, "game")
	id, uid, err := h.gameRequest(ctx, in)
	if err != nil {
		return nil, err
	}
	entries, err := h.game.Service.Journal(ctx, uid, id)
	if err != nil {
		return nil, h.report(ctx, "grpc.journal", err)
	}
	return encode(dto.NewJournalResp(int64(id), entries))
}

func (h *GrpcHandler) gameRequest(ctx context.Context, in *structpb.Struct) (entity.GameID, string, error) {
	uid, err := h.uid(ctx)
	if err != nil {
		return 0, "", handler.ToRPCError(err)
	}
	var req dto.GameReq
	if err := decode(in, &req); err != nil {
		return 0, "", err
	}
	if req.GameID <= 0 {
		return 0, "", status.Error(codes.InvalidArgument, "game_id is required")
	}
	return entity.GameID(req.GameID), uid, nil
}

// uid 取 metadata 里的 authorization: Bearer <jwt>，没有则匿名。
func (h *GrpcHandler) uid(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", nil
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return "", nil
	}
	return handler.Authenticate(handler.BearerToken(values[0]))
}

// report 服务层已按拒绝/故障记过日志，这里只补一条 rpc 维度的调试日志。
func (h *GrpcHandler) report(ctx context.Context, action string, err error) error {
	h.game.Log.WithContext(ctx).Debug(action+" failed", zap.Error(err))
	return handler.ToRPCError(err)
}

func decode(in *structpb.Struct, dst any) error {
	if in == nil {
		return nil
	}
	raw, err := protojson.Marshal(in)
	if err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return nil
}

func encode(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, handler.ToRPCError(errx.ErrInternal.WithCause(err))
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, handler.ToRPCError(errx.ErrInternal.WithCause(err))
	}
	return out, nil
}
