package actors

import (
	"context"
	"encoding/json"
	"slices"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"Civilization/internal/game/engine"
	"Civilization/internal/game/entity"
	"Civilization/internal/shared/actor/messages"
	"Civilization/modules/kit/logx"
)

type GameHandler struct {
	now func() time.Time
}

var GH = &GameHandler{now: time.Now}

func (h *GameHandler) HandleCreate(ctx actor.Context, p *GameActor, req *messages.HGCreateGame) {
	// 新对局先同步落库，保证回执之后重启也能找回
	saveCtx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	if err := p.dc.FlushSync(saveCtx); err != nil {
		logx.ReportFailure(saveCtx, p.log, "game.create.save", err)
		ctx.Respond(fail(err))
		p.retire(ctx)
		return
	}
	ctx.Respond(&messages.GHCreateGame{View: messages.ViewOf(p.entity)})
}

func (h *GameHandler) HandleExecute(ctx actor.Context, p *GameActor, req *messages.HGExecute) {
	g := p.entity
	if !g.OwnedBy(req.Uid) {
		ctx.Respond(fail(entity.ErrGameForbidden.WithData("game_id", int64(g.ID()))))
		return
	}
	cmd, err := engine.DecodeCommand(req.Command, req.Args)
	if err != nil {
		ctx.Respond(fail(err))
		return
	}

	seed := g.NextSeed()
	if req.Seed != nil {
		seed = *req.Seed
	}
	prev := g.State()
	next, res, err := engine.Execute(prev, cmd, engine.NewSeededEntropy(seed))
	if err != nil {
		ctx.Respond(fail(err))
		return
	}

	g.Commit(next, entity.JournalEntry{
		Turn:    prev.Turn,
		Command: cmd.Name(),
		Args:    normalizeArgs(req.Args),
		Seed:    seed,
		At:      h.now(),
	})
	if !prev.Status.Terminal() && next.Status.Terminal() {
		p.log.Info("对局结束", zap.String("status", next.Status.String()), zap.Int("turn", next.Turn))
	}

	ctx.Respond(&messages.GHExecute{
		Result: res,
		Seed:   seed,
		Seq:    len(g.Journal()),
		View:   messages.ViewOf(g),
	})

	if g.Closed() {
		p.discard(ctx)
	}
}

func (h *GameHandler) HandleSnapshot(ctx actor.Context, p *GameActor, req *messages.HGSnapshot) {
	g := p.entity
	if !g.OwnedBy(req.Uid) {
		ctx.Respond(fail(entity.ErrGameForbidden.WithData("game_id", int64(g.ID()))))
		return
	}
	ctx.Respond(&messages.GHSnapshot{View: messages.ViewOf(g)})
}

func (h *GameHandler) HandleJournal(ctx actor.Context, p *GameActor, req *messages.HGJournal) {
	g := p.entity
	if !g.OwnedBy(req.Uid) {
		ctx.Respond(fail(entity.ErrGameForbidden.WithData("game_id", int64(g.ID()))))
		return
	}
	ctx.Respond(&messages.GHJournal{
		GameID:  int64(g.ID()),
		Entries: slices.Clone(g.Journal()),
	})
}

func normalizeArgs(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return slices.Clone(raw)
}
