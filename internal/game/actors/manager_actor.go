package actors

import (
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"Civilization/internal/game/app/port"
	"Civilization/internal/game/entity"
	"Civilization/internal/shared/actor/messages"
	"Civilization/modules/kit/errx"
	"Civilization/modules/kit/logx"
)

type GameID = entity.GameID

// Options 对局 actor 的运行参数。
type Options struct {
	FlushEvery  time.Duration
	IdleTimeout time.Duration
	Log         logx.Logger
}

// retireGame 对局 actor 空闲或关闭后请求 manager 回收自己。
type retireGame struct {
	ID  GameID
	PID *actor.PID
}

type stashed struct {
	msg    any
	sender *actor.PID
}

// ManagerActor 按对局 id 转发请求，同一局的命令只在一个子 actor 里串行执行。
type ManagerActor struct {
	repo       port.GameRepository
	opts       Options
	gameActors map[GameID]*actor.PID
	pidGames   map[string]GameID

	// 正在退出的对局：新请求先暂存，等旧 actor 落库退出后再转给新 actor
	retiring map[GameID][]stashed
}

func NewManagerActor(repo port.GameRepository, opts Options) *ManagerActor {
	if opts.Log == nil {
		opts.Log = logx.Nop()
	}
	return &ManagerActor{
		repo:       repo,
		opts:       opts,
		gameActors: make(map[GameID]*actor.PID),
		pidGames:   make(map[string]GameID),
		retiring:   make(map[GameID][]stashed),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *retireGame:
		m.retire(ctx, msg)
	case *actor.Terminated:
		m.onTerminated(ctx, msg.Who)
	case messages.GameMessage:
		m.route(ctx, msg)
	}
}

func (m *ManagerActor) route(ctx actor.Context, req messages.GameMessage) {
	id := GameID(req.GameID())
	if id <= 0 {
		ctx.Respond(fail(entity.ErrGameNotFound.WithData("game_id", int64(id))))
		return
	}

	var seed *entity.Game
	if c, ok := req.(*messages.HGCreateGame); ok {
		if c.Game == nil || c.Game.ID() != id {
			ctx.Respond(fail(errx.ErrInvalidParam.WithReason("create game without matching entity")))
			return
		}
		if _, exists := m.gameActors[id]; exists {
			ctx.Respond(fail(errx.ErrInvalidParam.WithReason("game id already hosted").WithData("game_id", int64(id))))
			return
		}
		seed = c.Game
	}

	if _, ok := m.retiring[id]; ok {
		m.retiring[id] = append(m.retiring[id], stashed{msg: req, sender: ctx.Sender()})
		return
	}
	ctx.Forward(m.getOrSpawn(ctx, id, seed))
}

func (m *ManagerActor) getOrSpawn(ctx actor.Context, id GameID, seed *entity.Game) *actor.PID {
	if pid, ok := m.gameActors[id]; ok && pid != nil {
		return pid
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewGameActor(id, seed, m.repo, m.opts)
	})
	// ManagerActor 创建子 actor，子 actor 退出时收到 Terminated
	pid := ctx.Spawn(props)
	m.gameActors[id] = pid
	m.pidGames[pid.String()] = id
	return pid
}

func (m *ManagerActor) retire(ctx actor.Context, msg *retireGame) {
	pid, ok := m.gameActors[msg.ID]
	if !ok || !pid.Equal(msg.PID) {
		return
	}
	if _, already := m.retiring[msg.ID]; already {
		return
	}
	m.retiring[msg.ID] = nil
	// Poison 排在已转发的请求之后，先处理完再停
	ctx.Poison(pid)
}

func (m *ManagerActor) onTerminated(ctx actor.Context, who *actor.PID) {
	if who == nil {
		return
	}
	id, ok := m.pidGames[who.String()]
	if !ok {
		return
	}
	delete(m.pidGames, who.String())
	if pid, ok := m.gameActors[id]; ok && pid.Equal(who) {
		delete(m.gameActors, id)
	}

	pending, wasRetiring := m.retiring[id]
	delete(m.retiring, id)
	if !wasRetiring || len(pending) == 0 {
		return
	}
	pid := m.getOrSpawn(ctx, id, nil)
	for _, s := range pending {
		ctx.RequestWithCustomSender(pid, s.msg, s.sender)
	}
}
