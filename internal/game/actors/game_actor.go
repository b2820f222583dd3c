package actors

import (
	"context"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"Civilization/internal/game/app/port"
	"Civilization/internal/game/dc"
	"Civilization/internal/game/entity"
	"Civilization/internal/shared/actor/messages"
	"Civilization/modules/kit/errx"
	"Civilization/modules/kit/logx"
)

type State int

const (
	None State = iota
	Init
	Online
	Offline
	Stopping
)

const (
	loadTimeout  = 5 * time.Second
	closeTimeout = 3 * time.Second
)

// GameActor 持有一局对局，命令在这里串行执行并提交。
type GameActor struct {
	state      State
	gameID     GameID
	dc         *dc.GameDC
	entity     *entity.Game
	seed       *entity.Game
	loadErr    error
	discarded  bool
	idle       time.Duration
	log        logx.Logger
	dispatcher *Dispatcher
	flushStop  chan struct{}
}

type flushTick struct{}

func (flushTick) NotInfluenceReceiveTimeout() {}

// NewGameActor seed 非空时接管新建对局，否则从存档加载。
func NewGameActor(id GameID, seed *entity.Game, repo port.GameRepository, opts Options) *GameActor {
	log := opts.Log
	if log == nil {
		log = logx.Nop()
	}
	log = log.With(zap.Int64("game_id", int64(id)))
	return &GameActor{
		state:      None,
		gameID:     id,
		seed:       seed,
		idle:       opts.IdleTimeout,
		log:        log,
		dc:         dc.NewGameDC(repo, opts.FlushEvery, log),
		dispatcher: NewDispatcher(),
	}
}

func (p *GameActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		p.state = Init
		p.init(ctx)
		return
	case *actor.Stopping:
		p.stopFlushLoop()
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := p.dc.Close(closeCtx); err != nil {
			logx.ReportFailure(closeCtx, p.log, "game.actor.close", err)
		}
		p.state = Stopping
		return
	case *actor.Stopped:
		p.stopFlushLoop()
		p.state = Offline
		return
	case *actor.Restarting:
		p.stopFlushLoop()
		p.state = Init
		return
	case *actor.ReceiveTimeout:
		p.log.Debug("对局空闲，回收 actor")
		p.retire(ctx)
		return
	case flushTick:
		if p.state != Online {
			return
		}
		if err := p.dc.Flush(context.TODO()); err != nil {
			logx.ReportFailure(context.TODO(), p.log, "game.actor.flush", err)
		}
		return
	case messages.GameMessage:
		if p.state != Online {
			if p.loadErr != nil {
				ctx.Respond(fail(p.loadErr))
				return
			}
			ctx.Respond(fail(errx.ErrUnavailable.WithReason("game not online").WithData("game_id", int64(p.gameID))))
			return
		}
		p.dispatcher.Dispatch(ctx, p, msg)
	default:
		return
	}
}

func (p *GameActor) init(ctx actor.Context) {
	if p.seed != nil {
		p.dc.Adopt(p.seed)
		p.entity = p.seed
		p.seed = nil
	} else {
		loadCtx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		e, err := p.dc.Load(loadCtx, p.gameID)
		cancel()
		if err != nil {
			// 请求方收到加载错误，actor 交回 manager 回收
			p.loadErr = err
			p.state = Offline
			logx.Report(context.TODO(), p.log, "game.actor.load", err)
			p.retire(ctx)
			return
		}
		p.entity = e
	}
	p.state = Online
	p.startFlushLoop(ctx)
	if p.idle > 0 {
		ctx.SetReceiveTimeout(p.idle)
	}
}

// retire 只通知 manager，真正的停止由 manager 投递 Poison。
func (p *GameActor) retire(ctx actor.Context) {
	ctx.CancelReceiveTimeout()
	if ctx.Parent() == nil {
		ctx.Poison(ctx.Self())
		return
	}
	ctx.Send(ctx.Parent(), &retireGame{ID: p.gameID, PID: ctx.Self()})
}

// discard closeGame 之后删除存档并退出。
func (p *GameActor) discard(ctx actor.Context) {
	if p.discarded {
		return
	}
	p.discarded = true
	p.stopFlushLoop()
	delCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := p.dc.Discard(delCtx); err != nil {
		logx.ReportFailure(delCtx, p.log, "game.actor.discard", err)
	}
	p.retire(ctx)
}

func (p *GameActor) GameID() GameID {
	return p.gameID
}

func (p *GameActor) Entity() *entity.Game {
	return p.entity
}

func (p *GameActor) DC() *dc.GameDC {
	return p.dc
}

func (p *GameActor) startFlushLoop(ctx actor.Context) {
	if p.flushStop != nil {
		return
	}
	interval := p.dc.FlushEvery()
	if interval <= 0 {
		return
	}
	p.flushStop = make(chan struct{})
	self := ctx.Self()
	root := ctx.ActorSystem().Root

	go func(stop <-chan struct{}, every time.Duration) {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				root.Send(self, flushTick{})
			case <-stop:
				return
			}
		}
	}(p.flushStop, interval)
}

func (p *GameActor) stopFlushLoop() {
	if p.flushStop == nil {
		return
	}
	close(p.flushStop)
	p.flushStop = nil
}
