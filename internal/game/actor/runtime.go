package actor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	protoactor "github.com/asynkron/protoactor-go/actor"

	"Civilization/internal/game/actors"
	"Civilization/internal/game/app/port"
	"Civilization/internal/game/entity"
	"Civilization/internal/shared/actor/messages"
	"Civilization/modules/kit/errx"
	"Civilization/modules/kit/logx"
)

const defaultAskTimeout = 3 * time.Second

type Options struct {
	AskTimeout  time.Duration
	FlushEvery  time.Duration
	IdleTimeout time.Duration
	Log         logx.Logger
}

// Runtime 对局 actor 系统的同步门面，供 service 调用。
type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration
}

func NewRuntime(repo port.GameRepository, opts Options) *Runtime {
	if opts.AskTimeout <= 0 {
		opts.AskTimeout = defaultAskTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(repo, actors.Options{
			FlushEvery:  opts.FlushEvery,
			IdleTimeout: opts.IdleTimeout,
			Log:         opts.Log,
		})
	})
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		timeout: opts.AskTimeout,
	}
}

// Shutdown 先让所有对局落库退出，再关闭 actor 系统。
func (r *Runtime) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}
	var err error
	if r.root != nil && r.manager != nil {
		done := make(chan error, 1)
		go func() { done <- r.root.PoisonFuture(r.manager).Wait() }()
		select {
		case err = <-done:
		case <-ctx.Done():
			err = ctx.Err()
		}
	}
	if r.system != nil {
		r.system.Shutdown()
	}
	return err
}

func (r *Runtime) Create(ctx context.Context, g *entity.Game) (messages.GameView, error) {
	if g == nil {
		return messages.GameView{}, errx.ErrInvalidParam.WithReason("nil game")
	}
	res, err := r.request(ctx, &messages.HGCreateGame{
		GameBaseMessage: messages.GameBaseMessage{GameId: int64(g.ID()), Uid: g.Owner()},
		Game:            g,
	})
	if err != nil {
		return messages.GameView{}, err
	}
	out, ok := res.(*messages.GHCreateGame)
	if !ok {
		return messages.GameView{}, unexpected(res)
	}
	return out.View, nil
}

func (r *Runtime) Execute(ctx context.Context, id entity.GameID, uid, command string, args json.RawMessage, seed *uint64) (*messages.GHExecute, error) {
	res, err := r.request(ctx, &messages.HGExecute{
		GameBaseMessage: messages.GameBaseMessage{GameId: int64(id), Uid: uid},
		Command:         command,
		Args:            args,
		Seed:            seed,
	})
	if err != nil {
		return nil, err
	}
	out, ok := res.(*messages.GHExecute)
	if !ok {
		return nil, unexpected(res)
	}
	return out, nil
}

func (r *Runtime) Snapshot(ctx context.Context, id entity.GameID, uid string) (messages.GameView, error) {
	res, err := r.request(ctx, &messages.HGSnapshot{
		GameBaseMessage: messages.GameBaseMessage{GameId: int64(id), Uid: uid},
	})
	if err != nil {
		return messages.GameView{}, err
	}
	out, ok := res.(*messages.GHSnapshot)
	if !ok {
		return messages.GameView{}, unexpected(res)
	}
	return out.View, nil
}

func (r *Runtime) Journal(ctx context.Context, id entity.GameID, uid string) ([]entity.JournalEntry, error) {
	res, err := r.request(ctx, &messages.HGJournal{
		GameBaseMessage: messages.GameBaseMessage{GameId: int64(id), Uid: uid},
	})
	if err != nil {
		return nil, err
	}
	out, ok := res.(*messages.GHJournal)
	if !ok {
		return nil, unexpected(res)
	}
	return out.Entries, nil
}

func (r *Runtime) request(ctx context.Context, msg any) (any, error) {
	if r == nil || r.root == nil || r.manager == nil {
		return nil, errx.ErrUnavailable.WithReason("actor runtime 未初始化")
	}
	if err := ctx.Err(); err != nil {
		return nil, errx.ErrTimeout.WithCause(err)
	}

	future := r.root.RequestFuture(r.manager, msg, r.timeoutFromContext(ctx))
	res, err := future.Result()
	if err != nil {
		if errors.Is(err, protoactor.ErrTimeout) {
			return nil, errx.ErrTimeout.WithReason("actor 请求超时").WithCause(err)
		}
		return nil, errx.ErrUnavailable.WithReason("actor 请求失败").WithCause(err)
	}
	if f, ok := res.(*messages.GHFail); ok {
		if f.Err == nil {
			return nil, errx.ErrInternal.WithReason("empty failure reply")
		}
		return nil, f.Err
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

func unexpected(res any) error {
	return errx.ErrInternal.WithReason("unexpected actor reply").WithData("type", fmt.Sprintf("%T", res))
}
