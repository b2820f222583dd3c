package actors

import (
	"reflect"

	"github.com/asynkron/protoactor-go/actor"

	"Civilization/internal/shared/actor/messages"
	"Civilization/modules/kit/errx"
)

type handleFunc func(ctx actor.Context, g *GameActor, req messages.GameMessage)

// Dispatcher 按请求的具体类型找处理函数，注册时完成类型断言。
type Dispatcher struct {
	handlers map[reflect.Type]handleFunc
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{handlers: make(map[reflect.Type]handleFunc)}
	register(d, GH.HandleCreate)
	register(d, GH.HandleExecute)
	register(d, GH.HandleSnapshot)
	register(d, GH.HandleJournal)
	return d
}

func register[Req messages.GameMessage](d *Dispatcher, fn func(ctx actor.Context, g *GameActor, req Req)) {
	t := reflect.TypeFor[Req]()
	if _, dup := d.handlers[t]; dup {
		panic("duplicate game handler for " + t.String())
	}
	d.handlers[t] = func(ctx actor.Context, g *GameActor, req messages.GameMessage) {
		fn(ctx, g, req.(Req))
	}
}

func (d *Dispatcher) Dispatch(ctx actor.Context, g *GameActor, req messages.GameMessage) {
	if req == nil {
		ctx.Respond(fail(errx.ErrInvalidParam.WithReason("nil request")))
		return
	}
	h, ok := d.handlers[reflect.TypeOf(req)]
	if !ok {
		ctx.Respond(fail(errx.ErrInvalidParam.WithReason("no handler for " + reflect.TypeOf(req).String())))
		return
	}
	h(ctx, g, req)
}
