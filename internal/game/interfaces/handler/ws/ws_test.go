package ws

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	gameactor "Civilization/internal/game/actor"
	"Civilization/internal/game/infra/persistence/memory"
	"Civilization/internal/game/interfaces/handler"
	"Civilization/internal/game/interfaces/handler/dto"
	"Civilization/internal/game/service"
	"Civilization/internal/shared/actor/messages"
	"Civilization/internal/shared/security"
	"Civilization/internal/shared/session"
	"Civilization/internal/shared/transport"
	"Civilization/internal/shared/transport/ws"
	"Civilization/internal/shared/utils"
)

type pushed struct {
	name string
	data any
}

type fakeConn struct {
	mu     sync.Mutex
	props  map[string]any
	pushes []pushed
	done   chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{props: map[string]any{}, done: make(chan struct{})}
}

func (c *fakeConn) SetProperty(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.props[key] = value
}

func (c *fakeConn) GetProperty(key string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.props[key]
}

func (c *fakeConn) RemoveProperty(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.props, key)
}

func (c *fakeConn) Addr() string { return "fake" }

func (c *fakeConn) Push(name string, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pushes = append(c.pushes, pushed{name: name, data: data})
}

func (c *fakeConn) Close() {}

func (c *fakeConn) Done() <-chan struct{} { return c.done }

func (c *fakeConn) pushCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pushes)
}

func newRouter(t *testing.T) *ws.Router {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	rt := gameactor.NewRuntime(memory.NewGameRepository(), gameactor.Options{
		AskTimeout: 2 * time.Second,
		FlushEvery: time.Hour,
	})
	t.Cleanup(func() { _ = rt.Shutdown(context.Background()) })
	ids, err := utils.NewSnowflake(1)
	require.NoError(t, err)
	svc := service.NewGameService(rt, ids, service.Options{})

	r := ws.NewRouter(nil)
	NewWsHandler(handler.NewGame(svc, session.NewSessMgr(), nil)).RegisterRoutes(r)
	return r
}

func call(r *ws.Router, conn ws.WSConn, name string, msg map[string]any) *ws.RespBody {
	req := &ws.WsMsgReq{Body: &ws.ReqBody{Seq: 1, Name: name, Msg: msg}, Conn: conn}
	resp := &ws.WsMsgResp{Body: &ws.RespBody{Seq: 1, Name: name}}
	r.Dispatch(req, resp)
	return resp.Body
}

func createGame(t *testing.T, r *ws.Router, conn ws.WSConn) int64 {
	t.Helper()
	resp := call(r, conn, "game.create", map[string]any{"difficulty": 0})
	require.Equal(t, transport.OK, resp.Code, resp.Msg)
	view, ok := resp.Msg.(messages.GameView)
	require.True(t, ok, "回包应为 GameView: %T", resp.Msg)
	return view.GameID
}

func TestWsHandler_创建后命令推送给观战者(t *testing.T) {
	r := newRouter(t)
	owner, watcher := newFakeConn(), newFakeConn()
	id := createGame(t, r, owner)

	resp := call(r, watcher, "game.watch", map[string]any{"game_id": json.Number(itoa(id))})
	require.Equal(t, transport.OK, resp.Code, resp.Msg)

	resp = call(r, owner, "game.command", map[string]any{
		"game_id": itoa(id),
		"command": "endTurn",
		"seed":    "11",
	})
	require.Equal(t, transport.OK, resp.Code, resp.Msg)
	out, ok := resp.Msg.(*service.CommandOutcome)
	require.True(t, ok)
	require.Equal(t, uint64(11), out.Seed)

	require.Equal(t, 1, watcher.pushCount())
	require.Equal(t, 1, owner.pushCount(), "创建者自动观战")
	require.Equal(t, PushState, watcher.pushes[0].name)

	resp = call(r, watcher, "game.unwatch", map[string]any{"game_id": id})
	require.Equal(t, transport.OK, resp.Code)
	call(r, owner, "game.command", map[string]any{"game_id": id, "command": "endTurn"})
	require.Equal(t, 1, watcher.pushCount(), "取消观战后不再推送")
}

func TestWsHandler_命令参数透传(t *testing.T) {
	r := newRouter(t)
	conn := newFakeConn()
	id := createGame(t, r, conn)

	resp := call(r, conn, "game.command", map[string]any{
		"game_id": id,
		"command": "moveUnit",
		"args":    map[string]any{"unit_id": json.Number("42"), "x": 1, "y": 1},
	})
	require.Equal(t, 1101, resp.Code)

	resp = call(r, conn, "game.command", map[string]any{"game_id": id})
	require.Equal(t, transport.InvalidParam, resp.Code)

	resp = call(r, conn, "game.journal", map[string]any{"game_id": id})
	require.Equal(t, transport.OK, resp.Code)
	journal, ok := resp.Msg.(dto.JournalResp)
	require.True(t, ok)
	require.Len(t, journal.Entries, 2, "被拒绝的命令不进日志")
}

func TestWsHandler_认证绑定uid(t *testing.T) {
	r := newRouter(t)
	alice, bob := newFakeConn(), newFakeConn()

	token, err := security.Award("alice")
	require.NoError(t, err)
	resp := call(r, alice, "game.auth", map[string]any{"token": token})
	require.Equal(t, transport.OK, resp.Code, resp.Msg)
	require.Equal(t, "alice", alice.GetProperty(ws.ConnKeyUID))

	id := createGame(t, r, alice)

	resp = call(r, bob, "game.state", map[string]any{"game_id": id})
	require.Equal(t, transport.Forbidden, resp.Code)
	resp = call(r, bob, "game.watch", map[string]any{"game_id": id})
	require.Equal(t, transport.Forbidden, resp.Code)

	resp = call(r, bob, "game.state", map[string]any{"game_id": id, "token": token})
	require.Equal(t, transport.OK, resp.Code, "请求里带 token 也可以")

	resp = call(r, bob, "game.auth", map[string]any{"token": "garbage"})
	require.Equal(t, transport.Unauthorized, resp.Code)
}

func itoa(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
