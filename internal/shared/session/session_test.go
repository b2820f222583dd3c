package session

import (
	"sync"
	"testing"
	"time"
)

type fakeConn struct {
	mu     sync.Mutex
	pushed []string
	done   chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn { return &fakeConn{done: make(chan struct{})} }

func (c *fakeConn) SetProperty(string, any) {}
func (c *fakeConn) GetProperty(string) any  { return nil }
func (c *fakeConn) RemoveProperty(string)   {}
func (c *fakeConn) Addr() string            { return "fake" }

func (c *fakeConn) Push(name string, _ any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pushed = append(c.pushed, name)
}

func (c *fakeConn) Close()                { c.once.Do(func() { close(c.done) }) }
func (c *fakeConn) Done() <-chan struct{} { return c.done }

func (c *fakeConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pushed)
}

func TestSessMgr_观察与广播(t *testing.T) {
	m := NewSessMgr()
	a, b := newFakeConn(), newFakeConn()
	m.Bind("u1", a)
	m.Watch(7, a)
	m.Watch(7, b)
	m.Watch(8, b)

	if n := m.Broadcast(7, "game.state", nil); n != 2 {
		t.Fatalf("对局 7 应有 2 个观察者, got=%d", n)
	}
	if uid, ok := m.UID(a); !ok || uid != "u1" {
		t.Fatalf("uid 绑定不符: %q %v", uid, ok)
	}

	m.Unwatch(7, b)
	if n := m.Broadcast(7, "game.state", nil); n != 1 {
		t.Fatalf("取消观察后应剩 1 个, got=%d", n)
	}
	if a.count() != 2 || b.count() != 1 {
		t.Fatalf("推送次数不符: a=%d b=%d", a.count(), b.count())
	}
}

func TestSessMgr_连接关闭自动解绑(t *testing.T) {
	m := NewSessMgr()
	c := newFakeConn()
	m.Watch(1, c)
	c.Close()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if m.Broadcast(1, "game.state", nil) == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("连接关闭后仍在观察列表中")
}
