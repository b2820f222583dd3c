package session

import (
	"sync"

	"Civilization/internal/shared/transport/ws"
)

// Manager 连接会话：uid 绑定 + 对局观察者。
type Manager interface {
	Bind(uid string, conn ws.WSConn)
	UID(conn ws.WSConn) (string, bool)
	Watch(gameID int64, conn ws.WSConn)
	Unwatch(gameID int64, conn ws.WSConn)
	Broadcast(gameID int64, name string, data any) int
	UnbindConn(conn ws.WSConn)
}

type SessMgr struct {
	sync.RWMutex
	conn2uid  map[ws.WSConn]string
	watchers  map[int64]map[ws.WSConn]struct{}
	conn2game map[ws.WSConn]map[int64]struct{}
	watched   map[ws.WSConn]struct{}
}

func NewSessMgr() *SessMgr {
	return &SessMgr{
		conn2uid:  make(map[ws.WSConn]string),
		watchers:  make(map[int64]map[ws.WSConn]struct{}),
		conn2game: make(map[ws.WSConn]map[int64]struct{}),
		watched:   make(map[ws.WSConn]struct{}),
	}
}

func (s *SessMgr) Bind(uid string, conn ws.WSConn) {
	if conn == nil {
		return
	}
	s.Lock()
	defer s.Unlock()
	s.trackLocked(conn)
	s.conn2uid[conn] = uid
}

func (s *SessMgr) UID(conn ws.WSConn) (string, bool) {
	s.RLock()
	defer s.RUnlock()
	uid, ok := s.conn2uid[conn]
	return uid, ok
}

func (s *SessMgr) Watch(gameID int64, conn ws.WSConn) {
	if conn == nil {
		return
	}
	s.Lock()
	defer s.Unlock()
	s.trackLocked(conn)
	if s.watchers[gameID] == nil {
		s.watchers[gameID] = make(map[ws.WSConn]struct{})
	}
	s.watchers[gameID][conn] = struct{}{}
	if s.conn2game[conn] == nil {
		s.conn2game[conn] = make(map[int64]struct{})
	}
	s.conn2game[conn][gameID] = struct{}{}
}

func (s *SessMgr) Unwatch(gameID int64, conn ws.WSConn) {
	s.Lock()
	defer s.Unlock()
	s.unwatchLocked(gameID, conn)
}

// Broadcast 推给该对局的所有观察者，返回推送的连接数。
func (s *SessMgr) Broadcast(gameID int64, name string, data any) int {
	s.RLock()
	conns := make([]ws.WSConn, 0, len(s.watchers[gameID]))
	for c := range s.watchers[gameID] {
		conns = append(conns, c)
	}
	s.RUnlock()
	for _, c := range conns {
		c.Push(name, data)
	}
	return len(conns)
}

func (s *SessMgr) UnbindConn(conn ws.WSConn) {
	s.Lock()
	defer s.Unlock()
	for gameID := range s.conn2game[conn] {
		s.unwatchLocked(gameID, conn)
	}
	delete(s.conn2game, conn)
	delete(s.conn2uid, conn)
	delete(s.watched, conn)
}

// trackLocked 每条连接只启动一次 watcher：连接关闭后自动解绑，避免表逐步膨胀。
func (s *SessMgr) trackLocked(conn ws.WSConn) {
	if _, ok := s.watched[conn]; ok {
		return
	}
	s.watched[conn] = struct{}{}
	go s.watchConnDone(conn)
}

func (s *SessMgr) watchConnDone(conn ws.WSConn) {
	<-conn.Done()
	s.UnbindConn(conn)
}

func (s *SessMgr) unwatchLocked(gameID int64, conn ws.WSConn) {
	if set := s.watchers[gameID]; set != nil {
		delete(set, conn)
		if len(set) == 0 {
			delete(s.watchers, gameID)
		}
	}
	if games := s.conn2game[conn]; games != nil {
		delete(games, gameID)
	}
}
