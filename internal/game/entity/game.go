package entity

import (
	"encoding/json"
	"time"
)

type GameID int64

// JournalEntry 已成功执行的命令记录，带种子，可用于确定性回放。
type JournalEntry struct {
	Seq     int             `json:"seq"`
	Turn    int             `json:"turn"`
	Command string          `json:"command"`
	Args    json.RawMessage `json:"args,omitempty"`
	Seed    uint64          `json:"seed"`
	At      time.Time       `json:"at"`
}

// Game 宿主侧聚合：对局 id、归属、当前状态、命令日志与脏标记。
// 引擎只处理 *GameState，Game 负责提交与持久化快照。
type Game struct {
	gameID    GameID
	owner     string
	state     *GameState
	journal   []JournalEntry
	createdAt time.Time
	version   uint64
	dirty     bool
}

func NewGame(id GameID, owner string, state *GameState, createdAt time.Time) *Game {
	if state == nil {
		state = &GameState{Turn: 1}
	}
	return &Game{
		gameID:    id,
		owner:     owner,
		state:     state,
		createdAt: createdAt,
		dirty:     true,
	}
}

// RestoreGame 从持久化快照还原，不标脏。
func RestoreGame(s *GamePersistSnapshot) *Game {
	return &Game{
		gameID:    s.GameID,
		owner:     s.Owner,
		state:     s.State,
		journal:   s.Journal,
		createdAt: s.CreatedAt,
		version:   s.Version,
	}
}

func (g *Game) ID() GameID           { return g.gameID }
func (g *Game) Owner() string        { return g.owner }
func (g *Game) CreatedAt() time.Time { return g.createdAt }

// Version 还原时存档的快照版本，新建对局为 0。
func (g *Game) Version() uint64 { return g.version }

// State 只读视图，调用方需要修改时先 Clone。
func (g *Game) State() *GameState { return g.state }

func (g *Game) Journal() []JournalEntry { return g.journal }

// Closed closeGame 之后为 true，宿主随后删除存档。
func (g *Game) Closed() bool { return g.state != nil && g.state.Closed }

// NextSeed 客户端未指定种子时使用，按 (对局, 回合, 下一个序号) 派生。
func (g *Game) NextSeed() uint64 {
	return DeriveSeed(g.gameID, g.state.Turn, len(g.journal)+1)
}

// DeriveSeed splitmix64 混合，同样的输入总得到同样的种子。
func DeriveSeed(id GameID, turn, seq int) uint64 {
	x := uint64(id)
	x ^= uint64(turn) << 32
	x ^= uint64(seq)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// OwnedBy 空 owner 表示匿名对局，任何人可操作。
func (g *Game) OwnedBy(uid string) bool {
	return g.owner == "" || g.owner == uid
}

// Commit 提交命令执行后的新状态并追加日志。
func (g *Game) Commit(next *GameState, entry JournalEntry) {
	entry.Seq = len(g.journal) + 1
	g.journal = append(g.journal, entry)
	g.state = next
	g.dirty = true
}

func (g *Game) Dirty() bool {
	return g != nil && g.dirty
}

func (g *Game) ClearDirty() {
	g.dirty = false
}

func (g *Game) BuildPersistSnapshot(version uint64) (*GamePersistSnapshot, bool) {
	if g == nil || !g.Dirty() {
		return nil, false
	}
	return &GamePersistSnapshot{
		Version:   version,
		GameID:    g.gameID,
		Owner:     g.owner,
		State:     g.state.Clone(),
		Journal:   append([]JournalEntry(nil), g.journal...),
		CreatedAt: g.createdAt,
	}, true
}
