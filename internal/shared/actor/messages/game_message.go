package messages

import (
	"encoding/json"
	"time"

	"Civilization/internal/game/engine"
	"Civilization/internal/game/entity"
)

// GameMessage 发给对局 actor 的请求，manager 按 GameID 转发。
type GameMessage interface {
	GameID() int64
	UID() string
}

type GameBaseMessage struct {
	GameId int64
	Uid    string
}

func (m GameBaseMessage) GameID() int64 { return m.GameId }

func (m GameBaseMessage) UID() string { return m.Uid }

// GameView 对外的对局视图。State 只读，actor 之后的提交不会改动它。
type GameView struct {
	GameID    int64             `json:"game_id,string"`
	Owner     string            `json:"owner,omitempty"`
	Commands  int               `json:"commands"`
	CreatedAt time.Time         `json:"created_at"`
	State     *entity.GameState `json:"state"`
}

// HGCreateGame 宿主 -> 对局 actor：接管一局已完成初始化、尚未落库的对局。
type HGCreateGame struct {
	GameBaseMessage
	Game *entity.Game
}

type GHCreateGame struct {
	View GameView
}

// HGExecute Seed 为空时由 actor 派生。
type HGExecute struct {
	GameBaseMessage
	Command string
	Args    json.RawMessage
	Seed    *uint64
}

type GHExecute struct {
	Result engine.Result
	Seed   uint64
	Seq    int
	View   GameView
}

type HGSnapshot struct {
	GameBaseMessage
}

type GHSnapshot struct {
	View GameView
}

type HGJournal struct {
	GameBaseMessage
}

type GHJournal struct {
	GameID  int64
	Entries []entity.JournalEntry
}

// GHFail 任何请求失败时的统一回执。
type GHFail struct {
	Err error
}

func ViewOf(g *entity.Game) GameView {
	return GameView{
		GameID:    int64(g.ID()),
		Owner:     g.Owner(),
		Commands:  len(g.Journal()),
		CreatedAt: g.CreatedAt(),
		State:     g.State(),
	}
}
