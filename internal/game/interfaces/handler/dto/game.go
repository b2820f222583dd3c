package dto

import (
	"encoding/json"

	"Civilization/internal/game/entity"
	"Civilization/internal/game/service"
)

// CommandReq ws 的 game.command 请求；HTTP 的命令名在路径里。
type CommandReq struct {
	GameID  int64          `json:"game_id,string"`
	Command string         `json:"command"`
	Args    map[string]any `json:"args"`
	Seed    *service.Seed  `json:"seed"`
}

type GameReq struct {
	GameID int64 `json:"game_id,string"`
}

type AuthReq struct {
	Token string `json:"token"`
}

type AuthResp struct {
	UID string `json:"uid"`
}

type JournalEntry struct {
	Seq     int             `json:"seq"`
	Turn    int             `json:"turn"`
	Command string          `json:"command"`
	Args    json.RawMessage `json:"args,omitempty"`
	Seed    uint64          `json:"seed,string"`
	At      int64           `json:"at"`
}

type JournalResp struct {
	GameID  int64          `json:"game_id,string"`
	Entries []JournalEntry `json:"entries"`
}

func NewJournalResp(id int64, entries []entity.JournalEntry) JournalResp {
	out := JournalResp{GameID: id, Entries: make([]JournalEntry, 0, len(entries))}
	for _, e := range entries {
		out.Entries = append(out.Entries, JournalEntry{
			Seq:     e.Seq,
			Turn:    e.Turn,
			Command: e.Command,
			Args:    e.Args,
			Seed:    e.Seed,
			At:      e.At.UnixMilli(),
		})
	}
	return out
}
