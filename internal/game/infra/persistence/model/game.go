package model

import (
	"encoding/json"
	"time"

	"Civilization/internal/game/entity"
	"Civilization/internal/shared/codec"
)

// GameRecord 关系库里一局一行，状态整体压缩存成 blob。
type GameRecord struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement:false;comment:对局id"`
	Owner      string    `gorm:"column:owner;type:varchar(64);index;not null;default:'';comment:归属uid"`
	Version    uint64    `gorm:"column:version;not null;comment:快照版本"`
	Turn       int       `gorm:"column:turn;not null;comment:当前回合"`
	Status     string    `gorm:"column:status;type:varchar(16);not null;comment:active/victory/defeat"`
	Difficulty int       `gorm:"column:difficulty;not null"`
	State      []byte    `gorm:"column:state;not null;comment:lz4 压缩的 JSON 状态"`
	CreatedAt  time.Time `gorm:"column:created_at;not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null"`
}

func (m *GameRecord) TableName() string {
	return "civ_game"
}

// JournalRecord 命令日志，只追加。
type JournalRecord struct {
	GameID  int64     `gorm:"column:game_id;primaryKey;autoIncrement:false"`
	Seq     int       `gorm:"column:seq;primaryKey;autoIncrement:false"`
	Turn    int       `gorm:"column:turn;not null"`
	Command string    `gorm:"column:command;type:varchar(64);not null"`
	Args    string    `gorm:"column:args;type:text"`
	Seed    int64     `gorm:"column:seed;not null;comment:uint64 按位存储"`
	At      time.Time `gorm:"column:at;not null"`
}

func (m *JournalRecord) TableName() string {
	return "civ_game_journal"
}

func SnapshotToRecord(s *entity.GamePersistSnapshot, now time.Time) (*GameRecord, error) {
	state, err := codec.MarshalCompressed(s.State)
	if err != nil {
		return nil, err
	}
	return &GameRecord{
		ID:         int64(s.GameID),
		Owner:      s.Owner,
		Version:    s.Version,
		Turn:       s.State.Turn,
		Status:     s.State.Status.String(),
		Difficulty: int(s.State.Difficulty),
		State:      state,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  now,
	}, nil
}

func JournalToRecords(id entity.GameID, entries []entity.JournalEntry) []JournalRecord {
	out := make([]JournalRecord, 0, len(entries))
	for _, e := range entries {
		out = append(out, JournalRecord{
			GameID:  int64(id),
			Seq:     e.Seq,
			Turn:    e.Turn,
			Command: e.Command,
			Args:    string(e.Args),
			Seed:    int64(e.Seed),
			At:      e.At,
		})
	}
	return out
}

func RecordToSnapshot(m *GameRecord, journal []JournalRecord) (*entity.GamePersistSnapshot, error) {
	var state entity.GameState
	if err := codec.UnmarshalCompressed(m.State, &state); err != nil {
		return nil, err
	}
	entries := make([]entity.JournalEntry, 0, len(journal))
	for _, j := range journal {
		var args json.RawMessage
		if j.Args != "" {
			args = json.RawMessage(j.Args)
		}
		entries = append(entries, entity.JournalEntry{
			Seq:     j.Seq,
			Turn:    j.Turn,
			Command: j.Command,
			Args:    args,
			Seed:    uint64(j.Seed),
			At:      j.At,
		})
	}
	return &entity.GamePersistSnapshot{
		Version:   m.Version,
		GameID:    entity.GameID(m.ID),
		Owner:     m.Owner,
		State:     &state,
		Journal:   entries,
		CreatedAt: m.CreatedAt,
	}, nil
}
