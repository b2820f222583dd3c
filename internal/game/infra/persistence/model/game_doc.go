package model

import (
	"encoding/json"
	"time"

	"Civilization/internal/game/entity"
	"Civilization/internal/shared/codec"
)

// GameDoc mongodb 文档：检索字段平铺，状态压缩成二进制。
type GameDoc struct {
	GameID     int64        `bson:"_id"`
	Owner      string       `bson:"owner"`
	Version    uint64       `bson:"version"`
	Turn       int          `bson:"turn"`
	Status     string       `bson:"status"`
	Difficulty int          `bson:"difficulty"`
	State      []byte       `bson:"state"`
	Journal    []JournalDoc `bson:"journal"`
	CreatedAt  time.Time    `bson:"created_at"`
	UpdatedAt  time.Time    `bson:"updated_at"`
}

type JournalDoc struct {
	Seq     int       `bson:"seq"`
	Turn    int       `bson:"turn"`
	Command string    `bson:"command"`
	Args    string    `bson:"args,omitempty"`
	Seed    int64     `bson:"seed"`
	At      time.Time `bson:"at"`
}

func SnapshotToDoc(s *entity.GamePersistSnapshot, now time.Time) (*GameDoc, error) {
	state, err := codec.MarshalCompressed(s.State)
	if err != nil {
		return nil, err
	}
	journal := make([]JournalDoc, 0, len(s.Journal))
	for _, e := range s.Journal {
		journal = append(journal, JournalDoc{
			Seq:     e.Seq,
			Turn:    e.Turn,
			Command: e.Command,
			Args:    string(e.Args),
			Seed:    int64(e.Seed),
			At:      e.At,
		})
	}
	return &GameDoc{
		GameID:     int64(s.GameID),
		Owner:      s.Owner,
		Version:    s.Version,
		Turn:       s.State.Turn,
		Status:     s.State.Status.String(),
		Difficulty: int(s.State.Difficulty),
		State:      state,
		Journal:    journal,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  now,
	}, nil
}

func DocToSnapshot(doc *GameDoc) (*entity.GamePersistSnapshot, error) {
	var state entity.GameState
	if err := codec.UnmarshalCompressed(doc.State, &state); err != nil {
		return nil, err
	}
	entries := make([]entity.JournalEntry, 0, len(doc.Journal))
	for _, j := range doc.Journal {
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
		Version:   doc.Version,
		GameID:    entity.GameID(doc.GameID),
		Owner:     doc.Owner,
		State:     &state,
		Journal:   entries,
		CreatedAt: doc.CreatedAt,
	}, nil
}
