package model

import (
	"encoding/json"
	"testing"
	"time"

	"Civilization/internal/game/entity"
	"Civilization/internal/game/entity/domain"
)

func sampleSnapshot() *entity.GamePersistSnapshot {
	st := &entity.GameState{Turn: 4, Difficulty: domain.DifficultyHard, Status: entity.StatusVictory}
	st.Map.Terrain[5] = domain.TerrainHills
	st.Map.Discovered[5] = true
	return &entity.GamePersistSnapshot{
		Version: 3,
		GameID:  99,
		Owner:   "u9",
		State:   st,
		Journal: []entity.JournalEntry{
			{Seq: 1, Turn: 1, Command: "initializePlayer", Args: json.RawMessage(`{"x":1,"y":1}`), Seed: 1 << 63},
			{Seq: 2, Turn: 1, Command: "endTurn", Seed: 5},
		},
		CreatedAt: time.Unix(1700000000, 0).UTC(),
	}
}

func TestSnapshotToDoc_检索字段平铺且可还原(t *testing.T) {
	s := sampleSnapshot()
	doc, err := SnapshotToDoc(s, time.Now())
	if err != nil {
		t.Fatalf("转换失败: %v", err)
	}
	if doc.GameID != 99 || doc.Turn != 4 || doc.Status != "victory" || doc.Difficulty != 2 {
		t.Fatalf("平铺字段不对: %+v", doc)
	}
	back, err := DocToSnapshot(doc)
	if err != nil {
		t.Fatalf("还原失败: %v", err)
	}
	if back.State.Map.Terrain[5] != domain.TerrainHills || !back.State.Map.Discovered[5] {
		t.Fatalf("地图没有还原")
	}
	if len(back.Journal) != 2 || back.Journal[0].Seed != 1<<63 {
		t.Fatalf("日志或种子丢失: %+v", back.Journal)
	}
	if back.Journal[1].Args != nil {
		t.Fatalf("空参数应还原为 nil")
	}
}

func TestSnapshotToRecord_状态压缩存储(t *testing.T) {
	s := sampleSnapshot()
	rec, err := SnapshotToRecord(s, time.Now())
	if err != nil {
		t.Fatalf("转换失败: %v", err)
	}
	raw, _ := json.Marshal(s.State)
	if len(rec.State) >= len(raw) {
		t.Fatalf("状态应压缩存储: %d >= %d", len(rec.State), len(raw))
	}
	back, err := RecordToSnapshot(rec, JournalToRecords(s.GameID, s.Journal))
	if err != nil {
		t.Fatalf("还原失败: %v", err)
	}
	if back.Owner != "u9" || back.Version != 3 || back.State.Turn != 4 {
		t.Fatalf("还原结果不对: %+v", back)
	}
	if string(back.Journal[0].Args) != `{"x":1,"y":1}` {
		t.Fatalf("参数丢失: %s", back.Journal[0].Args)
	}
}
