package mysql

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"Civilization/internal/game/engine"
	"Civilization/internal/game/entity"
	"Civilization/internal/game/entity/domain"
	"Civilization/internal/game/infra/persistence/model"
)

func newTestRepo(t *testing.T) *GameRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库每个连接各自一份，只留一个连接
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	repo := NewGameRepository(db)
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

func plainsState(t *testing.T) *entity.GameState {
	t.Helper()
	terrain := make([]uint8, domain.MapCells)
	for i := range terrain {
		terrain[i] = uint8(domain.TerrainPlains)
	}
	s, err := engine.InitializeGame(terrain, domain.DifficultyNormal)
	require.NoError(t, err)
	s, _, err = engine.Execute(s, engine.InitializePlayerCmd{X: 2, Y: 2}, nil)
	require.NoError(t, err)
	return s
}

func TestGameRepository_不存在返回ErrGameNotFound(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.LoadGame(context.Background(), 404)
	require.ErrorIs(t, err, entity.ErrGameNotFound)
}

func TestGameRepository_保存后可完整还原(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	g := entity.NewGame(11, "u1", plainsState(t), created)
	g.Commit(g.State(), entity.JournalEntry{
		Turn:    1,
		Command: "initializePlayer",
		Args:    json.RawMessage(`{"x":2,"y":2}`),
		Seed:    ^uint64(0),
		At:      created,
	})
	s, ok := g.BuildPersistSnapshot(1)
	require.True(t, ok)
	require.NoError(t, repo.Save(ctx, s))

	back, err := repo.LoadGame(ctx, 11)
	require.NoError(t, err)
	require.Equal(t, "u1", back.Owner())
	require.Equal(t, uint64(1), back.Version())
	require.True(t, back.CreatedAt().Equal(created))
	require.Equal(t, g.State().Player.Units, back.State().Player.Units)
	require.Equal(t, g.State().Map, back.State().Map)
	require.Len(t, back.Journal(), 1)
	require.Equal(t, ^uint64(0), back.Journal()[0].Seed, "uint64 种子按位存取不能丢")
	require.JSONEq(t, `{"x":2,"y":2}`, string(back.Journal()[0].Args))
}

func TestGameRepository_日志只追加新条目(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	g := entity.NewGame(12, "", plainsState(t), time.Now())
	g.Commit(g.State(), entity.JournalEntry{Command: "initializePlayer"})
	s1, _ := g.BuildPersistSnapshot(1)
	require.NoError(t, repo.Save(ctx, s1))

	g.Commit(g.State(), entity.JournalEntry{Command: "endTurn", Seed: 7})
	s2, _ := g.BuildPersistSnapshot(2)
	require.NoError(t, repo.Save(ctx, s2))
	// 重复保存同一版本不产生重复日志
	require.NoError(t, repo.Save(ctx, s2))

	var n int64
	require.NoError(t, repo.db.Model(&model.JournalRecord{}).Where("game_id = ?", 12).Count(&n).Error)
	require.Equal(t, int64(2), n)

	back, err := repo.LoadGame(ctx, 12)
	require.NoError(t, err)
	require.Equal(t, []string{"initializePlayer", "endTurn"},
		[]string{back.Journal()[0].Command, back.Journal()[1].Command})
}

func TestGameRepository_旧版本不覆盖新版本(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	g := entity.NewGame(13, "", plainsState(t), time.Now())
	old, _ := g.BuildPersistSnapshot(1)
	next := g.State().Clone()
	next.Turn = 8
	g.Commit(next, entity.JournalEntry{Command: "endTurn"})
	newer, _ := g.BuildPersistSnapshot(2)

	require.NoError(t, repo.Save(ctx, newer))
	require.NoError(t, repo.Save(ctx, old))

	back, err := repo.LoadGame(ctx, 13)
	require.NoError(t, err)
	require.Equal(t, 8, back.State().Turn)
}

func TestGameRepository_删除对局连同日志(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	g := entity.NewGame(14, "", plainsState(t), time.Now())
	g.Commit(g.State(), entity.JournalEntry{Command: "closeGame"})
	s, _ := g.BuildPersistSnapshot(1)
	require.NoError(t, repo.Save(ctx, s))
	require.NoError(t, repo.Delete(ctx, 14))

	_, err := repo.LoadGame(ctx, 14)
	require.ErrorIs(t, err, entity.ErrGameNotFound)
	var n int64
	require.NoError(t, repo.db.Model(&model.JournalRecord{}).Count(&n).Error)
	require.Zero(t, n)
}
