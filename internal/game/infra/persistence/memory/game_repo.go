package memory

import (
	"context"
	"slices"
	"sync"

	"Civilization/internal/game/entity"
)

// GameRepository 进程内存档，storage.driver=memory 和测试用。
type GameRepository struct {
	mu    sync.RWMutex
	games map[entity.GameID]*entity.GamePersistSnapshot
}

func NewGameRepository() *GameRepository {
	return &GameRepository{
		games: make(map[entity.GameID]*entity.GamePersistSnapshot),
	}
}

func (r *GameRepository) LoadGame(_ context.Context, id entity.GameID) (*entity.Game, error) {
	r.mu.RLock()
	s, ok := r.games[id]
	r.mu.RUnlock()
	if !ok {
		return nil, entity.ErrGameNotFound.WithData("game_id", int64(id))
	}
	cp := *s
	cp.State = s.State.Clone()
	cp.Journal = slices.Clone(s.Journal)
	return entity.RestoreGame(&cp), nil
}

// Save 旧版本不覆盖新版本。
func (r *GameRepository) Save(_ context.Context, s *entity.GamePersistSnapshot) error {
	if s == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.games[s.GameID]; ok && cur.Version > s.Version {
		return nil
	}
	r.games[s.GameID] = s
	return nil
}

func (r *GameRepository) Delete(_ context.Context, id entity.GameID) error {
	r.mu.Lock()
	delete(r.games, id)
	r.mu.Unlock()
	return nil
}

func (r *GameRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}
