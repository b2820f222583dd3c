package port

import (
	"context"

	"Civilization/internal/game/entity"
)

// GameRepository 对局存档。LoadGame 找不到时返回 entity.ErrGameNotFound。
type GameRepository interface {
	LoadGame(ctx context.Context, id entity.GameID) (*entity.Game, error)
	Save(ctx context.Context, s *entity.GamePersistSnapshot) error
	Delete(ctx context.Context, id entity.GameID) error
}
