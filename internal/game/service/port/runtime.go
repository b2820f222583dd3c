package port

import (
	"context"
	"encoding/json"

	"Civilization/internal/game/entity"
	"Civilization/internal/shared/actor/messages"
)

// GameRuntime 对局宿主：每局一个串行执行者。
type GameRuntime interface {
	Create(ctx context.Context, g *entity.Game) (messages.GameView, error)
	Execute(ctx context.Context, id entity.GameID, uid, command string, args json.RawMessage, seed *uint64) (*messages.GHExecute, error)
	Snapshot(ctx context.Context, id entity.GameID, uid string) (messages.GameView, error)
	Journal(ctx context.Context, id entity.GameID, uid string) ([]entity.JournalEntry, error)
}
