package engine

import (
	"Civilization/internal/game/entity"
	"Civilization/internal/game/entity/domain"
)

// Replay 从地形和难度出发，按日志里的种子依次重放命令。
// 日志里的命令都曾成功执行过，任何一条失败都说明日志与引擎版本不一致。
func Replay(terrain []uint8, difficulty domain.Difficulty, journal []entity.JournalEntry) (*entity.GameState, error) {
	s, err := InitializeGame(terrain, difficulty)
	if err != nil {
		return nil, err
	}
	return ReplayFrom(s, journal)
}

// ReplayFrom 在已有状态上继续重放。
func ReplayFrom(s *entity.GameState, journal []entity.JournalEntry) (*entity.GameState, error) {
	for _, e := range journal {
		cmd, err := DecodeCommand(e.Command, e.Args)
		if err != nil {
			return s, err
		}
		next, _, err := Execute(s, cmd, NewSeededEntropy(e.Seed))
		if err != nil {
			return s, domain.ErrInvalidCommand.WithData("seq", e.Seq).WithCause(err)
		}
		s = next
	}
	return s, nil
}

// TerrainCodes 取出状态里的地形码，回放时作为起点。
func TerrainCodes(s *entity.GameState) []uint8 {
	out := make([]uint8, domain.MapCells)
	for i, t := range s.Map.Terrain {
		out[i] = uint8(t)
	}
	return out
}
