package engine

import (
	"Civilization/internal/game/entity"
	"Civilization/internal/game/entity/domain"
)

// InitializeGame 用 400 个行优先地形码创建一局，回合从 1 开始。
func InitializeGame(terrain []uint8, difficulty domain.Difficulty) (*entity.GameState, error) {
	if !difficulty.Valid() {
		return nil, domain.ErrInvalidDifficulty.WithData("difficulty", int(difficulty))
	}
	m, err := domain.NewWorldMap(terrain)
	if err != nil {
		return nil, err
	}
	return &entity.GameState{
		Turn:       1,
		Difficulty: difficulty,
		Status:     entity.StatusActive,
		Map:        m,
	}, nil
}

// InitializePlayer 在 pos 放开拓者，右侧放工人，下方放战士。
func InitializePlayer(s *entity.GameState, pos domain.Coord) error {
	if s.Player.Initialized {
		return domain.ErrGameAlreadyInitialized.WithData("side", "player")
	}
	if !pos.InBounds() || !pos.Add(1, 0).InBounds() || !pos.Add(0, 1).InBounds() {
		return domain.ErrOutOfMapBounds.WithData("x", pos.X).WithData("y", pos.Y)
	}
	p := &s.Player
	p.SpawnUnit(domain.Settler, pos)
	p.SpawnUnit(domain.Builder, pos.Add(1, 0))
	p.SpawnUnit(domain.Warrior, pos.Add(0, 1))
	p.Resources = domain.Resources{}
	p.Initialized = true
	s.Map.DiscoverAll(pos.Square(domain.StartSight))
	return nil
}

// InitializeFaction 两座蛮族村庄，第二座西侧驻一个战士。
func InitializeFaction(s *entity.GameState, pos1, pos2 domain.Coord) error {
	if s.Faction.Initialized {
		return domain.ErrGameAlreadyInitialized.WithData("side", "faction")
	}
	guard := pos2.Add(-1, 0)
	for _, c := range []domain.Coord{pos1, pos2, guard} {
		if !c.InBounds() {
			return domain.ErrOutOfMapBounds.WithData("x", c.X).WithData("y", c.Y)
		}
	}
	if pos1 == pos2 {
		return domain.ErrCityTileOccupied.WithData("x", pos2.X).WithData("y", pos2.Y)
	}
	f := &s.Faction
	for _, pos := range []domain.Coord{pos1, pos2} {
		f.Cities = append(f.Cities, domain.NewFactionCity(f.NextCityID, pos))
		f.NextCityID++
	}
	f.SpawnUnit(domain.Warrior, guard)
	f.Initialized = true
	return nil
}
