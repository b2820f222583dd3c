package engine

import (
	"errors"
	"testing"

	"Civilization/internal/game/entity"
	"Civilization/internal/game/entity/domain"
)

func plainsMap() []uint8 {
	t := make([]uint8, domain.MapCells)
	for i := range t {
		t[i] = uint8(domain.TerrainPlains)
	}
	return t
}

// newTestGame 玩家在 (2,2)：开拓者#0、工人#1(3,2)、战士#2(2,3)；蛮族城市 (15,15)/(17,17)，战士#0(16,17)。
func newTestGame(t *testing.T, terrain []uint8) *entity.GameState {
	t.Helper()
	if terrain == nil {
		terrain = plainsMap()
	}
	s, err := InitializeGame(terrain, domain.DifficultyNormal)
	if err != nil {
		t.Fatalf("InitializeGame 失败: %v", err)
	}
	if err := InitializePlayer(s, domain.C(2, 2)); err != nil {
		t.Fatalf("InitializePlayer 失败: %v", err)
	}
	if err := InitializeFaction(s, domain.C(15, 15), domain.C(17, 17)); err != nil {
		t.Fatalf("InitializeFaction 失败: %v", err)
	}
	return s
}

// foundTestCity 用开拓者#0 在 (2,2) 建城。
func foundTestCity(t *testing.T, s *entity.GameState) *domain.City {
	t.Helper()
	id, err := FoundCity(s, domain.C(2, 2), 0, "Roma")
	if err != nil {
		t.Fatalf("FoundCity 失败: %v", err)
	}
	c, ok := s.Player.City(id)
	if !ok {
		t.Fatalf("建城后找不到城市 %d", id)
	}
	return c
}

func mustUnit(t *testing.T, s *entity.GameState, id int) *domain.Unit {
	t.Helper()
	u, ok := s.Player.Unit(id)
	if !ok {
		t.Fatalf("找不到玩家单位 %d", id)
	}
	return u
}

func wantErr(t *testing.T, got, want error) {
	t.Helper()
	if !errors.Is(got, want) {
		t.Fatalf("期望错误 %v，got=%v", want, got)
	}
}
