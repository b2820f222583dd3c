package entity

import (
	"slices"

	"Civilization/internal/game/entity/domain"
)

type Status uint8

const (
	StatusActive Status = iota
	StatusDefeat
	StatusVictory
)

func (s Status) String() string {
	switch s {
	case StatusDefeat:
		return "defeat"
	case StatusVictory:
		return "victory"
	default:
		return "active"
	}
}

func (s Status) Terminal() bool { return s != StatusActive }

// PlayerState 玩家独占的单位/城市/地块/资源/科技。
type PlayerState struct {
	Initialized bool                   `json:"initialized"`
	Units       []domain.Unit          `json:"units"`
	Cities      []domain.City          `json:"cities"`
	Tiles       []domain.Tile          `json:"tiles"`
	Resources   domain.Resources       `json:"resources"`
	Research    domain.ResearchTracker `json:"research"`
	NextUnitID  int                    `json:"next_unit_id"`
	NextCityID  int                    `json:"next_city_id"`
}

// FactionState 蛮族：只有单位和城市，没有资源与科技。
type FactionState struct {
	Initialized bool          `json:"initialized"`
	Units       []domain.Unit `json:"units"`
	Cities      []domain.City `json:"cities"`
	NextUnitID  int           `json:"next_unit_id"`
	NextCityID  int           `json:"next_city_id"`
}

// GameState 引擎推进的全部状态。各集合按 id 引用，互不持有指针。
type GameState struct {
	Turn       int               `json:"turn"`
	Difficulty domain.Difficulty `json:"difficulty"`
	Status     Status            `json:"status"`
	Closed     bool              `json:"closed"`
	Map        domain.WorldMap   `json:"map"`
	Player     PlayerState       `json:"player"`
	Faction    FactionState      `json:"faction"`
}

func (s *GameState) Ready() bool { return s.Player.Initialized && s.Faction.Initialized }

// Clone 深拷贝，命令在副本上执行，成功后才提交。
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	out := *s
	out.Player.Units = slices.Clone(s.Player.Units)
	out.Player.Cities = cloneCities(s.Player.Cities)
	out.Player.Tiles = slices.Clone(s.Player.Tiles)
	out.Faction.Units = slices.Clone(s.Faction.Units)
	out.Faction.Cities = cloneCities(s.Faction.Cities)
	return &out
}

func cloneCities(in []domain.City) []domain.City {
	if in == nil {
		return nil
	}
	out := make([]domain.City, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

// ---- 玩家查找 ----

func (p *PlayerState) Unit(id int) (*domain.Unit, bool) { return findUnit(p.Units, id) }
func (p *PlayerState) City(id int) (*domain.City, bool) { return findCity(p.Cities, id) }

func (p *PlayerState) UnitAt(c domain.Coord) (*domain.Unit, bool) { return unitAt(p.Units, c) }
func (p *PlayerState) CityAt(c domain.Coord) (*domain.City, bool) { return cityAt(p.Cities, c) }

func (p *PlayerState) TileAt(c domain.Coord) (*domain.Tile, bool) {
	for i := range p.Tiles {
		if p.Tiles[i].Pos == c {
			return &p.Tiles[i], true
		}
	}
	return nil, false
}

// ControllingCity 返回控制该格的玩家城市。
func (p *PlayerState) ControllingCity(c domain.Coord) (*domain.City, bool) {
	for i := range p.Cities {
		if p.Cities[i].Controls(c) {
			return &p.Cities[i], true
		}
	}
	return nil, false
}

func (p *PlayerState) LiveUnitCount() int { return liveCount(p.Units) }

// StorageCapacity 基础容量 + 每座兵营 10。
func (p *PlayerState) StorageCapacity() int {
	capacity := domain.StorageCapacity
	for i := range p.Cities {
		if p.Cities[i].Buildings.Has(domain.Barracks) {
			capacity += domain.Barracks.Stats().Effect.Storage
		}
	}
	return capacity
}

func (p *PlayerState) SpawnUnit(t domain.UnitType, pos domain.Coord) domain.Unit {
	u := domain.NewUnit(p.NextUnitID, t, pos)
	p.Units = append(p.Units, u)
	p.NextUnitID++
	return u
}

func (p *PlayerState) RemoveUnit(id int) {
	p.Units = slices.DeleteFunc(p.Units, func(u domain.Unit) bool { return u.ID == id })
}

// Defeated 没有单位也没有城市。
func (p *PlayerState) Defeated() bool { return liveCount(p.Units) == 0 && len(p.Cities) == 0 }

// ---- 蛮族查找 ----

func (f *FactionState) Unit(id int) (*domain.Unit, bool) { return findUnit(f.Units, id) }
func (f *FactionState) City(id int) (*domain.City, bool) { return findCity(f.Cities, id) }

func (f *FactionState) UnitAt(c domain.Coord) (*domain.Unit, bool) { return unitAt(f.Units, c) }
func (f *FactionState) CityAt(c domain.Coord) (*domain.City, bool) { return cityAt(f.Cities, c) }

func (f *FactionState) LiveUnitCount() int { return liveCount(f.Units) }

func (f *FactionState) SpawnUnit(t domain.UnitType, pos domain.Coord) domain.Unit {
	u := domain.NewUnit(f.NextUnitID, t, pos)
	f.Units = append(f.Units, u)
	f.NextUnitID++
	return u
}

func (f *FactionState) Defeated() bool { return liveCount(f.Units) == 0 && len(f.Cities) == 0 }

// Sweep 清理阵亡单位和被摧毁的城市。
func (s *GameState) Sweep() {
	dead := func(u domain.Unit) bool { return !u.Alive }
	razed := func(c domain.City) bool { return c.Health <= 0 }
	s.Player.Units = slices.DeleteFunc(s.Player.Units, dead)
	s.Player.Cities = slices.DeleteFunc(s.Player.Cities, razed)
	s.Faction.Units = slices.DeleteFunc(s.Faction.Units, dead)
	s.Faction.Cities = slices.DeleteFunc(s.Faction.Cities, razed)
}

// CityAnyAt 任意一方的城市。
func (s *GameState) CityAnyAt(c domain.Coord) bool {
	_, mine := s.Player.CityAt(c)
	_, theirs := s.Faction.CityAt(c)
	return mine || theirs
}

// LiveUnitAnyAt 任意一方的存活单位。
func (s *GameState) LiveUnitAnyAt(c domain.Coord) bool {
	_, mine := s.Player.UnitAt(c)
	_, theirs := s.Faction.UnitAt(c)
	return mine || theirs
}

func findUnit(units []domain.Unit, id int) (*domain.Unit, bool) {
	for i := range units {
		if units[i].ID == id {
			return &units[i], true
		}
	}
	return nil, false
}

func findCity(cities []domain.City, id int) (*domain.City, bool) {
	for i := range cities {
		if cities[i].ID == id {
			return &cities[i], true
		}
	}
	return nil, false
}

// unitAt 只看存活单位。
func unitAt(units []domain.Unit, c domain.Coord) (*domain.Unit, bool) {
	for i := range units {
		if units[i].Alive && units[i].Pos == c {
			return &units[i], true
		}
	}
	return nil, false
}

func cityAt(cities []domain.City, c domain.Coord) (*domain.City, bool) {
	for i := range cities {
		if cities[i].Pos == c {
			return &cities[i], true
		}
	}
	return nil, false
}

func liveCount(units []domain.Unit) int {
	n := 0
	for i := range units {
		if units[i].Alive {
			n++
		}
	}
	return n
}
