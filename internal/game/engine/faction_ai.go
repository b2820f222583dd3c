package engine

import (
	"Civilization/internal/game/entity"
	"Civilization/internal/game/entity/domain"
)

type AIAction string

const (
	AILevelUp    AIAction = "level_up"
	AIAttackUnit AIAction = "attack_unit"
	AIAttackCity AIAction = "attack_city"
	AIMove       AIAction = "move"
	AIPass       AIAction = "pass"
)

// AIEvent 蛮族单位本回合做了什么。
type AIEvent struct {
	UnitID int          `json:"unit_id"`
	Action AIAction     `json:"action"`
	Target domain.Coord `json:"target"`
	Died   bool         `json:"died,omitempty"`
}

type aiTarget struct {
	pos    domain.Coord
	unitID int
	cityID int
	isCity bool
}

// nearestTarget 平方欧氏距离最小者；先单位后城市，严格小于才替换。
func nearestTarget(s *entity.GameState, from domain.Coord) (aiTarget, bool) {
	best := aiTarget{}
	bestDist := -1
	for i := range s.Player.Units {
		u := &s.Player.Units[i]
		if !u.Alive {
			continue
		}
		if d := from.DistSq(u.Pos); bestDist < 0 || d < bestDist {
			best, bestDist = aiTarget{pos: u.Pos, unitID: u.ID}, d
		}
	}
	for i := range s.Player.Cities {
		c := &s.Player.Cities[i]
		if !c.Alive() {
			continue
		}
		if d := from.DistSq(c.Pos); bestDist < 0 || d < bestDist {
			best, bestDist = aiTarget{pos: c.Pos, cityID: c.ID, isCity: true}, d
		}
	}
	return best, bestDist >= 0
}

// greedyStep 沿偏移更大的轴走一步（相等时走 x 轴）。
func greedyStep(from, to domain.Coord) domain.Coord {
	dx, dy := to.X-from.X, to.Y-from.Y
	if abs(dx) >= abs(dy) {
		return from.Add(sign(dx), 0)
	}
	return from.Add(0, sign(dy))
}

func (r *turnRunner) runFactionAI() {
	s := r.state
	for i := range s.Faction.Units {
		u := &s.Faction.Units[i]
		if !u.Alive {
			continue
		}
		if u.CanLevelUp() {
			u.LevelUp()
			r.report.AI = append(r.report.AI, AIEvent{UnitID: u.ID, Action: AILevelUp, Target: u.Pos})
			continue
		}
		target, ok := nearestTarget(s, u.Pos)
		if !ok {
			r.report.AI = append(r.report.AI, AIEvent{UnitID: u.ID, Action: AIPass, Target: u.Pos})
			continue
		}
		if u.Pos.Chebyshev(target.pos) == 1 {
			r.report.AI = append(r.report.AI, r.aiAttack(u, target))
			continue
		}
		r.report.AI = append(r.report.AI, aiMove(s, u, target.pos))
	}
}

func (r *turnRunner) aiAttack(u *domain.Unit, target aiTarget) AIEvent {
	s := r.state
	ev := AIEvent{UnitID: u.ID, Target: target.pos}
	if !target.isCity {
		defender, _ := s.Player.Unit(target.unitID)
		behindWall := false
		if c, ok := s.Player.CityAt(defender.Pos); ok && c.HasWall() {
			behindWall = true
		}
		ev.Action = AIAttackUnit
		if _, err := ResolveUnitCombat(u, defender, behindWall, r.ent); err != nil {
			ev.Action = AIPass
			return ev
		}
	} else {
		city, _ := s.Player.City(target.cityID)
		ev.Action = AIAttackCity
		if _, err := ResolveCityAttack(u, city, r.ent); err != nil {
			ev.Action = AIPass
			return ev
		}
	}
	if !u.Alive {
		ev.Died = true
		s.Player.Resources.AddCapped(domain.Gems, s.Difficulty.GemsPerKill(), s.Player.StorageCapacity())
	}
	return ev
}

// aiMove 目标格越界、有任意存活单位或任意城市、或地形不可通行时原地不动。
func aiMove(s *entity.GameState, u *domain.Unit, to domain.Coord) AIEvent {
	next := greedyStep(u.Pos, to)
	ev := AIEvent{UnitID: u.ID, Action: AIPass, Target: next}
	if !next.InBounds() || s.LiveUnitAnyAt(next) || s.CityAnyAt(next) {
		return ev
	}
	if s.Map.Terrain[next.Index()].IsSea() != u.IsNaval() {
		return ev
	}
	u.Pos = next
	ev.Action = AIMove
	return ev
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
