package sim

import (
	"fmt"

	"Civilization/internal/game/engine"
	"Civilization/internal/game/entity"
	"Civilization/internal/game/entity/domain"
)

// TurnLog 自动驾驶一回合的统计。
type TurnLog struct {
	Turn     int
	Applied  int
	Rejected int
	Status   entity.Status
}

// Autopilot 简单贪心策略：开城、排产、研究、打最近的蛮族，然后结束回合。
// 规则拒绝的命令直接跳过，其它错误中止。
func (s *Session) Autopilot() (TurnLog, error) {
	log := TurnLog{Turn: s.State().Turn}
	try := func(cmd engine.Command) error {
		_, err := s.Apply(cmd)
		switch {
		case err == nil:
			log.Applied++
		case Rejected(err):
			log.Rejected++
		default:
			return err
		}
		return nil
	}

	if s.State().Status.Terminal() {
		log.Status = s.State().Status
		return log, nil
	}

	for _, u := range aliveUnits(s.State().Player.Units) {
		if u.Type != domain.Settler {
			continue
		}
		name := fmt.Sprintf("City %d", s.State().Player.NextCityID+1)
		if err := try(engine.FoundCityCmd{X: u.Pos.X, Y: u.Pos.Y, UnitID: u.ID, CityName: name}); err != nil {
			return log, err
		}
	}

	for _, u := range aliveUnits(s.State().Player.Units) {
		if !u.Type.IsCombat() {
			continue
		}
		// 候选动作依次尝试，第一个成功即停
		for _, cmd := range s.engage(u.ID) {
			_, err := s.Apply(cmd)
			if err == nil {
				log.Applied++
				break
			}
			if !Rejected(err) {
				return log, err
			}
			log.Rejected++
		}
		if s.State().Status.Terminal() {
			log.Status = s.State().Status
			return log, nil
		}
	}

	for _, c := range s.State().Player.Cities {
		if len(c.Queue) > 0 {
			continue
		}
		if err := try(engine.AddToProductionQueueCmd{CityID: c.ID, Item: domain.UnitItem(domain.Warrior)}); err != nil {
			return log, err
		}
	}

	research := s.State().Player.Research
	if !research.Active() {
		for _, t := range domain.AllTechnologies() {
			if research.CheckStart(t) != nil {
				continue
			}
			if err := try(engine.StartResearchCmd{Tech: t}); err != nil {
				return log, err
			}
			break
		}
	}

	if err := try(engine.EndTurnCmd{}); err != nil {
		return log, err
	}
	log.Status = s.State().Status
	return log, nil
}

// Run 连续自动驾驶 turns 回合，对局结束提前返回。
func (s *Session) Run(turns int, onTurn func(TurnLog)) error {
	for i := 0; i < turns; i++ {
		if s.State().Status.Terminal() {
			return nil
		}
		tl, err := s.Autopilot()
		if err != nil {
			return err
		}
		if onTurn != nil {
			onTurn(tl)
		}
	}
	return nil
}

// engage 相邻有敌人就打，否则朝最近的蛮族目标走一步。
func (s *Session) engage(unitID int) []engine.Command {
	st := s.State()
	u, ok := st.Player.Unit(unitID)
	if !ok || !u.Alive {
		return nil
	}
	for _, f := range st.Faction.Units {
		if f.Alive && u.Pos.Chebyshev(f.Pos) == 1 {
			return []engine.Command{engine.AttackUnitCmd{AttackerID: u.ID, DefenderID: f.ID}}
		}
	}
	for _, c := range st.Faction.Cities {
		if u.Pos.Chebyshev(c.Pos) == 1 {
			return []engine.Command{engine.AttackCityCmd{AttackerID: u.ID, CityID: c.ID}}
		}
	}

	target, ok := nearestFaction(st, u.Pos)
	if !ok {
		return nil
	}
	dx, dy := sign(target.X-u.Pos.X), sign(target.Y-u.Pos.Y)
	var out []engine.Command
	for _, step := range []domain.Coord{u.Pos.Add(dx, dy), u.Pos.Add(dx, 0), u.Pos.Add(0, dy)} {
		if step == u.Pos || step == target {
			continue
		}
		out = append(out, engine.MoveUnitCmd{UnitID: u.ID, X: step.X, Y: step.Y})
	}
	return out
}

func nearestFaction(st *entity.GameState, from domain.Coord) (domain.Coord, bool) {
	best, bestDist := domain.Coord{}, -1
	consider := func(p domain.Coord) {
		if d := from.Manhattan(p); bestDist < 0 || d < bestDist {
			best, bestDist = p, d
		}
	}
	for _, f := range st.Faction.Units {
		if f.Alive {
			consider(f.Pos)
		}
	}
	for _, c := range st.Faction.Cities {
		consider(c.Pos)
	}
	return best, bestDist >= 0
}

func aliveUnits(units []domain.Unit) []domain.Unit {
	out := make([]domain.Unit, 0, len(units))
	for _, u := range units {
		if u.Alive {
			out = append(out, u)
		}
	}
	return out
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
