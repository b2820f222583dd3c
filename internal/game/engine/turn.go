package engine

import (
	"Civilization/internal/game/entity"
	"Civilization/internal/game/entity/domain"
)

// TurnReport 一次 endTurn 的汇总。
type TurnReport struct {
	NoOp         bool              `json:"no_op,omitempty"`
	Turn         int               `json:"turn"`
	Status       string            `json:"status"`
	GoldDelta    int               `json:"gold_delta"`
	Science      int               `json:"science"`
	ResearchDone string            `json:"research_done,omitempty"`
	AI           []AIEvent         `json:"ai,omitempty"`
	Growth       []CityGrowth      `json:"growth,omitempty"`
	Produced     []ProductionEvent `json:"produced,omitempty"`
	Spawned      []int             `json:"spawned,omitempty"`
}

// CityGrowth 人口或等级发生变化的城市。
type CityGrowth struct {
	CityID     int           `json:"city_id"`
	Population int           `json:"population"`
	Level      int           `json:"level"`
	Expanded   *domain.Coord `json:"expanded,omitempty"`
}

type turnRunner struct {
	state  *entity.GameState
	ent    Entropy
	report TurnReport
}

// EndTurn 按固定顺序推进一个回合；已结束的对局直接返回。
func EndTurn(s *entity.GameState, ent Entropy) TurnReport {
	if s.Status.Terminal() {
		return TurnReport{NoOp: true, Turn: s.Turn, Status: s.Status.String()}
	}
	r := &turnRunner{state: s, ent: ent}
	r.collectYields()
	r.runFactionAI()
	r.growCities()
	r.restoreUnits()
	r.tickProduction()
	r.advanceResearch()
	s.Sweep()
	r.spawnFaction()
	r.evaluate()
	return r.report
}

// collectYields 城市金币减维护费；地块改良产出原材料，受仓储上限约束。
func (r *turnRunner) collectYields() {
	p := &r.state.Player
	gold, science := 0, 0
	for i := range p.Cities {
		gold += p.Cities[i].GoldYield
		science += p.Cities[i].ScienceYield
	}
	for i := range p.Units {
		if p.Units[i].Alive {
			gold -= p.Units[i].Type.Stats().Upkeep
		}
	}
	p.Resources.Gold += gold

	capacity := p.StorageCapacity()
	for _, t := range p.Tiles {
		if kind, n := t.Improvement.Yield(); n > 0 {
			p.Resources.AddCapped(kind, n, capacity)
		}
	}
	p.Resources.ClampStorage(capacity)

	r.report.GoldDelta = gold
	r.report.Science = science
}

func (r *turnRunner) growCities() {
	p := &r.state.Player
	for i := range p.Cities {
		c := &p.Cities[i]
		if !c.Alive() {
			continue // 本回合被摧毁，等清理
		}
		before := c.Population

		c.AccFood += c.FoodYield - 2*c.Population
		switch {
		case c.AccFood >= 0 && c.AccFood >= domain.RequiredFood(c.Population) && c.Population < c.Housing:
			c.Population++
			c.AccFood = 0
		case c.AccFood < 0 && c.Population > 1:
			c.Population--
			c.AccFood = 0
		}

		c.Health = min(c.Health+domain.CityHealthRegen, domain.MaxHealth)

		c.Growth += c.Population
		var expanded *domain.Coord
		if float64(c.Growth) >= domain.GrowthThreshold(c.Level) {
			c.Growth = 0
			c.Level++
			if tile, ok := r.expandCity(c); ok {
				expanded = &tile
			}
		}
		if c.Population != before || expanded != nil {
			r.report.Growth = append(r.report.Growth, CityGrowth{
				CityID: c.ID, Population: c.Population, Level: c.Level, Expanded: expanded,
			})
		}
	}
}

// expandCity 在城市控制区四邻中随机取一个未被任何城市控制的格子。
func (r *turnRunner) expandCity(c *domain.City) (domain.Coord, bool) {
	p := &r.state.Player
	var candidates []domain.Coord
	seen := make(map[domain.Coord]bool)
	for _, t := range c.Tiles {
		for _, n := range t.Neighbours4() {
			if !n.InBounds() || seen[n] || c.Controls(n) {
				continue
			}
			seen[n] = true
			if _, taken := p.ControllingCity(n); taken {
				continue
			}
			candidates = append(candidates, n)
		}
	}
	if len(candidates) == 0 {
		return domain.Coord{}, false
	}
	pick := candidates[r.ent.Factor()%len(candidates)]
	c.Tiles = append(c.Tiles, pick)
	r.state.Map.DiscoverAll([]domain.Coord{pick})
	return pick, true
}

func (r *turnRunner) restoreUnits() {
	for i := range r.state.Player.Units {
		if r.state.Player.Units[i].Alive {
			r.state.Player.Units[i].RestoreTurn()
		}
	}
	for i := range r.state.Faction.Units {
		if r.state.Faction.Units[i].Alive {
			r.state.Faction.Units[i].ResetMovement()
		}
	}
}

func (r *turnRunner) tickProduction() {
	p := &r.state.Player
	for i := range p.Cities {
		if ev, ok := TickProduction(r.state, &p.Cities[i]); ok {
			r.report.Produced = append(r.report.Produced, ev)
		}
	}
}

func (r *turnRunner) advanceResearch() {
	p := &r.state.Player
	done, ok := p.Research.AddPoints(r.report.Science)
	if !ok {
		return
	}
	r.report.ResearchDone = done.String()
	if done == domain.Urbanization {
		for i := range p.Cities {
			p.Cities[i].Housing += domain.UrbanizationHousing
		}
	}
}

// spawnFaction 每隔 SpawnInterval 回合每座蛮族城市刷一个兵，整轮共用一次随机。
func (r *turnRunner) spawnFaction() {
	s := r.state
	if s.Turn%s.Difficulty.SpawnInterval() != 0 || len(s.Faction.Cities) == 0 {
		return
	}
	factor := r.ent.Factor()
	t := domain.Warrior
	switch {
	case s.Turn >= 100 && factor < 5:
		t = domain.Swordsman
	case s.Turn >= 100:
		t = domain.Horseman
	case factor >= 5:
		t = domain.Archer
	}
	for i := range s.Faction.Cities {
		if s.Faction.LiveUnitCount() >= domain.MaxUnits {
			return
		}
		pos, ok := placement(s, s.Faction.Units, s.Faction.Cities[i].Pos, t)
		if !ok {
			continue
		}
		u := s.Faction.SpawnUnit(t, pos)
		r.report.Spawned = append(r.report.Spawned, u.ID)
	}
}

func (r *turnRunner) evaluate() {
	s := r.state
	// 本回合可能失去了带兵营的城市，仓储上限需要重新截断
	s.Player.Resources.ClampStorage(s.Player.StorageCapacity())
	switch {
	case s.Player.Defeated():
		s.Status = entity.StatusDefeat
	case s.Faction.Defeated():
		s.Status = entity.StatusVictory
	}
	s.Turn++
	r.report.Turn = s.Turn
	r.report.Status = s.Status.String()
}
