package engine

import (
	"reflect"
	"testing"

	"Civilization/internal/game/entity"
	"Civilization/internal/game/entity/domain"
)

func TestEndTurn_已结束的对局是空操作(t *testing.T) {
	s := newTestGame(t, nil)
	s.Status = entity.StatusVictory
	before := s.Clone()
	rep := EndTurn(s, NewSequenceEntropy(5))
	if !rep.NoOp {
		t.Fatalf("终局 endTurn 应返回 NoOp")
	}
	if !reflect.DeepEqual(before, s) {
		t.Fatalf("终局 endTurn 不应修改状态")
	}
}

func TestEndTurn_产出金币并推进回合(t *testing.T) {
	s := newTestGame(t, nil)
	foundTestCity(t, s)
	rep := EndTurn(s, NewSequenceEntropy(5))
	if rep.GoldDelta != 2 || s.Player.Resources.Gold != 2 {
		t.Fatalf("金币产出不对 delta=%d gold=%d", rep.GoldDelta, s.Player.Resources.Gold)
	}
	if s.Turn != 2 || rep.Turn != 2 {
		t.Fatalf("回合应推进到 2，got=%d", s.Turn)
	}
}

func TestEndTurn_仓储上限截断原材料(t *testing.T) {
	s := newTestGame(t, nil)
	city := foundTestCity(t, s)
	s.Player.Tiles = append(s.Player.Tiles,
		domain.Tile{Pos: domain.C(0, 0), Improvement: domain.LumberMill},
		domain.Tile{Pos: domain.C(1, 0), Improvement: domain.LumberMill},
	)
	s.Player.Resources.Wood = 499
	EndTurn(s, NewSequenceEntropy(5))
	if s.Player.Resources.Wood != domain.StorageCapacity {
		t.Fatalf("木材应截断到 %d，got=%d", domain.StorageCapacity, s.Player.Resources.Wood)
	}

	city, _ = s.Player.City(city.ID)
	city.Construct(domain.Barracks)
	s.Player.Resources.Wood = 499
	EndTurn(s, NewSequenceEntropy(5))
	if s.Player.Resources.Wood != 503 {
		t.Fatalf("有兵营时上限 510，木材应为 503，got=%d", s.Player.Resources.Wood)
	}
}

func TestEndTurn_人口增长与饥荒(t *testing.T) {
	s := newTestGame(t, nil)
	city := foundTestCity(t, s)
	city.AccFood = domain.RequiredFood(1)
	rep := EndTurn(s, NewSequenceEntropy(5))
	city, _ = s.Player.City(city.ID)
	if city.Population != 2 || city.AccFood != 0 {
		t.Fatalf("人口应增长到 2 pop=%d food=%d", city.Population, city.AccFood)
	}
	if len(rep.Growth) != 1 || rep.Growth[0].Population != 2 {
		t.Fatalf("战报应记录人口变化 %+v", rep.Growth)
	}

	// 人口 2 吃 4 粮，产出 2，缺粮
	EndTurn(s, NewSequenceEntropy(5))
	city, _ = s.Player.City(city.ID)
	if city.Population != 1 || city.AccFood != 0 {
		t.Fatalf("饥荒应减少人口 pop=%d food=%d", city.Population, city.AccFood)
	}
}

func TestEndTurn_住房限制人口(t *testing.T) {
	s := newTestGame(t, nil)
	city := foundTestCity(t, s)
	city.Population = city.Housing
	city.FoodYield = 100
	EndTurn(s, NewSequenceEntropy(5))
	city, _ = s.Player.City(city.ID)
	if city.Population != city.Housing {
		t.Fatalf("人口不应超过住房 pop=%d housing=%d", city.Population, city.Housing)
	}
}

func TestEndTurn_城市成长后扩张一格(t *testing.T) {
	s := newTestGame(t, nil)
	city := foundTestCity(t, s)
	city.Growth = 9
	before := len(city.Tiles)
	ent := NewSequenceEntropy(3)
	rep := EndTurn(s, ent)
	city, _ = s.Player.City(city.ID)
	if city.Level != 1 || city.Growth != 0 {
		t.Fatalf("城市应升到 1 级 level=%d growth=%d", city.Level, city.Growth)
	}
	if len(city.Tiles) != before+1 {
		t.Fatalf("应扩张一格，got=%d", len(city.Tiles))
	}
	if len(rep.Growth) != 1 || rep.Growth[0].Expanded == nil {
		t.Fatalf("战报应记录扩张 %+v", rep.Growth)
	}
	got := *rep.Growth[0].Expanded
	if !city.Controls(got) || !s.Map.IsDiscovered(got) {
		t.Fatalf("扩张的格子 %v 应受控并被点亮", got)
	}
	if ent.Drawn() != 1 {
		t.Fatalf("扩张应消耗一个随机因子，drawn=%d", ent.Drawn())
	}
}

func TestEndTurn_未行动单位回血(t *testing.T) {
	s := newTestGame(t, nil)
	mustUnit(t, s, 2).Health = 50
	mustUnit(t, s, 1).Health = 50
	if err := MoveUnit(s, 1, domain.C(3, 3)); err != nil {
		t.Fatalf("移动失败: %v", err)
	}
	EndTurn(s, NewSequenceEntropy(5))
	if h := mustUnit(t, s, 2).Health; h != 55 {
		t.Fatalf("未行动的战士应回 5 血，got=%d", h)
	}
	b := mustUnit(t, s, 1)
	if b.Health != 50 || b.Movement != 2 {
		t.Fatalf("行动过的工人不回血但恢复行动力 hp=%d mv=%d", b.Health, b.Movement)
	}
}

func TestEndTurn_生产完成单位出现在城市(t *testing.T) {
	s := newTestGame(t, nil)
	city := foundTestCity(t, s)
	city.Queue = append(city.Queue, domain.UnitItem(domain.Warrior))
	city.AccProduction = 18
	rep := EndTurn(s, NewSequenceEntropy(5))
	if len(rep.Produced) != 1 || rep.Produced[0].UnitID == nil {
		t.Fatalf("应产出一个单位 %+v", rep.Produced)
	}
	u := mustUnit(t, s, *rep.Produced[0].UnitID)
	if u.Type != domain.Warrior || u.Pos != domain.C(2, 2) {
		t.Fatalf("产出单位不对 %+v", u)
	}
}

func TestEndTurn_科学点完成研究(t *testing.T) {
	s := newTestGame(t, nil)
	foundTestCity(t, s)
	if err := StartResearch(s, domain.Writing); err != nil {
		t.Fatalf("开始研究失败: %v", err)
	}
	s.Player.Research.Points = 4
	rep := EndTurn(s, NewSequenceEntropy(5))
	if rep.ResearchDone != "Writing" || !s.Player.Research.IsCompleted(domain.Writing) {
		t.Fatalf("Writing 应完成 rep=%q", rep.ResearchDone)
	}
	if s.Player.Research.Active() {
		t.Fatalf("完成后不应仍在研究")
	}
}

func TestEndTurn_蛮族按间隔刷兵(t *testing.T) {
	s := newTestGame(t, nil)
	s.Difficulty = domain.DifficultyHard
	s.Turn = 10
	rep := EndTurn(s, NewSequenceEntropy(0))
	if len(rep.Spawned) != 2 {
		t.Fatalf("每座蛮族城市应刷一个兵，got=%v", rep.Spawned)
	}
	for _, id := range rep.Spawned {
		u, ok := s.Faction.Unit(id)
		if !ok || u.Type != domain.Warrior {
			t.Fatalf("因子 0 应刷战士 %+v", u)
		}
	}

	s = newTestGame(t, nil)
	s.Difficulty = domain.DifficultyHard
	s.Turn = 100
	rep = EndTurn(s, NewSequenceEntropy(7))
	u, _ := s.Faction.Unit(rep.Spawned[0])
	if u.Type != domain.Horseman {
		t.Fatalf("100 回合后因子 7 应刷骑兵，got=%s", u.Type)
	}

	s = newTestGame(t, nil)
	s.Turn = 11
	if rep := EndTurn(s, NewSequenceEntropy(0)); len(rep.Spawned) != 0 {
		t.Fatalf("非刷兵回合不应刷兵")
	}
}

func TestEndTurn_胜负判定(t *testing.T) {
	s := newTestGame(t, nil)
	s.Faction.Units = nil
	s.Faction.Cities = nil
	rep := EndTurn(s, NewSequenceEntropy(5))
	if s.Status != entity.StatusVictory || rep.Status != "victory" {
		t.Fatalf("蛮族全灭应胜利 got=%s", s.Status)
	}

	s = newTestGame(t, nil)
	s.Player.Units = nil
	EndTurn(s, NewSequenceEntropy(5))
	if s.Status != entity.StatusDefeat {
		t.Fatalf("玩家无单位无城市应失败 got=%s", s.Status)
	}
}

func TestEndTurn_同一种子结果完全相同(t *testing.T) {
	run := func() *entity.GameState {
		s := newTestGame(t, nil)
		foundTestCity(t, s)
		for i := 0; i < 40; i++ {
			EndTurn(s, NewSeededEntropy(uint64(i)))
		}
		return s
	}
	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("相同输入与种子应得到相同状态")
	}
}

func TestEndTurn_被攻破的城市不回血并被清理(t *testing.T) {
	s := newTestGame(t, nil)
	city := foundTestCity(t, s)
	city.Health = 1
	s.Player.Units = nil
	s.Player.SpawnUnit(domain.Warrior, domain.C(19, 0))
	s.Faction.Units = nil
	s.Faction.SpawnUnit(domain.Tank, domain.C(1, 1))

	rep := EndTurn(s, NewSequenceEntropy(5))
	if len(rep.AI) == 0 || rep.AI[0].Action != AIAttackCity {
		t.Fatalf("坦克应攻击相邻城市 %+v", rep.AI)
	}
	if len(s.Player.Cities) != 0 {
		t.Fatalf("生命归零的城市应被清理，got=%+v", s.Player.Cities)
	}
	if s.Status != entity.StatusActive {
		t.Fatalf("玩家仍有单位，对局应继续 status=%v", s.Status)
	}
}
