package engine

import (
	"testing"

	"Civilization/internal/game/entity"
	"Civilization/internal/game/entity/domain"
)

// aiGame 去掉初始蛮族守卫，只留测试指定的单位。
func aiGame(t *testing.T, at domain.Coord) (*entity.GameState, *turnRunner, int) {
	t.Helper()
	s := newTestGame(t, nil)
	s.Faction.Units = nil
	u := s.Faction.SpawnUnit(domain.Warrior, at)
	return s, &turnRunner{state: s, ent: NewSequenceEntropy(5)}, u.ID
}

func TestGreedyStep_沿偏移更大的轴走(t *testing.T) {
	cases := []struct {
		to   domain.Coord
		want domain.Coord
	}{
		{domain.C(3, 1), domain.C(1, 0)},
		{domain.C(1, 3), domain.C(0, 1)},
		{domain.C(2, 2), domain.C(1, 0)},
	}
	for _, c := range cases {
		if got := greedyStep(domain.C(0, 0), c.to); got != c.want {
			t.Fatalf("greedyStep((0,0),%v) 期望 %v，got=%v", c.to, c.want, got)
		}
	}
}

func TestNearestTarget_等距时单位优先(t *testing.T) {
	s := newTestGame(t, nil)
	s.Player.Units = nil
	s.Player.SpawnUnit(domain.Warrior, domain.C(5, 3))
	s.Player.Cities = append(s.Player.Cities, domain.NewCity(0, "A", domain.C(3, 5), nil, false))
	got, ok := nearestTarget(s, domain.C(5, 5))
	if !ok || got.isCity || got.pos != domain.C(5, 3) {
		t.Fatalf("等距时应选单位，got=%+v", got)
	}
}

func TestFactionAI_向最近目标走一步(t *testing.T) {
	s, r, id := aiGame(t, domain.C(5, 3))
	r.runFactionAI()
	u, _ := s.Faction.Unit(id)
	if u.Pos != domain.C(4, 3) {
		t.Fatalf("应朝工人 (3,2) 沿 x 轴走到 (4,3)，got=%v", u.Pos)
	}
	if len(r.report.AI) != 1 || r.report.AI[0].Action != AIMove {
		t.Fatalf("战报应记录移动 %+v", r.report.AI)
	}
}

func TestFactionAI_下一步是海时原地不动(t *testing.T) {
	s, r, id := aiGame(t, domain.C(5, 2))
	s.Map.Terrain[domain.C(4, 2).Index()] = domain.TerrainSea
	r.runFactionAI()
	u, _ := s.Faction.Unit(id)
	if u.Pos != domain.C(5, 2) || r.report.AI[0].Action != AIPass {
		t.Fatalf("陆军不应下海 pos=%v ev=%+v", u.Pos, r.report.AI[0])
	}
}

func TestFactionAI_相邻时攻击(t *testing.T) {
	s, r, _ := aiGame(t, domain.C(4, 2))
	r.runFactionAI()
	if r.report.AI[0].Action != AIAttackUnit {
		t.Fatalf("相邻时应攻击 %+v", r.report.AI[0])
	}
	b, _ := s.Player.Unit(1)
	if b.Alive {
		t.Fatalf("工人被攻击应直接阵亡")
	}
}

func TestFactionAI_攻击阵亡给玩家宝石(t *testing.T) {
	s, r, id := aiGame(t, domain.C(1, 4))
	u, _ := s.Faction.Unit(id)
	u.Health = 1
	r.runFactionAI()
	ev := r.report.AI[0]
	if ev.Action != AIAttackUnit || !ev.Died {
		t.Fatalf("残血蛮族攻击应阵亡 %+v", ev)
	}
	if s.Player.Resources.Gems != s.Difficulty.GemsPerKill() {
		t.Fatalf("玩家应获得宝石，got=%d", s.Player.Resources.Gems)
	}
	if w := mustUnit(t, s, 2); w.Health != 80 {
		t.Fatalf("玩家战士应剩 80 血，got=%d", w.Health)
	}
}

func TestFactionAI_经验足够时先升级(t *testing.T) {
	s, r, id := aiGame(t, domain.C(10, 10))
	u, _ := s.Faction.Unit(id)
	u.Exp = domain.ExpThresholds[0]
	r.runFactionAI()
	u, _ = s.Faction.Unit(id)
	if u.Level != 1 || u.Attack != 10 || u.Pos != domain.C(10, 10) {
		t.Fatalf("应原地升级 %+v", u)
	}
	if r.report.AI[0].Action != AILevelUp {
		t.Fatalf("战报应记录升级 %+v", r.report.AI[0])
	}
}

func TestEndTurn_蛮族单位不回血只恢复行动力(t *testing.T) {
	s, _, id := aiGame(t, domain.C(10, 10))
	u, _ := s.Faction.Unit(id)
	u.Health = 50
	u.Movement = 0

	next, _, err := Execute(s, EndTurnCmd{}, NewSequenceEntropy(5))
	if err != nil {
		t.Fatalf("endTurn 失败: %v", err)
	}
	u, ok := next.Faction.Unit(id)
	if !ok {
		t.Fatalf("找不到蛮族单位 %d", id)
	}
	if u.Pos == domain.C(10, 10) {
		t.Fatalf("蛮族单位本回合应已移动 pos=%v", u.Pos)
	}
	if u.Health != 50 || u.Movement != u.BaseMovement() {
		t.Fatalf("蛮族单位应只恢复行动力 health=%d movement=%d", u.Health, u.Movement)
	}
}
