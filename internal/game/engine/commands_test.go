package engine

import (
	"testing"

	"Civilization/internal/game/entity/domain"
	"Civilization/modules/kit/errx"
)

func TestMoveUnit_曼哈顿距离不超过行动力(t *testing.T) {
	s := newTestGame(t, nil)
	if err := MoveUnit(s, 0, domain.C(3, 3)); err != nil {
		t.Fatalf("移动到 (3,3) 应成功: %v", err)
	}
	u := mustUnit(t, s, 0)
	if u.Pos != domain.C(3, 3) || u.Movement != 0 {
		t.Fatalf("移动后位置/行动力不对 pos=%v mv=%d", u.Pos, u.Movement)
	}

	s = newTestGame(t, nil)
	wantErr(t, MoveUnit(s, 0, domain.C(5, 2)), domain.ErrOutOfMovementRange)
	if mustUnit(t, s, 0).Pos != domain.C(2, 2) {
		t.Fatalf("失败的移动不应改变位置")
	}
}

func TestMoveUnit_校验顺序与地形(t *testing.T) {
	terrain := plainsMap()
	terrain[domain.C(1, 3).Index()] = uint8(domain.TerrainSea)
	s := newTestGame(t, terrain)

	wantErr(t, MoveUnit(s, 99, domain.C(1, 1)), domain.ErrUnitNotFound)
	wantErr(t, MoveUnit(s, 2, domain.C(20, 3)), domain.ErrOutOfMapBounds)
	wantErr(t, MoveUnit(s, 2, domain.C(3, 2)), domain.ErrUnitTileOccupied)
	wantErr(t, MoveUnit(s, 2, domain.C(1, 3)), domain.ErrCannotMove)

	if err := MoveUnit(s, 2, domain.C(2, 5)); err != nil {
		t.Fatalf("移动失败: %v", err)
	}
	wantErr(t, MoveUnit(s, 2, domain.C(2, 6)), domain.ErrCannotMove)
}

func TestMoveUnit_落点按基础移动力点亮迷雾(t *testing.T) {
	s, err := InitializeGame(plainsMap(), domain.DifficultyNormal)
	if err != nil {
		t.Fatalf("InitializeGame 失败: %v", err)
	}
	if err := InitializePlayer(s, domain.C(10, 10)); err != nil {
		t.Fatalf("InitializePlayer 失败: %v", err)
	}
	if err := InitializeFaction(s, domain.C(15, 15), domain.C(17, 17)); err != nil {
		t.Fatalf("InitializeFaction 失败: %v", err)
	}
	if s.Map.IsDiscovered(domain.C(10, 15)) {
		t.Fatalf("(10,15) 初始不应已探索")
	}
	if err := MoveUnit(s, 2, domain.C(10, 13)); err != nil {
		t.Fatalf("移动失败: %v", err)
	}
	if !s.Map.IsDiscovered(domain.C(10, 15)) {
		t.Fatalf("(10,15) 在曼哈顿 2 以内应被点亮")
	}
	if s.Map.IsDiscovered(domain.C(12, 15)) {
		t.Fatalf("(12,15) 曼哈顿距离 4 不应被点亮")
	}
}

func TestFoundCity_校验与成功(t *testing.T) {
	s := newTestGame(t, nil)
	_, err := FoundCity(s, domain.C(2, 3), 2, "")
	wantErr(t, err, domain.ErrInvalidUnitType)
	_, err = FoundCity(s, domain.C(4, 4), 0, "")
	wantErr(t, err, domain.ErrUnitWrongPosition)

	id, err := FoundCity(s, domain.C(2, 2), 0, "")
	if err != nil {
		t.Fatalf("建城失败: %v", err)
	}
	c, _ := s.Player.City(id)
	if c.Name != "City 1" || len(c.Tiles) != 25 || c.Population != 1 || c.Housing != domain.BaseHousing {
		t.Fatalf("新城属性不对 %+v", c)
	}
	if _, ok := s.Player.Unit(0); ok {
		t.Fatalf("开拓者应被消耗")
	}
}

func TestFoundCity_同一格重复建城报建筑族错误(t *testing.T) {
	s := newTestGame(t, nil)
	foundTestCity(t, s)
	u := s.Player.SpawnUnit(domain.Settler, domain.C(2, 2))
	_, err := FoundCity(s, domain.C(2, 2), u.ID, "Again")
	wantErr(t, err, domain.ErrCityTileOccupied)
	if errx.FamilyOf(err) != domain.FamilyBuilding {
		t.Fatalf("期望 BUILDING 族错误，got=%s", errx.FamilyOf(err))
	}
	if len(s.Player.Cities) != 1 {
		t.Fatalf("不应建出第二座城")
	}
}

func TestFoundCity_新城不控制已被控制的格子(t *testing.T) {
	s := newTestGame(t, nil)
	foundTestCity(t, s)
	u := s.Player.SpawnUnit(domain.Settler, domain.C(5, 2))
	id, err := FoundCity(s, domain.C(5, 2), u.ID, "East")
	if err != nil {
		t.Fatalf("建城失败: %v", err)
	}
	c, _ := s.Player.City(id)
	// x 3..7 与 0..4 重叠的两列被第一座城控制
	if len(c.Tiles) != 15 {
		t.Fatalf("期望控制 15 格，got=%d", len(c.Tiles))
	}
	if c.Controls(domain.C(4, 2)) {
		t.Fatalf("(4,2) 已属于第一座城")
	}
}

func TestUpgradeTile_工人建改良(t *testing.T) {
	terrain := plainsMap()
	terrain[domain.C(3, 2).Index()] = uint8(domain.TerrainForest)
	terrain[domain.C(1, 2).Index()] = uint8(domain.TerrainGrassland)
	terrain[domain.C(10, 10).Index()] = uint8(domain.TerrainForest)
	s := newTestGame(t, terrain)
	city := foundTestCity(t, s)

	_, err := UpgradeTile(s, domain.C(2, 3), 2)
	wantErr(t, err, domain.ErrInvalidUnitType)
	_, err = UpgradeTile(s, domain.C(3, 3), 1)
	wantErr(t, err, domain.ErrUnitWrongPosition)

	imp, err := UpgradeTile(s, domain.C(3, 2), 1)
	if err != nil || imp != domain.LumberMill {
		t.Fatalf("期望建成伐木场，got=%v err=%v", imp, err)
	}
	if _, ok := s.Player.Unit(1); ok {
		t.Fatalf("工人行动次数耗尽后应移除")
	}

	again := s.Player.SpawnUnit(domain.Builder, domain.C(3, 2))
	_, err = UpgradeTile(s, domain.C(3, 2), again.ID)
	wantErr(t, err, domain.ErrTileOccupied)

	plains := s.Player.SpawnUnit(domain.Builder, domain.C(1, 1))
	_, err = UpgradeTile(s, domain.C(1, 1), plains.ID)
	wantErr(t, err, domain.ErrNotUpgradeable)

	far := s.Player.SpawnUnit(domain.Builder, domain.C(10, 10))
	_, err = UpgradeTile(s, domain.C(10, 10), far.ID)
	wantErr(t, err, domain.ErrTileNotControlled)

	farmer := s.Player.SpawnUnit(domain.Builder, domain.C(1, 2))
	if _, err := UpgradeTile(s, domain.C(1, 2), farmer.ID); err != nil {
		t.Fatalf("建农场失败: %v", err)
	}
	city, _ = s.Player.City(city.ID)
	if city.FoodYield != 4 {
		t.Fatalf("农场应给城市 +2 粮食，got=%d", city.FoodYield)
	}
}

func TestUpgradeUnit_经验门槛与行动力(t *testing.T) {
	s := newTestGame(t, nil)
	u := mustUnit(t, s, 2)
	u.Exp = 9
	wantErr(t, UpgradeUnit(s, 2), domain.ErrNotEnoughExp)

	u.Exp = 10
	u.Health = 50
	if err := UpgradeUnit(s, 2); err != nil {
		t.Fatalf("升级失败: %v", err)
	}
	u = mustUnit(t, s, 2)
	if u.Level != 1 || u.Attack != 10 || u.Health != 80 || u.Movement != 0 {
		t.Fatalf("升级结果不对 %+v", u)
	}
	wantErr(t, UpgradeUnit(s, 2), domain.ErrNoMovementPoints)

	u.Movement = 2
	u.Level = domain.MaxLevel
	wantErr(t, UpgradeUnit(s, 2), domain.ErrMaxLevelReached)
}

func TestAttackUnit_相邻攻击与宝石奖励(t *testing.T) {
	s := newTestGame(t, nil)
	enemy := s.Faction.SpawnUnit(domain.Warrior, domain.C(3, 4))
	far := s.Faction.SpawnUnit(domain.Warrior, domain.C(5, 5))

	_, err := AttackUnit(s, 2, far.ID, NewSequenceEntropy(5))
	wantErr(t, err, domain.ErrOutOfAttackRange)
	_, err = AttackUnit(s, 2, 99, NewSequenceEntropy(5))
	wantErr(t, err, domain.ErrUnitNotFound)

	rep, err := AttackUnit(s, 2, enemy.ID, NewSequenceEntropy(5))
	if err != nil {
		t.Fatalf("攻击失败: %v", err)
	}
	if rep.AttackerHealth != 71 || rep.DefenderHealth != 70 {
		t.Fatalf("战报不对 %+v", rep)
	}
	_, err = AttackUnit(s, 2, enemy.ID, NewSequenceEntropy(5))
	wantErr(t, err, domain.ErrNoMovementPoints)

	mustUnit(t, s, 2).Movement = 2
	e, _ := s.Faction.Unit(enemy.ID)
	e.Health = 10
	rep, err = AttackUnit(s, 2, enemy.ID, NewSequenceEntropy(5))
	if err != nil || rep.DefenderAlive {
		t.Fatalf("应击杀敌人 rep=%+v err=%v", rep, err)
	}
	if s.Player.Resources.Gems != s.Difficulty.GemsPerKill() {
		t.Fatalf("击杀应获得宝石，got=%d", s.Player.Resources.Gems)
	}
	if _, ok := s.Faction.Unit(enemy.ID); ok {
		t.Fatalf("阵亡单位应被清理")
	}
}

func TestAttackUnit_非战斗单位不能攻击(t *testing.T) {
	s := newTestGame(t, nil)
	enemy := s.Faction.SpawnUnit(domain.Warrior, domain.C(3, 3))
	_, err := AttackUnit(s, 0, enemy.ID, NewSequenceEntropy(5))
	wantErr(t, err, domain.ErrInvalidAttack)
}

func TestAttackCity_攻城与摧毁奖励(t *testing.T) {
	s := newTestGame(t, nil)
	s.Faction.Cities = append(s.Faction.Cities, domain.NewFactionCity(5, domain.C(3, 4)))

	rep, err := AttackCity(s, 2, 5, NewSequenceEntropy(5))
	if err != nil {
		t.Fatalf("攻城失败: %v", err)
	}
	if rep.CityHealth != 980 || rep.AttackerHealth != 90 {
		t.Fatalf("攻城结算不对 %+v", rep)
	}
	if mustUnit(t, s, 2).Exp != domain.BaseExp {
		t.Fatalf("攻城应获得基础经验")
	}

	w := mustUnit(t, s, 2)
	w.Movement = 2
	c, _ := s.Faction.City(5)
	c.Health = 10
	rep, err = AttackCity(s, 2, 5, NewSequenceEntropy(5))
	if err != nil || !rep.CityDestroyed {
		t.Fatalf("城市应被摧毁 rep=%+v err=%v", rep, err)
	}
	if s.Player.Resources.Gems != s.Difficulty.GemsPerCityDestroyed() {
		t.Fatalf("摧毁城市宝石不对，got=%d", s.Player.Resources.Gems)
	}
	if _, ok := s.Faction.City(5); ok {
		t.Fatalf("被摧毁的城市应被清理")
	}
}

func TestRepairWall_按缺失耐久收费(t *testing.T) {
	s := newTestGame(t, nil)
	city := foundTestCity(t, s)
	_, err := RepairWall(s, city.ID)
	wantErr(t, err, domain.ErrNoWall)

	city.Construct(domain.Wall)
	_, err = RepairWall(s, city.ID)
	wantErr(t, err, domain.ErrNotDamagedWall)

	city.WallHealth = 40
	s.Player.Resources.Wood = 10
	_, err = RepairWall(s, city.ID)
	wantErr(t, err, domain.ErrInsufficientWood)

	s.Player.Resources.Wood = 20
	_, err = RepairWall(s, city.ID)
	wantErr(t, err, domain.ErrInsufficientStone)

	s.Player.Resources.Stone = 20
	cost, err := RepairWall(s, city.ID)
	if err != nil || cost != 20 {
		t.Fatalf("修墙应花费 20，got=%d err=%v", cost, err)
	}
	if city.WallHealth != 50 || s.Player.Resources.Wood != 0 || s.Player.Resources.Stone != 0 {
		t.Fatalf("修墙结算不对 wall=%d res=%+v", city.WallHealth, s.Player.Resources)
	}
}

func TestHealUnit_城内用粮食回血(t *testing.T) {
	s := newTestGame(t, nil)
	city := foundTestCity(t, s)

	_, err := HealUnit(s, 2)
	wantErr(t, err, domain.ErrUnitWrongPosition)

	if err := MoveUnit(s, 2, domain.C(2, 2)); err != nil {
		t.Fatalf("移动失败: %v", err)
	}
	_, err = HealUnit(s, 2)
	wantErr(t, err, domain.ErrUnitNotDamaged)

	mustUnit(t, s, 2).Health = 61
	city.AccFood = 10
	_, err = HealUnit(s, 2)
	wantErr(t, err, domain.ErrNotEnoughFood)

	city.AccFood = 25
	cost, err := HealUnit(s, 2)
	if err != nil || cost != 20 {
		t.Fatalf("回血应花 20 粮，got=%d err=%v", cost, err)
	}
	u := mustUnit(t, s, 2)
	if u.Health != domain.MaxHealth || city.AccFood != 5 || u.Movement != 0 {
		t.Fatalf("回血结算不对 unit=%+v food=%d", u, city.AccFood)
	}
}

func TestStartResearch_已完成的科技不能再研究(t *testing.T) {
	s := newTestGame(t, nil)
	if err := StartResearch(s, domain.Writing); err != nil {
		t.Fatalf("开始研究失败: %v", err)
	}
	wantErr(t, StartResearch(s, domain.Agriculture), domain.ErrAlreadyResearching)
	if done, ok := s.Player.Research.AddPoints(5); !ok || done != domain.Writing {
		t.Fatalf("5 点应完成 Writing")
	}
	wantErr(t, StartResearch(s, domain.Writing), domain.ErrResearchAlreadyCompleted)
	wantErr(t, StartResearch(s, domain.Economics), domain.ErrCannotResearch)
	wantErr(t, StartResearch(s, domain.TechNone), domain.ErrInvalidResearch)
	if err := StartResearch(s, domain.Education); err != nil {
		t.Fatalf("前置已满足应能研究: %v", err)
	}
}
