package engine

import (
	"testing"

	"Civilization/internal/game/entity/domain"
)

func TestAddToProductionQueue_第六项报队列已满(t *testing.T) {
	s := newTestGame(t, nil)
	city := foundTestCity(t, s)
	warrior := domain.UnitItem(domain.Warrior)
	for i := 0; i < domain.MaxProductionQueue; i++ {
		if err := AddToProductionQueue(s, city.ID, warrior); err != nil {
			t.Fatalf("第 %d 项入队失败: %v", i+1, err)
		}
	}
	wantErr(t, AddToProductionQueue(s, city.ID, warrior), domain.ErrQueueFull)
	if len(city.Queue) != domain.MaxProductionQueue {
		t.Fatalf("队列长度应保持 %d，got=%d", domain.MaxProductionQueue, len(city.Queue))
	}
}

func TestAddToProductionQueue_前置校验(t *testing.T) {
	s := newTestGame(t, nil)
	city := foundTestCity(t, s)

	wantErr(t, AddToProductionQueue(s, 42, domain.UnitItem(domain.Warrior)), domain.ErrCityNotFound)

	barracks := domain.BuildingItem(domain.Barracks)
	if err := AddToProductionQueue(s, city.ID, barracks); err != nil {
		t.Fatalf("兵营入队失败: %v", err)
	}
	wantErr(t, AddToProductionQueue(s, city.ID, barracks), domain.ErrAlreadyQueued)
	wantErr(t, AddToProductionQueue(s, city.ID, domain.BuildingItem(domain.Library)), domain.ErrTechnologyNotResearched)
	wantErr(t, AddToProductionQueue(s, city.ID, domain.UnitItem(domain.Settler)), domain.ErrInsufficientPopulation)

	s.Player.Research.Completed = s.Player.Research.Completed.With(domain.MaritimeNavigation)
	wantErr(t, AddToProductionQueue(s, city.ID, domain.UnitItem(domain.Galley)), domain.ErrInvalidItem)

	s.Player.Research.Completed = s.Player.Research.Completed.With(domain.Archery)
	s.Player.Resources.Gold = -1
	wantErr(t, AddToProductionQueue(s, city.ID, domain.UnitItem(domain.Archer)), domain.ErrInsufficientMaintenance)

	city.Construct(domain.Wall)
	wantErr(t, AddToProductionQueue(s, city.ID, domain.BuildingItem(domain.Wall)), domain.ErrBuildingAlreadyExists)
}

func TestAddToProductionQueue_入队时扣原材料(t *testing.T) {
	s := newTestGame(t, nil)
	city := foundTestCity(t, s)
	s.Player.Research.Completed = s.Player.Research.Completed.With(domain.IronWorking)

	sword := domain.UnitItem(domain.Swordsman)
	wantErr(t, AddToProductionQueue(s, city.ID, sword), domain.ErrInsufficientResources)
	s.Player.Resources.Iron = 10
	if err := AddToProductionQueue(s, city.ID, sword); err != nil {
		t.Fatalf("剑士入队失败: %v", err)
	}
	if s.Player.Resources.Iron != 0 {
		t.Fatalf("入队应扣除 10 铁，剩余 %d", s.Player.Resources.Iron)
	}
}

func TestAddToProductionQueue_开拓者木材随城市和在训数量增长(t *testing.T) {
	s := newTestGame(t, nil)
	city := foundTestCity(t, s)
	city.Population = 2
	s.Player.Resources.Wood = 200
	settler := domain.UnitItem(domain.Settler)

	if err := AddToProductionQueue(s, city.ID, settler); err != nil {
		t.Fatalf("第一个开拓者入队失败: %v", err)
	}
	if s.Player.Resources.Wood != 140 {
		t.Fatalf("第一个开拓者应花 60 木，剩余 %d", s.Player.Resources.Wood)
	}
	if err := AddToProductionQueue(s, city.ID, settler); err != nil {
		t.Fatalf("第二个开拓者入队失败: %v", err)
	}
	if s.Player.Resources.Wood != 20 {
		t.Fatalf("第二个开拓者应花 120 木，剩余 %d", s.Player.Resources.Wood)
	}
	wantErr(t, AddToProductionQueue(s, city.ID, settler), domain.ErrInsufficientResources)
}

func TestRemoveFromProductionQueue_按下标删除(t *testing.T) {
	s := newTestGame(t, nil)
	city := foundTestCity(t, s)
	_ = AddToProductionQueue(s, city.ID, domain.UnitItem(domain.Warrior))
	_ = AddToProductionQueue(s, city.ID, domain.BuildingItem(domain.Barracks))

	wantErr(t, RemoveFromProductionQueue(s, city.ID, 5), domain.ErrQueueItemNotFound)
	wantErr(t, RemoveFromProductionQueue(s, 9, 0), domain.ErrCityNotFound)
	if err := RemoveFromProductionQueue(s, city.ID, 0); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	if len(city.Queue) != 1 || city.Queue[0] != domain.BuildingItem(domain.Barracks) {
		t.Fatalf("剩余队列不对 %v", city.Queue)
	}
}

func TestPurchaseWithGold_单位放在城市或相邻空格(t *testing.T) {
	s := newTestGame(t, nil)
	city := foundTestCity(t, s)

	_, err := PurchaseWithGold(s, city.ID, domain.UnitItem(domain.Warrior))
	wantErr(t, err, domain.ErrInsufficientGold)

	s.Player.Resources.Gold = 250
	u, err := PurchaseWithGold(s, city.ID, domain.UnitItem(domain.Warrior))
	if err != nil {
		t.Fatalf("购买失败: %v", err)
	}
	if u.Pos != city.Pos || s.Player.Resources.Gold != 50 {
		t.Fatalf("购买结果不对 pos=%v gold=%d", u.Pos, s.Player.Resources.Gold)
	}

	s.Player.Resources.Gold = 100
	b, err := PurchaseWithGold(s, city.ID, domain.UnitItem(domain.Builder))
	if err != nil {
		t.Fatalf("购买工人失败: %v", err)
	}
	if b.Pos != domain.C(1, 1) {
		t.Fatalf("城市格被占时应放到第一个相邻空格 (1,1)，got=%v", b.Pos)
	}
}

func TestPurchaseWithGold_建筑立即建成并移出队列(t *testing.T) {
	s := newTestGame(t, nil)
	city := foundTestCity(t, s)
	wall := domain.BuildingItem(domain.Wall)
	if err := AddToProductionQueue(s, city.ID, wall); err != nil {
		t.Fatalf("入队失败: %v", err)
	}
	s.Player.Resources.Gold = domain.BuildingGoldCost
	u, err := PurchaseWithGold(s, city.ID, wall)
	if err != nil || u != nil {
		t.Fatalf("购买建筑失败 u=%v err=%v", u, err)
	}
	if !city.Buildings.Has(domain.Wall) || city.WallHealth != 50 || city.Defense != 5 {
		t.Fatalf("城墙效果不对 %+v", city)
	}
	if len(city.Queue) != 0 {
		t.Fatalf("已购买的项应移出队列")
	}
}

func TestPurchaseWithGold_单位上限(t *testing.T) {
	s := newTestGame(t, nil)
	city := foundTestCity(t, s)
	for s.Player.LiveUnitCount() < domain.MaxUnits {
		s.Player.SpawnUnit(domain.Warrior, domain.C(10, 10))
	}
	s.Player.Resources.Gold = 1000
	_, err := PurchaseWithGold(s, city.ID, domain.UnitItem(domain.Warrior))
	wantErr(t, err, domain.ErrLimitReached)
	if s.Player.Resources.Gold != 1000 {
		t.Fatalf("失败时不应扣金币")
	}
}

func TestTickProduction_达到成本后出队(t *testing.T) {
	s := newTestGame(t, nil)
	city := foundTestCity(t, s)
	city.Queue = append(city.Queue, domain.BuildingItem(domain.Barracks), domain.UnitItem(domain.Warrior))
	city.AccProduction = 16

	if _, ok := TickProduction(s, city); ok {
		t.Fatalf("18 点产能不应完成")
	}
	ev, ok := TickProduction(s, city)
	if !ok || ev.Item != domain.BuildingItem(domain.Barracks) || ev.UnitID != nil {
		t.Fatalf("兵营应完成 ev=%+v", ev)
	}
	if city.AccProduction != 0 || len(city.Queue) != 1 || !city.Buildings.Has(domain.Barracks) {
		t.Fatalf("完成后状态不对 %+v", city)
	}
}

func TestPurchaseWithGold_买下队首清空积累产能(t *testing.T) {
	s := newTestGame(t, nil)
	city := foundTestCity(t, s)
	wall, barracks := domain.BuildingItem(domain.Wall), domain.BuildingItem(domain.Barracks)
	for _, item := range []domain.ProductionItem{wall, barracks} {
		if err := AddToProductionQueue(s, city.ID, item); err != nil {
			t.Fatalf("入队失败: %v", err)
		}
	}
	city.AccProduction = 15

	s.Player.Resources.Gold = domain.BuildingGoldCost
	if _, err := PurchaseWithGold(s, city.ID, barracks); err != nil {
		t.Fatalf("购买兵营失败: %v", err)
	}
	if city.AccProduction != 15 {
		t.Fatalf("买的不是队首，积累产能应保留，got=%d", city.AccProduction)
	}

	s.Player.Resources.Gold = domain.BuildingGoldCost
	if _, err := PurchaseWithGold(s, city.ID, wall); err != nil {
		t.Fatalf("购买城墙失败: %v", err)
	}
	if city.AccProduction != 0 || len(city.Queue) != 0 {
		t.Fatalf("买下队首后积累产能应清零 acc=%d queue=%v", city.AccProduction, city.Queue)
	}
}
