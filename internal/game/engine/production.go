package engine

import (
	"Civilization/internal/game/entity"
	"Civilization/internal/game/entity/domain"
)

// settlerWoodCost 开拓者木材花费随 (城市数 + 已在训练的开拓者数) 增长。
func settlerWoodCost(p *entity.PlayerState) int {
	n := len(p.Cities)
	for i := range p.Cities {
		n += p.Cities[i].QueuedCount(domain.UnitItem(domain.Settler))
	}
	return domain.Settler.Stats().ResourceCost * n
}

// resourceCost 入队时需要扣除的原材料。
func resourceCost(p *entity.PlayerState, item domain.ProductionItem) (domain.ResourceKind, int) {
	if item.Kind != domain.ItemUnit {
		return domain.ResourceNone, 0
	}
	s := item.Unit.Stats()
	if item.Unit == domain.Settler {
		return s.Resource, settlerWoodCost(p)
	}
	return s.Resource, s.ResourceCost
}

// checkItem 入队与购买共用的前置校验：科技、重复建筑、沿海、人口、维护费。
func checkItem(p *entity.PlayerState, city *domain.City, item domain.ProductionItem) error {
	if !item.Valid() {
		return domain.ErrInvalidItem.WithData("item", item.String())
	}
	if item.Kind == domain.ItemBuilding && city.Buildings.Has(item.Building) {
		return domain.ErrBuildingAlreadyExists.WithData("building", item.Building.String())
	}
	if tech := item.RequiredTech(); !p.Research.IsCompleted(tech) {
		return domain.ErrTechnologyNotResearched.WithData("tech", tech.String())
	}
	if item.Kind != domain.ItemUnit {
		return nil
	}
	s := item.Unit.Stats()
	if s.Naval && !city.Coastal {
		return domain.ErrInvalidItem.WithData("reason", "city is not coastal")
	}
	if item.Unit == domain.Settler && city.Population < 2 {
		return domain.ErrInsufficientPopulation.WithData("population", city.Population)
	}
	if s.Upkeep > 0 && p.Resources.Gold < 0 {
		return domain.ErrInsufficientMaintenance.WithData("gold", p.Resources.Gold)
	}
	return nil
}

// AddToProductionQueue 入队并立即扣除原材料。
func AddToProductionQueue(s *entity.GameState, cityID int, item domain.ProductionItem) error {
	p := &s.Player
	city, ok := p.City(cityID)
	if !ok {
		return domain.ErrCityNotFound.WithData("city_id", cityID)
	}
	if len(city.Queue) >= domain.MaxProductionQueue {
		return domain.ErrQueueFull.WithData("city_id", cityID)
	}
	if item.Kind == domain.ItemBuilding && city.IsQueued(item) {
		return domain.ErrAlreadyQueued.WithData("item", item.String())
	}
	if err := checkItem(p, city, item); err != nil {
		return err
	}
	kind, cost := resourceCost(p, item)
	if !p.Resources.Has(kind, cost) {
		return domain.ErrInsufficientResources.WithData(kind.String(), cost)
	}
	p.Resources.Spend(kind, cost)
	city.Queue = append(city.Queue, item)
	return nil
}

// RemoveFromProductionQueue 按下标出队，不退还资源。
func RemoveFromProductionQueue(s *entity.GameState, cityID, index int) error {
	city, ok := s.Player.City(cityID)
	if !ok {
		return domain.ErrCityNotFound.WithData("city_id", cityID)
	}
	if index < 0 || index >= len(city.Queue) {
		return domain.ErrQueueItemNotFound.WithData("index", index)
	}
	city.Queue = append(city.Queue[:index], city.Queue[index+1:]...)
	return nil
}

// PurchaseWithGold 金币直接完成，绕过队列。
func PurchaseWithGold(s *entity.GameState, cityID int, item domain.ProductionItem) (*domain.Unit, error) {
	p := &s.Player
	city, ok := p.City(cityID)
	if !ok {
		return nil, domain.ErrCityNotFound.WithData("city_id", cityID)
	}
	if err := checkItem(p, city, item); err != nil {
		return nil, err
	}
	cost := item.GoldCost()
	if p.Resources.Gold < cost {
		return nil, domain.ErrInsufficientGold.WithData("cost", cost).WithData("gold", p.Resources.Gold)
	}
	var pos domain.Coord
	if item.Kind == domain.ItemUnit {
		if p.LiveUnitCount() >= domain.MaxUnits {
			return nil, domain.ErrLimitReached.WithData("units", p.LiveUnitCount())
		}
		var found bool
		if pos, found = placement(s, p.Units, city.Pos, item.Unit); !found {
			return nil, domain.ErrUnitTileOccupied.WithData("city_id", cityID)
		}
	}

	p.Resources.Gold -= cost
	if len(city.Queue) > 0 && city.Queue[0] == item {
		city.AccProduction = 0 // 积累的产能属于队首，不顺延给下一项
	}
	city.RemoveQueued(item)
	if item.Kind == domain.ItemBuilding {
		city.Construct(item.Building)
		return nil, nil
	}
	if item.Unit == domain.Settler {
		city.Population--
	}
	u := p.SpawnUnit(item.Unit, pos)
	return &u, nil
}

// placement 新单位优先放在城市格，被己方单位占用时找一个相邻空格。
func placement(s *entity.GameState, own []domain.Unit, at domain.Coord, t domain.UnitType) (domain.Coord, bool) {
	occupied := func(c domain.Coord) bool {
		for i := range own {
			if own[i].Alive && own[i].Pos == c {
				return true
			}
		}
		return false
	}
	if !occupied(at) {
		return at, true
	}
	naval := t.Stats().Naval
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			c := at.Add(dx, dy)
			if !c.InBounds() || occupied(c) {
				continue
			}
			if s.Map.Terrain[c.Index()].IsSea() != naval {
				continue
			}
			return c, true
		}
	}
	return domain.Coord{}, false
}

// ProductionEvent 一座城市本回合的生产结果。
type ProductionEvent struct {
	CityID int                   `json:"city_id"`
	Item   domain.ProductionItem `json:"item"`
	UnitID *int                  `json:"unit_id,omitempty"`
}

// TickProduction 累加产能，达到队首生产成本时完成并出队。
// 单位数已满或无处安放时队首保持等待，累计值保留。
func TickProduction(s *entity.GameState, city *domain.City) (ProductionEvent, bool) {
	if len(city.Queue) == 0 {
		return ProductionEvent{}, false
	}
	city.AccProduction += city.ProductionYield
	head := city.Queue[0]
	if city.AccProduction < head.ProductionCost() {
		return ProductionEvent{}, false
	}

	ev := ProductionEvent{CityID: city.ID, Item: head}
	p := &s.Player
	switch head.Kind {
	case domain.ItemUnit:
		if p.LiveUnitCount() >= domain.MaxUnits {
			return ProductionEvent{}, false
		}
		pos, ok := placement(s, p.Units, city.Pos, head.Unit)
		if !ok {
			return ProductionEvent{}, false
		}
		if head.Unit == domain.Settler && city.Population > 1 {
			city.Population--
		}
		u := p.SpawnUnit(head.Unit, pos)
		ev.UnitID = &u.ID
	case domain.ItemBuilding:
		city.Construct(head.Building)
	}
	city.AccProduction = 0
	city.Queue = city.Queue[1:]
	return ev, true
}
