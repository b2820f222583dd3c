package engine

import (
	"fmt"

	"Civilization/internal/game/entity"
	"Civilization/internal/game/entity/domain"
)

// 单条命令处理：先完成全部校验再修改状态，任一前置条件失败都不产生副作用。

func playerUnit(s *entity.GameState, id int) (*domain.Unit, error) {
	u, ok := s.Player.Unit(id)
	if !ok || !u.Alive {
		return nil, domain.ErrUnitNotFound.WithData("unit_id", id)
	}
	return u, nil
}

// MoveUnit 曼哈顿距离不超过剩余行动力；落点周围按基础移动范围点亮迷雾。
func MoveUnit(s *entity.GameState, unitID int, to domain.Coord) error {
	u, err := playerUnit(s, unitID)
	if err != nil {
		return err
	}
	if !to.InBounds() {
		return domain.ErrOutOfMapBounds.WithData("x", to.X).WithData("y", to.Y)
	}
	if u.Movement == 0 {
		return domain.ErrCannotMove.WithData("unit_id", unitID)
	}
	dist := u.Pos.Manhattan(to)
	if dist > u.Movement {
		return domain.ErrOutOfMovementRange.WithData("distance", dist).WithData("movement", u.Movement)
	}
	if other, ok := s.Player.UnitAt(to); ok && other.ID != u.ID {
		return domain.ErrUnitTileOccupied.WithData("unit_id", other.ID)
	}
	if !passable(s, u, to) {
		return domain.ErrCannotMove.WithData("terrain", s.Map.Terrain[to.Index()].String())
	}
	u.Pos = to
	u.Movement -= dist
	s.Map.Discover(to, u.BaseMovement())
	return nil
}

// passable 陆军不下海；海军只走海面或己方城市。
func passable(s *entity.GameState, u *domain.Unit, to domain.Coord) bool {
	sea := s.Map.Terrain[to.Index()].IsSea()
	if !u.IsNaval() {
		return !sea
	}
	if sea {
		return true
	}
	_, ownCity := s.Player.CityAt(to)
	return ownCity
}

func UpgradeUnit(s *entity.GameState, unitID int) error {
	u, err := playerUnit(s, unitID)
	if err != nil {
		return err
	}
	if u.Movement == 0 {
		return domain.ErrNoMovementPoints.WithData("unit_id", unitID)
	}
	if u.Level >= domain.MaxLevel {
		return domain.ErrMaxLevelReached.WithData("level", u.Level)
	}
	if u.Exp < domain.ExpThresholds[u.Level] {
		return domain.ErrNotEnoughExp.WithData("exp", u.Exp).WithData("need", domain.ExpThresholds[u.Level])
	}
	u.LevelUp()
	return nil
}

// FoundCity 消耗开拓者建城，控制周围 5x5 中尚未被己方城市控制的格子。
func FoundCity(s *entity.GameState, at domain.Coord, unitID int, name string) (int, error) {
	u, err := playerUnit(s, unitID)
	if err != nil {
		return 0, err
	}
	if u.Type != domain.Settler {
		return 0, domain.ErrInvalidUnitType.WithData("unit_type", u.Type.String())
	}
	if u.Pos != at || !at.InBounds() {
		return 0, domain.ErrUnitWrongPosition.WithData("x", at.X).WithData("y", at.Y)
	}
	p := &s.Player
	if _, ok := p.TileAt(at); ok || s.CityAnyAt(at) {
		return 0, domain.ErrCityTileOccupied.WithData("x", at.X).WithData("y", at.Y)
	}
	if len(p.Cities) >= domain.MaxCities {
		return 0, domain.ErrLimitReached.WithData("cities", len(p.Cities))
	}

	var tiles []domain.Coord
	for _, c := range at.Square(domain.CityRadius) {
		if _, taken := p.ControllingCity(c); !taken {
			tiles = append(tiles, c)
		}
	}
	if name == "" {
		name = fmt.Sprintf("City %d", p.NextCityID+1)
	}
	city := domain.NewCity(p.NextCityID, name, at, tiles, s.Map.IsCoastal(at))
	if p.Research.IsCompleted(domain.Urbanization) {
		city.Housing += domain.UrbanizationHousing
	}
	p.Cities = append(p.Cities, city)
	p.NextCityID++
	s.Map.DiscoverAll(tiles)
	p.RemoveUnit(unitID)
	return city.ID, nil
}

// UpgradeTile 工人在受控地块上建造改良，行动次数耗尽后移除。
func UpgradeTile(s *entity.GameState, at domain.Coord, unitID int) (domain.TileImprovement, error) {
	u, err := playerUnit(s, unitID)
	if err != nil {
		return 0, err
	}
	if u.Type != domain.Builder {
		return 0, domain.ErrInvalidUnitType.WithData("unit_type", u.Type.String())
	}
	if u.Pos != at {
		return 0, domain.ErrUnitWrongPosition.WithData("x", at.X).WithData("y", at.Y)
	}
	terrain, err := s.Map.TerrainAt(at)
	if err != nil {
		return 0, err
	}
	improvement, ok := terrain.Improvement()
	if !ok {
		return 0, domain.ErrNotUpgradeable.WithData("terrain", terrain.String())
	}
	p := &s.Player
	if _, exists := p.TileAt(at); exists || s.CityAnyAt(at) {
		return 0, domain.ErrTileOccupied.WithData("x", at.X).WithData("y", at.Y)
	}
	city, controlled := p.ControllingCity(at)
	if !controlled {
		return 0, domain.ErrTileNotControlled.WithData("x", at.X).WithData("y", at.Y)
	}

	p.Tiles = append(p.Tiles, domain.Tile{Pos: at, Improvement: improvement})
	if improvement == domain.Farm {
		city.FoodYield += domain.TileYield
	}
	u.Actions--
	if u.Actions <= 0 {
		p.RemoveUnit(unitID)
	}
	return improvement, nil
}

// AttackUnit 攻击相邻（切比雪夫距离 1）的蛮族单位。
func AttackUnit(s *entity.GameState, attackerID, defenderID int, ent Entropy) (CombatReport, error) {
	a, err := playerUnit(s, attackerID)
	if err != nil {
		return CombatReport{}, err
	}
	d, ok := s.Faction.Unit(defenderID)
	if !ok || !d.Alive {
		return CombatReport{}, domain.ErrUnitNotFound.WithData("unit_id", defenderID).WithData("side", "faction")
	}
	if a.Movement == 0 {
		return CombatReport{}, domain.ErrNoMovementPoints.WithData("unit_id", attackerID)
	}
	if a.Pos.Chebyshev(d.Pos) != 1 {
		return CombatReport{}, domain.ErrOutOfAttackRange.WithData("distance", a.Pos.Chebyshev(d.Pos))
	}
	behindWall := false
	if c, ok := s.Faction.CityAt(d.Pos); ok && c.HasWall() {
		behindWall = true
	}
	report, err := ResolveUnitCombat(a, d, behindWall, ent)
	if err != nil {
		return CombatReport{}, err
	}
	if !report.DefenderAlive {
		s.Player.Resources.AddCapped(domain.Gems, s.Difficulty.GemsPerKill(), s.Player.StorageCapacity())
	}
	s.Sweep()
	return report, nil
}

// AttackCity 攻击相邻的蛮族城市，攻方获得基础经验。
func AttackCity(s *entity.GameState, attackerID, cityID int, ent Entropy) (CityAttackReport, error) {
	a, err := playerUnit(s, attackerID)
	if err != nil {
		return CityAttackReport{}, err
	}
	city, ok := s.Faction.City(cityID)
	if !ok {
		return CityAttackReport{}, domain.ErrCityNotFound.WithData("city_id", cityID).WithData("side", "faction")
	}
	if a.Movement == 0 {
		return CityAttackReport{}, domain.ErrNoMovementPoints.WithData("unit_id", attackerID)
	}
	if a.Pos.Chebyshev(city.Pos) != 1 {
		return CityAttackReport{}, domain.ErrOutOfAttackRange.WithData("distance", a.Pos.Chebyshev(city.Pos))
	}
	report, err := ResolveCityAttack(a, city, ent)
	if err != nil {
		return CityAttackReport{}, err
	}
	a.AddExp(domain.BaseExp)
	if report.CityDestroyed {
		s.Player.Resources.AddCapped(domain.Gems, s.Difficulty.GemsPerCityDestroyed(), s.Player.StorageCapacity())
	}
	s.Sweep()
	return report, nil
}

// RepairWall 修满城墙，每点耐久消耗 2 木 2 石。
func RepairWall(s *entity.GameState, cityID int) (int, error) {
	p := &s.Player
	city, ok := p.City(cityID)
	if !ok {
		return 0, domain.ErrCityNotFound.WithData("city_id", cityID)
	}
	maxWall := city.MaxWall()
	if maxWall == 0 {
		return 0, domain.ErrNoWall.WithData("city_id", cityID)
	}
	if city.WallHealth >= maxWall {
		return 0, domain.ErrNotDamagedWall.WithData("wall_health", city.WallHealth)
	}
	cost := (maxWall - city.WallHealth) * 2
	if p.Resources.Wood < cost {
		return 0, domain.ErrInsufficientWood.WithData("need", cost).WithData("have", p.Resources.Wood)
	}
	if p.Resources.Stone < cost {
		return 0, domain.ErrInsufficientStone.WithData("need", cost).WithData("have", p.Resources.Stone)
	}
	p.Resources.Wood -= cost
	p.Resources.Stone -= cost
	city.WallHealth = maxWall
	return cost, nil
}

// HealUnit 站在己方城市里的单位用城市积累的粮食回满血，每 2 点血 1 粮。
func HealUnit(s *entity.GameState, unitID int) (int, error) {
	u, err := playerUnit(s, unitID)
	if err != nil {
		return 0, err
	}
	city, ok := s.Player.CityAt(u.Pos)
	if !ok {
		return 0, domain.ErrUnitWrongPosition.WithData("reason", "not in own city")
	}
	if u.Health >= domain.MaxHealth {
		return 0, domain.ErrUnitNotDamaged.WithData("unit_id", unitID)
	}
	cost := (domain.MaxHealth - u.Health + 1) / 2
	if city.AccFood < cost {
		return 0, domain.ErrNotEnoughFood.WithData("need", cost).WithData("have", city.AccFood)
	}
	city.AccFood -= cost
	u.Health = domain.MaxHealth
	u.Movement = 0
	return cost, nil
}

func StartResearch(s *entity.GameState, tech domain.Technology) error {
	return s.Player.Research.Start(tech)
}

func CloseGame(s *entity.GameState) {
	s.Closed = true
}
