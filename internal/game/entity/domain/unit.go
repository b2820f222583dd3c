package domain

import (
	"fmt"
	"strings"
)

type UnitType uint8

const (
	Settler UnitType = iota
	Builder
	Warrior
	Archer
	Swordsman
	Horseman
	Crossbowman
	Musketman
	Rifleman
	Tank
	Galley
	Frigate
	Battleship
	unitTypeCount
)

// UnitStats 单位静态属性，所有组件只从这里取数。
type UnitStats struct {
	Name           string
	Ranged         bool
	Naval          bool
	Health         int
	Attack         int
	Movement       int
	Actions        int
	ProductionCost int
	GoldCost       int
	Resource       ResourceKind
	ResourceCost   int
	Upkeep         int
	Tech           Technology
}

var unitTable = [unitTypeCount]UnitStats{
	Settler:     {Name: "Settler", Health: 100, Movement: 2, Actions: 1, ProductionCost: 20, GoldCost: 100, Resource: Wood, ResourceCost: 60},
	Builder:     {Name: "Builder", Health: 100, Movement: 2, Actions: 1, ProductionCost: 20, GoldCost: 100},
	Warrior:     {Name: "Warrior", Health: 100, Attack: 8, Movement: 2, ProductionCost: 20, GoldCost: 200},
	Archer:      {Name: "Archer", Ranged: true, Health: 100, Attack: 10, Movement: 2, ProductionCost: 20, GoldCost: 200, Upkeep: 1, Tech: Archery},
	Swordsman:   {Name: "Swordsman", Health: 100, Attack: 14, Movement: 2, ProductionCost: 30, GoldCost: 240, Resource: Iron, ResourceCost: 10, Upkeep: 1, Tech: IronWorking},
	Horseman:    {Name: "Horseman", Health: 100, Attack: 14, Movement: 3, ProductionCost: 30, GoldCost: 280, Resource: Horses, ResourceCost: 10, Upkeep: 2, Tech: HorsebackRiding},
	Crossbowman: {Name: "Crossbowman", Ranged: true, Health: 100, Attack: 24, Movement: 2, ProductionCost: 40, GoldCost: 240, Upkeep: 2, Tech: MedievalWarfare},
	Musketman:   {Name: "Musketman", Ranged: true, Health: 100, Attack: 32, Movement: 2, ProductionCost: 50, GoldCost: 360, Upkeep: 2, Tech: Gunpowder},
	Rifleman:    {Name: "Rifleman", Ranged: true, Health: 100, Attack: 40, Movement: 3, ProductionCost: 60, GoldCost: 420, Upkeep: 4, Tech: Ballistics},
	Tank:        {Name: "Tank", Ranged: true, Health: 100, Attack: 50, Movement: 4, ProductionCost: 80, GoldCost: 500, Upkeep: 7, Tech: TanksAndArmor},
	Galley:      {Name: "Galley", Naval: true, Health: 100, Attack: 10, Movement: 3, ProductionCost: 25, GoldCost: 150, Tech: MaritimeNavigation},
	Frigate:     {Name: "Frigate", Naval: true, Health: 100, Attack: 14, Movement: 4, ProductionCost: 40, GoldCost: 280, Upkeep: 1, Tech: AdvancedShipbuilding},
	Battleship:  {Name: "Battleship", Ranged: true, Naval: true, Health: 100, Attack: 24, Movement: 5, ProductionCost: 80, GoldCost: 420, Upkeep: 3, Tech: OceanicTrade},
}

func (t UnitType) Valid() bool { return t < unitTypeCount }

func (t UnitType) Stats() UnitStats {
	if !t.Valid() {
		return UnitStats{}
	}
	return unitTable[t]
}

// IsCombat 开拓者/工人不参与战斗。
func (t UnitType) IsCombat() bool { return t != Settler && t != Builder }

func (t UnitType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("UnitType(%d)", uint8(t))
	}
	return unitTable[t].Name
}

func (t UnitType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *UnitType) UnmarshalText(b []byte) error {
	v, ok := ParseUnitType(string(b))
	if !ok {
		return ErrInvalidUnitType.WithData("unit_type", string(b))
	}
	*t = v
	return nil
}

func ParseUnitType(name string) (UnitType, bool) {
	for i := UnitType(0); i < unitTypeCount; i++ {
		if strings.EqualFold(unitTable[i].Name, name) {
			return i, true
		}
	}
	return 0, false
}

func AllUnitTypes() []UnitType {
	out := make([]UnitType, 0, unitTypeCount)
	for i := UnitType(0); i < unitTypeCount; i++ {
		out = append(out, i)
	}
	return out
}

// Unit 单位实例。Id 在所属方内单调递增。
type Unit struct {
	ID       int      `json:"id"`
	Type     UnitType `json:"type"`
	Pos      Coord    `json:"pos"`
	Health   int      `json:"health"`
	Attack   int      `json:"attack"`
	Level    int      `json:"level"`
	Exp      int      `json:"exp"`
	Movement int      `json:"movement"`
	Actions  int      `json:"actions"`
	Alive    bool     `json:"alive"`
}

func NewUnit(id int, t UnitType, pos Coord) Unit {
	s := t.Stats()
	return Unit{
		ID:       id,
		Type:     t,
		Pos:      pos,
		Health:   s.Health,
		Attack:   s.Attack,
		Movement: s.Movement,
		Actions:  s.Actions,
		Alive:    true,
	}
}

func (u *Unit) BaseMovement() int { return u.Type.Stats().Movement }
func (u *Unit) IsRanged() bool    { return u.Type.Stats().Ranged }
func (u *Unit) IsNaval() bool     { return u.Type.Stats().Naval }

// TakeDamage 扣血，降到 0 即阵亡。
func (u *Unit) TakeDamage(d int) {
	u.Health = max(u.Health-d, 0)
	if u.Health == 0 {
		u.Alive = false
	}
}

// GainExp 击杀得 2 倍基础经验，否则 1 倍；不超过当前等级的门槛。
func (u *Unit) GainExp(killer bool) {
	gain := BaseExp
	if killer {
		gain = 2 * BaseExp
	}
	u.AddExp(gain)
}

func (u *Unit) AddExp(n int) {
	u.Exp = min(u.Exp+n, ExpCap(u.Level))
}

func (u *Unit) CanLevelUp() bool {
	return u.Level < MaxLevel && u.Exp >= ExpThresholds[u.Level]
}

// LevelUp 攻击 +2，回血 30，本回合不能再行动。
func (u *Unit) LevelUp() {
	u.Level++
	u.Attack += LevelUpAttack
	u.Health = min(u.Health+LevelUpHeal, MaxHealth)
	u.Movement = 0
}

// RestoreTurn 回合开始：没动过的单位回血，然后恢复行动力。
func (u *Unit) RestoreTurn() {
	if u.Movement == u.BaseMovement() && u.Health < MaxHealth {
		u.Health = min(u.Health+UnitHealthRegen, MaxHealth)
	}
	u.Movement = u.BaseMovement()
}

// ResetMovement 蛮族单位每回合只恢复行动力，不回血。
func (u *Unit) ResetMovement() {
	u.Movement = u.BaseMovement()
}
