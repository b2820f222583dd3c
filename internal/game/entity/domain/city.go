package domain

import (
	"math"
	"slices"
)

// City 城市。玩家城市由开拓者建立，蛮族城市在初始化时生成。
type City struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Pos        Coord  `json:"pos"`
	Health     int    `json:"health"`
	WallHealth int    `json:"wall_health"`
	Defense    int    `json:"defense"`
	Population int    `json:"population"`
	Housing    int    `json:"housing"`

	GoldYield       int `json:"gold_yield"`
	FoodYield       int `json:"food_yield"`
	ProductionYield int `json:"production_yield"`
	ScienceYield    int `json:"science_yield"`

	Buildings     BuildingSet      `json:"buildings"`
	Queue         []ProductionItem `json:"queue"`
	AccProduction int              `json:"acc_production"`
	AccFood       int              `json:"acc_food"`
	Tiles         []Coord          `json:"tiles"`
	Level         int              `json:"level"`
	Growth        int              `json:"growth"`
	Coastal       bool             `json:"coastal"`
}

func NewCity(id int, name string, pos Coord, tiles []Coord, coastal bool) City {
	return City{
		ID:              id,
		Name:            name,
		Pos:             pos,
		Health:          MaxHealth,
		Population:      1,
		Housing:         BaseHousing,
		GoldYield:       2,
		FoodYield:       2,
		ProductionYield: 2,
		ScienceYield:    1,
		Tiles:           tiles,
		Coastal:         coastal,
	}
}

func NewFactionCity(id int, pos Coord) City {
	c := NewCity(id, FactionCityName, pos, nil, false)
	c.Health = FactionCityHealth
	return c
}

func (c *City) Alive() bool   { return c.Health > 0 }
func (c *City) HasWall() bool { return c.WallHealth > 0 }

func (c *City) Controls(p Coord) bool { return slices.Contains(c.Tiles, p) }

func (c *City) IsQueued(item ProductionItem) bool { return slices.Contains(c.Queue, item) }

func (c *City) QueuedCount(item ProductionItem) int {
	n := 0
	for _, q := range c.Queue {
		if q == item {
			n++
		}
	}
	return n
}

// RemoveQueued 删除队列中第一个等于 item 的项。
func (c *City) RemoveQueued(item ProductionItem) bool {
	i := slices.Index(c.Queue, item)
	if i < 0 {
		return false
	}
	c.Queue = slices.Delete(c.Queue, i, i+1)
	return true
}

// MaxWall 已建成的最高级城墙的耐久上限，没有城墙为 0。
func (c *City) MaxWall() int {
	m := 0
	for _, b := range c.Buildings.List() {
		m = max(m, b.Stats().Effect.WallMax)
	}
	return m
}

// Construct 建成建筑并叠加效果。
func (c *City) Construct(b BuildingType) {
	if c.Buildings.Has(b) {
		return
	}
	c.Buildings = c.Buildings.With(b)
	e := b.Stats().Effect
	c.GoldYield += e.Gold
	c.FoodYield += e.Food
	c.ProductionYield += e.Production
	c.ScienceYield += e.Science
	c.Defense += e.Defense
	c.Housing += e.Housing
	if e.WallMax > c.WallHealth {
		c.WallHealth = e.WallMax
	}
}

// TakeWallDamage 先打城墙，溢出部分打到城市本体并摧毁城墙。
func (c *City) TakeWallDamage(d int) {
	if c.WallHealth <= 0 {
		c.Health = max(c.Health-d, 0)
		return
	}
	if d > c.WallHealth {
		overflow := d - c.WallHealth
		c.WallHealth = 0
		c.Health = max(c.Health-overflow, 0)
		return
	}
	c.WallHealth -= d
}

func (c City) Clone() City {
	c.Queue = slices.Clone(c.Queue)
	c.Tiles = slices.Clone(c.Tiles)
	return c
}

// RequiredFood 人口从 pop 增长到 pop+1 所需粮食。
func RequiredFood(pop int) int {
	p := float64(pop)
	return int(0.1082*p*p + 10.171*p + 1.929)
}

// GrowthThreshold 城市从 level 升级所需成长点。
func GrowthThreshold(level int) float64 {
	return 10 + math.Pow(6*float64(level), 1.3)
}
