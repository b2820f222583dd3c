package domain

import (
	"fmt"
	"strings"
)

type BuildingType uint8

const (
	Barracks BuildingType = iota
	Wall
	WallMedieval
	WallRenaissance
	WallIndustrial
	Library
	School
	University
	Observatory
	Forge
	Factory
	EnergyPlant
	Market
	Bank
	StockExchange
	Granary
	Mill
	Bakery
	Supermarket
	buildingTypeCount
)

const (
	BuildingProductionCost = 20
	BuildingGoldCost       = 60
)

// BuildingEffect 建成后叠加到城市上的增量。
type BuildingEffect struct {
	Gold       int
	Food       int
	Production int
	Science    int
	Defense    int
	Housing    int
	Storage    int
	WallMax    int
}

type BuildingStats struct {
	Name   string
	Tech   Technology
	Effect BuildingEffect
}

var buildingTable = [buildingTypeCount]BuildingStats{
	Barracks:        {"Barracks", TechNone, BuildingEffect{Defense: 2, Storage: StoragePerBarracks}},
	Wall:            {"Wall", TechNone, BuildingEffect{Defense: 5, WallMax: 50}},
	WallMedieval:    {"WallMedieval", MedievalWarfare, BuildingEffect{Defense: 5, WallMax: 100}},
	WallRenaissance: {"WallRenaissance", Gunpowder, BuildingEffect{Defense: 10, WallMax: 150}},
	WallIndustrial:  {"WallIndustrial", TanksAndArmor, BuildingEffect{Defense: 10, WallMax: 200}},
	Library:         {"Library", Writing, BuildingEffect{Science: 2}},
	School:          {"School", Education, BuildingEffect{Science: 3}},
	University:      {"University", Academia, BuildingEffect{Science: 4}},
	Observatory:     {"Observatory", Astronomy, BuildingEffect{Science: 5}},
	Forge:           {"Forge", IronWorking, BuildingEffect{Production: 2}},
	Factory:         {"Factory", Industrialization, BuildingEffect{Production: 3}},
	EnergyPlant:     {"EnergyPlant", ElectricalPower, BuildingEffect{Production: 4}},
	Market:          {"Market", Economics, BuildingEffect{Gold: 2}},
	Bank:            {"Bank", Economics, BuildingEffect{Gold: 3}},
	StockExchange:   {"StockExchange", Capitalism, BuildingEffect{Gold: 4}},
	Granary:         {"Granary", Agriculture, BuildingEffect{Food: 2, Housing: 1}},
	Mill:            {"Mill", Agriculture, BuildingEffect{Food: 2, Housing: 1}},
	Bakery:          {"Bakery", Construction, BuildingEffect{Food: 3, Housing: 2}},
	Supermarket:     {"Supermarket", ModernFarming, BuildingEffect{Food: 4, Housing: 3}},
}

func (b BuildingType) Valid() bool { return b < buildingTypeCount }

func (b BuildingType) Stats() BuildingStats {
	if !b.Valid() {
		return BuildingStats{}
	}
	return buildingTable[b]
}

func (b BuildingType) IsWall() bool { return b.Stats().Effect.WallMax > 0 }

func (b BuildingType) String() string {
	if !b.Valid() {
		return fmt.Sprintf("BuildingType(%d)", uint8(b))
	}
	return buildingTable[b].Name
}

func (b BuildingType) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func (b *BuildingType) UnmarshalText(text []byte) error {
	v, ok := ParseBuildingType(string(text))
	if !ok {
		return ErrInvalidItem.WithData("building", string(text))
	}
	*b = v
	return nil
}

func ParseBuildingType(name string) (BuildingType, bool) {
	for i := BuildingType(0); i < buildingTypeCount; i++ {
		if strings.EqualFold(buildingTable[i].Name, name) {
			return i, true
		}
	}
	return 0, false
}

// BuildingSet 已建成建筑位集合。
type BuildingSet uint32

func (s BuildingSet) Has(b BuildingType) bool { return s&(1<<b) != 0 }

func (s BuildingSet) With(b BuildingType) BuildingSet { return s | 1<<b }

func (s BuildingSet) List() []BuildingType {
	var out []BuildingType
	for i := BuildingType(0); i < buildingTypeCount; i++ {
		if s.Has(i) {
			out = append(out, i)
		}
	}
	return out
}
