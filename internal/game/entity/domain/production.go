package domain

import "strings"

type ItemKind uint8

const (
	ItemUnit ItemKind = iota + 1
	ItemBuilding
)

// ProductionItem 生产项：单位或建筑二选一，可直接用 == 比较去重。
type ProductionItem struct {
	Kind     ItemKind
	Unit     UnitType
	Building BuildingType
}

func UnitItem(t UnitType) ProductionItem         { return ProductionItem{Kind: ItemUnit, Unit: t} }
func BuildingItem(b BuildingType) ProductionItem { return ProductionItem{Kind: ItemBuilding, Building: b} }

func (p ProductionItem) Valid() bool {
	switch p.Kind {
	case ItemUnit:
		return p.Unit.Valid()
	case ItemBuilding:
		return p.Building.Valid()
	}
	return false
}

func (p ProductionItem) ProductionCost() int {
	if p.Kind == ItemBuilding {
		return BuildingProductionCost
	}
	return p.Unit.Stats().ProductionCost
}

func (p ProductionItem) GoldCost() int {
	if p.Kind == ItemBuilding {
		return BuildingGoldCost
	}
	return p.Unit.Stats().GoldCost
}

func (p ProductionItem) RequiredTech() Technology {
	if p.Kind == ItemBuilding {
		return p.Building.Stats().Tech
	}
	return p.Unit.Stats().Tech
}

func (p ProductionItem) String() string {
	switch p.Kind {
	case ItemUnit:
		return "unit:" + p.Unit.String()
	case ItemBuilding:
		return "building:" + p.Building.String()
	}
	return "invalid"
}

func (p ProductionItem) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *ProductionItem) UnmarshalText(b []byte) error {
	v, err := ParseProductionItem(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParseProductionItem 接受 "unit:Warrior" / "building:Wall"，也接受不带前缀的名字。
func ParseProductionItem(s string) (ProductionItem, error) {
	kind, name, hasKind := strings.Cut(s, ":")
	if !hasKind {
		name = s
	}
	if !hasKind || strings.EqualFold(kind, "unit") {
		if t, ok := ParseUnitType(name); ok {
			return UnitItem(t), nil
		}
	}
	if !hasKind || strings.EqualFold(kind, "building") {
		if b, ok := ParseBuildingType(name); ok {
			return BuildingItem(b), nil
		}
	}
	return ProductionItem{}, ErrInvalidItem.WithData("item", s)
}
