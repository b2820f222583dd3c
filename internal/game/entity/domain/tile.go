package domain

import "fmt"

// TileImprovement 工人在受控地块上建造的改良，一格一个，建成后永久存在。
type TileImprovement uint8

const (
	IronMine TileImprovement = iota + 1
	LumberMill
	StoneQuarry
	Farm
	Pasture
)

const TileYield = 2

var improvementNames = map[TileImprovement]string{
	IronMine:    "IronMine",
	LumberMill:  "LumberMill",
	StoneQuarry: "StoneQuarry",
	Farm:        "Farm",
	Pasture:     "Pasture",
}

func (i TileImprovement) String() string {
	if n, ok := improvementNames[i]; ok {
		return n
	}
	return fmt.Sprintf("TileImprovement(%d)", uint8(i))
}

func (i TileImprovement) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

func (i *TileImprovement) UnmarshalText(b []byte) error {
	for k, n := range improvementNames {
		if n == string(b) {
			*i = k
			return nil
		}
	}
	return ErrNotUpgradeable.WithData("improvement", string(b))
}

// Yield 每回合产出的原材料。农场不产原材料，改为给城市 +2 粮食。
func (i TileImprovement) Yield() (ResourceKind, int) {
	switch i {
	case IronMine:
		return Iron, TileYield
	case LumberMill:
		return Wood, TileYield
	case StoneQuarry:
		return Stone, TileYield
	case Pasture:
		return Horses, TileYield
	}
	return ResourceNone, 0
}

type Tile struct {
	Pos         Coord           `json:"pos"`
	Improvement TileImprovement `json:"improvement"`
}
