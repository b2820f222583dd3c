package domain

import "fmt"

// Terrain 是地形编码，与客户端约定的 0..9。
type Terrain uint8

const (
	TerrainUnknown Terrain = iota
	TerrainHills
	TerrainForest
	TerrainPlains
	TerrainSea
	TerrainRocks
	TerrainGrassland
	TerrainMeadow
	TerrainDesert
	TerrainMountains
)

var terrainNames = [...]string{"unknown", "hills", "forest", "plains", "sea", "rocks", "grassland", "meadow", "desert", "mountains"}

func (t Terrain) Valid() bool { return int(t) < len(terrainNames) }

func (t Terrain) IsSea() bool { return t == TerrainSea }

func (t Terrain) String() string {
	if !t.Valid() {
		return fmt.Sprintf("terrain(%d)", uint8(t))
	}
	return terrainNames[t]
}

// Improvement 返回该地形可建造的地块改良。
func (t Terrain) Improvement() (TileImprovement, bool) {
	switch t {
	case TerrainHills:
		return IronMine, true
	case TerrainForest:
		return LumberMill, true
	case TerrainRocks:
		return StoneQuarry, true
	case TerrainGrassland:
		return Farm, true
	case TerrainMeadow:
		return Pasture, true
	}
	return 0, false
}
