package domain

// WorldMap 是 20x20 地形 + 迷雾。探索只增不减。
type WorldMap struct {
	Terrain    [MapCells]Terrain `json:"terrain"`
	Discovered [MapCells]bool    `json:"discovered"`
}

// NewWorldMap 按行优先的 400 个地形码建图，左上 8x8 初始可见。
func NewWorldMap(codes []uint8) (WorldMap, error) {
	var m WorldMap
	if len(codes) != MapCells {
		return m, ErrInvalidTerrain.WithData("len", len(codes))
	}
	for i, code := range codes {
		t := Terrain(code)
		if !t.Valid() {
			return m, ErrInvalidTerrain.WithData("index", i).WithData("code", code)
		}
		m.Terrain[i] = t
		c := CoordOf(i)
		m.Discovered[i] = c.X < InitialDiscovered && c.Y < InitialDiscovered
	}
	return m, nil
}

func (m *WorldMap) TerrainAt(c Coord) (Terrain, error) {
	if !c.InBounds() {
		return TerrainUnknown, ErrOutOfMapBounds.WithData("x", c.X).WithData("y", c.Y)
	}
	return m.Terrain[c.Index()], nil
}

func (m *WorldMap) IsDiscovered(c Coord) bool {
	return c.InBounds() && m.Discovered[c.Index()]
}

// Discover 点亮曼哈顿距离 <= radius 的格子。
func (m *WorldMap) Discover(center Coord, radius int) {
	for dy := -radius; dy <= radius; dy++ {
		span := radius - abs(dy)
		for dx := -span; dx <= span; dx++ {
			if c := center.Add(dx, dy); c.InBounds() {
				m.Discovered[c.Index()] = true
			}
		}
	}
}

func (m *WorldMap) DiscoverAll(cells []Coord) {
	for _, c := range cells {
		if c.InBounds() {
			m.Discovered[c.Index()] = true
		}
	}
}

// IsCoastal 周围 8 格里有海即为沿海。
func (m *WorldMap) IsCoastal(c Coord) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if n := c.Add(dx, dy); n.InBounds() && m.Terrain[n.Index()].IsSea() {
				return true
			}
		}
	}
	return false
}

func (m *WorldMap) DiscoveredCount() int {
	n := 0
	for _, d := range m.Discovered {
		if d {
			n++
		}
	}
	return n
}
