package domain

// Coord 是地图坐标，合法范围 [0, MapBound)。
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func C(x, y int) Coord { return Coord{X: x, Y: y} }

func (c Coord) InBounds() bool {
	return c.X >= 0 && c.X < MapBound && c.Y >= 0 && c.Y < MapBound
}

// Index 是行优先下标 y*20+x。
func (c Coord) Index() int { return c.Y*MapBound + c.X }

func CoordOf(index int) Coord { return Coord{X: index % MapBound, Y: index / MapBound} }

func (c Coord) Add(dx, dy int) Coord { return Coord{X: c.X + dx, Y: c.Y + dy} }

func (c Coord) Manhattan(o Coord) int { return abs(c.X-o.X) + abs(c.Y-o.Y) }

func (c Coord) Chebyshev(o Coord) int { return max(abs(c.X-o.X), abs(c.Y-o.Y)) }

func (c Coord) DistSq(o Coord) int {
	dx, dy := c.X-o.X, c.Y-o.Y
	return dx*dx + dy*dy
}

// Neighbours4 返回上下左右四个方向（不做越界过滤）。
func (c Coord) Neighbours4() [4]Coord {
	return [4]Coord{c.Add(0, -1), c.Add(1, 0), c.Add(0, 1), c.Add(-1, 0)}
}

// Square 返回以 c 为中心、半径 r 的方块内所有界内坐标。
func (c Coord) Square(r int) []Coord {
	out := make([]Coord, 0, (2*r+1)*(2*r+1))
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if n := c.Add(dx, dy); n.InBounds() {
				out = append(out, n)
			}
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
