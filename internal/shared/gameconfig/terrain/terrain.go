package terrain

import (
	"bytes"
	_ "embed"
	"fmt"
	"sort"

	"github.com/spf13/viper"

	"Civilization/internal/game/entity/domain"
)

// Plains 内置的全平原地图，不在 presets.json 里。
const Plains = "plains"

//go:embed presets.json
var presetsJSON []byte

// Preset 一张预设地图：20 行，每行 20 个地形码数字，外加双方出生点。
type Preset struct {
	Name    string          `mapstructure:"name"`
	Title   string          `mapstructure:"title"`
	Rows    []string        `mapstructure:"rows"`
	Player  domain.Coord    `mapstructure:"player"`
	Faction [2]domain.Coord `mapstructure:"faction"`
}

type presetFile struct {
	Presets []Preset `mapstructure:"presets"`
}

var presets = map[string]Preset{}

func init() {
	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(presetsJSON)); err != nil {
		panic(fmt.Errorf("load terrain presets: %w", err))
	}
	var f presetFile
	if err := v.Unmarshal(&f); err != nil {
		panic(fmt.Errorf("decode terrain presets: %w", err))
	}
	for _, p := range f.Presets {
		presets[p.Name] = p
	}
	presets[Plains] = plainsPreset()
}

func plainsPreset() Preset {
	rows := make([]string, domain.MapBound)
	row := bytes.Repeat([]byte{'0' + byte(domain.TerrainPlains)}, domain.MapBound)
	for i := range rows {
		rows[i] = string(row)
	}
	return Preset{
		Name:    Plains,
		Title:   "全平原",
		Rows:    rows,
		Player:  domain.C(2, 2),
		Faction: [2]domain.Coord{domain.C(15, 15), domain.C(17, 17)},
	}
}

// Get 按名字取预设。
func Get(name string) (Preset, bool) {
	p, ok := presets[name]
	return p, ok
}

func Names() []string {
	out := make([]string, 0, len(presets))
	for name := range presets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// LoadFile 读取外部地图文件（json/yaml，结构与单个预设相同）。
func LoadFile(path string) (Preset, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Preset{}, err
	}
	var p Preset
	if err := v.Unmarshal(&p); err != nil {
		return Preset{}, err
	}
	if _, err := p.Codes(); err != nil {
		return Preset{}, err
	}
	return p, nil
}

// Codes 展开成行优先的 400 个地形码。
func (p Preset) Codes() ([]uint8, error) {
	if len(p.Rows) != domain.MapBound {
		return nil, domain.ErrInvalidTerrain.WithData("rows", len(p.Rows))
	}
	out := make([]uint8, 0, domain.MapCells)
	for y, row := range p.Rows {
		if len(row) != domain.MapBound {
			return nil, domain.ErrInvalidTerrain.WithData("row", y).WithData("len", len(row))
		}
		for x := 0; x < len(row); x++ {
			ch := row[x]
			if ch < '0' || ch > '9' {
				return nil, domain.ErrInvalidTerrain.WithData("x", x).WithData("y", y)
			}
			out = append(out, ch-'0')
		}
	}
	return out, nil
}
