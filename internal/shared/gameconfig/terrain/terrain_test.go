package terrain

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"Civilization/internal/game/entity/domain"
)

func TestPresets_全部可展开且出生点是陆地(t *testing.T) {
	for _, name := range Names() {
		p, ok := Get(name)
		if !ok {
			t.Fatalf("预设 %s 不存在", name)
		}
		codes, err := p.Codes()
		if err != nil {
			t.Fatalf("预设 %s 展开失败: %v", name, err)
		}
		m, err := domain.NewWorldMap(codes)
		if err != nil {
			t.Fatalf("预设 %s 地形非法: %v", name, err)
		}
		for _, c := range []domain.Coord{p.Player, p.Player.Add(1, 0), p.Player.Add(0, 1), p.Faction[0], p.Faction[1]} {
			tt, _ := m.TerrainAt(c)
			if tt.IsSea() {
				t.Fatalf("预设 %s 出生点 %+v 在海上", name, c)
			}
		}
	}
}

func TestGet_内置平原(t *testing.T) {
	p, ok := Get(Plains)
	if !ok {
		t.Fatalf("缺少内置平原地图")
	}
	codes, _ := p.Codes()
	for i, c := range codes {
		if domain.Terrain(c) != domain.TerrainPlains {
			t.Fatalf("第 %d 格不是平原: %d", i, c)
		}
	}
	if _, ok := Get("continent"); !ok {
		t.Fatalf("缺少 continent 预设")
	}
}

func TestCodes_非法行(t *testing.T) {
	p := plainsPreset()
	p.Rows[3] = "33x33333333333333333"
	if _, err := p.Codes(); err == nil {
		t.Fatalf("非数字字符应报错")
	}
	p.Rows = p.Rows[:19]
	if _, err := p.Codes(); err == nil {
		t.Fatalf("行数不足应报错")
	}
}

func TestLoadFile_读取外部地图(t *testing.T) {
	row := strings.Repeat("6", 20)
	rows := make([]string, 20)
	for i := range rows {
		rows[i] = `"` + row + `"`
	}
	body := `{"name":"meadow","rows":[` + strings.Join(rows, ",") + `],"player":{"x":4,"y":4},"faction":[{"x":12,"y":12},{"x":14,"y":14}]}`
	path := filepath.Join(t.TempDir(), "map.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("写文件失败: %v", err)
	}
	p, err := LoadFile(path)
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	if p.Name != "meadow" || p.Player != domain.C(4, 4) || p.Faction[1] != domain.C(14, 14) {
		t.Fatalf("解码结果不符: %+v", p)
	}
}
