package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"Civilization/internal/game/entity"
	"Civilization/internal/game/entity/domain"
	"Civilization/internal/game/sim"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var (
	fogStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	seaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	landStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("28"))
	rockStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	sandStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))
	playerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true)
	factionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	cursorStyle  = lipgloss.NewStyle().Reverse(true)
	frameStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

var terrainGlyphs = map[domain.Terrain]string{
	domain.TerrainHills:     "n",
	domain.TerrainForest:    "f",
	domain.TerrainPlains:    ".",
	domain.TerrainSea:       "~",
	domain.TerrainRocks:     "*",
	domain.TerrainGrassland: "\"",
	domain.TerrainMeadow:    ",",
	domain.TerrainDesert:    ":",
	domain.TerrainMountains: "^",
}

func terrainCell(t domain.Terrain) string {
	g, ok := terrainGlyphs[t]
	if !ok {
		g = "?"
	}
	switch t {
	case domain.TerrainSea:
		return seaStyle.Render(g)
	case domain.TerrainRocks, domain.TerrainMountains, domain.TerrainHills:
		return rockStyle.Render(g)
	case domain.TerrainDesert:
		return sandStyle.Render(g)
	default:
		return landStyle.Render(g)
	}
}

// unitGlyph 单位类型首字母，蛮族一律小写。
func unitGlyph(t domain.UnitType) string {
	return t.String()[:1]
}

// renderMap 迷雾外只画地形；蛮族单位只在已探索格子上可见。
func renderMap(st *entity.GameState, cursor *domain.Coord) string {
	var b strings.Builder
	for y := 0; y < domain.MapBound; y++ {
		for x := 0; x < domain.MapBound; x++ {
			c := domain.C(x, y)
			cell := mapCell(st, c)
			if cursor != nil && *cursor == c {
				cell = cursorStyle.Render(cell)
			}
			b.WriteString(cell)
			b.WriteByte(' ')
		}
		if y < domain.MapBound-1 {
			b.WriteByte('\n')
		}
	}
	return frameStyle.Render(b.String())
}

func mapCell(st *entity.GameState, c domain.Coord) string {
	if !st.Map.IsDiscovered(c) {
		return fogStyle.Render("#")
	}
	if _, ok := st.Player.CityAt(c); ok {
		return playerStyle.Render("@")
	}
	if _, ok := st.Faction.CityAt(c); ok {
		return factionStyle.Render("&")
	}
	if u, ok := st.Player.UnitAt(c); ok && u.Alive {
		return playerStyle.Render(unitGlyph(u.Type))
	}
	if u, ok := st.Faction.UnitAt(c); ok && u.Alive {
		return factionStyle.Render(strings.ToLower(unitGlyph(u.Type)))
	}
	return terrainCell(st.Map.Terrain[c.Index()])
}

func printUnits(w io.Writer, st *entity.GameState) {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Side", "ID", "Type", "Pos", "HP", "Atk", "Lv", "Exp", "Move"}),
	)
	add := func(side string, units []domain.Unit) {
		for _, u := range units {
			if !u.Alive {
				continue
			}
			_ = table.Append([]string{
				side,
				strconv.Itoa(u.ID),
				u.Type.String(),
				fmt.Sprintf("(%d,%d)", u.Pos.X, u.Pos.Y),
				strconv.Itoa(u.Health),
				strconv.Itoa(u.Attack),
				strconv.Itoa(u.Level),
				strconv.Itoa(u.Exp),
				strconv.Itoa(u.Movement),
			})
		}
	}
	add("player", st.Player.Units)
	add("faction", st.Faction.Units)
	_ = table.Render()
}

func printCities(w io.Writer, st *entity.GameState) {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Side", "ID", "Name", "Pos", "HP", "Wall", "Pop", "Queue"}),
	)
	add := func(side string, cities []domain.City) {
		for _, c := range cities {
			queue := make([]string, 0, len(c.Queue))
			for _, item := range c.Queue {
				queue = append(queue, item.String())
			}
			_ = table.Append([]string{
				side,
				strconv.Itoa(c.ID),
				c.Name,
				fmt.Sprintf("(%d,%d)", c.Pos.X, c.Pos.Y),
				strconv.Itoa(c.Health),
				strconv.Itoa(c.WallHealth),
				strconv.Itoa(c.Population),
				strings.Join(queue, " "),
			})
		}
	}
	add("player", st.Player.Cities)
	add("faction", st.Faction.Cities)
	_ = table.Render()
}

func printSummary(w io.Writer, sum sim.Summary) {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Turn", "Status", "Units", "Cities", "Barb Units", "Barb Cities", "Gold", "Gems", "Techs", "Explored"}),
	)
	_ = table.Append([]string{
		strconv.Itoa(sum.Turn),
		sum.Status,
		strconv.Itoa(sum.Units),
		strconv.Itoa(sum.Cities),
		strconv.Itoa(sum.FactionUnits),
		strconv.Itoa(sum.FactionCities),
		strconv.Itoa(sum.Gold),
		strconv.Itoa(sum.Gems),
		strconv.Itoa(sum.Techs),
		fmt.Sprintf("%d/%d", sum.Discovered, domain.MapCells),
	})
	_ = table.Render()
}

func printOutcome(sum sim.Summary) {
	switch {
	case sum.Victory:
		color.New(color.FgGreen, color.Bold).Printf("胜利！第 %d 回合\n", sum.Turn)
	case sum.Defeat:
		color.New(color.FgRed, color.Bold).Printf("失败，第 %d 回合\n", sum.Turn)
	default:
		color.New(color.FgCyan).Printf("进行中，第 %d 回合\n", sum.Turn)
	}
}
