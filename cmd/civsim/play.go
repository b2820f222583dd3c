package main

import (
	"errors"
	"fmt"
	"strings"

	"Civilization/internal/game/engine"
	"Civilization/internal/game/entity/domain"
	"Civilization/internal/game/sim"
	"Civilization/modules/kit/errx"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	sideStyle = lipgloss.NewStyle().Padding(0, 2)
)

const playHelp = "方向键/hjkl 移动光标 · 回车 选中/行动 · f 建城 · b 改良 · w 排产战士 · r 研究 · e 结束回合 · a 自动一回合 · esc 取消 · q 退出"

type playModel struct {
	s        *sim.Session
	cursor   domain.Coord
	selected int
	message  string
	failed   bool
}

func newPlayModel(s *sim.Session) *playModel {
	m := &playModel{s: s, selected: -1}
	for _, u := range s.State().Player.Units {
		if u.Alive {
			m.cursor = u.Pos
			break
		}
	}
	return m
}

func (m *playModel) Init() tea.Cmd { return nil }

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(0, -1)
	case "down", "j":
		m.moveCursor(0, 1)
	case "left", "h":
		m.moveCursor(-1, 0)
	case "right", "l":
		m.moveCursor(1, 0)
	case "esc":
		m.selected = -1
		m.note("已取消选择", nil)
	case "enter", " ":
		m.act()
	case "f":
		m.foundCity()
	case "b":
		m.upgradeTile()
	case "w":
		m.queueWarrior()
	case "r":
		m.research()
	case "e":
		m.apply(engine.EndTurnCmd{}, "回合结束")
		m.selected = -1
	case "a":
		tl, err := m.s.Autopilot()
		m.note(fmt.Sprintf("自动驾驶：成功 %d 条，拒绝 %d 条", tl.Applied, tl.Rejected), err)
		m.selected = -1
	}
	return m, nil
}

func (m *playModel) moveCursor(dx, dy int) {
	if next := m.cursor.Add(dx, dy); next.InBounds() {
		m.cursor = next
	}
}

func (m *playModel) note(text string, err error) {
	if err != nil {
		m.failed = true
		var e *errx.Error
		if errors.As(err, &e) {
			m.message = fmt.Sprintf("%s [%s]", e.Msg(), e.Code())
			return
		}
		m.message = err.Error()
		return
	}
	m.failed = false
	m.message = text
}

func (m *playModel) apply(cmd engine.Command, okText string) {
	_, err := m.s.Apply(cmd)
	m.note(okText, err)
}

// act 未选中时选中光标处单位；已选中时按光标目标决定攻击或移动。
func (m *playModel) act() {
	st := m.s.State()
	if m.selected < 0 {
		if u, ok := st.Player.UnitAt(m.cursor); ok && u.Alive {
			m.selected = u.ID
			m.note(fmt.Sprintf("选中 %s #%d", u.Type, u.ID), nil)
			return
		}
		m.note("光标处没有己方单位", nil)
		return
	}
	id := m.selected
	if f, ok := st.Faction.UnitAt(m.cursor); ok && f.Alive {
		m.apply(engine.AttackUnitCmd{AttackerID: id, DefenderID: f.ID}, "攻击完成")
		return
	}
	if c, ok := st.Faction.CityAt(m.cursor); ok {
		m.apply(engine.AttackCityCmd{AttackerID: id, CityID: c.ID}, "攻城完成")
		return
	}
	m.apply(engine.MoveUnitCmd{UnitID: id, X: m.cursor.X, Y: m.cursor.Y}, "移动完成")
}

func (m *playModel) foundCity() {
	u, ok := m.s.State().Player.UnitAt(m.cursor)
	if !ok || !u.Alive {
		m.note("光标处没有开拓者", nil)
		return
	}
	m.apply(engine.FoundCityCmd{X: m.cursor.X, Y: m.cursor.Y, UnitID: u.ID}, "建城成功")
	m.selected = -1
}

func (m *playModel) upgradeTile() {
	if m.selected < 0 {
		m.note("先选中一个工人", nil)
		return
	}
	m.apply(engine.UpgradeTileCmd{X: m.cursor.X, Y: m.cursor.Y, UnitID: m.selected}, "地块改良完成")
}

func (m *playModel) queueWarrior() {
	c, ok := m.s.State().Player.CityAt(m.cursor)
	if !ok {
		m.note("光标处没有己方城市", nil)
		return
	}
	m.apply(engine.AddToProductionQueueCmd{CityID: c.ID, Item: domain.UnitItem(domain.Warrior)}, "已加入生产队列")
}

func (m *playModel) research() {
	r := m.s.State().Player.Research
	for _, t := range domain.AllTechnologies() {
		if r.CheckStart(t) == nil {
			m.apply(engine.StartResearchCmd{Tech: t}, "开始研究 "+t.String())
			return
		}
	}
	m.note("没有可研究的科技", nil)
}

func (m *playModel) View() string {
	st := m.s.State()
	cursor := m.cursor
	board := renderMap(st, &cursor)

	res := st.Player.Resources
	var side strings.Builder
	fmt.Fprintf(&side, "回合 %d  %s\n", st.Turn, st.Status)
	fmt.Fprintf(&side, "难度 %s\n\n", st.Difficulty)
	fmt.Fprintf(&side, "金 %d  木 %d  石 %d\n", res.Gold, res.Wood, res.Stone)
	fmt.Fprintf(&side, "铁 %d  马 %d  宝石 %d\n\n", res.Iron, res.Horses, res.Gems)
	if st.Player.Research.Active() {
		fmt.Fprintf(&side, "研究 %s %d/%d\n", st.Player.Research.Current, st.Player.Research.Points, st.Player.Research.Current.Stats().Cost)
	} else {
		side.WriteString("研究 空闲\n")
	}
	fmt.Fprintf(&side, "光标 (%d,%d) %s\n", m.cursor.X, m.cursor.Y, st.Map.Terrain[m.cursor.Index()])
	if u, ok := st.Player.UnitAt(m.cursor); ok && u.Alive {
		fmt.Fprintf(&side, "单位 %s #%d HP %d 行动力 %d\n", u.Type, u.ID, u.Health, u.Movement)
	}
	if c, ok := st.Player.CityAt(m.cursor); ok {
		fmt.Fprintf(&side, "城市 %s 人口 %d 队列 %d\n", c.Name, c.Population, len(c.Queue))
	}
	if m.selected >= 0 {
		fmt.Fprintf(&side, "\n已选中 #%d\n", m.selected)
	}

	msg := okStyle.Render(m.message)
	if m.failed {
		msg = errStyle.Render(m.message)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, board, sideStyle.Render(side.String())),
		msg,
		helpStyle.Render(playHelp),
	)
}
