package main

import (
	"bytes"
	"strings"
	"testing"

	"Civilization/internal/game/entity/domain"
	"Civilization/internal/game/sim"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T) *playModel {
	t.Helper()
	s, err := sim.New(sim.Options{Seed: 11})
	require.NoError(t, err)
	return newPlayModel(s)
}

func TestPlayModel_建城并结束回合(t *testing.T) {
	m := newTestModel(t)
	require.Equal(t, domain.C(2, 2), m.cursor)

	m.Update(runes("f"))
	require.False(t, m.failed, m.message)
	require.Len(t, m.s.State().Player.Cities, 1)

	m.Update(runes("w"))
	require.False(t, m.failed, m.message)
	m.Update(runes("r"))
	require.False(t, m.failed, m.message)

	m.Update(runes("e"))
	require.Equal(t, 2, m.s.State().Turn)
	require.NotEmpty(t, m.View())
}

func TestPlayModel_选中后移动(t *testing.T) {
	m := newTestModel(t)

	// 战士在 (2,3)
	m.Update(runes("j"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.GreaterOrEqual(t, m.selected, 0)

	m.Update(runes("j"))
	m.Update(runes("j"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, m.failed, m.message)
	u, ok := m.s.State().Player.Unit(m.selected)
	require.True(t, ok)
	require.Equal(t, domain.C(2, 5), u.Pos)

	// 行动力耗尽后再走被拒绝，显示错误码
	m.Update(runes("j"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.failed)
	require.Contains(t, m.message, "UNIT_")

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
}

func TestPrintTables_输出单位与城市(t *testing.T) {
	s, err := sim.New(sim.Options{Seed: 11})
	require.NoError(t, err)
	require.NoError(t, s.Run(2, nil))

	var buf bytes.Buffer
	printUnits(&buf, s.State())
	printCities(&buf, s.State())
	printSummary(&buf, s.Summary())
	out := buf.String()
	require.Contains(t, out, "Warrior")
	require.True(t, strings.Contains(out, "faction"))
	require.True(t, strings.Contains(out, "City"))
}
