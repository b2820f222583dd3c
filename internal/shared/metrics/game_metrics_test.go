package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestGameCollector_记录命令与回合(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewGameCollector()
	require.NoError(t, c.Register(reg))

	c.ObserveCommand("moveUnit", "ok", time.Millisecond)
	c.ObserveCommand("moveUnit", "ok", time.Millisecond)
	c.ObserveCommand("moveUnit", "rejected", time.Millisecond)
	c.TurnEnded()
	c.GameOpened()
	c.GameOpened()
	c.GameClosed()
	c.GameFinished("victory")

	require.Equal(t, 2.0, testutil.ToFloat64(c.commandsTotal.WithLabelValues("moveUnit", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.commandsTotal.WithLabelValues("moveUnit", "rejected")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.turnsTotal))
	require.Equal(t, 1.0, testutil.ToFloat64(c.activeGames))
	require.Equal(t, 1.0, testutil.ToFloat64(c.gamesFinished.WithLabelValues("victory")))
}

func TestGameCollector_重复注册报错(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, NewGameCollector().Register(reg))
	require.Error(t, NewGameCollector().Register(reg))
}

func TestGameCollector_nil安全(t *testing.T) {
	var c *GameCollector
	c.ObserveCommand("endTurn", "ok", time.Second)
	c.TurnEnded()
	require.NoError(t, c.Register(prometheus.NewRegistry()))
}
