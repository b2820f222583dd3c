package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "civilization"
	subsystem = "game"
)

// GameCollector 对局相关指标：命令、回合、终局、活跃对局数。
type GameCollector struct {
	commandsTotal   *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	turnsTotal      prometheus.Counter
	gamesFinished   *prometheus.CounterVec
	activeGames     prometheus.Gauge
}

func NewGameCollector() *GameCollector {
	return &GameCollector{
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "commands_total",
				Help:      "Total number of game commands by name and status",
			},
			[]string{"command", "status"},
		),
		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "command_duration_seconds",
				Help:      "Game command latency including actor round trip",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 3},
			},
			[]string{"command"},
		),
		turnsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "turns_total",
				Help:      "Total number of turns ended",
			},
		),
		gamesFinished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "games_finished_total",
				Help:      "Games that reached a terminal status",
			},
			[]string{"outcome"},
		),
		activeGames: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "active_games",
				Help:      "Games created and not yet closed by this process",
			},
		),
	}
}

// Register 注册到指定 registry；nil 时什么都不做。
func (c *GameCollector) Register(reg prometheus.Registerer) error {
	if c == nil || reg == nil {
		return nil
	}
	for _, m := range []prometheus.Collector{
		c.commandsTotal,
		c.commandDuration,
		c.turnsTotal,
		c.gamesFinished,
		c.activeGames,
	} {
		if err := reg.Register(m); err != nil {
			return err
		}
	}
	return nil
}

// ObserveCommand status 取 ok / rejected / failed。
func (c *GameCollector) ObserveCommand(command, status string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.commandsTotal.WithLabelValues(command, status).Inc()
	c.commandDuration.WithLabelValues(command).Observe(elapsed.Seconds())
}

func (c *GameCollector) TurnEnded() {
	if c == nil {
		return
	}
	c.turnsTotal.Inc()
}

func (c *GameCollector) GameFinished(outcome string) {
	if c == nil {
		return
	}
	c.gamesFinished.WithLabelValues(outcome).Inc()
}

func (c *GameCollector) GameOpened() {
	if c == nil {
		return
	}
	c.activeGames.Inc()
}

func (c *GameCollector) GameClosed() {
	if c == nil {
		return
	}
	c.activeGames.Dec()
}
