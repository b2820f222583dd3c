package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"Civilization/internal/game/engine"
	"Civilization/internal/game/entity"
	"Civilization/internal/game/entity/domain"
	"Civilization/internal/game/service/port"
	"Civilization/internal/shared/actor/messages"
	"Civilization/internal/shared/gameconfig/terrain"
	"Civilization/internal/shared/metrics"
	"Civilization/internal/shared/utils"
	"Civilization/modules/kit/errx"
	"Civilization/modules/kit/logx"
	"Civilization/modules/kit/tracex"
)

// Seed 接受数字或字符串形式的 uint64；JSON 数字超过 2^53 会丢精度，客户端可以传字符串。
type Seed uint64

func (s *Seed) UnmarshalJSON(b []byte) error {
	str := strings.Trim(strings.TrimSpace(string(b)), `"`)
	v, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return domain.ErrInvalidCommand.WithReason("seed must be an unsigned 64-bit integer").WithCause(err)
	}
	*s = Seed(v)
	return nil
}

func (s *Seed) ptr() *uint64 {
	if s == nil {
		return nil
	}
	v := uint64(*s)
	return &v
}

// CreateInput 新建对局。Terrain 给出时忽略 Preset；出生点缺省用预设里的。
type CreateInput struct {
	Difficulty *int           `json:"difficulty"`
	Preset     string         `json:"preset"`
	Terrain    []int          `json:"terrain"`
	Player     *domain.Coord  `json:"player"`
	Faction    []domain.Coord `json:"faction"`
}

type ExecuteInput struct {
	Command string          `json:"command"`
	Args    json.RawMessage `json:"args"`
	Seed    *Seed           `json:"seed"`
}

// CommandOutcome 一次命令执行的回执。
type CommandOutcome struct {
	Result engine.Result     `json:"result"`
	Seed   uint64            `json:"seed,string"`
	Seq    int               `json:"seq"`
	View   messages.GameView `json:"view"`
}

type Options struct {
	// Difficulty 请求未指定难度时使用；nil 为普通。
	Difficulty    *domain.Difficulty
	DefaultPreset *terrain.Preset
	Metrics       *metrics.GameCollector
	Log           logx.Logger
}

type GameService struct {
	rt            port.GameRuntime
	ids           *utils.Snowflake
	difficulty    domain.Difficulty
	defaultPreset terrain.Preset
	metrics       *metrics.GameCollector
	log           logx.Logger
	now           func() time.Time

	mu        sync.RWMutex
	observers []func(ctx context.Context, out *CommandOutcome)
}

func NewGameService(rt port.GameRuntime, ids *utils.Snowflake, opts Options) *GameService {
	if opts.Log == nil {
		opts.Log = logx.Nop()
	}
	preset, _ := terrain.Get(terrain.Plains)
	if opts.DefaultPreset != nil {
		preset = *opts.DefaultPreset
	}
	difficulty := domain.DifficultyNormal
	if opts.Difficulty != nil && opts.Difficulty.Valid() {
		difficulty = *opts.Difficulty
	}
	return &GameService{
		rt:            rt,
		ids:           ids,
		difficulty:    difficulty,
		defaultPreset: preset,
		metrics:       opts.Metrics,
		log:           opts.Log,
		now:           time.Now,
	}
}

// OnCommitted 注册命令提交后的回调（推送给观战连接等），启动时注册。
func (s *GameService) OnCommitted(fn func(ctx context.Context, out *CommandOutcome)) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// CreateGame 建图、放置双方，再交给 actor 托管。初始化命令也写进日志，回放时从地形开始。
func (s *GameService) CreateGame(ctx context.Context, owner string, in CreateInput) (messages.GameView, error) {
	start := time.Now()
	view, err := s.createGame(ctx, owner, in)
	s.observe(ctx, "createGame", err, time.Since(start))
	if err == nil {
		s.metrics.GameOpened()
	}
	return view, err
}

func (s *GameService) createGame(ctx context.Context, owner string, in CreateInput) (messages.GameView, error) {
	difficulty := s.difficulty
	if in.Difficulty != nil {
		difficulty = domain.Difficulty(*in.Difficulty)
	}

	preset := s.defaultPreset
	if in.Preset != "" {
		p, ok := terrain.Get(in.Preset)
		if !ok {
			return messages.GameView{}, domain.ErrInvalidTerrain.WithData("preset", in.Preset)
		}
		preset = p
	}

	var codes []uint8
	if len(in.Terrain) > 0 {
		if len(in.Terrain) != domain.MapCells {
			return messages.GameView{}, domain.ErrInvalidTerrain.WithData("cells", len(in.Terrain))
		}
		codes = make([]uint8, len(in.Terrain))
		for i, c := range in.Terrain {
			if c < 0 || c > 255 {
				return messages.GameView{}, domain.ErrInvalidTerrain.WithData("index", i).WithData("code", c)
			}
			codes[i] = uint8(c)
		}
	} else {
		var err error
		if codes, err = preset.Codes(); err != nil {
			return messages.GameView{}, err
		}
	}

	playerPos := preset.Player
	if in.Player != nil {
		playerPos = *in.Player
	}
	factionPos := preset.Faction
	if len(in.Faction) > 0 {
		if len(in.Faction) != 2 {
			return messages.GameView{}, domain.ErrInvalidCommand.WithReason("faction needs two positions")
		}
		factionPos = [2]domain.Coord{in.Faction[0], in.Faction[1]}
	}

	state, err := engine.InitializeGame(codes, difficulty)
	if err != nil {
		return messages.GameView{}, err
	}

	id := entity.GameID(s.ids.NextID())
	now := s.now()
	g := entity.NewGame(id, owner, state, now)
	inits := []engine.Command{
		engine.InitializePlayerCmd{X: playerPos.X, Y: playerPos.Y},
		engine.InitializeFactionCmd{Pos1: factionPos[0], Pos2: factionPos[1]},
	}
	for _, cmd := range inits {
		seed := g.NextSeed()
		next, _, err := engine.Execute(g.State(), cmd, engine.NewSeededEntropy(seed))
		if err != nil {
			return messages.GameView{}, err
		}
		args, err := json.Marshal(cmd)
		if err != nil {
			return messages.GameView{}, errx.ErrInternal.WithCause(err)
		}
		g.Commit(next, entity.JournalEntry{
			Turn:    g.State().Turn,
			Command: cmd.Name(),
			Args:    args,
			Seed:    seed,
			At:      now,
		})
	}

	view, err := s.rt.Create(ctx, g)
	if err != nil {
		return messages.GameView{}, err
	}
	s.log.WithContext(ctx).Info("对局已创建",
		zap.Int64("game_id", int64(id)),
		zap.String("owner", owner),
		zap.String("difficulty", difficulty.String()),
	)
	return view, nil
}

// ExecuteCommand 命令交给对局 actor 串行执行。
func (s *GameService) ExecuteCommand(ctx context.Context, uid string, id entity.GameID, in ExecuteInput) (*CommandOutcome, error) {
	start := time.Now()
	ctx = tracex.WithGameID(ctx, int64(id))
	res, err := s.rt.Execute(ctx, id, uid, in.Command, in.Args, in.Seed.ptr())
	s.observe(ctx, in.Command, err, time.Since(start))
	if err != nil {
		return nil, err
	}

	out := &CommandOutcome{Result: res.Result, Seed: res.Seed, Seq: res.Seq, View: res.View}
	s.track(out)
	s.notify(ctx, out)
	return out, nil
}

func (s *GameService) GetGame(ctx context.Context, uid string, id entity.GameID) (messages.GameView, error) {
	return s.rt.Snapshot(ctx, id, uid)
}

func (s *GameService) Journal(ctx context.Context, uid string, id entity.GameID) ([]entity.JournalEntry, error) {
	return s.rt.Journal(ctx, id, uid)
}

// CloseGame 等价于执行 closeGame 命令。
func (s *GameService) CloseGame(ctx context.Context, uid string, id entity.GameID) (*CommandOutcome, error) {
	return s.ExecuteCommand(ctx, uid, id, ExecuteInput{Command: engine.CloseGameCmd{}.Name()})
}

func (s *GameService) track(out *CommandOutcome) {
	switch out.Result.Command {
	case engine.EndTurnCmd{}.Name():
		report, ok := out.Result.Outcome.(engine.TurnReport)
		if !ok || report.NoOp {
			return
		}
		s.metrics.TurnEnded()
		if report.Status != entity.StatusActive.String() {
			s.metrics.GameFinished(report.Status)
		}
	case engine.CloseGameCmd{}.Name():
		s.metrics.GameClosed()
	}
}

func (s *GameService) notify(ctx context.Context, out *CommandOutcome) {
	s.mu.RLock()
	observers := s.observers
	s.mu.RUnlock()
	for _, fn := range observers {
		fn(ctx, out)
	}
}

var knownActions = func() map[string]bool {
	m := map[string]bool{"createGame": true}
	for _, name := range engine.CommandNames() {
		m[name] = true
	}
	return m
}()

// metricLabel 未知命令名归成一个标签，避免客户端撑爆指标基数。
func metricLabel(action string) string {
	if knownActions[action] {
		return action
	}
	return "unknown"
}

func (s *GameService) observe(ctx context.Context, action string, err error, elapsed time.Duration, fields ...zap.Field) {
	status := "ok"
	switch {
	case err == nil:
	case errx.IsBiz(err):
		status = "rejected"
	default:
		status = "failed"
	}
	s.metrics.ObserveCommand(metricLabel(action), status, elapsed)
	if err != nil {
		logx.Report(ctx, s.log, "game."+action, err, fields...)
	}
}
