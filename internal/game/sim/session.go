// Package sim 离线对局：不经过 actor 和存储，直接驱动引擎，供命令行模拟与回放使用。
package sim

import (
	"encoding/json"
	"errors"
	"os"
	"time"

	"Civilization/internal/game/engine"
	"Civilization/internal/game/entity"
	"Civilization/internal/game/entity/domain"
	"Civilization/internal/shared/gameconfig/terrain"
	"Civilization/modules/kit/errx"
)

const saveFormat = 1

// SaveFile 存档只记起点和命令日志，状态靠回放还原。
type SaveFile struct {
	Format     int                   `json:"format"`
	Preset     string                `json:"preset,omitempty"`
	Difficulty domain.Difficulty     `json:"difficulty"`
	Terrain    []int                 `json:"terrain"`
	Seed       uint64                `json:"seed,string"`
	Journal    []entity.JournalEntry `json:"journal"`
}

type Options struct {
	// Preset 内置预设名或地图文件路径
	Preset     string
	Difficulty domain.Difficulty
	Seed       uint64
}

type Session struct {
	game    *entity.Game
	terrain []uint8
	preset  string
	seed    uint64
	now     func() time.Time
}

// New 建图并完成双方初始化，初始化命令同样进日志。
func New(opts Options) (*Session, error) {
	name := opts.Preset
	if name == "" {
		name = terrain.Plains
	}
	preset, ok := terrain.Get(name)
	if !ok {
		p, err := terrain.LoadFile(name)
		if err != nil {
			return nil, domain.ErrInvalidTerrain.WithData("preset", name).WithCause(err)
		}
		preset = p
	}
	codes, err := preset.Codes()
	if err != nil {
		return nil, err
	}
	state, err := engine.InitializeGame(codes, opts.Difficulty)
	if err != nil {
		return nil, err
	}

	s := &Session{terrain: codes, preset: name, seed: opts.Seed, now: time.Now}
	s.game = entity.NewGame(gameIDOf(opts.Seed), "", state, s.now())
	inits := []engine.Command{
		engine.InitializePlayerCmd{X: preset.Player.X, Y: preset.Player.Y},
		engine.InitializeFactionCmd{Pos1: preset.Faction[0], Pos2: preset.Faction[1]},
	}
	for _, cmd := range inits {
		if _, err := s.Apply(cmd); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Load 读存档并回放到最新状态。
func Load(path string) (*Session, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f SaveFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, errx.ErrInvalidParam.WithReason("save file is not valid json").WithCause(err)
	}
	return FromSave(f)
}

func FromSave(f SaveFile) (*Session, error) {
	if f.Format != saveFormat {
		return nil, errx.ErrInvalidParam.WithData("format", f.Format)
	}
	codes := make([]uint8, len(f.Terrain))
	for i, c := range f.Terrain {
		if c < 0 || c > 255 {
			return nil, domain.ErrInvalidTerrain.WithData("index", i)
		}
		codes[i] = uint8(c)
	}
	state, err := engine.Replay(codes, f.Difficulty, f.Journal)
	if err != nil {
		return nil, err
	}
	s := &Session{terrain: codes, preset: f.Preset, seed: f.Seed, now: time.Now}
	s.game = entity.RestoreGame(&entity.GamePersistSnapshot{
		GameID:  gameIDOf(f.Seed),
		State:   state,
		Journal: f.Journal,
	})
	return s, nil
}

func (s *Session) Save(path string) error {
	raw, err := json.MarshalIndent(s.SaveFile(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func (s *Session) SaveFile() SaveFile {
	codes := make([]int, len(s.terrain))
	for i, c := range s.terrain {
		codes[i] = int(c)
	}
	return SaveFile{
		Format:     saveFormat,
		Preset:     s.preset,
		Difficulty: s.State().Difficulty,
		Terrain:    codes,
		Seed:       s.seed,
		Journal:    s.game.Journal(),
	}
}

func (s *Session) State() *entity.GameState { return s.game.State() }

func (s *Session) Journal() []entity.JournalEntry { return s.game.Journal() }

// Apply 执行并记日志；被规则拒绝的命令不改状态也不进日志。
func (s *Session) Apply(cmd engine.Command) (engine.Result, error) {
	seed := s.game.NextSeed()
	prev := s.game.State()
	next, res, err := engine.Execute(prev, cmd, engine.NewSeededEntropy(seed))
	if err != nil {
		return res, err
	}
	args, err := json.Marshal(cmd)
	if err != nil {
		return res, errx.ErrInternal.WithCause(err)
	}
	if string(args) == "{}" {
		args = nil
	}
	s.game.Commit(next, entity.JournalEntry{
		Turn:    prev.Turn,
		Command: cmd.Name(),
		Args:    args,
		Seed:    seed,
		At:      s.now(),
	})
	return res, nil
}

// Rejected 区分规则拒绝和其它错误，自动驾驶只吞掉前者。
func Rejected(err error) bool {
	return err != nil && errx.IsBiz(err) && !errors.Is(err, domain.ErrGameOver)
}

func gameIDOf(seed uint64) entity.GameID {
	return entity.GameID(seed >> 1)
}
