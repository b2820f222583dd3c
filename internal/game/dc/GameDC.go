package dc

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"Civilization/internal/game/app/port"
	"Civilization/internal/game/entity"
	"Civilization/modules/kit/errx"
	"Civilization/modules/kit/logx"
)

const (
	defaultFlushEvery = 3000 * time.Millisecond
	saveTimeout       = 5 * time.Second
	retryBackoff      = 200 * time.Millisecond
)

var errNilRepo = errx.ErrInternal.WithReason("game repository is nil")

// GameDC 单局数据缓存：actor 内改状态，写库交给后台协程，只保留最新一份快照。
type GameDC struct {
	repo       port.GameRepository
	entity     *entity.Game
	flushEvery time.Duration
	log        logx.Logger

	mu        sync.Mutex
	pending   *entity.GamePersistSnapshot
	version   uint64
	closed    bool
	discarded bool

	// 后台写和同步写互斥，保证旧版本不会覆盖新版本
	saveMu sync.Mutex
	saved  uint64

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewGameDC(repo port.GameRepository, flushEvery time.Duration, log logx.Logger) *GameDC {
	if flushEvery <= 0 {
		flushEvery = defaultFlushEvery
	}
	if log == nil {
		log = logx.Nop()
	}
	d := &GameDC{
		repo:       repo,
		flushEvery: flushEvery,
		log:        log,
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go d.writerLoop()
	return d
}

func (d *GameDC) Load(ctx context.Context, id entity.GameID) (*entity.Game, error) {
	if d.repo == nil {
		return nil, errNilRepo
	}
	g, err := d.repo.LoadGame(ctx, id)
	if err != nil {
		return nil, err
	}
	d.entity = g
	d.mu.Lock()
	d.version = g.Version()
	d.mu.Unlock()
	d.saveMu.Lock()
	d.saved = g.Version()
	d.saveMu.Unlock()
	return g, nil
}

// Adopt 接管一局刚创建、还没落库的对局。
func (d *GameDC) Adopt(g *entity.Game) {
	d.entity = g
}

// Flush 有脏数据时生成快照交给写协程，不等落库。
func (d *GameDC) Flush(ctx context.Context) error {
	if !d.IsDirty() {
		return nil
	}
	if d.repo == nil {
		return errNilRepo
	}
	s, ok := d.buildNextSnapshot()
	if !ok {
		return nil
	}
	d.enqueueLatest(s)
	return nil
}

// FlushSync 同步写库，创建对局时用，失败时保留脏标记。
func (d *GameDC) FlushSync(ctx context.Context) error {
	if !d.IsDirty() {
		return nil
	}
	if d.repo == nil {
		return errNilRepo
	}
	s, ok := d.buildNextSnapshot()
	if !ok {
		return nil
	}
	if err := d.save(ctx, s); err != nil {
		d.requeueOnError(s)
		return err
	}
	return nil
}

// Discard 对局关闭：丢掉待写快照，停掉写协程，删除存档。
func (d *GameDC) Discard(ctx context.Context) error {
	d.mu.Lock()
	d.pending = nil
	d.discarded = true
	if !d.closed {
		d.closed = true
		close(d.stop)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	if d.entity != nil {
		d.entity.ClearDirty()
	}
	if d.repo == nil || d.entity == nil {
		return nil
	}
	d.saveMu.Lock()
	defer d.saveMu.Unlock()
	return d.repo.Delete(ctx, d.entity.ID())
}

func (d *GameDC) IsDirty() bool {
	if d.entity == nil {
		return false
	}
	return d.entity.Dirty()
}

func (d *GameDC) ClearDirty() {
	if d.entity == nil {
		return
	}
	d.entity.ClearDirty()
}

func (d *GameDC) Entity() *entity.Game {
	return d.entity
}

func (d *GameDC) FlushEvery() time.Duration {
	return d.flushEvery
}

func (d *GameDC) Close(ctx context.Context) error {
	d.mu.Lock()
	discarded := d.discarded
	d.mu.Unlock()
	if !discarded {
		_ = d.Flush(ctx)
	}

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.stop)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *GameDC) buildNextSnapshot() (*entity.GamePersistSnapshot, bool) {
	if d.entity == nil {
		return nil, false
	}
	d.mu.Lock()
	d.version++
	version := d.version
	d.mu.Unlock()

	s, ok := d.entity.BuildPersistSnapshot(version)
	if !ok {
		return nil, false
	}
	d.entity.ClearDirty()
	return s, true
}

func (d *GameDC) enqueueLatest(s *entity.GamePersistSnapshot) {
	if s == nil {
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if d.pending == nil || d.pending.Version < s.Version {
		d.pending = s
	}
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *GameDC) popPending() *entity.GamePersistSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.pending
	d.pending = nil
	return s
}

func (d *GameDC) requeueOnError(s *entity.GamePersistSnapshot) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.log.Error("对局已关闭，丢弃未写入的快照",
			zap.Int64("game_id", int64(s.GameID)), zap.Uint64("version", s.Version))
		return
	}
	if d.pending == nil || d.pending.Version < s.Version {
		d.pending = s
	}
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *GameDC) save(ctx context.Context, s *entity.GamePersistSnapshot) error {
	d.saveMu.Lock()
	defer d.saveMu.Unlock()
	if s.Version <= d.saved {
		return nil
	}
	if err := d.repo.Save(ctx, s); err != nil {
		return err
	}
	d.saved = s.Version
	return nil
}

func (d *GameDC) writerLoop() {
	defer close(d.done)

	for {
		select {
		case <-d.wake:
			d.consumePending()
		case <-d.stop:
			d.consumePending()
			return
		}
	}
}

func (d *GameDC) consumePending() {
	for {
		s := d.popPending()
		if s == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		err := d.save(ctx, s)
		cancel()
		if err != nil {
			logx.ReportFailure(ctx, d.log, "game.dc.save", err,
				zap.Int64("game_id", int64(s.GameID)), zap.Uint64("version", s.Version))
			// 写库失败时重排当前快照；若已有更新快照，会被更高 version 覆盖。
			d.requeueOnError(s)
			time.Sleep(retryBackoff)
			continue
		}
	}
}
