package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"Civilization/internal/game/entity"
	"Civilization/internal/game/infra/persistence/model"
	"Civilization/modules/kit/errx"
)

// GameRepository gorm 实现，mysql/postgres/sqlite 通用。
type GameRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{db: db, now: time.Now}
}

func (r *GameRepository) WithTx(tx *gorm.DB) *GameRepository {
	return &GameRepository{db: tx, now: r.now}
}

// Migrate 建表，启动时调用一次。
func (r *GameRepository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&model.GameRecord{}, &model.JournalRecord{}); err != nil {
		return errx.ErrUnavailable.WithReason("migrate game tables").WithCause(err)
	}
	return nil
}

const OpLoadGame = "repo.game.LoadGame"

func (r *GameRepository) LoadGame(ctx context.Context, id entity.GameID) (*entity.Game, error) {
	var m model.GameRecord
	err := r.db.WithContext(ctx).Where("id = ?", int64(id)).First(&m).Error
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, entity.ErrGameNotFound.WithData("game_id", int64(id))
	default:
		return nil, errx.ErrUnavailable.WithReason(OpLoadGame).WithCause(err).WithData("game_id", int64(id))
	}

	var journal []model.JournalRecord
	if err := r.db.WithContext(ctx).
		Where("game_id = ?", int64(id)).
		Order("seq ASC").
		Find(&journal).Error; err != nil {
		return nil, errx.ErrUnavailable.WithReason(OpLoadGame).WithCause(err).WithData("game_id", int64(id))
	}

	s, err := model.RecordToSnapshot(&m, journal)
	if err != nil {
		return nil, errx.ErrInternal.WithReason("decode game state").WithCause(err).WithData("game_id", int64(id))
	}
	return entity.RestoreGame(s), nil
}

const OpSaveGame = "repo.game.Save"

// Save 一个事务里写对局行并追加新增的日志。
func (r *GameRepository) Save(ctx context.Context, s *entity.GamePersistSnapshot) error {
	if s == nil {
		return nil
	}
	rec, err := model.SnapshotToRecord(s, r.now())
	if err != nil {
		return errx.ErrInternal.WithReason("encode game state").WithCause(err).WithData("game_id", int64(s.GameID))
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := r.WithTx(tx)
		if err := txRepo.saveRecord(ctx, rec); err != nil {
			return err
		}
		return txRepo.appendJournal(ctx, s.GameID, s.Journal)
	})
	if err != nil {
		return errx.ErrUnavailable.WithReason(OpSaveGame).WithCause(err).WithData("game_id", int64(s.GameID))
	}
	return nil
}

func (r *GameRepository) saveRecord(ctx context.Context, rec *model.GameRecord) error {
	var cur model.GameRecord
	err := r.db.WithContext(ctx).Select("version").Where("id = ?", rec.ID).First(&cur).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return r.db.WithContext(ctx).Create(rec).Error
	case err != nil:
		return err
	}
	// 旧版本不覆盖新版本
	if cur.Version > rec.Version {
		return nil
	}
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *GameRepository) appendJournal(ctx context.Context, id entity.GameID, entries []entity.JournalEntry) error {
	var maxSeq int
	if err := r.db.WithContext(ctx).
		Model(&model.JournalRecord{}).
		Where("game_id = ?", int64(id)).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&maxSeq).Error; err != nil {
		return err
	}
	var fresh []entity.JournalEntry
	for _, e := range entries {
		if e.Seq > maxSeq {
			fresh = append(fresh, e)
		}
	}
	if len(fresh) == 0 {
		return nil
	}
	rows := model.JournalToRecords(id, fresh)
	return r.db.WithContext(ctx).CreateInBatches(rows, 100).Error
}

const OpDeleteGame = "repo.game.Delete"

func (r *GameRepository) Delete(ctx context.Context, id entity.GameID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", int64(id)).Delete(&model.JournalRecord{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", int64(id)).Delete(&model.GameRecord{}).Error
	})
	if err != nil {
		return errx.ErrUnavailable.WithReason(OpDeleteGame).WithCause(err).WithData("game_id", int64(id))
	}
	return nil
}
