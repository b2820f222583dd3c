package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"Civilization/internal/game/entity"
	"Civilization/internal/game/infra/persistence/model"
	"Civilization/modules/kit/errx"
)

const defaultCollectionName = "game"

type GameRepository struct {
	coll *mongo.Collection
}

func NewGameRepository(db *mongo.Database) *GameRepository {
	return &GameRepository{
		coll: db.Collection(defaultCollectionName),
	}
}

func (r *GameRepository) LoadGame(ctx context.Context, id entity.GameID) (*entity.Game, error) {
	if r == nil || r.coll == nil {
		return nil, errx.ErrInternal.WithReason("mongodb game collection is nil")
	}

	var doc model.GameDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": int64(id)}).Decode(&doc)
	switch {
	case err == nil:
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, entity.ErrGameNotFound.WithData("game_id", int64(id))
	default:
		return nil, errx.ErrUnavailable.WithReason("mongodb find game").WithCause(err).WithData("game_id", int64(id))
	}

	s, err := model.DocToSnapshot(&doc)
	if err != nil {
		return nil, errx.ErrInternal.WithReason("decode game state").WithCause(err).WithData("game_id", int64(id))
	}
	return entity.RestoreGame(s), nil
}

// Save 按版本条件覆盖：库里版本更高时 upsert 命中不到文档，转成重复键错误，视为已有更新快照。
func (r *GameRepository) Save(ctx context.Context, s *entity.GamePersistSnapshot) error {
	if s == nil {
		return nil
	}
	if r == nil || r.coll == nil {
		return errx.ErrInternal.WithReason("mongodb game collection is nil")
	}

	doc, err := model.SnapshotToDoc(s, time.Now())
	if err != nil {
		return errx.ErrInternal.WithReason("encode game state").WithCause(err).WithData("game_id", int64(s.GameID))
	}

	_, err = r.coll.ReplaceOne(
		ctx,
		bson.M{"_id": doc.GameID, "version": bson.M{"$lte": doc.Version}},
		doc,
		options.Replace().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	if err != nil {
		return errx.ErrUnavailable.WithReason("mongodb save game").WithCause(err).WithData("game_id", int64(s.GameID))
	}
	return nil
}

func (r *GameRepository) Delete(ctx context.Context, id entity.GameID) error {
	if r == nil || r.coll == nil {
		return errx.ErrInternal.WithReason("mongodb game collection is nil")
	}
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": int64(id)}); err != nil {
		return errx.ErrUnavailable.WithReason("mongodb delete game").WithCause(err).WithData("game_id", int64(id))
	}
	return nil
}
