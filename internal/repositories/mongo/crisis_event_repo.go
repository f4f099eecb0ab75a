package mongo

import (
	"context"
	"time"

	"github.com/yoockh/mindwell/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CrisisEventRepository interface {
	// Insert is idempotent on EventID so redelivered alerts do not duplicate.
	Insert(ctx context.Context, e *models.CrisisEvent) error
	ListByUser(ctx context.Context, userID string, limit int64) ([]models.CrisisEvent, error)
	ListRecent(ctx context.Context, limit int64) ([]models.CrisisEvent, error)
}

type crisisEventRepo struct {
	col *mongo.Collection
}

func NewCrisisEventRepo(db *mongo.Database) CrisisEventRepository {
	return &crisisEventRepo{col: db.Collection("crisis_events")}
}

func (r *crisisEventRepo) Insert(ctx context.Context, e *models.CrisisEvent) error {
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now().UTC()
	}
	_, err := r.col.UpdateOne(ctx,
		bson.M{"event_id": e.EventID},
		bson.M{"$setOnInsert": e},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *crisisEventRepo) ListByUser(ctx context.Context, userID string, limit int64) ([]models.CrisisEvent, error) {
	return r.find(ctx, bson.M{"user_id": userID}, limit)
}

func (r *crisisEventRepo) ListRecent(ctx context.Context, limit int64) ([]models.CrisisEvent, error) {
	return r.find(ctx, bson.M{}, limit)
}

func (r *crisisEventRepo) find(ctx context.Context, filter bson.M, limit int64) ([]models.CrisisEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "detected_at", Value: -1}}).
		SetLimit(limit)

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.CrisisEvent
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
