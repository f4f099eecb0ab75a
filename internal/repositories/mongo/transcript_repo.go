package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/mindwell/internal/models"
	"github.com/yoockh/mindwell/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TranscriptRepository interface {
	Save(ctx context.Context, t *models.SessionTranscript) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.SessionTranscript, error)
}

type transcriptRepo struct {
	col *mongo.Collection
}

func NewTranscriptRepo(db *mongo.Database) TranscriptRepository {
	return &transcriptRepo{col: db.Collection("session_transcripts")}
}

func (r *transcriptRepo) Save(ctx context.Context, t *models.SessionTranscript) error {
	if t.EndedAt.IsZero() {
		t.EndedAt = time.Now().UTC()
	}
	_, err := r.col.ReplaceOne(ctx,
		bson.M{"session_id": t.SessionID},
		t,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *transcriptRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.SessionTranscript, error) {
	var t models.SessionTranscript
	err := r.col.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &t, err
}
