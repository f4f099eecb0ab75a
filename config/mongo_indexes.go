package config

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	events := db.Collection("crisis_events")
	_, err := events.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// one document per published alert
		{
			Keys: bson.D{{Key: "event_id", Value: 1}},
			Options: options.Index().
				SetName("uniq_event_id").
				SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "detected_at", Value: -1}},
			Options: options.Index().SetName("by_user_detected"),
		},
		{
			Keys:    bson.D{{Key: "detected_at", Value: -1}},
			Options: options.Index().SetName("by_detected"),
		},
	})
	if err != nil {
		return err
	}

	transcripts := db.Collection("session_transcripts")
	_, err = transcripts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().
				SetName("uniq_session_id").
				SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "ended_at", Value: -1}},
			Options: options.Index().SetName("by_user_ended"),
		},
	})
	return err
}
