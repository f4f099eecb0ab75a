package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CrisisEvent is the audit record written for every escalated message.
type CrisisEvent struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID        string             `bson:"event_id" json:"event_id"` // uuid v4, idempotency key
	UserID         string             `bson:"user_id" json:"user_id"`
	ConversationID string             `bson:"conversation_id,omitempty" json:"conversation_id,omitempty"`

	Message      string   `bson:"message" json:"message"`
	Severity     float64  `bson:"severity" json:"severity"`
	Tier         string   `bson:"tier" json:"tier"`
	PhraseRule   bool     `bson:"phrase_rule" json:"phrase_rule"`
	WeightedRule bool     `bson:"weighted_rule" json:"weighted_rule"`
	Keywords     []string `bson:"keywords,omitempty" json:"keywords,omitempty"`

	Emotion        string  `bson:"emotion" json:"emotion"`
	SentimentScore float64 `bson:"sentiment_score" json:"sentiment_score"`

	DetectedAt time.Time `bson:"detected_at" json:"detected_at"`
	RecordedAt time.Time `bson:"recorded_at" json:"recorded_at"`
}

// SessionTranscript archives an ended tracker session.
type SessionTranscript struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID string             `bson:"session_id" json:"session_id"`
	UserID    string             `bson:"user_id" json:"user_id"`

	Messages []TranscriptMessage `bson:"messages" json:"messages"`
	Moods    []TranscriptMood    `bson:"moods" json:"moods"`

	SentimentChange float64 `bson:"sentiment_change" json:"sentiment_change"`
	Improved        bool    `bson:"improved" json:"improved"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	EndedAt   time.Time `bson:"ended_at" json:"ended_at"`
}

type TranscriptMessage struct {
	Role      string    `bson:"role" json:"role"`
	Content   string    `bson:"content" json:"content"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

type TranscriptMood struct {
	Emotion        string    `bson:"emotion" json:"emotion"`
	SentimentScore float64   `bson:"sentiment_score" json:"sentiment_score"`
	CrisisDetected bool      `bson:"crisis_detected" json:"crisis_detected"`
	Timestamp      time.Time `bson:"timestamp" json:"timestamp"`
}
