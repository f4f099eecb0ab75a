package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Conversation is one processed message. Rows are append-only.
type Conversation struct {
	ID                string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID            string         `gorm:"column:user_id;type:text;index" json:"user_id"`
	ChatSessionID     *string        `gorm:"column:chat_session_id;type:uuid;index" json:"chat_session_id,omitempty"`
	UserMessage       string         `gorm:"column:user_message;type:text" json:"user_message"`
	BotResponse       string         `gorm:"column:bot_response;type:text" json:"bot_response"`
	Emotion           string         `gorm:"column:emotion;type:text" json:"emotion"`
	EmotionConfidence float64        `gorm:"column:emotion_confidence" json:"emotion_confidence"`
	SentimentScore    float64        `gorm:"column:sentiment_score" json:"sentiment_score"`
	IsCrisis          bool           `gorm:"column:is_crisis;index" json:"is_crisis"`
	CrisisKeywords    pq.StringArray `gorm:"column:crisis_keywords;type:text[]" json:"crisis_keywords,omitempty"`
	Topic             string         `gorm:"column:topic;type:text" json:"topic"`
	Timestamp         time.Time      `gorm:"column:timestamp;type:timestamptz;index" json:"timestamp"`
}

func (Conversation) TableName() string { return "conversations" }

type MoodEntry struct {
	ID             string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID         string         `gorm:"column:user_id;type:text;index" json:"user_id"`
	Emotion        string         `gorm:"column:emotion;type:text" json:"emotion"`
	SentimentScore float64        `gorm:"column:sentiment_score" json:"sentiment_score"`
	MentalState    datatypes.JSON `gorm:"column:mental_state;type:jsonb" json:"mental_state,omitempty"`
	Timestamp      time.Time      `gorm:"column:timestamp;type:timestamptz;index" json:"timestamp"`
}

func (MoodEntry) TableName() string { return "mood_tracking" }

// EmotionCount is one row of the per-user emotion distribution.
type EmotionCount struct {
	Emotion string `gorm:"column:emotion" json:"emotion"`
	Count   int    `gorm:"column:count" json:"count"`
}
