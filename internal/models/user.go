package models

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User is created lazily on the first saved conversation.
type User struct {
	UserID             string    `gorm:"column:user_id;type:text;primaryKey" json:"user_id"`
	CreatedAt          time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	TotalConversations int       `gorm:"column:total_conversations;not null;default:0" json:"total_conversations"`
}

func (User) TableName() string { return "users" }

// UserSummary is the dashboard view over a user's stored turns.
type UserSummary struct {
	UserID              string         `json:"user_id"`
	PrimaryEmotion      string         `json:"primary_emotion"`
	AverageSentiment    float64        `json:"average_sentiment"`
	TotalConversations  int            `json:"total_conversations"`
	CrisisIncidents     int64          `json:"crisis_incidents"`
	EmotionDistribution map[string]int `json:"emotion_distribution"`
}
