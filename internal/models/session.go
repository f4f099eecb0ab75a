package models

import "time"

// ChatSession is written once on start and updated once on end.
type ChatSession struct {
	ID               string     `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID           string     `gorm:"column:user_id;type:text;index" json:"user_id"`
	SessionStart     time.Time  `gorm:"column:session_start;type:timestamptz" json:"session_start"`
	SessionEnd       *time.Time `gorm:"column:session_end;type:timestamptz" json:"session_end,omitempty"`
	InitialEmotion   string     `gorm:"column:initial_emotion;type:text" json:"initial_emotion"`
	InitialSentiment float64    `gorm:"column:initial_sentiment" json:"initial_sentiment"`
	FinalEmotion     *string    `gorm:"column:final_emotion;type:text" json:"final_emotion,omitempty"`
	FinalSentiment   *float64   `gorm:"column:final_sentiment" json:"final_sentiment,omitempty"`
	MoodImprovement  *float64   `gorm:"column:mood_improvement" json:"mood_improvement,omitempty"`
	MessageCount     int        `gorm:"column:message_count;not null;default:0" json:"message_count"`
}

func (ChatSession) TableName() string { return "chat_sessions" }

func (s *ChatSession) Ended() bool { return s.SessionEnd != nil }

// ImprovementStats aggregates ended sessions for one user.
type ImprovementStats struct {
	TotalSessions      int64   `gorm:"column:total_sessions" json:"total_sessions"`
	AverageImprovement float64 `gorm:"column:average_improvement" json:"average_improvement"`
	ImprovedSessions   int64   `gorm:"column:improved_sessions" json:"sessions_improved"`
	DeclinedSessions   int64   `gorm:"column:declined_sessions" json:"sessions_declined"`
	ImprovementRate    float64 `gorm:"-" json:"improvement_rate"`
}
