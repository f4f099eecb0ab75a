package session

import (
	"time"

	"github.com/yoockh/mindwell/internal/sentiment"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type MoodSnapshot struct {
	Timestamp      time.Time             `json:"timestamp"`
	Emotion        sentiment.Category    `json:"emotion_category"`
	SentimentScore float64               `json:"sentiment_score"`
	CrisisDetected bool                  `json:"crisis_detected"`
	MentalState    sentiment.MentalState `json:"mental_state"`
}

// MoodChange compares the first and latest mood snapshots. Improved uses a
// strict > 0 threshold, unlike the ±0.1 band applied to ended chat sessions.
type MoodChange struct {
	InitialMood     sentiment.Category `json:"initial_mood,omitempty"`
	CurrentMood     sentiment.Category `json:"current_mood,omitempty"`
	SentimentChange float64            `json:"sentiment_change"`
	Improved        bool               `json:"improved"`
	MessagesCount   int                `json:"messages_count"`
}

type Summary struct {
	SessionID    string     `json:"session_id"`
	UserID       string     `json:"user_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	MessageCount int        `json:"message_count"`
	MoodEntries  int        `json:"mood_entries"`
	Active       bool       `json:"session_active"`
	MoodChange   MoodChange `json:"mood_change"`
}

// UserSession is the ephemeral per-conversation state of the tracker.
// History and MoodLog are append-only; InitialMood is set once.
type UserSession struct {
	ID          string         `json:"session_id"`
	UserID      string         `json:"user_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	History     []Message      `json:"conversation_history"`
	MoodLog     []MoodSnapshot `json:"mood_log"`
	InitialMood *MoodSnapshot  `json:"initial_mood,omitempty"`
	CurrentMood *MoodSnapshot  `json:"current_mood,omitempty"`
	Active      bool           `json:"session_active"`
}

func NewUserSession(id, userID string, now time.Time) *UserSession {
	return &UserSession{
		ID:        id,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
		History:   []Message{},
		MoodLog:   []MoodSnapshot{},
		Active:    true,
	}
}

func (s *UserSession) AddMessage(role, content string, metadata map[string]any, now time.Time) {
	s.History = append(s.History, Message{
		Role:      role,
		Content:   content,
		Timestamp: now,
		Metadata:  metadata,
	})
	s.UpdatedAt = now
}

// RecordMood appends a snapshot of r. The first snapshot becomes the initial
// mood; every snapshot replaces the current one.
func (s *UserSession) RecordMood(r sentiment.Result, now time.Time) MoodSnapshot {
	snap := MoodSnapshot{
		Timestamp:      now,
		Emotion:        r.Category,
		SentimentScore: r.Score,
		CrisisDetected: r.CrisisDetected,
		MentalState:    r.MentalState,
	}
	s.MoodLog = append(s.MoodLog, snap)
	if s.InitialMood == nil {
		first := snap
		s.InitialMood = &first
	}
	current := snap
	s.CurrentMood = &current
	return snap
}

func (s *UserSession) MoodChange() MoodChange {
	if s.InitialMood == nil || s.CurrentMood == nil {
		return MoodChange{}
	}
	change := s.CurrentMood.SentimentScore - s.InitialMood.SentimentScore
	return MoodChange{
		InitialMood:     s.InitialMood.Emotion,
		CurrentMood:     s.CurrentMood.Emotion,
		SentimentChange: change,
		Improved:        change > 0,
		MessagesCount:   len(s.History),
	}
}

func (s *UserSession) Summary() Summary {
	return Summary{
		SessionID:    s.ID,
		UserID:       s.UserID,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		MessageCount: len(s.History),
		MoodEntries:  len(s.MoodLog),
		Active:       s.Active,
		MoodChange:   s.MoodChange(),
	}
}

func (s *UserSession) End(now time.Time) {
	s.Active = false
	s.UpdatedAt = now
}

// Clone returns a deep copy so stored sessions are never shared.
func (s *UserSession) Clone() *UserSession {
	cp := *s
	cp.History = append([]Message(nil), s.History...)
	cp.MoodLog = append([]MoodSnapshot(nil), s.MoodLog...)
	if s.InitialMood != nil {
		m := *s.InitialMood
		cp.InitialMood = &m
	}
	if s.CurrentMood != nil {
		m := *s.CurrentMood
		cp.CurrentMood = &m
	}
	return &cp
}
