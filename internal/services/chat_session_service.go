package services

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/mindwell/internal/models"
	pgrepo "github.com/yoockh/mindwell/internal/repositories/postgres"
	"github.com/yoockh/mindwell/internal/utils"

	"github.com/google/uuid"
)

const moodBand = 0.1

// EndResult classifies the mood change of an ended chat session.
type EndResult struct {
	SessionID    string  `json:"session_id"`
	Improvement  float64 `json:"improvement"`
	Improved     bool    `json:"improved"`
	Stable       bool    `json:"stable"`
	Declined     bool    `json:"declined"`
	MessageCount int     `json:"message_count"`
}

// ClassifyImprovement applies the ±0.1 band used for ended sessions.
func ClassifyImprovement(delta float64) (improved, stable, declined bool) {
	return delta > moodBand, delta >= -moodBand && delta <= moodBand, delta < -moodBand
}

type ChatSessionService interface {
	Start(ctx context.Context, userID, emotion string, sentiment float64) (*models.ChatSession, error)
	End(ctx context.Context, userID, sessionID, emotion string, sentiment float64) (*EndResult, error)
	// Validate checks that sessionID names an open session of userID.
	Validate(ctx context.Context, userID, sessionID string) error
	History(ctx context.Context, userID string, limit int) ([]models.ChatSession, error)
	ImprovementStats(ctx context.Context, userID string) (*models.ImprovementStats, error)
}

type chatSessionService struct {
	users    pgrepo.UserRepository
	sessions pgrepo.ChatSessionRepo
	convos   pgrepo.ConversationRepo
	now      func() time.Time
}

func NewChatSessionService(users pgrepo.UserRepository, sessions pgrepo.ChatSessionRepo, convos pgrepo.ConversationRepo) ChatSessionService {
	return &chatSessionService{
		users:    users,
		sessions: sessions,
		convos:   convos,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *chatSessionService) Start(ctx context.Context, userID, emotion string, sentiment float64) (*models.ChatSession, error) {
	const op = "ChatSessionService.Start"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if emotion == "" {
		emotion = "neutral"
	}

	if err := s.users.EnsureUser(ctx, userID); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to ensure user", err)
	}

	cs := &models.ChatSession{
		ID:               uuid.NewString(),
		UserID:           userID,
		SessionStart:     s.now(),
		InitialEmotion:   emotion,
		InitialSentiment: sentiment,
	}
	if err := s.sessions.Create(ctx, cs); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create chat session", err)
	}
	return cs, nil
}

// End records the final mood once. An unknown id (or one owned by another
// user) is NotFound and a second end is Conflict.
func (s *chatSessionService) End(ctx context.Context, userID, sessionID, emotion string, sentiment float64) (*EndResult, error) {
	const op = "ChatSessionService.End"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}
	if emotion == "" {
		emotion = "neutral"
	}

	cs, err := s.owned(ctx, op, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if cs.Ended() {
		return nil, utils.E(utils.CodeConflict, op, "chat session already ended", nil)
	}

	count, err := s.convos.CountBySession(ctx, sessionID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count session messages", err)
	}

	delta := sentiment - cs.InitialSentiment
	updated, err := s.sessions.End(ctx, sessionID, pgrepo.EndFields{
		EndedAt:      s.now(),
		Emotion:      emotion,
		Sentiment:    sentiment,
		Improvement:  delta,
		MessageCount: int(count),
	})
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to end chat session", err)
	}
	if !updated {
		return nil, utils.E(utils.CodeConflict, op, "chat session already ended", nil)
	}

	improved, stable, declined := ClassifyImprovement(delta)
	return &EndResult{
		SessionID:    sessionID,
		Improvement:  delta,
		Improved:     improved,
		Stable:       stable,
		Declined:     declined,
		MessageCount: int(count),
	}, nil
}

func (s *chatSessionService) Validate(ctx context.Context, userID, sessionID string) error {
	const op = "ChatSessionService.Validate"

	if userID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	cs, err := s.owned(ctx, op, userID, sessionID)
	if err != nil {
		return err
	}
	if cs.Ended() {
		return utils.E(utils.CodeConflict, op, "chat session already ended", nil)
	}
	return nil
}

// owned loads a chat session for userID. Malformed ids and sessions of other
// users are reported as NotFound.
func (s *chatSessionService) owned(ctx context.Context, op, userID, sessionID string) (*models.ChatSession, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, utils.E(utils.CodeNotFound, op, "chat session not found", utils.ErrNotFound)
	}
	cs, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "chat session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get chat session", err)
	}
	if userID != "" && cs.UserID != userID {
		return nil, utils.E(utils.CodeNotFound, op, "chat session not found", utils.ErrNotFound)
	}
	return cs, nil
}

func (s *chatSessionService) History(ctx context.Context, userID string, limit int) ([]models.ChatSession, error) {
	const op = "ChatSessionService.History"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := s.sessions.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list chat sessions", err)
	}
	return rows, nil
}

// ImprovementStats counts every session of the user, ended or not, in the
// total; the rate is improved/total as a percentage.
func (s *chatSessionService) ImprovementStats(ctx context.Context, userID string) (*models.ImprovementStats, error) {
	const op = "ChatSessionService.ImprovementStats"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	st, err := s.sessions.ImprovementStats(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to compute improvement stats", err)
	}
	if st.TotalSessions > 0 {
		st.ImprovementRate = float64(st.ImprovedSessions) / float64(st.TotalSessions) * 100
	}
	return st, nil
}
