package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/yoockh/mindwell/internal/models"
	pgrepo "github.com/yoockh/mindwell/internal/repositories/postgres"
	"github.com/yoockh/mindwell/internal/sentiment"
	"github.com/yoockh/mindwell/internal/utils"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

const (
	DefaultHistoryLimit    = 10
	DefaultMoodTrendsLimit = 20
)

// TurnInput is everything persisted for one processed message.
type TurnInput struct {
	UserID            string
	ChatSessionID     string
	UserMessage       string
	BotResponse       string
	Emotion           string
	EmotionConfidence float64
	SentimentScore    float64
	IsCrisis          bool
	CrisisKeywords    []string
	Topic             string
	MentalState       sentiment.MentalState
}

type ConversationService interface {
	SaveTurn(ctx context.Context, in TurnInput) (*models.Conversation, error)
	History(ctx context.Context, userID string, limit int) ([]models.Conversation, error)
	MoodTrends(ctx context.Context, userID string, limit int) ([]models.MoodEntry, error)
	EmotionDistribution(ctx context.Context, userID string) (map[string]int, error)
	AverageSentiment(ctx context.Context, userID string) (float64, error)
	CrisisCount(ctx context.Context, userID string) (int64, error)
}

type conversationService struct {
	users  pgrepo.UserRepository
	convos pgrepo.ConversationRepo
	moods  pgrepo.MoodRepo
	now    func() time.Time
}

func NewConversationService(users pgrepo.UserRepository, convos pgrepo.ConversationRepo, moods pgrepo.MoodRepo) ConversationService {
	return &conversationService{
		users:  users,
		convos: convos,
		moods:  moods,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// SaveTurn ensures the user row, appends the conversation and mood rows and
// bumps the user's counter. Each step is its own statement.
func (s *conversationService) SaveTurn(ctx context.Context, in TurnInput) (*models.Conversation, error) {
	const op = "ConversationService.SaveTurn"

	if in.UserID == "" || in.UserMessage == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and user_message are required", nil)
	}

	if err := s.users.EnsureUser(ctx, in.UserID); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to ensure user", err)
	}

	ts := s.now()
	row := &models.Conversation{
		ID:                uuid.NewString(),
		UserID:            in.UserID,
		UserMessage:       in.UserMessage,
		BotResponse:       in.BotResponse,
		Emotion:           in.Emotion,
		EmotionConfidence: in.EmotionConfidence,
		SentimentScore:    in.SentimentScore,
		IsCrisis:          in.IsCrisis,
		CrisisKeywords:    pq.StringArray(in.CrisisKeywords),
		Topic:             in.Topic,
		Timestamp:         ts,
	}
	if in.ChatSessionID != "" {
		id := in.ChatSessionID
		row.ChatSessionID = &id
	}
	if err := s.convos.Insert(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to insert conversation", err)
	}

	state, err := json.Marshal(in.MentalState)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode mental state", err)
	}
	mood := &models.MoodEntry{
		ID:             uuid.NewString(),
		UserID:         in.UserID,
		Emotion:        in.Emotion,
		SentimentScore: in.SentimentScore,
		MentalState:    datatypes.JSON(state),
		Timestamp:      ts,
	}
	if err := s.moods.Insert(ctx, mood); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to insert mood entry", err)
	}

	if err := s.users.IncrementConversations(ctx, in.UserID); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update conversation count", err)
	}
	return row, nil
}

func (s *conversationService) History(ctx context.Context, userID string, limit int) ([]models.Conversation, error) {
	const op = "ConversationService.History"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := s.convos.LatestN(ctx, userID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list conversations", err)
	}
	return rows, nil
}

func (s *conversationService) MoodTrends(ctx context.Context, userID string, limit int) ([]models.MoodEntry, error) {
	const op = "ConversationService.MoodTrends"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if limit <= 0 {
		limit = DefaultMoodTrendsLimit
	}

	rows, err := s.moods.LatestN(ctx, userID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list mood entries", err)
	}
	return rows, nil
}

func (s *conversationService) EmotionDistribution(ctx context.Context, userID string) (map[string]int, error) {
	const op = "ConversationService.EmotionDistribution"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	rows, err := s.moods.EmotionDistribution(ctx, userID, 0)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to compute emotion distribution", err)
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.Emotion] = r.Count
	}
	return out, nil
}

func (s *conversationService) AverageSentiment(ctx context.Context, userID string) (float64, error) {
	const op = "ConversationService.AverageSentiment"

	if userID == "" {
		return 0, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	avg, err := s.moods.AverageSentiment(ctx, userID)
	if err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to compute average sentiment", err)
	}
	return avg, nil
}

func (s *conversationService) CrisisCount(ctx context.Context, userID string) (int64, error) {
	const op = "ConversationService.CrisisCount"

	if userID == "" {
		return 0, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	n, err := s.convos.CountCrisis(ctx, userID)
	if err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to count crisis incidents", err)
	}
	return n, nil
}
