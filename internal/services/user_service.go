package services

import (
	"context"
	"errors"

	"github.com/yoockh/mindwell/internal/models"
	pgrepo "github.com/yoockh/mindwell/internal/repositories/postgres"
	"github.com/yoockh/mindwell/internal/utils"
)

type UserService interface {
	Summary(ctx context.Context, userID string) (*models.UserSummary, error)
}

type userService struct {
	users  pgrepo.UserRepository
	convos ConversationService
}

func NewUserService(users pgrepo.UserRepository, convos ConversationService) UserService {
	return &userService{users: users, convos: convos}
}

// Summary builds the dashboard view. The primary emotion is the most frequent
// one, "unknown" when the user has no mood entries.
func (s *userService) Summary(ctx context.Context, userID string) (*models.UserSummary, error) {
	const op = "UserService.Summary"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	dist, err := s.convos.EmotionDistribution(ctx, userID)
	if err != nil {
		return nil, err
	}
	avg, err := s.convos.AverageSentiment(ctx, userID)
	if err != nil {
		return nil, err
	}
	crises, err := s.convos.CrisisCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	total := 0
	u, err := s.users.Get(ctx, userID)
	switch {
	case err == nil:
		total = u.TotalConversations
	case errors.Is(err, utils.ErrNotFound):
	default:
		return nil, utils.E(utils.CodeInternal, op, "failed to load user", err)
	}

	return &models.UserSummary{
		UserID:              userID,
		PrimaryEmotion:      PrimaryEmotion(dist),
		AverageSentiment:    avg,
		TotalConversations:  total,
		CrisisIncidents:     crises,
		EmotionDistribution: dist,
	}, nil
}

// PrimaryEmotion returns the mode of dist. Ties go to the alphabetically
// first label so the result is stable.
func PrimaryEmotion(dist map[string]int) string {
	best, bestN := "unknown", -1
	for label, n := range dist {
		if n > bestN || (n == bestN && label < best) {
			best, bestN = label, n
		}
	}
	return best
}
