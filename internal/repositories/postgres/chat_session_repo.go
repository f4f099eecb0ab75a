package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/mindwell/internal/models"
	"github.com/yoockh/mindwell/internal/utils"
	"gorm.io/gorm"
)

type ChatSessionRepo interface {
	Create(ctx context.Context, s *models.ChatSession) error
	Get(ctx context.Context, id string) (*models.ChatSession, error)
	End(ctx context.Context, id string, end EndFields) (bool, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.ChatSession, error)
	ImprovementStats(ctx context.Context, userID string) (*models.ImprovementStats, error)
}

type EndFields struct {
	EndedAt      time.Time
	Emotion      string
	Sentiment    float64
	Improvement  float64
	MessageCount int
}

type chatSessionRepo struct {
	db *gorm.DB
}

func NewChatSessionRepo(db *gorm.DB) ChatSessionRepo {
	return &chatSessionRepo{db: db}
}

func (r *chatSessionRepo) Create(ctx context.Context, s *models.ChatSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *chatSessionRepo) Get(ctx context.Context, id string) (*models.ChatSession, error) {
	var s models.ChatSession
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &s, err
}

// End only touches a session that has not ended yet and reports whether a
// row was updated.
func (r *chatSessionRepo) End(ctx context.Context, id string, end EndFields) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.ChatSession{}).
		Where("id = ? AND session_end IS NULL", id).
		Updates(map[string]any{
			"session_end":      end.EndedAt.UTC(),
			"final_emotion":    end.Emotion,
			"final_sentiment":  end.Sentiment,
			"mood_improvement": end.Improvement,
			"message_count":    end.MessageCount,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *chatSessionRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.ChatSession, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []models.ChatSession
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("session_start DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *chatSessionRepo) ImprovementStats(ctx context.Context, userID string) (*models.ImprovementStats, error) {
	var st models.ImprovementStats
	err := r.db.WithContext(ctx).
		Model(&models.ChatSession{}).
		Select(`COUNT(*) AS total_sessions,
			COALESCE(AVG(mood_improvement), 0) AS average_improvement,
			COALESCE(SUM(CASE WHEN mood_improvement > 0.1 THEN 1 ELSE 0 END), 0) AS improved_sessions,
			COALESCE(SUM(CASE WHEN mood_improvement < -0.1 THEN 1 ELSE 0 END), 0) AS declined_sessions`).
		Where("user_id = ?", userID).
		Scan(&st).Error
	if err != nil {
		return nil, err
	}
	return &st, nil
}
