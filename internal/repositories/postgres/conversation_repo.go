package postgres

import (
	"context"

	"github.com/yoockh/mindwell/internal/models"
	"gorm.io/gorm"
)

type ConversationRepo interface {
	Insert(ctx context.Context, c *models.Conversation) error
	LatestN(ctx context.Context, userID string, n int) ([]models.Conversation, error)
	CountCrisis(ctx context.Context, userID string) (int64, error)
	CountBySession(ctx context.Context, chatSessionID string) (int64, error)
}

type conversationRepo struct {
	db *gorm.DB
}

func NewConversationRepo(db *gorm.DB) ConversationRepo {
	return &conversationRepo{db: db}
}

func (r *conversationRepo) Insert(ctx context.Context, c *models.Conversation) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *conversationRepo) LatestN(ctx context.Context, userID string, n int) ([]models.Conversation, error) {
	if n <= 0 {
		n = 10
	}
	var rows []models.Conversation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(n).
		Find(&rows).Error
	return rows, err
}

func (r *conversationRepo) CountCrisis(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("user_id = ? AND is_crisis = ?", userID, true).
		Count(&count).Error
	return count, err
}

func (r *conversationRepo) CountBySession(ctx context.Context, chatSessionID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("chat_session_id = ?", chatSessionID).
		Count(&count).Error
	return count, err
}
