package postgres

import (
	"context"
	"database/sql"

	"github.com/yoockh/mindwell/internal/models"
	"gorm.io/gorm"
)

type MoodRepo interface {
	Insert(ctx context.Context, m *models.MoodEntry) error
	LatestN(ctx context.Context, userID string, n int) ([]models.MoodEntry, error)
	EmotionDistribution(ctx context.Context, userID string, limit int) ([]models.EmotionCount, error)
	AverageSentiment(ctx context.Context, userID string) (float64, error)
}

type moodRepo struct {
	db *gorm.DB
}

func NewMoodRepo(db *gorm.DB) MoodRepo {
	return &moodRepo{db: db}
}

func (r *moodRepo) Insert(ctx context.Context, m *models.MoodEntry) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *moodRepo) LatestN(ctx context.Context, userID string, n int) ([]models.MoodEntry, error) {
	if n <= 0 {
		n = 20
	}
	var rows []models.MoodEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(n).
		Find(&rows).Error
	return rows, err
}

func (r *moodRepo) EmotionDistribution(ctx context.Context, userID string, limit int) ([]models.EmotionCount, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.EmotionCount
	err := r.db.WithContext(ctx).
		Model(&models.MoodEntry{}).
		Select("emotion, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("emotion").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *moodRepo) AverageSentiment(ctx context.Context, userID string) (float64, error) {
	var avg sql.NullFloat64
	row := r.db.WithContext(ctx).
		Model(&models.MoodEntry{}).
		Select("AVG(sentiment_score)").
		Where("user_id = ?", userID).
		Row()
	if err := row.Scan(&avg); err != nil {
		return 0, err
	}
	return avg.Float64, nil
}
