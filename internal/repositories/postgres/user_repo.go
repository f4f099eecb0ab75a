package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/mindwell/internal/models"
	"github.com/yoockh/mindwell/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	EnsureUser(ctx context.Context, userID string) error
	IncrementConversations(ctx context.Context, userID string) error
	Get(ctx context.Context, userID string) (*models.User, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

// EnsureUser inserts the user if missing and leaves an existing row untouched.
func (r *userRepo) EnsureUser(ctx context.Context, userID string) error {
	u := &models.User{UserID: userID, CreatedAt: time.Now().UTC()}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(u).Error
}

func (r *userRepo) IncrementConversations(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("user_id = ?", userID).
		UpdateColumn("total_conversations", gorm.Expr("total_conversations + 1")).Error
}

func (r *userRepo) Get(ctx context.Context, userID string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &u, err
}
