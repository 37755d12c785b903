package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/pageza/recipebox/backend/internal/models"
)

// TokenRepository stores the one login token each user may hold
type TokenRepository interface {
	GetByKey(ctx context.Context, key string) (*models.AuthToken, error)
	GetByUserID(ctx context.Context, userID uint) (*models.AuthToken, error)
	Create(ctx context.Context, token *models.AuthToken) error
	// Replace swaps the user's token for a new one atomically
	Replace(ctx context.Context, token *models.AuthToken) error
}

type tokenRepo struct {
	db *gorm.DB
}

func NewTokenRepo(db *gorm.DB) TokenRepository {
	return &tokenRepo{db: db}
}

func (r *tokenRepo) GetByKey(ctx context.Context, key string) (*models.AuthToken, error) {
	// zero-value struct conditions are dropped by gorm
	if key == "" {
		return nil, ErrNotFound
	}
	var token models.AuthToken
	if err := r.db.WithContext(ctx).Where(&models.AuthToken{Key: key}).First(&token).Error; err != nil {
		return nil, translate(err)
	}
	return &token, nil
}

func (r *tokenRepo) GetByUserID(ctx context.Context, userID uint) (*models.AuthToken, error) {
	var token models.AuthToken
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&token).Error; err != nil {
		return nil, translate(err)
	}
	return &token, nil
}

func (r *tokenRepo) Create(ctx context.Context, token *models.AuthToken) error {
	err := r.db.WithContext(ctx).Omit("User").Create(token).Error
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicate
	}
	return translate(err)
}

func (r *tokenRepo) Replace(ctx context.Context, token *models.AuthToken) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", token.UserID).Delete(&models.AuthToken{}).Error; err != nil {
			return err
		}
		return tx.Omit("User").Create(token).Error
	}))
}
