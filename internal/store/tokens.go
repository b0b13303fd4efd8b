package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type tokenRepo struct {
	db *gorm.DB
}

func (r *tokenRepo) Create(ctx context.Context, token *UserToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("create user token: %w", err)
	}
	return nil
}

func (r *tokenRepo) ByRefreshToken(ctx context.Context, refreshToken string) (*UserToken, error) {
	var token UserToken
	err := r.db.WithContext(ctx).Where("refresh_token = ?", refreshToken).First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query token: %w", err)
	}
	return &token, nil
}

func (r *tokenRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&UserToken{}).Error; err != nil {
		return fmt.Errorf("delete tokens: %w", err)
	}
	return nil
}
