//go:generate mockery --name TokenRepository --output ./mocks --outpkg mocks --case=underscore
// internal/repository/token_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_5_ai_flashcard/internal/middleware"
	"go_5_ai_flashcard/internal/model"

	"gorm.io/gorm"
)

// TokenRepository はメール用ワンタイムトークンの永続化を担います。
// 検索は用途込みで行い、有効化トークンをパスワード再設定に流用するような
// 取り違えを防ぐ。
type TokenRepository interface {
	Create(ctx context.Context, db *gorm.DB, token *model.EmailToken) error
	FindByPurpose(ctx context.Context, db *gorm.DB, purpose model.TokenPurpose, token string) (*model.EmailToken, error)
	Delete(ctx context.Context, db *gorm.DB, token string) error
}

type gormTokenRepository struct{}

func NewGormTokenRepository() TokenRepository {
	return &gormTokenRepository{}
}

func (r *gormTokenRepository) Create(ctx context.Context, db *gorm.DB, token *model.EmailToken) error {
	logger := middleware.GetLogger(ctx)
	if err := db.WithContext(ctx).Create(token).Error; err != nil {
		logger.Error("Failed to create email token", "error", err, "purpose", token.Purpose)
		return fmt.Errorf("gormTokenRepository.Create: %w", err)
	}
	return nil
}

func (r *gormTokenRepository) FindByPurpose(ctx context.Context, db *gorm.DB, purpose model.TokenPurpose, tokenStr string) (*model.EmailToken, error) {
	logger := middleware.GetLogger(ctx)
	var token model.EmailToken
	err := db.WithContext(ctx).
		Where("token = ? AND purpose = ?", tokenStr, purpose).
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Failed to find email token", "error", err, "purpose", purpose)
		return nil, fmt.Errorf("gormTokenRepository.FindByPurpose: %w", err)
	}
	return &token, nil
}

func (r *gormTokenRepository) Delete(ctx context.Context, db *gorm.DB, tokenStr string) error {
	logger := middleware.GetLogger(ctx)
	result := db.WithContext(ctx).Where("token = ?", tokenStr).Delete(&model.EmailToken{})
	if result.Error != nil {
		logger.Error("Failed to delete email token", "error", result.Error)
		return fmt.Errorf("gormTokenRepository.Delete: %w", result.Error)
	}
	return nil
}
