//go:generate mockery --name FlashcardRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_5_ai_flashcard/internal/middleware"
	"go_5_ai_flashcard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FlashcardRepository はフラッシュカードの永続化を担当します
type FlashcardRepository interface {
	Create(ctx context.Context, tx *gorm.DB, card *model.Flashcard) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, flashcardID uuid.UUID) (*model.Flashcard, error)
	FindByTenant(ctx context.Context, db *gorm.DB, tenantID uuid.UUID) ([]*model.Flashcard, error)
	CountByTenant(ctx context.Context, db *gorm.DB, tenantID uuid.UUID) (int64, error)
	Update(ctx context.Context, tx *gorm.DB, tenantID, flashcardID uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, tenantID, flashcardID uuid.UUID) error
}

type gormFlashcardRepository struct{}

func NewGormFlashcardRepository() FlashcardRepository {
	return &gormFlashcardRepository{}
}

func (r *gormFlashcardRepository) Create(ctx context.Context, tx *gorm.DB, card *model.Flashcard) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(card)
	if result.Error != nil {
		// 23505: (tenant_id, front) の重複 / 23514・P0001: 15枚上限トリガー
		if mapped := mapPgError(result.Error); mapped != result.Error {
			logger.Warn("Constraint violation on create flashcard",
				"error", result.Error,
				"tenant_id", card.TenantID.String(),
			)
			return mapped
		}
		logger.Error("Error creating flashcard in DB",
			"error", result.Error,
			"tenant_id", card.TenantID.String(),
		)
		return fmt.Errorf("gormFlashcardRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormFlashcardRepository) FindByID(ctx context.Context, db *gorm.DB, tenantID, flashcardID uuid.UUID) (*model.Flashcard, error) {
	logger := middleware.GetLogger(ctx)
	var card model.Flashcard
	result := db.WithContext(ctx).Where("tenant_id = ? AND flashcard_id = ?", tenantID, flashcardID).First(&card)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding flashcard by ID in DB",
			"error", result.Error,
			"tenant_id", tenantID.String(),
			"flashcard_id", flashcardID.String(),
		)
		return nil, fmt.Errorf("gormFlashcardRepository.FindByID: %w", result.Error)
	}
	return &card, nil
}

func (r *gormFlashcardRepository) FindByTenant(ctx context.Context, db *gorm.DB, tenantID uuid.UUID) ([]*model.Flashcard, error) {
	logger := middleware.GetLogger(ctx)
	var cards []*model.Flashcard
	result := db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("created_at DESC").Find(&cards)
	if result.Error != nil {
		logger.Error("Error finding flashcards by tenant in DB",
			"error", result.Error,
			"tenant_id", tenantID.String(),
		)
		return nil, fmt.Errorf("gormFlashcardRepository.FindByTenant: %w", result.Error)
	}
	return cards, nil
}

func (r *gormFlashcardRepository) CountByTenant(ctx context.Context, db *gorm.DB, tenantID uuid.UUID) (int64, error) {
	logger := middleware.GetLogger(ctx)
	var count int64
	result := db.WithContext(ctx).Model(&model.Flashcard{}).Where("tenant_id = ?", tenantID).Count(&count)
	if result.Error != nil {
		logger.Error("Error counting flashcards in DB",
			"error", result.Error,
			"tenant_id", tenantID.String(),
		)
		return 0, fmt.Errorf("gormFlashcardRepository.CountByTenant: %w", result.Error)
	}
	return count, nil
}

func (r *gormFlashcardRepository) Update(ctx context.Context, tx *gorm.DB, tenantID, flashcardID uuid.UUID, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.Flashcard{}).
		Where("tenant_id = ? AND flashcard_id = ?", tenantID, flashcardID).
		Updates(updates)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return model.ErrConflict
		}
		logger.Error("Error updating flashcard in DB",
			"error", result.Error,
			"tenant_id", tenantID.String(),
			"flashcard_id", flashcardID.String(),
		)
		return fmt.Errorf("gormFlashcardRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormFlashcardRepository) Delete(ctx context.Context, tx *gorm.DB, tenantID, flashcardID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Where("tenant_id = ? AND flashcard_id = ?", tenantID, flashcardID).Delete(&model.Flashcard{})
	if result.Error != nil {
		logger.Error("Error deleting flashcard in DB",
			"error", result.Error,
			"tenant_id", tenantID.String(),
			"flashcard_id", flashcardID.String(),
		)
		return fmt.Errorf("gormFlashcardRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
