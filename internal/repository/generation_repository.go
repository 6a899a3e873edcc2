//go:generate mockery --name GenerationRepository --output ./mocks --outpkg mocks --case=underscore
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

// GenerationRepository はAI生成ジョブの永続化を担当します
type GenerationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, gen *model.Generation) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, generationID uuid.UUID) (*model.Generation, error)
	HasPending(ctx context.Context, db *gorm.DB, tenantID uuid.UUID) (bool, error)
	MarkFailed(ctx context.Context, db *gorm.DB, generationID uuid.UUID, errorMessage string) error
	MarkSucceeded(ctx context.Context, db *gorm.DB, generationID uuid.UUID, proposals model.ProposalList, generatedCount int, durationMs int64) error
	UpdateCommitCounters(ctx context.Context, tx *gorm.DB, generationID uuid.UUID, updates map[string]interface{}) error
}

type gormGenerationRepository struct{}

func NewGormGenerationRepository() GenerationRepository {
	return &gormGenerationRepository{}
}

func (r *gormGenerationRepository) Create(ctx context.Context, tx *gorm.DB, gen *model.Generation) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(gen)
	if result.Error != nil {
		// 部分ユニークインデックス (tenant_id WHERE status='pending') 違反は
		// 同時リクエストが先に pending 行を作ったことを意味する
		if isUniqueViolation(result.Error) {
			logger.Warn("Pending generation already exists for tenant",
				"tenant_id", gen.TenantID.String(),
			)
			return model.ErrConflict
		}
		logger.Error("Error creating generation in DB",
			"error", result.Error,
			"tenant_id", gen.TenantID.String(),
		)
		return fmt.Errorf("gormGenerationRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormGenerationRepository) FindByID(ctx context.Context, db *gorm.DB, tenantID, generationID uuid.UUID) (*model.Generation, error) {
	logger := middleware.GetLogger(ctx)
	var gen model.Generation
	result := db.WithContext(ctx).Where("tenant_id = ? AND generation_id = ?", tenantID, generationID).First(&gen)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding generation by ID in DB",
			"error", result.Error,
			"tenant_id", tenantID.String(),
			"generation_id", generationID.String(),
		)
		return nil, fmt.Errorf("gormGenerationRepository.FindByID: %w", result.Error)
	}
	return &gen, nil
}

func (r *gormGenerationRepository) HasPending(ctx context.Context, db *gorm.DB, tenantID uuid.UUID) (bool, error) {
	logger := middleware.GetLogger(ctx)
	var count int64
	result := db.WithContext(ctx).Model(&model.Generation{}).
		Where("tenant_id = ? AND status = ?", tenantID, model.GenerationStatusPending).
		Count(&count)
	if result.Error != nil {
		logger.Error("Error checking pending generation in DB",
			"error", result.Error,
			"tenant_id", tenantID.String(),
		)
		return false, fmt.Errorf("gormGenerationRepository.HasPending: %w", result.Error)
	}
	return count > 0, nil
}

func (r *gormGenerationRepository) MarkFailed(ctx context.Context, db *gorm.DB, generationID uuid.UUID, errorMessage string) error {
	logger := middleware.GetLogger(ctx)
	result := db.WithContext(ctx).Model(&model.Generation{}).
		Where("generation_id = ?", generationID).
		Updates(map[string]interface{}{
			"status":        model.GenerationStatusFailed,
			"error_message": errorMessage,
		})
	if result.Error != nil {
		logger.Error("Error marking generation failed in DB",
			"error", result.Error,
			"generation_id", generationID.String(),
		)
		return fmt.Errorf("gormGenerationRepository.MarkFailed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormGenerationRepository) MarkSucceeded(ctx context.Context, db *gorm.DB, generationID uuid.UUID, proposals model.ProposalList, generatedCount int, durationMs int64) error {
	logger := middleware.GetLogger(ctx)
	result := db.WithContext(ctx).Model(&model.Generation{}).
		Where("generation_id = ?", generationID).
		Updates(map[string]interface{}{
			"status":          model.GenerationStatusSucceeded,
			"proposals":       proposals,
			"generated_count": generatedCount,
			"duration_ms":     durationMs,
		})
	if result.Error != nil {
		logger.Error("Error marking generation succeeded in DB",
			"error", result.Error,
			"generation_id", generationID.String(),
		)
		return fmt.Errorf("gormGenerationRepository.MarkSucceeded: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormGenerationRepository) UpdateCommitCounters(ctx context.Context, tx *gorm.DB, generationID uuid.UUID, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.Generation{}).
		Where("generation_id = ?", generationID).
		Updates(updates)
	if result.Error != nil {
		logger.Error("Error updating generation counters in DB",
			"error", result.Error,
			"generation_id", generationID.String(),
		)
		return fmt.Errorf("gormGenerationRepository.UpdateCommitCounters: %w", result.Error)
	}
	return nil
}
