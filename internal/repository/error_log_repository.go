//go:generate mockery --name ErrorLogRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"fmt"

	"go_5_ai_flashcard/internal/middleware"
	"go_5_ai_flashcard/internal/model"

	"gorm.io/gorm"
)

// ErrorLogRepository は生成エラーのベストエフォート記録を担当します
type ErrorLogRepository interface {
	Create(ctx context.Context, db *gorm.DB, entry *model.GenerationErrorLog) error
}

type gormErrorLogRepository struct{}

func NewGormErrorLogRepository() ErrorLogRepository {
	return &gormErrorLogRepository{}
}

func (r *gormErrorLogRepository) Create(ctx context.Context, db *gorm.DB, entry *model.GenerationErrorLog) error {
	logger := middleware.GetLogger(ctx)
	result := db.WithContext(ctx).Create(entry)
	if result.Error != nil {
		logger.Error("Error creating generation error log in DB",
			"error", result.Error,
			"tenant_id", entry.TenantID.String(),
		)
		return fmt.Errorf("gormErrorLogRepository.Create: %w", result.Error)
	}
	return nil
}
