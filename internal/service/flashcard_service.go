//go:generate mockery --name FlashcardService --output ./mocks --outpkg mocks --case=underscore
// internal/service/flashcard_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"go_5_ai_flashcard/internal/config"
	"go_5_ai_flashcard/internal/middleware"
	"go_5_ai_flashcard/internal/model"
	"go_5_ai_flashcard/internal/repository"
	"go_5_ai_flashcard/internal/textutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FlashcardService は手動作成カードのCRUDを担当します
type FlashcardService interface {
	CreateFlashcard(ctx context.Context, tenantID uuid.UUID, req *model.PostFlashcardRequest) (*model.Flashcard, error)
	GetFlashcard(ctx context.Context, tenantID, flashcardID uuid.UUID) (*model.Flashcard, error)
	ListFlashcards(ctx context.Context, tenantID uuid.UUID) ([]*model.Flashcard, error)
	PatchFlashcard(ctx context.Context, tenantID, flashcardID uuid.UUID, req *model.PatchFlashcardRequest) (*model.Flashcard, error)
	DeleteFlashcard(ctx context.Context, tenantID, flashcardID uuid.UUID) error
}

type flashcardService struct {
	db       *gorm.DB
	cardRepo repository.FlashcardRepository
}

func NewFlashcardService(db *gorm.DB, cardRepo repository.FlashcardRepository) FlashcardService {
	return &flashcardService{
		db:       db,
		cardRepo: cardRepo,
	}
}

func (s *flashcardService) CreateFlashcard(ctx context.Context, tenantID uuid.UUID, req *model.PostFlashcardRequest) (*model.Flashcard, error) {
	logger := middleware.GetLogger(ctx)

	front := textutil.SanitizeCardText(req.Front)
	back := textutil.SanitizeCardText(req.Back)

	if res := textutil.ValidateFlashcardFront(front); !res.IsValid {
		return nil, model.NewAppError(model.CodeSchemaValidationFailed, res.Error, "front", model.ErrValidation)
	}
	if res := textutil.ValidateFlashcardBack(back); !res.IsValid {
		return nil, model.NewAppError(model.CodeSchemaValidationFailed, res.Error, "back", model.ErrValidation)
	}

	var createdCard *model.Flashcard

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 上限の事前チェック。最終的な保証はDBトリガーが担う
		count, err := s.cardRepo.CountByTenant(ctx, tx, tenantID)
		if err != nil {
			return model.NewAppError(model.CodeDBCheckFailed, "カード枚数の確認に失敗しました。", "", model.ErrInternalServer)
		}
		if count >= int64(config.MaxFlashcardsPerTenant) {
			return model.NewAppError(model.CodeFlashcardLimitReached,
				fmt.Sprintf("フラッシュカードは%d枚が上限です。", config.MaxFlashcardsPerTenant), "", model.ErrLimitReached)
		}

		card := &model.Flashcard{
			FlashcardID: uuid.New(),
			TenantID:    tenantID,
			Front:       front,
			Back:        back,
			Source:      model.FlashcardSourceManual,
		}
		if err := s.cardRepo.Create(ctx, tx, card); err != nil {
			switch {
			case errors.Is(err, model.ErrConflict):
				return model.NewAppError(model.CodeFlashcardDuplicate, "同じ表面のカードが既に存在します。", "front", model.ErrConflict)
			case errors.Is(err, model.ErrLimitReached):
				return model.NewAppError(model.CodeFlashcardLimitReached,
					fmt.Sprintf("フラッシュカードは%d枚が上限です。", config.MaxFlashcardsPerTenant), "", model.ErrLimitReached)
			default:
				return model.NewAppError(model.CodeDBWriteFailed, "カードの保存に失敗しました。", "", model.ErrInternalServer)
			}
		}

		createdCard = card
		return nil
	})
	if err != nil {
		logger.Warn("CreateFlashcard failed", "error", err, "tenant_id", tenantID.String())
		return nil, err
	}

	return createdCard, nil
}

func (s *flashcardService) GetFlashcard(ctx context.Context, tenantID, flashcardID uuid.UUID) (*model.Flashcard, error) {
	card, err := s.cardRepo.FindByID(ctx, s.db, tenantID, flashcardID)
	if err != nil {
		// エラーはリポジトリで変換済みのはず
		return nil, err
	}
	return card, nil
}

func (s *flashcardService) ListFlashcards(ctx context.Context, tenantID uuid.UUID) ([]*model.Flashcard, error) {
	logger := middleware.GetLogger(ctx)
	cards, err := s.cardRepo.FindByTenant(ctx, s.db, tenantID)
	if err != nil {
		logger.Error("Error listing flashcards", "error", err)
		return nil, model.ErrInternalServer
	}
	return cards, nil
}

func (s *flashcardService) PatchFlashcard(ctx context.Context, tenantID, flashcardID uuid.UUID, req *model.PatchFlashcardRequest) (*model.Flashcard, error) {
	if req.Front == nil && req.Back == nil {
		return nil, model.NewAppError(model.CodeFlashcardUpdateEmpty, "更新するフィールドが指定されていません。", "", model.ErrInvalidInput)
	}

	var updatedCard *model.Flashcard

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		card, err := s.cardRepo.FindByID(ctx, tx, tenantID, flashcardID)
		if err != nil {
			return err // model.ErrNotFound or wrapped DB error
		}

		updates := make(map[string]interface{})
		if req.Front != nil {
			front := textutil.SanitizeCardText(*req.Front)
			if res := textutil.ValidateFlashcardFront(front); !res.IsValid {
				return model.NewAppError(model.CodeSchemaValidationFailed, res.Error, "front", model.ErrValidation)
			}
			if front != card.Front {
				updates["front"] = front
			}
		}
		if req.Back != nil {
			back := textutil.SanitizeCardText(*req.Back)
			if res := textutil.ValidateFlashcardBack(back); !res.IsValid {
				return model.NewAppError(model.CodeSchemaValidationFailed, res.Error, "back", model.ErrValidation)
			}
			if back != card.Back {
				updates["back"] = back
			}
		}

		if len(updates) > 0 {
			// 内容を変えて採用済みAIカードを編集した場合は出自を ai-edited に落とす
			if card.Source == model.FlashcardSourceAIFull {
				updates["source"] = model.FlashcardSourceAIEdited
			}
			if err := s.cardRepo.Update(ctx, tx, tenantID, flashcardID, updates); err != nil {
				if errors.Is(err, model.ErrConflict) {
					return model.NewAppError(model.CodeFlashcardDuplicate, "同じ表面のカードが既に存在します。", "front", model.ErrConflict)
				}
				if errors.Is(err, model.ErrNotFound) {
					return model.ErrNotFound
				}
				return model.NewAppError(model.CodeDBWriteFailed, "カードの更新に失敗しました。", "", model.ErrInternalServer)
			}
		}

		updatedCard, err = s.cardRepo.FindByID(ctx, tx, tenantID, flashcardID)
		if err != nil {
			return model.NewAppError(model.CodeDBCheckFailed, "更新後のカードの取得に失敗しました。", "", model.ErrInternalServer)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updatedCard, nil
}

func (s *flashcardService) DeleteFlashcard(ctx context.Context, tenantID, flashcardID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)
	// 物理削除。論理削除だと上限カウントが狂うため使わない
	if err := s.cardRepo.Delete(ctx, s.db, tenantID, flashcardID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFound
		}
		logger.Error("Error deleting flashcard", "error", err, "flashcard_id", flashcardID.String())
		return model.ErrInternalServer
	}
	return nil
}
