// internal/service/flashcard_service_test.go
package service

import (
	"context"
	"errors"
	"testing"

	"go_5_ai_flashcard/internal/config"
	"go_5_ai_flashcard/internal/model"
	repomocks "go_5_ai_flashcard/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// --- テストヘルパー関数 (generation_service_test.go と同様) ---
func setupTestDBCard() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect database for testing: " + err.Error())
	}
	return db
}

// --- Test CreateFlashcard ---
func Test_flashcardService_CreateFlashcard(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBCard()
	mockCardRepo := new(repomocks.FlashcardRepository)
	svc := NewFlashcardService(db, mockCardRepo)

	tenantID := uuid.New()
	validFront := "有効な表面テキストです"
	validBack := "有効な裏面テキストです"

	tests := []struct {
		name      string
		req       *model.PostFlashcardRequest
		setupMock func()
		wantErr   error
		wantCard  bool
	}{
		{
			name: "正常系: カード作成成功",
			req:  &model.PostFlashcardRequest{Front: validFront, Back: validBack},
			setupMock: func() {
				mockCardRepo.On("CountByTenant", ctx, mock.AnythingOfType("*gorm.DB"), tenantID).
					Return(int64(0), nil).Once()
				mockCardRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.Flashcard")).
					Run(func(args mock.Arguments) {
						card := args.Get(2).(*model.Flashcard)
						assert.Equal(t, tenantID, card.TenantID)
						assert.Equal(t, validFront, card.Front)
						assert.Equal(t, model.FlashcardSourceManual, card.Source)
						assert.Nil(t, card.GenerationID)
						assert.NotEqual(t, uuid.Nil, card.FlashcardID)
					}).Return(nil).Once()
			},
			wantErr:  nil,
			wantCard: true,
		},
		{
			name: "正常系: 前後の空白は正規化される",
			req:  &model.PostFlashcardRequest{Front: "  " + validFront + "  ", Back: validBack},
			setupMock: func() {
				mockCardRepo.On("CountByTenant", ctx, mock.AnythingOfType("*gorm.DB"), tenantID).
					Return(int64(0), nil).Once()
				mockCardRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.Flashcard")).
					Run(func(args mock.Arguments) {
						card := args.Get(2).(*model.Flashcard)
						assert.Equal(t, validFront, card.Front)
					}).Return(nil).Once()
			},
			wantErr:  nil,
			wantCard: true,
		},
		{
			name:      "異常系: 表面が短すぎる",
			req:       &model.PostFlashcardRequest{Front: "短い", Back: validBack},
			setupMock: func() {},
			wantErr:   model.ErrValidation,
			wantCard:  false,
		},
		{
			name:      "異常系: 裏面が短すぎる",
			req:       &model.PostFlashcardRequest{Front: validFront, Back: "短い"},
			setupMock: func() {},
			wantErr:   model.ErrValidation,
			wantCard:  false,
		},
		{
			name: "異常系: 上限到達",
			req:  &model.PostFlashcardRequest{Front: validFront, Back: validBack},
			setupMock: func() {
				mockCardRepo.On("CountByTenant", ctx, mock.AnythingOfType("*gorm.DB"), tenantID).
					Return(int64(config.MaxFlashcardsPerTenant), nil).Once()
			},
			wantErr:  model.ErrLimitReached,
			wantCard: false,
		},
		{
			name: "異常系: 表面が重複",
			req:  &model.PostFlashcardRequest{Front: validFront, Back: validBack},
			setupMock: func() {
				mockCardRepo.On("CountByTenant", ctx, mock.AnythingOfType("*gorm.DB"), tenantID).
					Return(int64(0), nil).Once()
				mockCardRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.Flashcard")).
					Return(model.ErrConflict).Once()
			},
			wantErr:  model.ErrConflict,
			wantCard: false,
		},
		{
			name: "異常系: DBトリガーによる上限違反",
			req:  &model.PostFlashcardRequest{Front: validFront, Back: validBack},
			setupMock: func() {
				mockCardRepo.On("CountByTenant", ctx, mock.AnythingOfType("*gorm.DB"), tenantID).
					Return(int64(0), nil).Once()
				mockCardRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.Flashcard")).
					Return(model.ErrLimitReached).Once()
			},
			wantErr:  model.ErrLimitReached,
			wantCard: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCardRepo.Mock = mock.Mock{}
			tt.setupMock()

			card, err := svc.CreateFlashcard(ctx, tenantID, tt.req)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			if tt.wantCard {
				require.NotNil(t, card)
			} else {
				assert.Nil(t, card)
			}
			mockCardRepo.AssertExpectations(t)
		})
	}
}

// --- Test PatchFlashcard ---
func Test_flashcardService_PatchFlashcard(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBCard()
	mockCardRepo := new(repomocks.FlashcardRepository)
	svc := NewFlashcardService(db, mockCardRepo)

	tenantID := uuid.New()
	flashcardID := uuid.New()
	currentFront := "既存カードの表面テキストです"
	currentBack := "既存カードの裏面テキストです"
	newFront := "更新後の表面テキストです"
	tooShort := "短い"

	existingCard := func(source string) *model.Flashcard {
		return &model.Flashcard{
			FlashcardID: flashcardID,
			TenantID:    tenantID,
			Front:       currentFront,
			Back:        currentBack,
			Source:      source,
		}
	}

	tests := []struct {
		name      string
		req       *model.PatchFlashcardRequest
		setupMock func()
		wantErr   error
	}{
		{
			name: "正常系: 表面のみ更新",
			req:  &model.PatchFlashcardRequest{Front: &newFront},
			setupMock: func() {
				mockCardRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), tenantID, flashcardID).
					Return(existingCard(model.FlashcardSourceManual), nil).Once()
				mockCardRepo.On("Update", ctx, mock.AnythingOfType("*gorm.DB"), tenantID, flashcardID, mock.AnythingOfType("map[string]interface {}")).
					Run(func(args mock.Arguments) {
						updates := args.Get(4).(map[string]interface{})
						assert.Equal(t, newFront, updates["front"])
						assert.NotContains(t, updates, "back")
						assert.NotContains(t, updates, "source")
					}).Return(nil).Once()
				updated := existingCard(model.FlashcardSourceManual)
				updated.Front = newFront
				mockCardRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), tenantID, flashcardID).
					Return(updated, nil).Once()
			},
		},
		{
			name: "正常系: ai-full カードの編集は ai-edited に変わる",
			req:  &model.PatchFlashcardRequest{Front: &newFront},
			setupMock: func() {
				mockCardRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), tenantID, flashcardID).
					Return(existingCard(model.FlashcardSourceAIFull), nil).Once()
				mockCardRepo.On("Update", ctx, mock.AnythingOfType("*gorm.DB"), tenantID, flashcardID, mock.AnythingOfType("map[string]interface {}")).
					Run(func(args mock.Arguments) {
						updates := args.Get(4).(map[string]interface{})
						assert.Equal(t, model.FlashcardSourceAIEdited, updates["source"])
					}).Return(nil).Once()
				updated := existingCard(model.FlashcardSourceAIEdited)
				updated.Front = newFront
				mockCardRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), tenantID, flashcardID).
					Return(updated, nil).Once()
			},
		},
		{
			name: "正常系: 内容が変わらなければ更新しない",
			req:  &model.PatchFlashcardRequest{Front: &currentFront},
			setupMock: func() {
				mockCardRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), tenantID, flashcardID).
					Return(existingCard(model.FlashcardSourceManual), nil).Twice()
			},
		},
		{
			name:      "異常系: 更新フィールドの指定なし",
			req:       &model.PatchFlashcardRequest{},
			setupMock: func() {},
			wantErr:   model.ErrInvalidInput,
		},
		{
			name: "異常系: 存在しないカード",
			req:  &model.PatchFlashcardRequest{Front: &newFront},
			setupMock: func() {
				mockCardRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), tenantID, flashcardID).
					Return(nil, model.ErrNotFound).Once()
			},
			wantErr: model.ErrNotFound,
		},
		{
			name: "異常系: 表面が短すぎる",
			req:  &model.PatchFlashcardRequest{Front: &tooShort},
			setupMock: func() {
				mockCardRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), tenantID, flashcardID).
					Return(existingCard(model.FlashcardSourceManual), nil).Once()
			},
			wantErr: model.ErrValidation,
		},
		{
			name: "異常系: 更新で表面が重複",
			req:  &model.PatchFlashcardRequest{Front: &newFront},
			setupMock: func() {
				mockCardRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), tenantID, flashcardID).
					Return(existingCard(model.FlashcardSourceManual), nil).Once()
				mockCardRepo.On("Update", ctx, mock.AnythingOfType("*gorm.DB"), tenantID, flashcardID, mock.AnythingOfType("map[string]interface {}")).
					Return(model.ErrConflict).Once()
			},
			wantErr: model.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCardRepo.Mock = mock.Mock{}
			tt.setupMock()

			card, err := svc.PatchFlashcard(ctx, tenantID, flashcardID, tt.req)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, card)
			} else {
				require.NoError(t, err)
				require.NotNil(t, card)
			}
			mockCardRepo.AssertExpectations(t)
		})
	}
}

// --- Test GetFlashcard / ListFlashcards / DeleteFlashcard ---
func Test_flashcardService_GetFlashcard(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBCard()
	mockCardRepo := new(repomocks.FlashcardRepository)
	svc := NewFlashcardService(db, mockCardRepo)

	tenantID := uuid.New()
	flashcardID := uuid.New()

	t.Run("正常系: カード取得成功", func(t *testing.T) {
		mockCardRepo.Mock = mock.Mock{}
		want := &model.Flashcard{FlashcardID: flashcardID, TenantID: tenantID}
		mockCardRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), tenantID, flashcardID).
			Return(want, nil).Once()

		card, err := svc.GetFlashcard(ctx, tenantID, flashcardID)
		require.NoError(t, err)
		assert.Equal(t, want, card)
		mockCardRepo.AssertExpectations(t)
	})

	t.Run("異常系: 存在しないカード", func(t *testing.T) {
		mockCardRepo.Mock = mock.Mock{}
		mockCardRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), tenantID, flashcardID).
			Return(nil, model.ErrNotFound).Once()

		card, err := svc.GetFlashcard(ctx, tenantID, flashcardID)
		assert.ErrorIs(t, err, model.ErrNotFound)
		assert.Nil(t, card)
		mockCardRepo.AssertExpectations(t)
	})
}

func Test_flashcardService_ListFlashcards(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBCard()
	mockCardRepo := new(repomocks.FlashcardRepository)
	svc := NewFlashcardService(db, mockCardRepo)

	tenantID := uuid.New()

	t.Run("正常系: 一覧取得成功", func(t *testing.T) {
		mockCardRepo.Mock = mock.Mock{}
		want := []*model.Flashcard{
			{FlashcardID: uuid.New(), TenantID: tenantID},
			{FlashcardID: uuid.New(), TenantID: tenantID},
		}
		mockCardRepo.On("FindByTenant", ctx, mock.AnythingOfType("*gorm.DB"), tenantID).
			Return(want, nil).Once()

		cards, err := svc.ListFlashcards(ctx, tenantID)
		require.NoError(t, err)
		assert.Len(t, cards, 2)
		mockCardRepo.AssertExpectations(t)
	})

	t.Run("正常系: カードが0枚でもエラーにならない", func(t *testing.T) {
		mockCardRepo.Mock = mock.Mock{}
		mockCardRepo.On("FindByTenant", ctx, mock.AnythingOfType("*gorm.DB"), tenantID).
			Return([]*model.Flashcard{}, nil).Once()

		cards, err := svc.ListFlashcards(ctx, tenantID)
		require.NoError(t, err)
		assert.Empty(t, cards)
		mockCardRepo.AssertExpectations(t)
	})

	t.Run("異常系: DBエラー", func(t *testing.T) {
		mockCardRepo.Mock = mock.Mock{}
		mockCardRepo.On("FindByTenant", ctx, mock.AnythingOfType("*gorm.DB"), tenantID).
			Return(nil, errors.New("db error")).Once()

		cards, err := svc.ListFlashcards(ctx, tenantID)
		assert.ErrorIs(t, err, model.ErrInternalServer)
		assert.Nil(t, cards)
		mockCardRepo.AssertExpectations(t)
	})
}

func Test_flashcardService_DeleteFlashcard(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBCard()
	mockCardRepo := new(repomocks.FlashcardRepository)
	svc := NewFlashcardService(db, mockCardRepo)

	tenantID := uuid.New()
	flashcardID := uuid.New()

	t.Run("正常系: 削除成功", func(t *testing.T) {
		mockCardRepo.Mock = mock.Mock{}
		mockCardRepo.On("Delete", ctx, mock.AnythingOfType("*gorm.DB"), tenantID, flashcardID).
			Return(nil).Once()

		err := svc.DeleteFlashcard(ctx, tenantID, flashcardID)
		require.NoError(t, err)
		mockCardRepo.AssertExpectations(t)
	})

	t.Run("異常系: 存在しないカード", func(t *testing.T) {
		mockCardRepo.Mock = mock.Mock{}
		mockCardRepo.On("Delete", ctx, mock.AnythingOfType("*gorm.DB"), tenantID, flashcardID).
			Return(model.ErrNotFound).Once()

		err := svc.DeleteFlashcard(ctx, tenantID, flashcardID)
		assert.ErrorIs(t, err, model.ErrNotFound)
		mockCardRepo.AssertExpectations(t)
	})

	t.Run("異常系: DBエラーは内部エラーに変換", func(t *testing.T) {
		mockCardRepo.Mock = mock.Mock{}
		mockCardRepo.On("Delete", ctx, mock.AnythingOfType("*gorm.DB"), tenantID, flashcardID).
			Return(errors.New("db error")).Once()

		err := svc.DeleteFlashcard(ctx, tenantID, flashcardID)
		assert.ErrorIs(t, err, model.ErrInternalServer)
		mockCardRepo.AssertExpectations(t)
	})
}
