// internal/worker/processor_test.go
package worker

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go_5_ai_flashcard/internal/llm"
	llmmocks "go_5_ai_flashcard/internal/llm/mocks"
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

func setupTestDBWorker() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect database for testing: " + err.Error())
	}
	return db
}

func Test_Processor_Process(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBWorker()
	mockGenRepo := new(repomocks.GenerationRepository)
	mockErrRepo := new(repomocks.ErrorLogRepository)
	mockLLM := new(llmmocks.Client)
	processor := NewProcessor(db, mockGenRepo, mockErrRepo, mockLLM)

	tenantID := uuid.New()
	generationID := uuid.New()
	payload := &model.EnqueueGenerationPayload{
		GenerationID: generationID,
		TenantID:     tenantID,
	}

	pendingGen := func() *model.Generation {
		return &model.Generation{
			GenerationID:  generationID,
			TenantID:      tenantID,
			Status:        model.GenerationStatusPending,
			SourceText:    strings.Repeat("あ", 1000),
			MaxFlashcards: 2,
			Model:         "openrouter/anthropic/claude-3.5-sonnet",
			Temperature:   1.0,
		}
	}

	validProposal := func(n string) llm.RawProposal {
		return llm.RawProposal{
			Front: "有効な表面テキスト" + n + "です",
			Back:  "有効な裏面テキスト" + n + "です",
		}
	}

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "正常系: 生成成功でsucceededに遷移",
			setupMock: func() {
				mockGenRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), tenantID, generationID).
					Return(pendingGen(), nil).Once()
				mockLLM.On("GenerateProposals", ctx, mock.AnythingOfType("*llm.GenerateRequest")).
					Run(func(args mock.Arguments) {
						req := args.Get(1).(*llm.GenerateRequest)
						assert.Equal(t, 2, req.MaxFlashcards)
						assert.Equal(t, "openrouter/anthropic/claude-3.5-sonnet", req.Model)
					}).Return([]llm.RawProposal{validProposal("一"), validProposal("二")}, nil).Once()
				mockGenRepo.On("MarkSucceeded", ctx, mock.AnythingOfType("*gorm.DB"), generationID,
					mock.MatchedBy(func(p model.ProposalList) bool {
						if len(p) != 2 {
							return false
						}
						// proposal_id は必ず採番される
						return p[0].ProposalID != "" && p[1].ProposalID != ""
					}), 2, mock.AnythingOfType("int64")).
					Return(nil).Once()
			},
		},
		{
			name: "正常系: 不正な提案は落とし上限枚数に切り詰める",
			setupMock: func() {
				mockGenRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), tenantID, generationID).
					Return(pendingGen(), nil).Once()
				mockLLM.On("GenerateProposals", ctx, mock.AnythingOfType("*llm.GenerateRequest")).
					Return([]llm.RawProposal{
						{Front: "短い", Back: "短い"}, // 長さ制限違反
						validProposal("一"),
						validProposal("一"), // 表面の重複
						validProposal("二"),
						validProposal("三"), // 上限超過分
					}, nil).Once()
				mockGenRepo.On("MarkSucceeded", ctx, mock.AnythingOfType("*gorm.DB"), generationID,
					mock.MatchedBy(func(p model.ProposalList) bool { return len(p) == 2 }),
					2, mock.AnythingOfType("int64")).
					Return(nil).Once()
			},
		},
		{
			name: "異常系: LLM失敗でfailedに遷移しジャーナル記録",
			setupMock: func() {
				mockGenRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), tenantID, generationID).
					Return(pendingGen(), nil).Once()
				mockLLM.On("GenerateProposals", ctx, mock.AnythingOfType("*llm.GenerateRequest")).
					Return(nil, errors.New("llm: generation failed")).Once()
				mockGenRepo.On("MarkFailed", ctx, mock.AnythingOfType("*gorm.DB"), generationID, mock.AnythingOfType("string")).
					Return(nil).Once()
				mockErrRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.GenerationErrorLog")).
					Run(func(args mock.Arguments) {
						entry := args.Get(2).(*model.GenerationErrorLog)
						assert.Equal(t, model.CodeGenerationFailed, entry.ErrorCode)
						assert.Equal(t, tenantID, entry.TenantID)
					}).Return(nil).Once()
			},
			wantErr: true,
		},
		{
			name: "異常系: 有効な提案が0件ならfailed",
			setupMock: func() {
				mockGenRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), tenantID, generationID).
					Return(pendingGen(), nil).Once()
				mockLLM.On("GenerateProposals", ctx, mock.AnythingOfType("*llm.GenerateRequest")).
					Return([]llm.RawProposal{{Front: "短い", Back: "短い"}}, nil).Once()
				mockGenRepo.On("MarkFailed", ctx, mock.AnythingOfType("*gorm.DB"), generationID, mock.AnythingOfType("string")).
					Return(nil).Once()
				mockErrRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.GenerationErrorLog")).
					Return(nil).Once()
			},
			wantErr: true,
		},
		{
			name: "正常系: pending以外はスキップ (再配送)",
			setupMock: func() {
				gen := pendingGen()
				gen.Status = model.GenerationStatusSucceeded
				mockGenRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), tenantID, generationID).
					Return(gen, nil).Once()
			},
		},
		{
			name: "正常系: 行が存在しなければジョブを捨てる",
			setupMock: func() {
				mockGenRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), tenantID, generationID).
					Return(nil, model.ErrNotFound).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockGenRepo.Mock = mock.Mock{}
			mockErrRepo.Mock = mock.Mock{}
			mockLLM.Mock = mock.Mock{}
			tt.setupMock()

			err := processor.Process(ctx, payload)

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			mockGenRepo.AssertExpectations(t)
			mockErrRepo.AssertExpectations(t)
			mockLLM.AssertExpectations(t)
		})
	}
}
