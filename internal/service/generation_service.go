//go:generate mockery --name GenerationService --output ./mocks --outpkg mocks --case=underscore
// internal/service/generation_service.go
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"time"

	"go_5_ai_flashcard/internal/config"
	"go_5_ai_flashcard/internal/middleware"
	"go_5_ai_flashcard/internal/model"
	"go_5_ai_flashcard/internal/repository"
	"go_5_ai_flashcard/internal/textutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GenerationService はAI生成ジョブのライフサイクルを管理します
type GenerationService interface {
	CreateGeneration(ctx context.Context, tenantID uuid.UUID, req *model.CreateGenerationRequest) (*model.GenerationResponse, error)
	GetGeneration(ctx context.Context, tenantID, generationID uuid.UUID) (*model.GenerationResponse, error)
	CommitGeneration(ctx context.Context, tenantID, generationID uuid.UUID, req *model.CommitGenerationRequest) (*model.CommitGenerationResponse, error)
}

type generationService struct {
	db         *gorm.DB
	genRepo    repository.GenerationRepository
	cardRepo   repository.FlashcardRepository
	errRepo    repository.ErrorLogRepository
	dispatcher GenerationDispatcher
	cfg        *config.Config
}

func NewGenerationService(
	db *gorm.DB,
	genRepo repository.GenerationRepository,
	cardRepo repository.FlashcardRepository,
	errRepo repository.ErrorLogRepository,
	dispatcher GenerationDispatcher,
	cfg *config.Config,
) GenerationService {
	return &generationService{
		db:         db,
		genRepo:    genRepo,
		cardRepo:   cardRepo,
		errRepo:    errRepo,
		dispatcher: dispatcher,
		cfg:        cfg,
	}
}

// CreateGeneration は生成ジョブを受け付け、pending 行を作成してワーカーにディスパッチします。
// pending の一意性は最終的にDBの部分ユニークインデックスが保証する。
// 事前チェックは早期に 409 を返すための最適化にすぎない。
func (s *generationService) CreateGeneration(ctx context.Context, tenantID uuid.UUID, req *model.CreateGenerationRequest) (*model.GenerationResponse, error) {
	logger := middleware.GetLogger(ctx)

	sourceText := textutil.SanitizeSourceText(req.SourceText)
	sourceLength := textutil.CountCodePoints(sourceText)
	hashBytes := sha256.Sum256([]byte(sourceText))
	sourceHash := hex.EncodeToString(hashBytes[:])

	// 長さ制限はサニタイズ後のテキストで判定する
	if res := textutil.ValidateSourceText(sourceText); !res.IsValid {
		return nil, model.NewAppError(model.CodeSchemaValidationFailed, res.Error, "source_text", model.ErrValidation)
	}
	if req.MaxFlashcards != nil {
		if res := textutil.ValidateMaxFlashcards(*req.MaxFlashcards); !res.IsValid {
			return nil, model.NewAppError(model.CodeSchemaValidationFailed, res.Error, "max_flashcards", model.ErrValidation)
		}
	}
	if res := textutil.ValidateTemperature(req.Temperature); !res.IsValid {
		return nil, model.NewAppError(model.CodeSchemaValidationFailed, res.Error, "temperature", model.ErrValidation)
	}

	// 1. pending ジョブの先行チェック
	hasPending, err := s.genRepo.HasPending(ctx, s.db, tenantID)
	if err != nil {
		s.journalError(ctx, tenantID, nil, model.CodeDBCheckFailed, err.Error(), req, sourceHash, sourceLength)
		return nil, model.NewAppError(model.CodeDBCheckFailed, "生成状況の確認に失敗しました。", "", model.ErrInternalServer)
	}
	if hasPending {
		// 409。並行度違反は異常系ではないので記録しない
		return nil, model.NewAppError(model.CodeGenerationPending, "実行中の生成があります。完了を待ってから再度お試しください。", "", model.ErrConflict)
	}

	// 2. カード枚数の上限チェック
	count, err := s.cardRepo.CountByTenant(ctx, s.db, tenantID)
	if err != nil {
		s.journalError(ctx, tenantID, nil, model.CodeDBCheckFailed, err.Error(), req, sourceHash, sourceLength)
		return nil, model.NewAppError(model.CodeDBCheckFailed, "カード枚数の確認に失敗しました。", "", model.ErrInternalServer)
	}
	if count >= int64(config.MaxFlashcardsPerTenant) {
		return nil, model.NewAppError(model.CodeFlashcardLimitReached,
			fmt.Sprintf("フラッシュカードは%d枚が上限です。", config.MaxFlashcardsPerTenant), "", model.ErrLimitReached)
	}

	// 3. デフォルト値の適用。残り枠を超える指定でも値は変えずに受け付ける。
	// 実際の上限はコミット時に枠の再チェックとDBトリガーが守る
	maxFlashcards := config.MaxFlashcardsPerTenant
	if req.MaxFlashcards != nil {
		maxFlashcards = *req.MaxFlashcards
	}
	if remaining := config.MaxFlashcardsPerTenant - int(count); maxFlashcards > remaining {
		logger.Warn("Requested max_flashcards exceeds remaining budget",
			"tenant_id", tenantID.String(),
			"max_flashcards", maxFlashcards,
			"remaining", remaining,
		)
	}

	genModel := s.cfg.AI.DefaultModel
	if req.Model != nil && *req.Model != "" {
		if !slices.Contains(s.cfg.AI.AllowedModels, *req.Model) {
			return nil, model.NewAppError(model.CodeSchemaValidationFailed, "指定されたモデルは利用できません。", "model", model.ErrValidation)
		}
		genModel = *req.Model
	}

	temperature := s.cfg.AI.DefaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	// 見積もり超過は警告のみで処理は続行する (実測はハンドラ側の MaxBytesReader が守る)
	if textutil.MightExceedPayloadSize(sourceText) {
		logger.Warn("Source text may exceed payload budget",
			"tenant_id", tenantID.String(),
			"source_length", sourceLength,
		)
	}

	// 4. pending 行の挿入
	gen := &model.Generation{
		GenerationID:   uuid.New(),
		TenantID:       tenantID,
		Status:         model.GenerationStatusPending,
		SourceText:     sourceText,
		SourceTextHash: sourceHash,
		SourceLength:   sourceLength,
		MaxFlashcards:  maxFlashcards,
		Model:          genModel,
		Temperature:    temperature,
	}
	if err := s.genRepo.Create(ctx, s.db, gen); err != nil {
		if errors.Is(err, model.ErrConflict) {
			// 事前チェックの後に別リクエストが pending を作ったレースケース
			return nil, model.NewAppError(model.CodeGenerationPending, "実行中の生成があります。完了を待ってから再度お試しください。", "", model.ErrConflict)
		}
		s.journalError(ctx, tenantID, nil, model.CodeDBWriteFailed, err.Error(), req, sourceHash, sourceLength)
		return nil, model.NewAppError(model.CodeDBWriteFailed, "生成ジョブの登録に失敗しました。", "", model.ErrInternalServer)
	}

	// 5. ワーカーへのディスパッチ
	payload := &model.EnqueueGenerationPayload{
		GenerationID:   gen.GenerationID,
		TenantID:       tenantID,
		MaxFlashcards:  maxFlashcards,
		Model:          genModel,
		Temperature:    temperature,
		SourceTextHash: sourceHash,
	}
	if err := s.dispatcher.Enqueue(ctx, payload); err != nil {
		logger.Error("Failed to enqueue generation, marking as failed",
			"error", err,
			"generation_id", gen.GenerationID.String(),
		)
		// 補償処理: 行を failed にして pending スロットを解放する
		if markErr := s.genRepo.MarkFailed(ctx, s.db, gen.GenerationID, "ジョブの投入に失敗しました。"); markErr != nil {
			logger.Error("Failed to mark generation as failed after enqueue error",
				"error", markErr,
				"generation_id", gen.GenerationID.String(),
			)
		}
		s.journalError(ctx, tenantID, &gen.GenerationID, model.CodeQueueEnqueueFailed, err.Error(), req, sourceHash, sourceLength)
		return nil, model.NewAppError(model.CodeQueueEnqueueFailed, "生成ジョブの投入に失敗しました。時間をおいて再度お試しください。", "", model.ErrInternalServer)
	}

	logger.Info("Generation created",
		"generation_id", gen.GenerationID.String(),
		"model", genModel,
		"max_flashcards", maxFlashcards,
	)
	return s.toResponse(gen), nil
}

func (s *generationService) GetGeneration(ctx context.Context, tenantID, generationID uuid.UUID) (*model.GenerationResponse, error) {
	gen, err := s.genRepo.FindByID(ctx, s.db, tenantID, generationID)
	if err != nil {
		// 他テナントの行も「見つからない」として返す
		return nil, err
	}
	return s.toResponse(gen), nil
}

// CommitGeneration は採用された提案をフラッシュカードとして保存します。
// 挿入は1枚ずつ行い、重複検出時はその時点で中断する。先に挿入済みの
// カードはロールバックしない (クライアントは再取得して差分を確認できる)。
func (s *generationService) CommitGeneration(ctx context.Context, tenantID, generationID uuid.UUID, req *model.CommitGenerationRequest) (*model.CommitGenerationResponse, error) {
	logger := middleware.GetLogger(ctx)

	gen, err := s.genRepo.FindByID(ctx, s.db, tenantID, generationID)
	if err != nil {
		return nil, err
	}
	if gen.Status != model.GenerationStatusSucceeded {
		return nil, model.NewAppError(model.CodeGenerationPending, "生成が完了していないためコミットできません。", "", model.ErrConflict)
	}
	if time.Now().After(gen.ExpiresAt(config.GenerationTTL)) {
		return nil, model.NewAppError(model.CodeGenerationExpired, "生成結果の有効期限が切れています。もう一度生成してください。", "", model.ErrConflict)
	}
	if len(req.Accepted) == 0 {
		return nil, model.NewAppError(model.CodeValidationError, "採用するカードが指定されていません。", "accepted", model.ErrInvalidInput)
	}

	// 元の提案を引けるようにしておく (編集判定に使う)
	originals := make(map[string]model.Proposal, len(gen.Proposals))
	for _, p := range gen.Proposals {
		originals[p.ProposalID] = p
	}

	// 入力の検証は挿入前にまとめて行う
	for i, accepted := range req.Accepted {
		if _, ok := originals[accepted.ProposalID]; !ok {
			return nil, model.NewAppError(model.CodeSchemaValidationFailed,
				"不明な提案IDが含まれています。", fmt.Sprintf("accepted[%d].proposal_id", i), model.ErrValidation)
		}
		if res := textutil.ValidateFlashcardFront(accepted.Front); !res.IsValid {
			return nil, model.NewAppError(model.CodeSchemaValidationFailed, res.Error, fmt.Sprintf("accepted[%d].front", i), model.ErrValidation)
		}
		if res := textutil.ValidateFlashcardBack(accepted.Back); !res.IsValid {
			return nil, model.NewAppError(model.CodeSchemaValidationFailed, res.Error, fmt.Sprintf("accepted[%d].back", i), model.ErrValidation)
		}
	}

	// 上限の再チェック
	count, err := s.cardRepo.CountByTenant(ctx, s.db, tenantID)
	if err != nil {
		s.journalError(ctx, tenantID, &generationID, model.CodeDBCheckFailed, err.Error(), nil, gen.SourceTextHash, gen.SourceLength)
		return nil, model.NewAppError(model.CodeDBCheckFailed, "カード枚数の確認に失敗しました。", "", model.ErrInternalServer)
	}
	if count+int64(len(req.Accepted)) > int64(config.MaxFlashcardsPerTenant) {
		return nil, model.NewAppError(model.CodeFlashcardLimitReached,
			fmt.Sprintf("フラッシュカードは%d枚が上限です (現在%d枚)。", config.MaxFlashcardsPerTenant, count), "", model.ErrLimitReached)
	}

	created := make([]*model.Flashcard, 0, len(req.Accepted))
	editedCount := 0
	uneditedCount := 0
	for _, accepted := range req.Accepted {
		front := textutil.SanitizeCardText(accepted.Front)
		back := textutil.SanitizeCardText(accepted.Back)

		orig := originals[accepted.ProposalID]
		source := model.FlashcardSourceAIFull
		if front != textutil.SanitizeCardText(orig.Front) || back != textutil.SanitizeCardText(orig.Back) {
			source = model.FlashcardSourceAIEdited
		}

		card := &model.Flashcard{
			FlashcardID:  uuid.New(),
			TenantID:     tenantID,
			Front:        front,
			Back:         back,
			Source:       source,
			GenerationID: &generationID,
		}
		if err := s.cardRepo.Create(ctx, s.db, card); err != nil {
			switch {
			case errors.Is(err, model.ErrConflict):
				return nil, model.NewAppError(model.CodeFlashcardDuplicate,
					fmt.Sprintf("同じ表面のカードが既に存在します: %q", front), "front", model.ErrConflict)
			case errors.Is(err, model.ErrLimitReached):
				return nil, model.NewAppError(model.CodeFlashcardLimitReached,
					fmt.Sprintf("フラッシュカードは%d枚が上限です。", config.MaxFlashcardsPerTenant), "", model.ErrLimitReached)
			default:
				s.journalError(ctx, tenantID, &generationID, model.CodeDBWriteFailed, err.Error(), nil, gen.SourceTextHash, gen.SourceLength)
				return nil, model.NewAppError(model.CodeDBWriteFailed, "カードの保存に失敗しました。", "", model.ErrInternalServer)
			}
		}
		created = append(created, card)
		if source == model.FlashcardSourceAIEdited {
			editedCount++
		} else {
			uneditedCount++
		}
	}

	createdCount := len(created)
	rejectedCount := gen.GeneratedCount - createdCount
	if rejectedCount < 0 {
		rejectedCount = 0
	}

	// コミット結果のメトリクス更新。失敗してもカードは保存済みなのでエラーにはしない
	updates := map[string]interface{}{
		"accepted_count":          createdCount,
		"accepted_edited_count":   editedCount,
		"accepted_unedited_count": uneditedCount,
		"rejected_count":          rejectedCount,
	}
	if err := s.genRepo.UpdateCommitCounters(ctx, s.db, generationID, updates); err != nil {
		logger.Warn("Failed to update commit counters",
			"error", err,
			"generation_id", generationID.String(),
		)
	}

	logger.Info("Generation committed",
		"generation_id", generationID.String(),
		"created", createdCount,
		"edited", editedCount,
	)
	return &model.CommitGenerationResponse{
		GenerationID:          generationID,
		Flashcards:            created,
		CreatedCount:          createdCount,
		AcceptedEditedCount:   editedCount,
		AcceptedUneditedCount: uneditedCount,
		RejectedCount:         rejectedCount,
	}, nil
}

func (s *generationService) toResponse(gen *model.Generation) *model.GenerationResponse {
	resp := &model.GenerationResponse{
		GenerationID:  gen.GenerationID,
		Status:        gen.Status,
		Model:         gen.Model,
		MaxFlashcards: gen.MaxFlashcards,
		ErrorMessage:  gen.ErrorMessage,
		CreatedAt:     gen.CreatedAt,
		ExpiresAt:     gen.ExpiresAt(config.GenerationTTL),
	}
	if gen.Status == model.GenerationStatusSucceeded {
		resp.Proposals = gen.Proposals
	}
	return resp
}

// journalError は5xx系エラーをベストエフォートで記録します。記録自体の失敗は握りつぶす。
func (s *generationService) journalError(ctx context.Context, tenantID uuid.UUID, generationID *uuid.UUID, code, message string, req *model.CreateGenerationRequest, sourceHash string, sourceLength int) {
	logger := middleware.GetLogger(ctx)

	entry := &model.GenerationErrorLog{
		GenerationID: generationID,
		TenantID:     tenantID,
		ErrorCode:    code,
		ErrorMessage: message,
		SourceHash:   sourceHash,
		SourceLength: sourceLength,
	}
	if req != nil && req.Model != nil {
		entry.Model = *req.Model
	}
	if err := s.errRepo.Create(ctx, s.db, entry); err != nil {
		logger.Warn("Failed to journal generation error", "error", err, "code", code)
	}
}
