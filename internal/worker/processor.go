// internal/worker/processor.go
package worker

import (
	"context"
	"errors"
	"time"

	"go_5_ai_flashcard/internal/llm"
	"go_5_ai_flashcard/internal/middleware"
	"go_5_ai_flashcard/internal/model"
	"go_5_ai_flashcard/internal/repository"
	"go_5_ai_flashcard/internal/textutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Processor はキューから受け取った生成ジョブを実行し、結果をDBに書き戻します。
// ジョブは何度届いても安全なように、pending 以外の行はスキップする。
type Processor struct {
	db        *gorm.DB
	genRepo   repository.GenerationRepository
	errRepo   repository.ErrorLogRepository
	llmClient llm.Client
}

func NewProcessor(db *gorm.DB, genRepo repository.GenerationRepository, errRepo repository.ErrorLogRepository, llmClient llm.Client) *Processor {
	return &Processor{
		db:        db,
		genRepo:   genRepo,
		errRepo:   errRepo,
		llmClient: llmClient,
	}
}

// Process は1件の生成ジョブを処理します。戻り値のエラーは呼び出し側の
// ログ用であり、ジョブの成否自体は ai_generation_logs の status に反映される。
func (p *Processor) Process(ctx context.Context, payload *model.EnqueueGenerationPayload) error {
	logger := middleware.GetLogger(ctx)

	gen, err := p.genRepo.FindByID(ctx, p.db, payload.TenantID, payload.GenerationID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Generation not found, dropping job",
				"generation_id", payload.GenerationID.String(),
			)
			return nil
		}
		return err
	}
	if gen.Status != model.GenerationStatusPending {
		// 再配送された古いジョブ
		logger.Info("Generation already processed, skipping",
			"generation_id", gen.GenerationID.String(),
			"status", gen.Status,
		)
		return nil
	}

	started := time.Now()
	raw, err := p.llmClient.GenerateProposals(ctx, &llm.GenerateRequest{
		SourceText:    gen.SourceText,
		MaxFlashcards: gen.MaxFlashcards,
		Model:         gen.Model,
		Temperature:   gen.Temperature,
	})
	durationMs := time.Since(started).Milliseconds()

	if err != nil {
		logger.Error("LLM generation failed",
			"error", err,
			"generation_id", gen.GenerationID.String(),
			"duration_ms", durationMs,
		)
		p.fail(ctx, gen, model.CodeGenerationFailed, "カード案の生成に失敗しました。時間をおいて再度お試しください。", err.Error())
		return err
	}

	proposals := p.screenProposals(ctx, gen, raw)
	if len(proposals) == 0 {
		err := errors.New("no valid proposals after screening")
		p.fail(ctx, gen, model.CodeGenerationFailed, "有効なカード案を生成できませんでした。", err.Error())
		return err
	}

	if err := p.genRepo.MarkSucceeded(ctx, p.db, gen.GenerationID, proposals, len(proposals), durationMs); err != nil {
		logger.Error("Failed to mark generation succeeded",
			"error", err,
			"generation_id", gen.GenerationID.String(),
		)
		return err
	}

	logger.Info("Generation succeeded",
		"generation_id", gen.GenerationID.String(),
		"proposals", len(proposals),
		"duration_ms", durationMs,
	)
	return nil
}

// screenProposals はLLMの出力をサニタイズし、長さ制限を満たさないものと
// 表面が重複するものを落とし、上限枚数に切り詰めます。
func (p *Processor) screenProposals(ctx context.Context, gen *model.Generation, raw []llm.RawProposal) model.ProposalList {
	logger := middleware.GetLogger(ctx)

	proposals := make(model.ProposalList, 0, len(raw))
	seenFronts := make(map[string]struct{}, len(raw))
	dropped := 0

	for _, r := range raw {
		front := textutil.SanitizeCardText(r.Front)
		back := textutil.SanitizeCardText(r.Back)

		if res := textutil.ValidateFlashcardFront(front); !res.IsValid {
			dropped++
			continue
		}
		if res := textutil.ValidateFlashcardBack(back); !res.IsValid {
			dropped++
			continue
		}
		if _, ok := seenFronts[front]; ok {
			dropped++
			continue
		}
		seenFronts[front] = struct{}{}

		proposals = append(proposals, model.Proposal{
			ProposalID: uuid.NewString(),
			Front:      front,
			Back:       back,
		})
		if len(proposals) >= gen.MaxFlashcards {
			break
		}
	}

	if dropped > 0 {
		logger.Warn("Dropped invalid proposals from LLM output",
			"generation_id", gen.GenerationID.String(),
			"dropped", dropped,
			"kept", len(proposals),
		)
	}
	return proposals
}

// fail はジョブを failed にし、エラーをジャーナルに記録します。どちらもベストエフォート。
func (p *Processor) fail(ctx context.Context, gen *model.Generation, code, userMessage, detail string) {
	logger := middleware.GetLogger(ctx)

	if err := p.genRepo.MarkFailed(ctx, p.db, gen.GenerationID, userMessage); err != nil {
		logger.Error("Failed to mark generation failed",
			"error", err,
			"generation_id", gen.GenerationID.String(),
		)
	}

	entry := &model.GenerationErrorLog{
		GenerationID: &gen.GenerationID,
		TenantID:     gen.TenantID,
		ErrorCode:    code,
		ErrorMessage: detail,
		Model:        gen.Model,
		SourceHash:   gen.SourceTextHash,
		SourceLength: gen.SourceLength,
	}
	if err := p.errRepo.Create(ctx, p.db, entry); err != nil {
		logger.Warn("Failed to journal generation error", "error", err, "code", code)
	}
}
