// internal/handlers/generation_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go_5_ai_flashcard/internal/config"
	"go_5_ai_flashcard/internal/middleware"
	"go_5_ai_flashcard/internal/model"
	"go_5_ai_flashcard/internal/service"
	"go_5_ai_flashcard/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type GenerationHandler struct {
	service service.GenerationService
}

func NewGenerationHandler(s service.GenerationService) *GenerationHandler {
	return &GenerationHandler{service: s}
}

// PostGeneration はソーステキストを受け付けてAI生成ジョブを開始するハンドラ。
// ジョブは非同期で処理されるため 202 Accepted を返す。
func (h *GenerationHandler) PostGeneration(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	tenantID, err := middleware.GetTenantIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", "error", err)
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrUnauthorized)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With("tenant_id", tenantID.String())

	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		logger.Warn("Unsupported content type", "content_type", ct)
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "Content-Typeはapplication/jsonである必要があります。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	// ソーステキストの上限を踏まえたボディサイズ制限
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxGenerationPayloadBytes)

	var req model.CreateGenerationRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		if errors.Is(err, model.ErrPayloadTooLarge) {
			logger.Warn("Request body exceeds payload limit")
			appErr := model.NewAppError(model.CodePayloadTooLarge, "リクエストボディが大きすぎます。", "", model.ErrPayloadTooLarge)
			webutil.HandleError(w, logger, appErr)
			return
		}
		logger.Warn("Failed to decode request body", "error", err)
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.Validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			logger.Warn("Validation failed for generation request", "errors", validationErrors.Error())
			webutil.HandleError(w, logger, webutil.NewValidationErrorResponse(validationErrors))
		} else {
			logger.Error("Unexpected error during validation", "error", err)
			webutil.HandleError(w, logger, err)
		}
		return
	}

	resp, err := h.service.CreateGeneration(r.Context(), tenantID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Generation accepted", "generation_id", resp.GenerationID.String())
	webutil.RespondWithJSON(w, http.StatusAccepted, resp, logger)
}

// GetGeneration は生成ジョブの現在の状態を返すハンドラ (ポーリング用)
func (h *GenerationHandler) GetGeneration(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	tenantID, err := middleware.GetTenantIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", "error", err)
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrUnauthorized)
		webutil.HandleError(w, logger, appErr)
		return
	}

	generationID, err := uuid.Parse(chi.URLParam(r, "generation_id"))
	if err != nil {
		appErr := model.NewAppError("INVALID_REQUEST", "生成IDの形式が正しくありません。", "generation_id", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	resp, err := h.service.GetGeneration(r.Context(), tenantID, generationID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// CommitGeneration は採用された提案をフラッシュカードとして確定するハンドラ
func (h *GenerationHandler) CommitGeneration(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	tenantID, err := middleware.GetTenantIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", "error", err)
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrUnauthorized)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With("tenant_id", tenantID.String())

	generationID, err := uuid.Parse(chi.URLParam(r, "generation_id"))
	if err != nil {
		appErr := model.NewAppError("INVALID_REQUEST", "生成IDの形式が正しくありません。", "generation_id", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	var req model.CommitGenerationRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode commit request body", "error", err)
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.Validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			logger.Warn("Validation failed for commit request", "errors", validationErrors.Error())
			webutil.HandleError(w, logger, webutil.NewValidationErrorResponse(validationErrors))
		} else {
			logger.Error("Unexpected error during validation", "error", err)
			webutil.HandleError(w, logger, err)
		}
		return
	}

	resp, err := h.service.CommitGeneration(r.Context(), tenantID, generationID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Generation committed",
		"generation_id", generationID.String(),
		"created_count", resp.CreatedCount,
	)
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}
