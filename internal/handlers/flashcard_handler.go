// internal/handlers/flashcard_handler.go
package handlers

import (
	"errors"
	"net/http"

	"go_5_ai_flashcard/internal/middleware"
	"go_5_ai_flashcard/internal/model"
	"go_5_ai_flashcard/internal/service"
	"go_5_ai_flashcard/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type FlashcardHandler struct {
	service service.FlashcardService
}

func NewFlashcardHandler(s service.FlashcardService) *FlashcardHandler {
	return &FlashcardHandler{service: s}
}

// tenantAndCardID はパスパラメータと認証情報をまとめて取り出すヘルパー
func (h *FlashcardHandler) tenantAndCardID(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	logger := middleware.GetLogger(r.Context())

	tenantID, err := middleware.GetTenantIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", "error", err)
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrUnauthorized)
		webutil.HandleError(w, logger, appErr)
		return uuid.Nil, uuid.Nil, false
	}

	flashcardID, err := uuid.Parse(chi.URLParam(r, "flashcard_id"))
	if err != nil {
		appErr := model.NewAppError("INVALID_REQUEST", "カードIDの形式が正しくありません。", "flashcard_id", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, flashcardID, true
}

// PostFlashcard は手動でフラッシュカードを作成するハンドラ
func (h *FlashcardHandler) PostFlashcard(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	tenantID, err := middleware.GetTenantIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", "error", err)
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrUnauthorized)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With("tenant_id", tenantID.String())

	var req model.PostFlashcardRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", "error", err)
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.Validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			logger.Warn("Validation failed for flashcard", "errors", validationErrors.Error())
			webutil.HandleError(w, logger, webutil.NewValidationErrorResponse(validationErrors))
		} else {
			logger.Error("Unexpected error during validation", "error", err)
			webutil.HandleError(w, logger, err)
		}
		return
	}

	card, err := h.service.CreateFlashcard(r.Context(), tenantID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Flashcard created", "flashcard_id", card.FlashcardID.String())
	webutil.RespondWithJSON(w, http.StatusCreated, card, logger)
}

// GetFlashcards はテナントのカード一覧を返すハンドラ
func (h *FlashcardHandler) GetFlashcards(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	tenantID, err := middleware.GetTenantIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", "error", err)
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrUnauthorized)
		webutil.HandleError(w, logger, appErr)
		return
	}

	cards, err := h.service.ListFlashcards(r.Context(), tenantID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if cards == nil {
		cards = []*model.Flashcard{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, cards, logger)
}

// GetFlashcard は特定のカードを返すハンドラ
func (h *FlashcardHandler) GetFlashcard(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	tenantID, flashcardID, ok := h.tenantAndCardID(w, r)
	if !ok {
		return
	}

	card, err := h.service.GetFlashcard(r.Context(), tenantID, flashcardID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, card, logger)
}

// PatchFlashcard はカードの表・裏を部分更新するハンドラ
func (h *FlashcardHandler) PatchFlashcard(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	tenantID, flashcardID, ok := h.tenantAndCardID(w, r)
	if !ok {
		return
	}
	logger = logger.With("flashcard_id", flashcardID.String())

	var req model.PatchFlashcardRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", "error", err)
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	card, err := h.service.PatchFlashcard(r.Context(), tenantID, flashcardID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Flashcard updated")
	webutil.RespondWithJSON(w, http.StatusOK, card, logger)
}

// DeleteFlashcard はカードを物理削除するハンドラ
func (h *FlashcardHandler) DeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	tenantID, flashcardID, ok := h.tenantAndCardID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteFlashcard(r.Context(), tenantID, flashcardID); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Flashcard deleted", "flashcard_id", flashcardID.String())
	w.WriteHeader(http.StatusNoContent)
}
