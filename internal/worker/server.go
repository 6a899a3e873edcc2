// internal/worker/server.go
package worker

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"go_5_ai_flashcard/internal/middleware"
	"go_5_ai_flashcard/internal/model"
	"go_5_ai_flashcard/internal/webutil"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Handler はAPIサーバーからの生成ジョブ投入を受け付けるHTTPハンドラです。
// 受理後は即座に 202 を返し、処理はバックグラウンドで行う。
type Handler struct {
	processor *Processor
	authToken string
	logger    *slog.Logger
}

func NewHandler(processor *Processor, authToken string, logger *slog.Logger) *Handler {
	return &Handler{
		processor: processor,
		authToken: authToken,
		logger:    logger,
	}
}

// NewRouter はワーカーのルーターを組み立てます
func NewRouter(h *Handler, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.LoggingMiddleware(logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/internal/v1", func(r chi.Router) {
		r.Use(h.authMiddleware)
		r.Post("/ai-generations", h.EnqueueGeneration)
	})
	return r
}

// authMiddleware は共有トークンによるBearer認証を行います
func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.GetLogger(r.Context())

		authHeader := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || h.authToken == "" || token != h.authToken {
			webutil.HandleError(w, logger, model.NewAppError("AUTHENTICATION_FAILED", "認証に失敗しました。", "", model.ErrUnauthorized))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// EnqueueGeneration はジョブを受理し、バックグラウンドで処理を開始します
func (h *Handler) EnqueueGeneration(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	var payload model.EnqueueGenerationPayload
	if err := webutil.DecodeJSONBody(r, &payload); err != nil {
		webutil.HandleError(w, logger, model.NewAppError(model.CodeValidationError, "リクエストボディが不正です。", "", model.ErrInvalidInput))
		return
	}

	logger.Info("Generation job accepted",
		"generation_id", payload.GenerationID.String(),
		"tenant_id", payload.TenantID.String(),
	)

	// リクエストのコンテキストは応答後にキャンセルされるため引き継がない。
	// ジョブ側のロガーにはリクエストのものをそのまま使う。
	jobCtx := middleware.WithLogger(context.Background(), logger)
	go func() {
		if err := h.processor.Process(jobCtx, &payload); err != nil {
			h.logger.Error("Generation job failed",
				"error", err,
				"generation_id", payload.GenerationID.String(),
			)
		}
	}()

	webutil.RespondWithJSON(w, http.StatusAccepted, map[string]string{
		"generation_id": payload.GenerationID.String(),
		"status":        model.GenerationStatusPending,
	}, logger)
}
