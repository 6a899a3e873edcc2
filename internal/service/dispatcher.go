//go:generate mockery --name GenerationDispatcher --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"go_5_ai_flashcard/internal/config"
	"go_5_ai_flashcard/internal/middleware"
	"go_5_ai_flashcard/internal/model"
)

// GenerationDispatcher は生成ジョブを非同期ワーカーに引き渡します
type GenerationDispatcher interface {
	Enqueue(ctx context.Context, payload *model.EnqueueGenerationPayload) error
}

// --- LogDispatcher ---
// 開発時用。実際には何も送らずログに出すだけ。
type LogDispatcher struct{}

func (d *LogDispatcher) Enqueue(ctx context.Context, payload *model.EnqueueGenerationPayload) error {
	logger := middleware.GetLogger(ctx)
	logger.Info("--- Enqueue generation (LogDispatcher) ---",
		"generation_id", payload.GenerationID.String(),
		"model", payload.Model,
		"max_flashcards", payload.MaxFlashcards,
	)
	return nil
}

// --- HTTPDispatcher ---
// ワーカーのエンキューエンドポイントに1回のPOSTで引き渡す。
// ペイロードには生のソーステキストは含めない (ワーカー側がDBから読む)。
type HTTPDispatcher struct {
	url       string
	authToken string
	client    *http.Client
}

func NewHTTPDispatcher(cfg *config.Config) *HTTPDispatcher {
	return &HTTPDispatcher{
		url:       cfg.Queue.URL,
		authToken: cfg.Queue.AuthToken,
		client:    &http.Client{Timeout: cfg.Queue.Timeout},
	}
}

func (d *HTTPDispatcher) Enqueue(ctx context.Context, payload *model.EnqueueGenerationPayload) error {
	logger := middleware.GetLogger(ctx)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("HTTPDispatcher.Enqueue: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("HTTPDispatcher.Enqueue: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if d.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+d.authToken)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		logger.Error("Failed to enqueue generation", "error", err, "generation_id", payload.GenerationID.String())
		return fmt.Errorf("HTTPDispatcher.Enqueue: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	// ワーカーは受理時に202を返す
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Error("Worker rejected enqueue request",
			"status", resp.StatusCode,
			"generation_id", payload.GenerationID.String(),
		)
		return fmt.Errorf("HTTPDispatcher.Enqueue: unexpected status %d", resp.StatusCode)
	}

	logger.Info("Generation enqueued", "generation_id", payload.GenerationID.String())
	return nil
}

// --- NewDispatcher ファクトリ関数 ---
func NewDispatcher(cfg *config.Config) GenerationDispatcher {
	logger := slog.Default()
	switch cfg.Queue.Type {
	case "http":
		logger.Info("Initializing HTTP dispatcher...", "url", cfg.Queue.URL)
		return NewHTTPDispatcher(cfg)
	case "log":
		logger.Info("Initializing Log dispatcher...")
		return &LogDispatcher{}
	default:
		logger.Warn("Unknown dispatcher type, defaulting to LogDispatcher", "type", cfg.Queue.Type)
		return &LogDispatcher{}
	}
}
