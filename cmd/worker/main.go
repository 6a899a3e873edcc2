// cmd/worker/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go_5_ai_flashcard/internal/config"
	"go_5_ai_flashcard/internal/llm"
	"go_5_ai_flashcard/internal/logutil"
	"go_5_ai_flashcard/internal/repository"
	"go_5_ai_flashcard/internal/worker"
)

func main() {
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)

	if err := config.LoadConfig("./configs"); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := logutil.NewLogger(config.Cfg.Log.Level, os.Getenv("APP_ENV"))
	slog.SetDefault(logger)
	slog.Info("Generation worker starting...", slog.String("app", config.AppName))

	if config.Cfg.OpenRouter.APIKey == "" {
		slog.Error("OPENROUTER_API_KEY is not configured")
		os.Exit(1)
	}

	db, err := repository.NewDB(config.Cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer sqlDB.Close()

	genRepo := repository.NewGormGenerationRepository()
	errRepo := repository.NewGormErrorLogRepository()
	llmClient := llm.NewOpenRouterClient(&config.Cfg)

	processor := worker.NewProcessor(db, genRepo, errRepo, llmClient)
	handler := worker.NewHandler(processor, config.Cfg.Worker.AuthToken, logger)
	router := worker.NewRouter(handler, logger)

	server := &http.Server{
		Addr:         config.Cfg.Worker.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Worker listening", slog.String("port", config.Cfg.Worker.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", config.Cfg.Worker.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down worker...")

	// 処理中の生成ジョブ (LLM呼び出し込み) を見込んで長めに待つ
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Worker forced to shutdown", slog.Any("error", err))
	}
	slog.Info("Worker exiting")
}
