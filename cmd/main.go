// cmd/main.go
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"go_5_ai_flashcard/internal/config"
	"go_5_ai_flashcard/internal/handlers"
	"go_5_ai_flashcard/internal/logutil"
	"go_5_ai_flashcard/internal/middleware"
	"go_5_ai_flashcard/internal/repository"
	"go_5_ai_flashcard/internal/service"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	// 設定ファイル読み込み用の一時的なロガー
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)

	if err := config.LoadConfig("./configs"); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := logutil.NewLogger(config.Cfg.Log.Level, os.Getenv("APP_ENV"))
	slog.SetDefault(logger)
	slog.Info("Application starting...", slog.String("app", config.AppName))

	// データベース接続 (GORM)
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
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()

	// 依存関係の組み立て
	tenantRepo := repository.NewGormTenantRepository()
	tokenRepo := repository.NewGormTokenRepository()
	genRepo := repository.NewGormGenerationRepository()
	cardRepo := repository.NewGormFlashcardRepository()
	errRepo := repository.NewGormErrorLogRepository()

	mailer := service.NewMailer(&config.Cfg)
	dispatcher := service.NewDispatcher(&config.Cfg)

	authService := service.NewAuthService(db, tenantRepo, tokenRepo, mailer, &config.Cfg)
	generationService := service.NewGenerationService(db, genRepo, cardRepo, errRepo, dispatcher, &config.Cfg)
	flashcardService := service.NewFlashcardService(db, cardRepo)

	authHandler := handlers.NewAuthHandler(authService)
	generationHandler := handlers.NewGenerationHandler(generationService)
	flashcardHandler := handlers.NewFlashcardHandler(flashcardService)

	// ルーター設定
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   config.Cfg.CORS.AllowedOrigins,
		AllowedMethods:   config.Cfg.CORS.AllowedMethods,
		AllowedHeaders:   config.Cfg.CORS.AllowedHeaders,
		ExposedHeaders:   config.Cfg.CORS.ExposedHeaders,
		AllowCredentials: config.Cfg.CORS.AllowCredentials,
		MaxAge:           config.Cfg.CORS.MaxAge,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		// --- 認証不要のルート ---
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Get("/verify", authHandler.VerifyAccount)
			r.Post("/login", authHandler.Login)
			r.Post("/forgot-password", authHandler.RequestPasswordReset)
			r.Post("/reset-password", authHandler.ResetPassword)
		})

		// --- 認証必須のルート ---
		r.Group(func(r chi.Router) {
			if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
				slog.Warn("Applying development authentication middleware (X-Tenant-ID header)")
				r.Use(middleware.DevTenantContextMiddleware)
			} else {
				r.Use(middleware.JWTAuthMiddleware(&config.Cfg))
			}

			r.Get("/me", authHandler.GetMe)

			r.Route("/ai-generations", func(r chi.Router) {
				r.Post("/", generationHandler.PostGeneration)
				r.Get("/{generation_id}", generationHandler.GetGeneration)
				r.Post("/{generation_id}/commit", generationHandler.CommitGeneration)
			})

			r.Route("/flashcards", func(r chi.Router) {
				r.Post("/", flashcardHandler.PostFlashcard)
				r.Get("/", flashcardHandler.GetFlashcards)
				r.Get("/{flashcard_id}", flashcardHandler.GetFlashcard)
				r.Patch("/{flashcard_id}", flashcardHandler.PatchFlashcard)
				r.Delete("/{flashcard_id}", flashcardHandler.DeleteFlashcard)
			})
		})
	})

	// ヘルスチェック (DB疎通込み)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := sqlDB.PingContext(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "Health check failed: could not ping DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// サーバー起動
	server := &http.Server{
		Addr:         config.Cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", config.Cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", config.Cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	log.Println("Server exiting")
}
