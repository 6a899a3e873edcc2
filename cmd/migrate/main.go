// cmd/migrate/main.go
package main

import (
	"log/slog"
	"os"

	"go_5_ai_flashcard/internal/config"
	"go_5_ai_flashcard/internal/logutil"
	"go_5_ai_flashcard/internal/model"
	"go_5_ai_flashcard/internal/repository"
)

// pending の生成ジョブはテナントごとに高々1行。
const pendingGenerationIndexSQL = `
CREATE UNIQUE INDEX IF NOT EXISTS uq_ai_generation_logs_tenant_pending
ON ai_generation_logs (tenant_id)
WHERE status = 'pending';
`

// フラッシュカードの上限 (15枚/テナント) をDB側でも強制するトリガー。
// アプリ層のチェックと併用し、同時リクエストのすり抜けを防ぐ。
const flashcardLimitTriggerSQL = `
CREATE OR REPLACE FUNCTION enforce_flashcard_limit() RETURNS trigger AS $$
BEGIN
    IF (SELECT COUNT(*) FROM flashcards WHERE tenant_id = NEW.tenant_id) >= 15 THEN
        RAISE EXCEPTION 'flashcard limit reached for tenant %', NEW.tenant_id;
    END IF;
    RETURN NEW;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS trg_flashcard_limit ON flashcards;
CREATE TRIGGER trg_flashcard_limit
BEFORE INSERT ON flashcards
FOR EACH ROW EXECUTE FUNCTION enforce_flashcard_limit();
`

const flashcardFrontUniqueIndexSQL = `
CREATE UNIQUE INDEX IF NOT EXISTS uq_flashcards_tenant_front
ON flashcards (tenant_id, front);
`

func main() {
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)

	if err := config.LoadConfig("./configs"); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := logutil.NewLogger(config.Cfg.Log.Level, os.Getenv("APP_ENV"))
	slog.SetDefault(logger)

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

	slog.Info("Running schema migration...")

	err = db.AutoMigrate(
		&model.Tenant{},
		&model.EmailToken{},
		&model.Generation{},
		&model.GenerationErrorLog{},
		&model.Flashcard{},
	)
	if err != nil {
		slog.Error("AutoMigrate failed", slog.Any("error", err))
		os.Exit(1)
	}

	// AutoMigrate では表現できない部分インデックスとトリガーを作成する
	for _, stmt := range []string{
		pendingGenerationIndexSQL,
		flashcardFrontUniqueIndexSQL,
		flashcardLimitTriggerSQL,
	} {
		if err := db.Exec(stmt).Error; err != nil {
			slog.Error("Failed to apply raw migration", slog.Any("error", err))
			os.Exit(1)
		}
	}

	slog.Info("Migration completed successfully")
}
