// internal/repository/db.go
package repository

import (
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"go_5_ai_flashcard/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	slogGorm "github.com/orandin/slog-gorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB はGORMのDB接続を作成します。クエリログはslog経由で出力します。
func NewDB(databaseURL string, appLogger *slog.Logger) (*gorm.DB, error) {
	var gormLogLevel gormlogger.LogLevel
	// 環境変数 APP_ENV によって GORM のログレベルを切り替え
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		gormLogLevel = gormlogger.Info
	} else {
		gormLogLevel = gormlogger.Warn
	}

	slogGormLogger := slogGorm.New(
		slogGorm.WithHandler(appLogger.Handler()),
		slogGorm.WithTraceAll(),
		slogGorm.WithSlowThreshold(500*time.Millisecond),
	)
	finalGormLogger := slogGormLogger.LogMode(gormLogLevel)

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: finalGormLogger,
	})
	if err != nil {
		appLogger.Error("Failed to connect to database with GORM", slog.Any("error", err))
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		appLogger.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		return nil, err
	}

	if err = sqlDB.Ping(); err != nil {
		appLogger.Error("Error pinging database", slog.Any("error", err))
		sqlDB.Close()
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	appLogger.Info("Database connection established with GORM")

	return db, nil
}

// PostgreSQLのエラーコード
const (
	pgCodeUniqueViolation = "23505"
	pgCodeCheckViolation  = "23514"
	pgCodeRaiseException  = "P0001" // トリガー内の RAISE EXCEPTION
)

// isUniqueViolation は一意制約違反かどうかを判定します
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgCodeUniqueViolation
}

// isLimitViolation はチェック制約またはトリガーによる上限違反かどうかを判定します
func isLimitViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgCodeCheckViolation || pgErr.Code == pgCodeRaiseException
}

// mapPgError はDBの制約違反をアプリケーションエラーに変換します
func mapPgError(err error) error {
	switch {
	case isUniqueViolation(err):
		return model.ErrConflict
	case isLimitViolation(err):
		return model.ErrLimitReached
	default:
		return err
	}
}
