// internal/config/constants.go
package config

import "time"

const (
	AppName = "Fuda"

	DefaultServerPort = ":8080"
	DefaultWorkerPort = ":8090"

	// ソーステキストの長さ制限 (コードポイント数)
	SourceTextMinLength = 1000
	SourceTextMaxLength = 10000

	// フラッシュカードの長さ制限 (コードポイント数)
	FrontMinLength = 10
	FrontMaxLength = 200
	BackMinLength  = 10
	BackMaxLength  = 500

	// 1テナントあたりのフラッシュカード上限
	MaxFlashcardsPerTenant = 15

	TemperatureMin     = 0.0
	TemperatureMax     = 2.0
	DefaultTemperature = 1.0

	DefaultGenerationModel = "openrouter/anthropic/claude-3.5-sonnet"

	// 生成結果の有効期限 (created_at からの相対時間)
	GenerationTTL = 5 * time.Minute

	// リクエストボディの上限
	MaxGenerationPayloadBytes = 10 * 1024

	// クライアント側ポーリング設定
	PollingInterval = 800 * time.Millisecond
	PollingTimeout  = 5 * time.Second

	DefaultOpenRouterBaseURL   = "https://openrouter.ai/api/v1"
	DefaultCompletionMaxTokens = 4096
)

// DefaultAllowedModels は設定未指定時に許可する生成モデルの一覧を返す。
func DefaultAllowedModels() []string {
	return []string{
		"openrouter/anthropic/claude-3.5-sonnet",
		"openrouter/openai/gpt-4o",
		"openrouter/openai/gpt-4o-mini",
		"openrouter/google/gemini-pro-1.5",
	}
}
