//go:generate mockery --name Client --output ./mocks --outpkg mocks --case=underscore
// internal/llm/openrouter.go
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go_5_ai_flashcard/internal/config"

	"github.com/sashabaranov/go-openai"
)

// ErrNonRetryable は認証エラーやモデル指定エラーなど、リトライしても
// 回復しない失敗を表す。ワーカーはこれを受けたら即座にジョブを failed にする。
var ErrNonRetryable = errors.New("llm: non-retryable error")

// RawProposal はLLMが返したカード案。ID付与やサニタイズは呼び出し側が行う。
type RawProposal struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// GenerateRequest は1回の生成呼び出しのパラメータ
type GenerateRequest struct {
	SourceText    string
	MaxFlashcards int
	Model         string
	Temperature   float64
}

// Client はフラッシュカード案を生成するLLMバックエンドの抽象
type Client interface {
	GenerateProposals(ctx context.Context, req *GenerateRequest) ([]RawProposal, error)
}

type openRouterClient struct {
	client     *openai.Client
	maxTokens  int
	maxRetries int
	backoff    time.Duration
}

// completionSchema はLLMに要求するJSONレスポンスの形
type completionSchema struct {
	Flashcards []RawProposal `json:"flashcards"`
}

const systemPrompt = `あなたは学習用フラッシュカードの作成を支援するアシスタントです。
与えられたテキストから、学習価値の高い重要な概念を選び、質問 (front) と回答 (back) のペアを作成してください。

制約:
- frontは10〜200文字、backは10〜500文字
- テキストに書かれている内容のみを根拠にすること
- 指定された枚数以下で、重複しない内容にすること
- 必ず次のJSON形式のみで回答すること: {"flashcards": [{"front": "...", "back": "..."}]}`

func NewOpenRouterClient(cfg *config.Config) Client {
	clientConfig := openai.DefaultConfig(cfg.OpenRouter.APIKey)
	clientConfig.BaseURL = cfg.OpenRouter.BaseURL
	if clientConfig.BaseURL == "" {
		clientConfig.BaseURL = config.DefaultOpenRouterBaseURL
	}

	maxTokens := cfg.OpenRouter.MaxTokens
	if maxTokens <= 0 {
		maxTokens = config.DefaultCompletionMaxTokens
	}

	return &openRouterClient{
		client:     openai.NewClientWithConfig(clientConfig),
		maxTokens:  maxTokens,
		maxRetries: 3,
		backoff:    time.Second,
	}
}

func (c *openRouterClient) GenerateProposals(ctx context.Context, req *GenerateRequest) ([]RawProposal, error) {
	userPrompt := fmt.Sprintf("次のテキストから最大%d枚のフラッシュカードを作成してください。\n\n---\n%s", req.MaxFlashcards, req.SourceText)

	chatReq := openai.ChatCompletionRequest{
		// モデルIDは "openrouter/" プレフィックスなしでAPIに渡す
		Model: strings.TrimPrefix(req.Model, "openrouter/"),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: float32(req.Temperature),
		MaxTokens:   c.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			// 指数バックオフ: 1s, 2s, 4s...
			wait := c.backoff << (attempt - 1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		resp, err := c.client.CreateChatCompletion(ctx, chatReq)
		if err != nil {
			if !isRetryable(err) {
				return nil, fmt.Errorf("%w: %v", ErrNonRetryable, err)
			}
			lastErr = err
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = errors.New("llm: empty choices in response")
			continue
		}

		proposals, err := parseCompletion(resp.Choices[0].Message.Content)
		if err != nil {
			// モデルが形式に従わなかったケース。再試行で直ることがある
			lastErr = err
			continue
		}
		return proposals, nil
	}
	return nil, fmt.Errorf("llm: generation failed after %d attempts: %w", c.maxRetries, lastErr)
}

// isRetryable はレート制限と一時的なサーバーエラーのみ再試行対象とする
func isRetryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == 429:
			return true
		case apiErr.HTTPStatusCode >= 500:
			return true
		default:
			// 400/401/403/404 はリクエスト自体が悪いので再試行しない
			return false
		}
	}
	// ネットワークエラー等は再試行する
	return true
}

func parseCompletion(content string) ([]RawProposal, error) {
	// コードフェンス付きで返ってくるレスポンスにも対応する
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var parsed completionSchema
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("llm: failed to parse completion as JSON: %w", err)
	}
	if len(parsed.Flashcards) == 0 {
		return nil, errors.New("llm: completion contained no flashcards")
	}
	return parsed.Flashcards, nil
}
