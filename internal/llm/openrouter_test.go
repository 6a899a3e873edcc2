// internal/llm/openrouter_test.go
package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go_5_ai_flashcard/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseCompletion(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
		wantErr bool
	}{
		{
			name:    "正常系: プレーンなJSON",
			content: `{"flashcards": [{"front": "f1", "back": "b1"}, {"front": "f2", "back": "b2"}]}`,
			want:    2,
		},
		{
			name:    "正常系: コードフェンス付きJSON",
			content: "```json\n{\"flashcards\": [{\"front\": \"f1\", \"back\": \"b1\"}]}\n```",
			want:    1,
		},
		{
			name:    "異常系: JSONとして不正",
			content: "カードを作成しました。",
			wantErr: true,
		},
		{
			name:    "異常系: カードが空",
			content: `{"flashcards": []}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proposals, err := parseCompletion(tt.content)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, proposals, tt.want)
		})
	}
}

// completionBody はテスト用のチャット補完レスポンスを組み立てる
func completionBody(t *testing.T, content string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   "anthropic/claude-3.5-sonnet",
		"choices": []map[string]interface{}{
			{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
	})
	require.NoError(t, err)
	return body
}

func newTestClient(baseURL string) *openRouterClient {
	cfg := &config.Config{
		OpenRouter: config.OpenRouterConfig{
			APIKey:  "test-key",
			BaseURL: baseURL,
		},
	}
	c := NewOpenRouterClient(cfg).(*openRouterClient)
	c.backoff = time.Millisecond // テストを速くする
	return c
}

func Test_openRouterClient_GenerateProposals(t *testing.T) {
	ctx := context.Background()
	req := &GenerateRequest{
		SourceText:    "テスト用のソーステキスト",
		MaxFlashcards: 5,
		Model:         "openrouter/anthropic/claude-3.5-sonnet",
		Temperature:   1.0,
	}

	t.Run("正常系: 1回で成功", func(t *testing.T) {
		var gotModel string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Model string `json:"model"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			gotModel = body.Model
			w.Header().Set("Content-Type", "application/json")
			w.Write(completionBody(t, `{"flashcards": [{"front": "表面テキスト", "back": "裏面テキスト"}]}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		proposals, err := client.GenerateProposals(ctx, req)
		require.NoError(t, err)
		require.Len(t, proposals, 1)
		assert.Equal(t, "表面テキスト", proposals[0].Front)
		// "openrouter/" プレフィックスは剥がして送る
		assert.Equal(t, "anthropic/claude-3.5-sonnet", gotModel)
	})

	t.Run("正常系: 429のあとリトライで成功", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error": {"message": "rate limited", "type": "rate_limit_error"}}`))
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write(completionBody(t, `{"flashcards": [{"front": "表面テキスト", "back": "裏面テキスト"}]}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		proposals, err := client.GenerateProposals(ctx, req)
		require.NoError(t, err)
		assert.Len(t, proposals, 1)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("異常系: 401は即座に失敗", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": {"message": "invalid api key", "type": "invalid_request_error"}}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		proposals, err := client.GenerateProposals(ctx, req)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNonRetryable)
		assert.Nil(t, proposals)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("異常系: 5xxが続くとリトライ上限で失敗", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error": {"message": "overloaded", "type": "server_error"}}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		_, err := client.GenerateProposals(ctx, req)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNonRetryable)
		assert.Equal(t, int32(3), calls.Load())
	})
}
