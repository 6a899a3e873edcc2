//go:generate mockery --name Client --output ./mocks --outpkg mocks --case=underscore
// internal/genflow/client.go
package genflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go_5_ai_flashcard/internal/model"

	"github.com/google/uuid"
)

// APIError はAPIサーバーが返したエラーレスポンス
type APIError struct {
	StatusCode int
	Detail     model.ErrorDetail
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s (%s)", e.StatusCode, e.Detail.Message, e.Detail.Code)
}

// Client はAI生成APIのクライアント抽象
type Client interface {
	CreateGeneration(ctx context.Context, req *model.CreateGenerationRequest) (*model.GenerationResponse, error)
	GetGeneration(ctx context.Context, generationID uuid.UUID) (*model.GenerationResponse, error)
	CommitGeneration(ctx context.Context, generationID uuid.UUID, req *model.CommitGenerationRequest) (*model.CommitGenerationResponse, error)
}

type httpClient struct {
	baseURL     string
	accessToken string
	hc          *http.Client
}

// NewHTTPClient はAPIサーバーに接続するクライアントを作成します。
// baseURL は /api/v1 までを含む (例: http://localhost:8080/api/v1)。
func NewHTTPClient(baseURL, accessToken string) Client {
	return &httpClient{
		baseURL:     baseURL,
		accessToken: accessToken,
		hc:          &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *httpClient) CreateGeneration(ctx context.Context, req *model.CreateGenerationRequest) (*model.GenerationResponse, error) {
	var resp model.GenerationResponse
	if err := c.do(ctx, http.MethodPost, "/ai-generations", req, &resp, http.StatusAccepted); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *httpClient) GetGeneration(ctx context.Context, generationID uuid.UUID) (*model.GenerationResponse, error) {
	var resp model.GenerationResponse
	path := "/ai-generations/" + generationID.String()
	if err := c.do(ctx, http.MethodGet, path, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *httpClient) CommitGeneration(ctx context.Context, generationID uuid.UUID, req *model.CommitGenerationRequest) (*model.CommitGenerationResponse, error) {
	var resp model.CommitGenerationResponse
	path := "/ai-generations/" + generationID.String() + "/commit"
	if err := c.do(ctx, http.MethodPost, path, req, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *httpClient) do(ctx context.Context, method, path string, body, dst interface{}, wantStatus int) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("genflow: failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("genflow: failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	httpResp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("genflow: request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != wantStatus {
		apiErr := &APIError{StatusCode: httpResp.StatusCode}
		var errResp model.APIErrorResponse
		if decodeErr := json.NewDecoder(httpResp.Body).Decode(&errResp); decodeErr == nil {
			apiErr.Detail = errResp.Error
		} else {
			apiErr.Detail = model.ErrorDetail{Code: model.CodeInternalError, Message: "unexpected response"}
		}
		return apiErr
	}

	if dst != nil {
		if err := json.NewDecoder(httpResp.Body).Decode(dst); err != nil {
			return fmt.Errorf("genflow: failed to decode response: %w", err)
		}
	}
	return nil
}
