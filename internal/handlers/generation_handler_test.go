// internal/handlers/generation_handler_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go_5_ai_flashcard/internal/handlers"
	"go_5_ai_flashcard/internal/middleware"
	"go_5_ai_flashcard/internal/model"
	"go_5_ai_flashcard/internal/service/mocks"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newGenerationRouter はテスト用のルーターを組み立てる
func newGenerationRouter(svc *mocks.GenerationService) *chi.Mux {
	h := handlers.NewGenerationHandler(svc)
	r := chi.NewRouter()
	r.Use(middleware.DevTenantContextMiddleware)
	r.Route("/api/v1/ai-generations", func(r chi.Router) {
		r.Post("/", h.PostGeneration)
		r.Get("/{generation_id}", h.GetGeneration)
		r.Post("/{generation_id}/commit", h.CommitGeneration)
	})
	return r
}

func doJSONRequest(t *testing.T, router http.Handler, method, path string, tenantID *uuid.UUID, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if tenantID != nil {
		req.Header.Set("X-Tenant-ID", tenantID.String())
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) model.ErrorDetail {
	t.Helper()
	var resp model.APIErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestGenerationHandler_PostGeneration(t *testing.T) {
	tenantID := uuid.New()
	generationID := uuid.New()
	validBody := map[string]interface{}{
		"source_text": strings.Repeat("あ", 1000),
	}

	t.Run("正常系: 202 と pending レスポンス", func(t *testing.T) {
		mockSvc := mocks.NewGenerationService(t)
		router := newGenerationRouter(mockSvc)

		mockSvc.On("CreateGeneration", mock.Anything, tenantID, mock.AnythingOfType("*model.CreateGenerationRequest")).
			Return(&model.GenerationResponse{
				GenerationID: generationID,
				Status:       model.GenerationStatusPending,
			}, nil).Once()

		rec := doJSONRequest(t, router, http.MethodPost, "/api/v1/ai-generations/", &tenantID, validBody)

		assert.Equal(t, http.StatusAccepted, rec.Code)
		var resp model.GenerationResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, generationID, resp.GenerationID)
		assert.Equal(t, model.GenerationStatusPending, resp.Status)
	})

	t.Run("異常系: 認証ヘッダーなしは 401", func(t *testing.T) {
		mockSvc := mocks.NewGenerationService(t)
		router := newGenerationRouter(mockSvc)

		rec := doJSONRequest(t, router, http.MethodPost, "/api/v1/ai-generations/", nil, validBody)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("異常系: 不正なJSONは 400", func(t *testing.T) {
		mockSvc := mocks.NewGenerationService(t)
		router := newGenerationRouter(mockSvc)

		rec := doJSONRequest(t, router, http.MethodPost, "/api/v1/ai-generations/", &tenantID, "{not json")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_REQUEST_BODY", decodeErrorBody(t, rec).Code)
	})

	t.Run("異常系: source_text 欠落は 422", func(t *testing.T) {
		mockSvc := mocks.NewGenerationService(t)
		router := newGenerationRouter(mockSvc)

		rec := doJSONRequest(t, router, http.MethodPost, "/api/v1/ai-generations/", &tenantID, map[string]interface{}{})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		detail := decodeErrorBody(t, rec)
		assert.Equal(t, model.CodeSchemaValidationFailed, detail.Code)
		assert.Equal(t, "source_text", detail.Field)
	})

	t.Run("異常系: ボディが10KiBを超えると 413", func(t *testing.T) {
		mockSvc := mocks.NewGenerationService(t)
		router := newGenerationRouter(mockSvc)

		huge := map[string]interface{}{"source_text": strings.Repeat("a", 11*1024)}
		rec := doJSONRequest(t, router, http.MethodPost, "/api/v1/ai-generations/", &tenantID, huge)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Equal(t, model.CodePayloadTooLarge, decodeErrorBody(t, rec).Code)
	})

	t.Run("異常系: pending 競合は 409", func(t *testing.T) {
		mockSvc := mocks.NewGenerationService(t)
		router := newGenerationRouter(mockSvc)

		mockSvc.On("CreateGeneration", mock.Anything, tenantID, mock.AnythingOfType("*model.CreateGenerationRequest")).
			Return(nil, model.NewAppError(model.CodeGenerationPending, "実行中の生成があります。", "", model.ErrConflict)).Once()

		rec := doJSONRequest(t, router, http.MethodPost, "/api/v1/ai-generations/", &tenantID, validBody)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, model.CodeGenerationPending, decodeErrorBody(t, rec).Code)
	})
}

func TestGenerationHandler_GetGeneration(t *testing.T) {
	tenantID := uuid.New()
	generationID := uuid.New()

	t.Run("正常系: succeeded の取得", func(t *testing.T) {
		mockSvc := mocks.NewGenerationService(t)
		router := newGenerationRouter(mockSvc)

		mockSvc.On("GetGeneration", mock.Anything, tenantID, generationID).
			Return(&model.GenerationResponse{
				GenerationID: generationID,
				Status:       model.GenerationStatusSucceeded,
				Proposals: model.ProposalList{
					{ProposalID: "p-1", Front: "表面テキストのサンプルです", Back: "裏面テキストのサンプルです"},
				},
			}, nil).Once()

		rec := doJSONRequest(t, router, http.MethodGet, "/api/v1/ai-generations/"+generationID.String(), &tenantID, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp model.GenerationResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, model.GenerationStatusSucceeded, resp.Status)
		assert.Len(t, resp.Proposals, 1)
	})

	t.Run("異常系: UUIDでないIDは 400", func(t *testing.T) {
		mockSvc := mocks.NewGenerationService(t)
		router := newGenerationRouter(mockSvc)

		rec := doJSONRequest(t, router, http.MethodGet, "/api/v1/ai-generations/not-a-uuid", &tenantID, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("異常系: 存在しないジョブは 404", func(t *testing.T) {
		mockSvc := mocks.NewGenerationService(t)
		router := newGenerationRouter(mockSvc)

		mockSvc.On("GetGeneration", mock.Anything, tenantID, generationID).
			Return(nil, model.ErrNotFound).Once()

		rec := doJSONRequest(t, router, http.MethodGet, "/api/v1/ai-generations/"+generationID.String(), &tenantID, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGenerationHandler_CommitGeneration(t *testing.T) {
	tenantID := uuid.New()
	generationID := uuid.New()
	commitPath := "/api/v1/ai-generations/" + generationID.String() + "/commit"
	validBody := model.CommitGenerationRequest{
		Accepted: []model.CommitProposal{
			{ProposalID: "p-1", Front: "表面テキストのサンプルです", Back: "裏面テキストのサンプルです"},
		},
	}

	t.Run("正常系: 200 とコミット結果", func(t *testing.T) {
		mockSvc := mocks.NewGenerationService(t)
		router := newGenerationRouter(mockSvc)

		mockSvc.On("CommitGeneration", mock.Anything, tenantID, generationID, mock.AnythingOfType("*model.CommitGenerationRequest")).
			Return(&model.CommitGenerationResponse{
				GenerationID: generationID,
				CreatedCount: 1,
			}, nil).Once()

		rec := doJSONRequest(t, router, http.MethodPost, commitPath, &tenantID, validBody)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp model.CommitGenerationResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.CreatedCount)
	})

	t.Run("異常系: accepted が空配列は 422", func(t *testing.T) {
		mockSvc := mocks.NewGenerationService(t)
		router := newGenerationRouter(mockSvc)

		rec := doJSONRequest(t, router, http.MethodPost, commitPath, &tenantID,
			model.CommitGenerationRequest{Accepted: []model.CommitProposal{}})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("異常系: 表面の重複は 409", func(t *testing.T) {
		mockSvc := mocks.NewGenerationService(t)
		router := newGenerationRouter(mockSvc)

		mockSvc.On("CommitGeneration", mock.Anything, tenantID, generationID, mock.AnythingOfType("*model.CommitGenerationRequest")).
			Return(nil, model.NewAppError(model.CodeFlashcardDuplicate, "同じ表面のカードが既に存在します。", "front", model.ErrConflict)).Once()

		rec := doJSONRequest(t, router, http.MethodPost, commitPath, &tenantID, validBody)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, model.CodeFlashcardDuplicate, decodeErrorBody(t, rec).Code)
	})
}
