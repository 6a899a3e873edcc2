// internal/handlers/auth_handler_test.go
package handlers_test

import (
	"encoding/json"
	"net/http"
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

func newAuthRouter(svc *mocks.AuthService) *chi.Mux {
	h := handlers.NewAuthHandler(svc)
	r := chi.NewRouter()
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Get("/verify", h.VerifyAccount)
		r.Post("/login", h.Login)
		r.Post("/forgot-password", h.RequestPasswordReset)
	})
	r.Group(func(r chi.Router) {
		r.Use(middleware.DevTenantContextMiddleware)
		r.Get("/api/v1/me", h.GetMe)
	})
	return r
}

func TestAuthHandler_Login(t *testing.T) {
	validBody := model.LoginRequest{Email: "user@example.com", Password: "password123"}

	t.Run("正常系: 200 とアクセストークン", func(t *testing.T) {
		mockSvc := mocks.NewAuthService(t)
		router := newAuthRouter(mockSvc)

		mockSvc.On("Login", mock.Anything, mock.AnythingOfType("*model.LoginRequest")).
			Return(&model.LoginResponse{AccessToken: "header.payload.signature"}, nil).Once()

		rec := doJSONRequest(t, router, http.MethodPost, "/api/v1/auth/login", nil, validBody)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp model.LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("異常系: 資格情報不一致は 401", func(t *testing.T) {
		mockSvc := mocks.NewAuthService(t)
		router := newAuthRouter(mockSvc)

		mockSvc.On("Login", mock.Anything, mock.AnythingOfType("*model.LoginRequest")).
			Return(nil, model.NewAppError("AUTHENTICATION_FAILED", "メールアドレスまたはパスワードが正しくありません。", "", model.ErrUnauthorized)).Once()

		rec := doJSONRequest(t, router, http.MethodPost, "/api/v1/auth/login", nil, validBody)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "AUTHENTICATION_FAILED", decodeErrorBody(t, rec).Code)
	})

	t.Run("異常系: email 形式不正は 422", func(t *testing.T) {
		mockSvc := mocks.NewAuthService(t)
		router := newAuthRouter(mockSvc)

		rec := doJSONRequest(t, router, http.MethodPost, "/api/v1/auth/login", nil,
			map[string]interface{}{"email": "not-an-email", "password": "password123"})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestAuthHandler_Register(t *testing.T) {
	validBody := map[string]interface{}{
		"name":     "テスト太郎",
		"email":    "user@example.com",
		"password": "password123",
	}

	t.Run("正常系: 200 と確認メール案内", func(t *testing.T) {
		mockSvc := mocks.NewAuthService(t)
		router := newAuthRouter(mockSvc)

		mockSvc.On("RegisterTenant", mock.Anything, mock.AnythingOfType("*model.RegisterRequest")).
			Return(&model.Tenant{TenantID: uuid.New()}, nil).Once()

		rec := doJSONRequest(t, router, http.MethodPost, "/api/v1/auth/register", nil, validBody)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("異常系: 重複メールは 409", func(t *testing.T) {
		mockSvc := mocks.NewAuthService(t)
		router := newAuthRouter(mockSvc)

		mockSvc.On("RegisterTenant", mock.Anything, mock.AnythingOfType("*model.RegisterRequest")).
			Return(nil, model.NewAppError("DUPLICATE_EMAIL", "このメールアドレスは既に使用されています。", "email", model.ErrConflict)).Once()

		rec := doJSONRequest(t, router, http.MethodPost, "/api/v1/auth/register", nil, validBody)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "DUPLICATE_EMAIL", decodeErrorBody(t, rec).Code)
	})
}

func TestAuthHandler_VerifyAccount(t *testing.T) {
	t.Run("正常系: 200 を返す", func(t *testing.T) {
		mockSvc := mocks.NewAuthService(t)
		router := newAuthRouter(mockSvc)

		mockSvc.On("VerifyAccount", mock.Anything, "valid-token").Return(nil).Once()

		rec := doJSONRequest(t, router, http.MethodGet, "/api/v1/auth/verify?token=valid-token", nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("異常系: トークンなしは 400", func(t *testing.T) {
		mockSvc := mocks.NewAuthService(t)
		router := newAuthRouter(mockSvc)

		rec := doJSONRequest(t, router, http.MethodGet, "/api/v1/auth/verify", nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthHandler_GetMe(t *testing.T) {
	tenantID := uuid.New()

	t.Run("正常系: 自テナントの情報を返す", func(t *testing.T) {
		mockSvc := mocks.NewAuthService(t)
		router := newAuthRouter(mockSvc)

		mockSvc.On("GetTenant", mock.Anything, tenantID).
			Return(&model.Tenant{TenantID: tenantID, Name: "テスト太郎", Email: "user@example.com", IsActive: true}, nil).Once()

		rec := doJSONRequest(t, router, http.MethodGet, "/api/v1/me", &tenantID, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp model.TenantResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, tenantID, resp.TenantID)
		assert.True(t, resp.IsActive)
	})

	t.Run("異常系: 認証なしは 401", func(t *testing.T) {
		mockSvc := mocks.NewAuthService(t)
		router := newAuthRouter(mockSvc)

		rec := doJSONRequest(t, router, http.MethodGet, "/api/v1/me", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
