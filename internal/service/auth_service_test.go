// internal/service/auth_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"go_5_ai_flashcard/internal/config"
	"go_5_ai_flashcard/internal/model"
	repomocks "go_5_ai_flashcard/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testAuthConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "Fuda"
	cfg.App.FrontendURL = "http://localhost:3000"
	cfg.JWT.SecretKey = "test-secret-key"
	cfg.JWT.AccessTokenTTL = time.Hour
	return cfg
}

func Test_authService_VerifyAccount(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBGen()
	mockTenantRepo := new(repomocks.TenantRepository)
	mockTokenRepo := new(repomocks.TokenRepository)
	svc := NewAuthService(db, mockTenantRepo, mockTokenRepo, &LogMailer{}, testAuthConfig())

	tenantID := uuid.New()
	tokenStr := "0123456789abcdef"

	t.Run("正常系: 有効なトークンでアカウントが有効化される", func(t *testing.T) {
		mockTenantRepo.Mock = mock.Mock{}
		mockTokenRepo.Mock = mock.Mock{}

		mockTokenRepo.On("FindByPurpose", ctx, mock.AnythingOfType("*gorm.DB"), model.TokenPurposeVerifyAccount, tokenStr).
			Return(model.NewEmailToken(tokenStr, tenantID, model.TokenPurposeVerifyAccount), nil).Once()
		mockTenantRepo.On("Activate", ctx, mock.AnythingOfType("*gorm.DB"), tenantID).
			Return(nil).Once()
		mockTokenRepo.On("Delete", ctx, mock.AnythingOfType("*gorm.DB"), tokenStr).
			Return(nil).Once()

		err := svc.VerifyAccount(ctx, tokenStr)
		require.NoError(t, err)
		mockTenantRepo.AssertExpectations(t)
		mockTokenRepo.AssertExpectations(t)
	})

	t.Run("異常系: 期限切れトークンは削除され有効化されない", func(t *testing.T) {
		mockTenantRepo.Mock = mock.Mock{}
		mockTokenRepo.Mock = mock.Mock{}

		expired := model.NewEmailToken(tokenStr, tenantID, model.TokenPurposeVerifyAccount)
		expired.ExpiresAt = time.Now().Add(-time.Minute)
		require.True(t, expired.IsExpired())

		mockTokenRepo.On("FindByPurpose", ctx, mock.AnythingOfType("*gorm.DB"), model.TokenPurposeVerifyAccount, tokenStr).
			Return(expired, nil).Once()
		mockTokenRepo.On("Delete", ctx, mock.AnythingOfType("*gorm.DB"), tokenStr).
			Return(nil).Once()

		err := svc.VerifyAccount(ctx, tokenStr)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
		mockTenantRepo.AssertNotCalled(t, "Activate", mock.Anything, mock.Anything, mock.Anything)
		mockTokenRepo.AssertExpectations(t)
	})

	t.Run("異常系: 存在しないトークン", func(t *testing.T) {
		mockTenantRepo.Mock = mock.Mock{}
		mockTokenRepo.Mock = mock.Mock{}

		mockTokenRepo.On("FindByPurpose", ctx, mock.AnythingOfType("*gorm.DB"), model.TokenPurposeVerifyAccount, tokenStr).
			Return(nil, model.ErrNotFound).Once()

		err := svc.VerifyAccount(ctx, tokenStr)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
		mockTokenRepo.AssertExpectations(t)
	})
}

func Test_authService_Login(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBGen()
	mockTenantRepo := new(repomocks.TenantRepository)
	mockTokenRepo := new(repomocks.TokenRepository)
	svc := NewAuthService(db, mockTenantRepo, mockTokenRepo, &LogMailer{}, testAuthConfig())

	password := "password123"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	activeTenant := func() *model.Tenant {
		return &model.Tenant{
			TenantID:     uuid.New(),
			Email:        "user@example.com",
			PasswordHash: string(hashed),
			IsActive:     true,
		}
	}

	t.Run("正常系: Bearerトークンと有効期限が返る", func(t *testing.T) {
		mockTenantRepo.Mock = mock.Mock{}
		mockTenantRepo.On("FindByEmail", ctx, mock.AnythingOfType("*gorm.DB"), "user@example.com").
			Return(activeTenant(), nil).Once()

		resp, err := svc.Login(ctx, &model.LoginRequest{Email: "user@example.com", Password: password})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, 3600, resp.ExpiresIn)
		mockTenantRepo.AssertExpectations(t)
	})

	t.Run("異常系: パスワード不一致", func(t *testing.T) {
		mockTenantRepo.Mock = mock.Mock{}
		mockTenantRepo.On("FindByEmail", ctx, mock.AnythingOfType("*gorm.DB"), "user@example.com").
			Return(activeTenant(), nil).Once()

		resp, err := svc.Login(ctx, &model.LoginRequest{Email: "user@example.com", Password: "wrong-password"})
		assert.ErrorIs(t, err, model.ErrUnauthorized)
		assert.Nil(t, resp)
	})

	t.Run("異常系: 未有効化のアカウント", func(t *testing.T) {
		mockTenantRepo.Mock = mock.Mock{}
		tenant := activeTenant()
		tenant.IsActive = false
		mockTenantRepo.On("FindByEmail", ctx, mock.AnythingOfType("*gorm.DB"), "user@example.com").
			Return(tenant, nil).Once()

		resp, err := svc.Login(ctx, &model.LoginRequest{Email: "user@example.com", Password: password})
		assert.ErrorIs(t, err, model.ErrForbidden)
		assert.Nil(t, resp)
	})
}

func Test_authService_ResetPassword(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBGen()
	mockTenantRepo := new(repomocks.TenantRepository)
	mockTokenRepo := new(repomocks.TokenRepository)
	svc := NewAuthService(db, mockTenantRepo, mockTokenRepo, &LogMailer{}, testAuthConfig())

	tenantID := uuid.New()
	tokenStr := "fedcba9876543210"

	t.Run("異常系: 有効化用トークンでは再設定できない", func(t *testing.T) {
		mockTokenRepo.Mock = mock.Mock{}

		// 用途込みの検索なので有効化用トークンはヒットしない
		mockTokenRepo.On("FindByPurpose", ctx, mock.AnythingOfType("*gorm.DB"), model.TokenPurposeResetPassword, tokenStr).
			Return(nil, model.ErrNotFound).Once()

		err := svc.ResetPassword(ctx, tokenStr, "new-password-123")
		assert.ErrorIs(t, err, model.ErrInvalidInput)
		mockTokenRepo.AssertExpectations(t)
	})

	t.Run("異常系: 期限切れの再設定トークン", func(t *testing.T) {
		mockTokenRepo.Mock = mock.Mock{}

		expired := model.NewEmailToken(tokenStr, tenantID, model.TokenPurposeResetPassword)
		expired.ExpiresAt = time.Now().Add(-time.Minute)

		mockTokenRepo.On("FindByPurpose", ctx, mock.AnythingOfType("*gorm.DB"), model.TokenPurposeResetPassword, tokenStr).
			Return(expired, nil).Once()
		mockTokenRepo.On("Delete", ctx, mock.AnythingOfType("*gorm.DB"), tokenStr).
			Return(nil).Once()

		err := svc.ResetPassword(ctx, tokenStr, "new-password-123")
		assert.ErrorIs(t, err, model.ErrInvalidInput)
		mockTokenRepo.AssertExpectations(t)
	})
}
