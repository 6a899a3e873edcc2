// internal/model/token.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenPurpose はメールで受け渡すワンタイムトークンの用途
type TokenPurpose string

const (
	// TokenPurposeVerifyAccount は登録直後のアカウント有効化リンク用
	TokenPurposeVerifyAccount TokenPurpose = "verify_account"
	// TokenPurposeResetPassword はパスワード再設定リンク用
	TokenPurposeResetPassword TokenPurpose = "reset_password"
)

// 用途ごとの有効期限。有効化メールは受信が遅れがちなので長めにとる
const (
	VerificationTokenTTL  = 24 * time.Hour
	PasswordResetTokenTTL = 1 * time.Hour
)

// EmailToken はメールのリンクに埋め込むワンタイムトークン。
// 用途を purpose で区別して1テーブルで管理し、使用時に削除する。
type EmailToken struct {
	Token     string       `gorm:"primaryKey"`
	TenantID  uuid.UUID    `gorm:"type:uuid;not null;index"`
	Purpose   TokenPurpose `gorm:"type:varchar(32);not null"`
	ExpiresAt time.Time    `gorm:"not null"`
}

func (EmailToken) TableName() string {
	return "email_tokens"
}

// NewEmailToken は用途に応じた有効期限でトークンを生成します
func NewEmailToken(token string, tenantID uuid.UUID, purpose TokenPurpose) *EmailToken {
	ttl := VerificationTokenTTL
	if purpose == TokenPurposeResetPassword {
		ttl = PasswordResetTokenTTL
	}
	return &EmailToken{
		Token:     token,
		TenantID:  tenantID,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(ttl),
	}
}

func (t *EmailToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}
