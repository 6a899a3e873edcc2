// internal/model/auth.go
package model

// 認証APIのリクエスト/レスポンスDTO

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse は有効期限付きのBearerトークンを返す
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int    `json:"expires_in,omitempty"` // 秒
}

// ForgotPasswordRequest は再設定メールの送信依頼。
// メールアドレスの存在有無はレスポンスで区別しない。
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest はメールのリンクから行うパスワード再設定。
// パスワード上限の72はbcryptの入力長に合わせている。
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}
