// internal/model/error.go
package model

import "errors"

// アプリケーション固有のエラー
var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInternalServer  = errors.New("internal server error")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrTenantNotFound  = errors.New("tenant not found or invalid")
	ErrConflict        = errors.New("resource conflict") // 重複エラー用
	ErrLimitReached    = errors.New("resource limit reached")
	ErrPayloadTooLarge = errors.New("payload too large")
	ErrValidation      = errors.New("schema validation failed")
)

// エラーコード (レスポンスの error.code に入る文字列)
const (
	CodeGenerationPending      = "GENERATION_PENDING"
	CodeFlashcardLimitReached  = "FLASHCARD_LIMIT_REACHED"
	CodeFlashcardDuplicate     = "FLASHCARD_DUPLICATE"
	CodeFlashcardUpdateEmpty   = "FLASHCARD_UPDATE_EMPTY"
	CodeGenerationFailed       = "GENERATION_FAILED"
	CodeGenerationExpired      = "GENERATION_EXPIRED"
	CodeQueueEnqueueFailed     = "QUEUE_ENQUEUE_FAILED"
	CodeDBCheckFailed          = "DB_CHECK_FAILED"
	CodeDBWriteFailed          = "DB_WRITE_FAILED"
	CodeSchemaValidationFailed = "SCHEMA_VALIDATION_FAILED"
	CodeValidationError        = "VALIDATION_ERROR"
	CodePayloadTooLarge        = "PAYLOAD_TOO_LARGE"
	CodeInternalError          = "INTERNAL_ERROR"
)

// ErrorDetail はクライアントに返すエラーの詳細
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// APIErrorResponse はAPIエラーレスポンスのエンベロープ
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// AppError はエラーコード付きのアプリケーションエラー。
// ラップしたセンチネルエラーでHTTPステータスコードが決まる。
type AppError struct {
	Detail ErrorDetail
	err    error
}

func NewAppError(code, message, field string, err error) *AppError {
	return &AppError{
		Detail: ErrorDetail{
			Code:    code,
			Message: message,
			Field:   field,
		},
		err: err,
	}
}

func (e *AppError) Error() string {
	if e.err != nil {
		return e.Detail.Code + ": " + e.Detail.Message + " (" + e.err.Error() + ")"
	}
	return e.Detail.Code + ": " + e.Detail.Message
}

func (e *AppError) Unwrap() error {
	return e.err
}
