// internal/webutil/request.go
package webutil

import (
	"encoding/json"
	"errors"
	"net/http"

	"go_5_ai_flashcard/internal/model"
)

// DecodeJSONBody はリクエストボディをデコードします。
// 未知のフィールドはエラーにします。http.MaxBytesReader による
// サイズ超過は model.ErrPayloadTooLarge として返す。
func DecodeJSONBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return model.ErrInvalidInput
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return model.ErrPayloadTooLarge
		}
		return model.ErrInvalidInput
	}
	return nil
}
