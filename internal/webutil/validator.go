// internal/webutil/validator.go
package webutil

import (
	"log"
	"reflect"
	"strings"

	"go_5_ai_flashcard/internal/model"

	"github.com/go-playground/locales/ja" // 日本語ロケール
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ja_translations "github.com/go-playground/validator/v10/translations/ja" // 日本語翻訳
)

// Validator はアプリケーション全体で共有されるバリデータインスタンスです。
var Validator *validator.Validate

// Trans はエラーメッセージを翻訳するためのトランスレータです。
var Trans ut.Translator

var fieldNameTranslations = map[string]string{
	"name":           "名前",
	"email":          "メールアドレス",
	"password":       "パスワード",
	"source_text":    "ソーステキスト",
	"max_flashcards": "生成枚数",
	"front":          "表面",
	"back":           "裏面",
	"accepted":       "採用カード",
	// ... 他のフィールドもここに追加 ...
}

func init() {
	// バリデータのインスタンスを生成
	Validator = validator.New()

	// JSONタグからフィールド名を取得するように設定
	Validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// 日本語のロケールとトランスレータを設定
	japanese := ja.New()
	uni := ut.New(japanese, japanese)
	var found bool
	Trans, found = uni.GetTranslator("ja")
	if !found {
		log.Fatal("translator not found")
	}

	// バリデータに日本語の翻訳を登録
	if err := ja_translations.RegisterDefaultTranslations(Validator, Trans); err != nil {
		log.Fatal(err)
	}

	// 個別のエラーメッセージを上書き・カスタマイズ
	registerTranslation := func(tag string, msg string) {
		Validator.RegisterTranslation(tag, Trans, func(ut ut.Translator) error {
			return ut.Add(tag, msg, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			fieldName := fe.Field()
			translatedFieldName, ok := fieldNameTranslations[fieldName]
			if !ok {
				// マップにない場合は、元のjsonタグ名をそのまま使う
				translatedFieldName = fieldName
			}
			t, _ := ut.T(tag, translatedFieldName)
			return t
		})
	}

	registerTranslation("required", "{0}は必須項目です。")
	registerTranslation("email", "{0}は有効なメールアドレス形式ではありません。")

	// min/max はパラメータ ({1}) も埋め込む
	registerRangeTranslation := func(tag string, msg string) {
		Validator.RegisterTranslation(tag, Trans, func(ut ut.Translator) error {
			return ut.Add(tag, msg, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			fieldName := fe.Field()
			translatedFieldName, ok := fieldNameTranslations[fieldName]
			if !ok {
				translatedFieldName = fieldName
			}
			t, _ := ut.T(tag, translatedFieldName, fe.Param())
			return t
		})
	}

	registerRangeTranslation("min", "{0}は{1}以上で入力してください。")
	registerRangeTranslation("max", "{0}は{1}以下で入力してください。")
}

// NewValidationErrorResponse は最初のバリデーションエラーを代表として AppError に変換します
func NewValidationErrorResponse(validationErrors validator.ValidationErrors) *model.AppError {
	firstErr := validationErrors[0]
	return model.NewAppError(
		model.CodeSchemaValidationFailed,
		firstErr.Translate(Trans),
		firstErr.Field(),
		model.ErrValidation,
	)
}
