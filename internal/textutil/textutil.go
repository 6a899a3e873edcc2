// internal/textutil/textutil.go
package textutil

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"go_5_ai_flashcard/internal/config"
)

// ValidationResult は各バリデーション関数の共通の戻り値
type ValidationResult struct {
	IsValid bool
	Error   string
}

func ok() ValidationResult {
	return ValidationResult{IsValid: true}
}

func invalid(msg string) ValidationResult {
	return ValidationResult{IsValid: false, Error: msg}
}

// CountCodePoints は文字数をUnicodeコードポイント単位で数える。
// len(s) はバイト数なので多バイト文字で過大になる。
func CountCodePoints(s string) int {
	return utf8.RuneCountInString(s)
}

var (
	// 改行・タブ・CR以外の制御文字
	controlChars = regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]")
	// 改行を除く空白の連続
	horizontalSpaces = regexp.MustCompile(`[^\S\r\n]+`)
	// 3つ以上連続する改行
	excessNewlines = regexp.MustCompile(`\n{3,}`)
	// あらゆる空白の連続 (カード用)
	anySpaces = regexp.MustCompile(`\s+`)
)

// SanitizeSourceText はソーステキストを正規化する。
// 前後の空白を除去し、制御文字 (改行・タブ・CRを除く) を落とし、
// 横方向の空白の連続を1つのスペースに、空行の連続を1行までに詰める。
func SanitizeSourceText(s string) string {
	s = controlChars.ReplaceAllString(s, "")
	s = horizontalSpaces.ReplaceAllString(s, " ")
	s = excessNewlines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// SanitizeCardText はカードの表・裏のテキストを正規化する。
// こちらは改行も含め空白の連続を1つのスペースにする。
func SanitizeCardText(s string) string {
	s = controlChars.ReplaceAllString(s, "")
	s = anySpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ValidateSourceText は生成元テキストの長さを検証する。
// 長さはトリム後のコードポイント数で測る。
func ValidateSourceText(s string) ValidationResult {
	n := CountCodePoints(strings.TrimSpace(s))
	if n < config.SourceTextMinLength {
		return invalid(fmt.Sprintf("ソーステキストは%d文字以上で入力してください (現在%d文字)。", config.SourceTextMinLength, n))
	}
	if n > config.SourceTextMaxLength {
		return invalid(fmt.Sprintf("ソーステキストは%d文字以下で入力してください (現在%d文字)。", config.SourceTextMaxLength, n))
	}
	return ok()
}

// ValidateFlashcardFront はカードの表面テキストを検証する
func ValidateFlashcardFront(s string) ValidationResult {
	n := CountCodePoints(strings.TrimSpace(s))
	if n < config.FrontMinLength {
		return invalid(fmt.Sprintf("表面は%d文字以上で入力してください (現在%d文字)。", config.FrontMinLength, n))
	}
	if n > config.FrontMaxLength {
		return invalid(fmt.Sprintf("表面は%d文字以下で入力してください (現在%d文字)。", config.FrontMaxLength, n))
	}
	return ok()
}

// ValidateFlashcardBack はカードの裏面テキストを検証する
func ValidateFlashcardBack(s string) ValidationResult {
	n := CountCodePoints(strings.TrimSpace(s))
	if n < config.BackMinLength {
		return invalid(fmt.Sprintf("裏面は%d文字以上で入力してください (現在%d文字)。", config.BackMinLength, n))
	}
	if n > config.BackMaxLength {
		return invalid(fmt.Sprintf("裏面は%d文字以下で入力してください (現在%d文字)。", config.BackMaxLength, n))
	}
	return ok()
}

// ValidateTemperature は温度パラメータを検証する。nil は許容 (デフォルト適用)。
// 小数第2位までに制限する。
func ValidateTemperature(t *float64) ValidationResult {
	if t == nil {
		return ok()
	}
	v := *t
	if v < config.TemperatureMin || v > config.TemperatureMax {
		return invalid(fmt.Sprintf("temperatureは%.1fから%.1fの範囲で指定してください。", config.TemperatureMin, config.TemperatureMax))
	}
	// 100倍が整数に一致するかで判定する。1.1*100 が 110.00000000000001 に
	// なるような2進浮動小数点の表現誤差があるため、厳密な比較はできない
	scaled := v * 100
	if math.Abs(scaled-math.Round(scaled)) > 1e-9 {
		return invalid("temperatureは小数第2位までで指定してください。")
	}
	return ok()
}

// ValidateMaxFlashcards は生成枚数の上限指定を検証する
func ValidateMaxFlashcards(n int) ValidationResult {
	if n < 1 || n > config.MaxFlashcardsPerTenant {
		return invalid(fmt.Sprintf("max_flashcardsは1から%dの範囲で指定してください。", config.MaxFlashcardsPerTenant))
	}
	return ok()
}

// MightExceedPayloadSize はJSONエンコード後のリクエストが10KiBを超えそうかを
// 送信前に見積もるヒューリスティック。エスケープやメタデータ分を2割+500バイトで見込む。
func MightExceedPayloadSize(sourceText string) bool {
	estimated := float64(len(sourceText))*1.2 + 500
	return estimated > float64(config.MaxGenerationPayloadBytes)
}
