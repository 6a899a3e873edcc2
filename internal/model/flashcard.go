// internal/model/flashcard.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// フラッシュカードの出自
const (
	FlashcardSourceManual   = "manual"
	FlashcardSourceAIFull   = "ai-full"   // AI提案をそのまま採用
	FlashcardSourceAIEdited = "ai-edited" // AI提案を編集して採用
)

// Flashcard は1枚のフラッシュカード。
// テナントごとに15枚が上限 (DBトリガーで強制)。front はテナント内でユニーク。
// 上限カウントを正確に保つため論理削除は使わない。
type Flashcard struct {
	FlashcardID  uuid.UUID  `gorm:"type:uuid;primaryKey" json:"flashcard_id"`
	TenantID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_flashcard_front" json:"tenant_id"`
	Front        string     `gorm:"type:varchar(200);not null;uniqueIndex:uq_flashcard_front" json:"front"`
	Back         string     `gorm:"type:varchar(500);not null" json:"back"`
	Source       string     `gorm:"type:varchar(20);not null;default:manual" json:"source"`
	GenerationID *uuid.UUID `gorm:"type:uuid" json:"generation_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Flashcard) TableName() string {
	return "flashcards"
}

// PostFlashcardRequest は手動作成APIのリクエストボディ (DTO)
type PostFlashcardRequest struct {
	Front string `json:"front" validate:"required"`
	Back  string `json:"back" validate:"required"`
}

// PatchFlashcardRequest は部分更新APIのリクエストボディ。
// どちらも nil の場合は400を返す。
type PatchFlashcardRequest struct {
	Front *string `json:"front,omitempty"`
	Back  *string `json:"back,omitempty"`
}
