// internal/model/generation.go
package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// 生成ジョブのステータス
const (
	GenerationStatusPending   = "pending"
	GenerationStatusSucceeded = "succeeded"
	GenerationStatusFailed    = "failed"
)

// Proposal はLLMが提案した1枚のカード案
type Proposal struct {
	ProposalID string `json:"proposal_id"`
	Front      string `json:"front"`
	Back       string `json:"back"`
}

// ProposalList はJSONBカラムに保存する提案の配列
type ProposalList []Proposal

func (p ProposalList) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

func (p *ProposalList) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("unsupported type for ProposalList")
	}
	return json.Unmarshal(b, p)
}

// Generation はAI生成ジョブの記録。
// 1テナントにつき pending は高々1行 (部分ユニークインデックスで保証)。
type Generation struct {
	GenerationID   uuid.UUID    `gorm:"type:uuid;primaryKey" json:"generation_id"`
	TenantID       uuid.UUID    `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Status         string       `gorm:"type:varchar(20);not null" json:"status"`
	SourceText     string       `gorm:"type:text;not null" json:"-"`
	SourceTextHash string       `gorm:"type:char(64);not null" json:"source_text_hash"`
	SourceLength   int          `gorm:"not null" json:"source_length"`
	MaxFlashcards  int          `gorm:"not null" json:"max_flashcards"`
	Model          string       `gorm:"not null" json:"model"`
	Temperature    float64      `gorm:"not null" json:"temperature"`
	Proposals      ProposalList `gorm:"type:jsonb" json:"proposals,omitempty"`

	// コミット時に更新されるカウンタ類
	GeneratedCount        int `gorm:"default:0" json:"generated_count"`
	AcceptedCount         int `gorm:"default:0" json:"accepted_count"`
	AcceptedEditedCount   int `gorm:"default:0" json:"accepted_edited_count"`
	AcceptedUneditedCount int `gorm:"default:0" json:"accepted_unedited_count"`
	RejectedCount         int `gorm:"default:0" json:"rejected_count"`

	DurationMs   *int64  `json:"duration_ms,omitempty"`
	ErrorMessage *string `gorm:"type:text" json:"error_message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Generation) TableName() string {
	return "ai_generation_logs"
}

// ExpiresAt は生成結果の有効期限。保存せず created_at から導出する。
func (g *Generation) ExpiresAt(ttl time.Duration) time.Time {
	return g.CreatedAt.Add(ttl)
}

// GenerationErrorLog は生成まわりの5xx系エラーのベストエフォート記録
type GenerationErrorLog struct {
	ID           uint       `gorm:"primaryKey" json:"-"`
	GenerationID *uuid.UUID `gorm:"type:uuid;index" json:"generation_id,omitempty"`
	TenantID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"tenant_id"`
	ErrorCode    string     `gorm:"type:varchar(64);not null" json:"error_code"`
	ErrorMessage string     `gorm:"type:text;not null" json:"error_message"`
	Model        string     `json:"model"`
	SourceHash   string     `gorm:"type:char(64)" json:"source_hash"`
	SourceLength int        `json:"source_length"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (GenerationErrorLog) TableName() string {
	return "ai_generation_error_logs"
}

// CreateGenerationRequest は生成開始APIのリクエストボディ (DTO)
type CreateGenerationRequest struct {
	SourceText    string   `json:"source_text" validate:"required"`
	MaxFlashcards *int     `json:"max_flashcards,omitempty" validate:"omitempty,min=1,max=15"`
	Model         *string  `json:"model,omitempty"`
	Temperature   *float64 `json:"temperature,omitempty"`
}

// GenerationResponse はポーリングで返す生成ジョブの詳細
type GenerationResponse struct {
	GenerationID  uuid.UUID    `json:"generation_id"`
	Status        string       `json:"status"`
	Model         string       `json:"model"`
	MaxFlashcards int          `json:"max_flashcards"`
	Proposals     ProposalList `json:"proposals,omitempty"`
	ErrorMessage  *string      `json:"error_message,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	ExpiresAt     time.Time    `json:"expires_at"`
}

// CommitProposal はコミット対象として採用された1枚
type CommitProposal struct {
	ProposalID string `json:"proposal_id" validate:"required"`
	Front      string `json:"front" validate:"required"`
	Back       string `json:"back" validate:"required"`
}

// CommitGenerationRequest はコミットAPIのリクエストボディ
type CommitGenerationRequest struct {
	Accepted []CommitProposal `json:"accepted" validate:"required,min=1,dive"`
}

// CommitGenerationResponse は作成されたカードとコミット結果のサマリ
type CommitGenerationResponse struct {
	GenerationID          uuid.UUID    `json:"generation_id"`
	Flashcards            []*Flashcard `json:"flashcards"`
	CreatedCount          int          `json:"created_count"`
	AcceptedEditedCount   int          `json:"accepted_edited_count"`
	AcceptedUneditedCount int          `json:"accepted_unedited_count"`
	RejectedCount         int          `json:"rejected_count"`
}

// EnqueueGenerationPayload はワーカーへのディスパッチ内容。
// 生のソーステキストは含めない (ワーカーがDBから読む)。
type EnqueueGenerationPayload struct {
	GenerationID   uuid.UUID `json:"generation_id"`
	TenantID       uuid.UUID `json:"tenant_id"`
	MaxFlashcards  int       `json:"max_flashcards"`
	Model          string    `json:"model"`
	Temperature    float64   `json:"temperature"`
	SourceTextHash string    `json:"source_text_hash"`
}
