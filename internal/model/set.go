// internal/model/set.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VocabItem は単語ペアと生涯の正誤カウンタを表します。
// カウンタは単調増加で、ゲームプレイ以外では変更されません。
type VocabItem struct {
	ItemID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"item_id"`
	SetID        uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Position     int       `gorm:"not null;default:0" json:"-"` // セット内の表示順
	Original     string    `gorm:"not null" json:"original"`    // 外国語側
	Translation  string    `gorm:"not null" json:"translation"` // 訳語側
	CorrectCount int       `gorm:"not null;default:0" json:"correct_count"`
	WrongCount   int       `gorm:"not null;default:0" json:"wrong_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (VocabItem) TableName() string {
	return "vocab_items"
}

// Attempts は生涯の総回答数を返します。
func (i VocabItem) Attempts() int {
	return i.CorrectCount + i.WrongCount
}

// SuccessRate は生涯の正答率を返します。回答数0のアイテムは0として扱います。
func (i VocabItem) SuccessRate() float64 {
	total := i.Attempts()
	if total == 0 {
		return 0
	}
	return float64(i.CorrectCount) / float64(total)
}

// SetMetadata は写真から抽出したコンテキスト情報（自由記述、空でも良い）
type SetMetadata struct {
	Language string `json:"language"`
	Grade    string `json:"grade"`
	Chapter  string `json:"chapter"`
	Page     string `json:"page"`
}

// VocabSet は単語セットを表します。Items がセットの語彙の正となるリストです。
// LastScore はこのセットを直接プレイした直近セッションのスコアのみを反映します。
type VocabSet struct {
	SetID     uuid.UUID      `gorm:"type:uuid;primaryKey" json:"set_id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"-"`
	Title     string         `gorm:"not null" json:"title"`
	Language  string         `json:"-"`
	Grade     string         `json:"-"`
	Chapter   string         `json:"-"`
	Page      string         `json:"-"`
	LastScore *int           `json:"last_score,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// 関連 (Preload用)。Position順で取得します。
	Items []VocabItem `gorm:"foreignKey:SetID;references:SetID" json:"items"`
}

func (VocabSet) TableName() string {
	return "vocab_sets"
}

// Metadata はカラムに展開したメタデータをDTO形状に戻します。
func (s VocabSet) Metadata() SetMetadata {
	return SetMetadata{
		Language: s.Language,
		Grade:    s.Grade,
		Chapter:  s.Chapter,
		Page:     s.Page,
	}
}

// --- DTO ---

// ItemPayload はセット作成・更新時の単語ペア
type ItemPayload struct {
	Original    string `json:"original" validate:"required,min=1"`
	Translation string `json:"translation" validate:"required,min=1"`
}

// PostSetRequest はセット作成リクエストDTO
type PostSetRequest struct {
	Title    string        `json:"title" validate:"required,min=1,max=200"`
	Metadata SetMetadata   `json:"metadata"`
	Items    []ItemPayload `json:"items" validate:"required,min=1,dive"`
}

// PatchSetRequest はセット更新（部分）リクエストDTO。
// Items を渡すとセットの語彙リスト全体を置き換えます（カウンタは既存IDについて引き継がれません。
// 語彙の編集は新しいアイテムとして扱います）。
type PatchSetRequest struct {
	Title    *string       `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Metadata *SetMetadata  `json:"metadata,omitempty"`
	Items    []ItemPayload `json:"items,omitempty" validate:"omitempty,min=1,dive"`
}

// SetResponse はクライアントに返すセット情報
type SetResponse struct {
	SetID     uuid.UUID   `json:"set_id"`
	Title     string      `json:"title"`
	Metadata  SetMetadata `json:"metadata"`
	LastScore *int        `json:"last_score,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	Items     []VocabItem `json:"items"`
}

// NewSetResponse はVocabSetからレスポンスDTOを組み立てます。
func NewSetResponse(s *VocabSet) *SetResponse {
	return &SetResponse{
		SetID:     s.SetID,
		Title:     s.Title,
		Metadata:  s.Metadata(),
		LastScore: s.LastScore,
		CreatedAt: s.CreatedAt,
		Items:     s.Items,
	}
}

// --- 抽出コラボレータ ---

// ExtractedPair は抽出サービスが返す単語ペア
type ExtractedPair struct {
	Original    string `json:"original"`
	Translation string `json:"translation"`
}

// ExtractionResult は抽出サービス (画像 -> 語彙リスト) の出力形状
type ExtractionResult struct {
	Metadata   SetMetadata     `json:"metadata"`
	Vocabulary []ExtractedPair `json:"vocabulary"`
}

// ExtractSetRequest は画像からセット下書きを作るリクエストDTO
type ExtractSetRequest struct {
	Image string `json:"image" validate:"required"` // base64エンコード済み画像
	Title string `json:"title" validate:"omitempty,max=200"`
}
