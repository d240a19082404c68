// internal/model/session.go
package model

import (
	"github.com/google/uuid"
)

// GameMode はクイズの種類
type GameMode string

const (
	ModeFlashcard GameMode = "flashcard"
	ModeMatching  GameMode = "matching"
	ModeChoice    GameMode = "multiple_choice"
)

// Direction は出題方向
type Direction string

const (
	DirectionOriginalToTranslation Direction = "original_to_translation"
	DirectionTranslationToOriginal Direction = "translation_to_original"
)

// StartSessionRequest はセッション開始リクエストDTO。
// SetID か Tough=true のどちらか一方を指定します。
type StartSessionRequest struct {
	SetID     *uuid.UUID `json:"set_id,omitempty"`
	Tough     bool       `json:"tough,omitempty"`
	Mode      GameMode   `json:"mode" validate:"required,oneof=flashcard matching multiple_choice"`
	Direction Direction  `json:"direction" validate:"required,oneof=original_to_translation translation_to_original"`
}

// GradeRequest はフラッシュカードの自己評価
type GradeRequest struct {
	Known *bool `json:"known" validate:"required"`
}

// SelectRequest はマッチングゲームの列選択
type SelectRequest struct {
	Side   string    `json:"side" validate:"required,oneof=left right"`
	ItemID uuid.UUID `json:"item_id" validate:"required"`
}

// AnswerRequest は多肢選択の回答
type AnswerRequest struct {
	Choice string `json:"choice" validate:"required"`
}

// --- レスポンスDTO ---

// CardView は1枚のカードの表示内容（出題方向を解決済み）
type CardView struct {
	ItemID   uuid.UUID `json:"item_id"`
	Question string    `json:"question"`
	Answer   string    `json:"answer,omitempty"` // フラッシュカードは裏返した時のみ
}

// FlashcardView はフラッシュカードセッションの現在状態
type FlashcardView struct {
	Cursor       int       `json:"cursor"`
	DeckSize     int       `json:"deck_size"`
	Flipped      bool      `json:"flipped"`
	MistakeCount int       `json:"mistake_count"`
	Card         *CardView `json:"card,omitempty"`
}

// MatchingView はマッチングゲームの現在状態
type MatchingView struct {
	PageIndex   int         `json:"page_index"`
	PageCount   int         `json:"page_count"`
	Left        []CardView  `json:"left"`
	Right       []CardView  `json:"right"`
	MatchedIDs  []uuid.UUID `json:"matched_ids"`
	PageCleared bool        `json:"page_cleared"`
}

// WrongPairView はマッチング失敗時の一時的なフィードバック
type WrongPairView struct {
	Left  uuid.UUID `json:"left"`
	Right uuid.UUID `json:"right"`
}

// ChoiceView は多肢選択の現在の問題
type ChoiceView struct {
	Cursor   int      `json:"cursor"`
	DeckSize int      `json:"deck_size"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answered bool     `json:"answered"`
}

// SessionResponse はセッション操作後の状態スナップショット
type SessionResponse struct {
	SessionID uuid.UUID `json:"session_id"`
	Mode      GameMode  `json:"mode"`
	Direction Direction `json:"direction"`
	Completed bool      `json:"completed"`

	Flashcard *FlashcardView `json:"flashcard,omitempty"`
	Matching  *MatchingView  `json:"matching,omitempty"`
	Choice    *ChoiceView    `json:"choice,omitempty"`

	// 直前の操作に対するフィードバック
	LastCorrect   *bool          `json:"last_correct,omitempty"`
	CorrectAnswer string         `json:"correct_answer,omitempty"`
	WrongPair     *WrongPairView `json:"wrong_pair,omitempty"`

	// Completed時のみ
	ScorePercentage *int `json:"score_percentage,omitempty"`
	SessionCorrect  *int `json:"session_correct,omitempty"`
}

// SessionResult はコミット完了時のレスポンス
type SessionResult struct {
	ScorePercentage int `json:"score_percentage"`
	UpdatedItems    int `json:"updated_items"`
	StreakCurrent   int `json:"streak_current"`
	StreakBest      int `json:"streak_best"`
}
