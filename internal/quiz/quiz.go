// Package quiz は3種類のクイズ（フラッシュカード・マッチング・多肢選択）の
// 状態機械と、セッション結果のスコア集計・永続モデルへのマージを実装します。
// I/Oを持たない純粋なパッケージで、乱数は *rand.Rand を注入して決定的にテストできます。
package quiz

import (
	"errors"

	"github.com/google/uuid"

	"revocab/internal/model"
)

var (
	// ErrNoItems は空のアイテムリストでエンジンを開始しようとした場合のエラー
	ErrNoItems = errors.New("quiz: cannot start with no items")
	// ErrNotCompleted は未完了のセッションから結果を取り出そうとした場合のエラー
	ErrNotCompleted = errors.New("quiz: session is not completed")
)

// Phase はエンジンの進行状態
type Phase int

const (
	PhaseInProgress Phase = iota
	PhaseComplete
)

// QuestionText は出題方向に応じた問題面のテキストを返します。
func QuestionText(d model.Direction, item model.VocabItem) string {
	if d == model.DirectionTranslationToOriginal {
		return item.Translation
	}
	return item.Original
}

// AnswerText は出題方向に応じた解答面のテキストを返します。
func AnswerText(d model.Direction, item model.VocabItem) string {
	if d == model.DirectionTranslationToOriginal {
		return item.Original
	}
	return item.Translation
}

// PlaySource はプレイされた対象を表すタグ付きの値です。
// 通常セット (SetID) か、複数セットからの寄せ集めであるToughモードのどちらかです。
// センチネルIDの比較ではなく型レベルで区別します。
type PlaySource struct {
	tough bool
	setID uuid.UUID
}

// PlayRealSet は通常セットのプレイ元を作ります。
func PlayRealSet(setID uuid.UUID) PlaySource {
	return PlaySource{setID: setID}
}

// PlayTough はToughモードのプレイ元を作ります。
func PlayTough() PlaySource {
	return PlaySource{tough: true}
}

// IsTough はToughモードかどうかを返します。
func (s PlaySource) IsTough() bool {
	return s.tough
}

// SetID は通常セットの場合のセットIDを返します。Toughモードでは uuid.Nil です。
func (s PlaySource) SetID() uuid.UUID {
	if s.tough {
		return uuid.Nil
	}
	return s.setID
}
