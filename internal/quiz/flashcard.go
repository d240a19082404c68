// internal/quiz/flashcard.go
package quiz

import (
	"math/rand"

	"revocab/internal/model"
)

// Flashcard は1枚ずつめくって自己評価するフラッシュカードのエンジンです。
// 「わからなかった」カードは mistakes に積まれ、完了後に RepeatMistakes で
// 間違えた分だけのミニラウンドを繰り返せます。デルタはミニラウンドを跨いで
// 蓄積され、最終的な Outcome に1回だけまとめて反映されます。
type Flashcard struct {
	source         []model.VocabItem // 開始時のフルリスト（Restart用）
	deck           []model.VocabItem
	cursor         int
	flipped        bool
	sessionCorrect int
	mistakes       []model.VocabItem
	deltas         DeltaMap
	phase          Phase
	rng            *rand.Rand
}

// NewFlashcard はアイテムをシャッフルしてエンジンを生成します。
// 空のリストは ErrNoItems で拒否します（呼び出し側で入場をブロックすること）。
func NewFlashcard(items []model.VocabItem, rng *rand.Rand) (*Flashcard, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	src := make([]model.VocabItem, len(items))
	copy(src, items)
	return &Flashcard{
		source: src,
		deck:   shuffledItems(src, rng),
		deltas: make(DeltaMap),
		rng:    rng,
	}, nil
}

// Done は現在のラウンドが完了しているかを返します。
func (g *Flashcard) Done() bool {
	return g.phase == PhaseComplete
}

// Flipped は現在のカードが裏返っているかを返します。
func (g *Flashcard) Flipped() bool {
	return g.flipped
}

// Cursor は現在のカード位置を返します。
func (g *Flashcard) Cursor() int {
	return g.cursor
}

// DeckSize は現在のデッキ（ラウンド）の枚数を返します。
func (g *Flashcard) DeckSize() int {
	return len(g.deck)
}

// SessionCorrect は現在のラウンドで「わかった」と答えた枚数を返します。
func (g *Flashcard) SessionCorrect() int {
	return g.sessionCorrect
}

// MistakeCount は現在のラウンドで積まれた間違いの枚数を返します。
func (g *Flashcard) MistakeCount() int {
	return len(g.mistakes)
}

// Current は現在のカードを返します。完了時は false を返します。
func (g *Flashcard) Current() (model.VocabItem, bool) {
	if g.phase == PhaseComplete || g.cursor >= len(g.deck) {
		return model.VocabItem{}, false
	}
	return g.deck[g.cursor], true
}

// Flip はカードの表裏を切り替えます。表示のみの状態で、何度でも呼べます。
func (g *Flashcard) Flip() {
	if g.phase == PhaseComplete {
		return
	}
	g.flipped = !g.flipped
}

// Grade は現在のカードに自己評価を記録し、次のカードへ進みます。
// わからなかった場合は mistakes に積みます。最後のカードで完了状態に遷移します。
// 完了後の呼び出しは無視され false を返します（重複入力での二重採点を防ぐ）。
func (g *Flashcard) Grade(known bool) bool {
	if g.phase == PhaseComplete {
		return false
	}
	card := g.deck[g.cursor]
	g.deltas.record(card.ItemID, known)
	if known {
		g.sessionCorrect++
	} else {
		g.mistakes = append(g.mistakes, card)
	}
	g.flipped = false
	g.cursor++
	if g.cursor >= len(g.deck) {
		g.phase = PhaseComplete
	}
	return true
}

// Restart はフルセットを新しくシャッフルし、新しいセッションとして始め直します。
// セッション内カウンタ・mistakes・デルタはすべて空になります。
// すでにコミット済みの生涯カウンタには影響しません。
func (g *Flashcard) Restart() {
	g.deck = shuffledItems(g.source, g.rng)
	g.cursor = 0
	g.flipped = false
	g.sessionCorrect = 0
	g.mistakes = nil
	g.deltas = make(DeltaMap)
	g.phase = PhaseInProgress
}

// RepeatMistakes は間違えたカードだけで新しいラウンドを始めます。
// mistakes が空の場合は何もせず false を返します。
// デルタマップは意図的にクリアしません。過去ラウンド分のデルタは最終的な
// 完了時に新ラウンド分と合算してコミットされる必要があるためです。
func (g *Flashcard) RepeatMistakes() bool {
	if len(g.mistakes) == 0 {
		return false
	}
	g.deck = shuffledItems(g.mistakes, g.rng)
	g.cursor = 0
	g.flipped = false
	g.sessionCorrect = 0
	g.mistakes = nil // 新しい失敗で埋め直す
	g.phase = PhaseInProgress
	return true
}

// Outcome は完了したラウンドの結果を返します。
// スコアは現在のラウンドの枚数に対する割合、Deltas には
// 全ラウンド分の蓄積デルタがそのまま入ります。
func (g *Flashcard) Outcome() (Outcome, error) {
	if g.phase != PhaseComplete {
		return Outcome{}, ErrNotCompleted
	}
	return Outcome{
		ScorePercentage: Percentage(g.sessionCorrect, len(g.deck)),
		Deltas:          g.deltas.clone(),
	}, nil
}
