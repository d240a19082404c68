// internal/quiz/choice.go
package quiz

import (
	"math/rand"

	"revocab/internal/model"
)

// choiceOptionCount は1問あたりの最大選択肢数（正解1 + ディストラクタ3）
const choiceOptionCount = 4

// Choice は多肢選択クイズのエンジンです。
// 問題ごとに、セットの残りのアイテムから解答面のテキストを重複なしで
// 最大3件引いてディストラクタにし、正解と混ぜてシャッフルします。
// セット全体のアイテム数が4未満の場合は選択肢が min(4, アイテム数) 件に減ります。
// ディストラクタのテキストが正解と偶然一致する可能性は排除しません
// （セット内の訳語重複はデータ品質の問題としてエンジンの責務外）。
type Choice struct {
	deck           []model.VocabItem
	cursor         int
	direction      model.Direction
	options        []string
	answered       bool
	lastCorrect    bool
	sessionCorrect int
	deltas         DeltaMap
	phase          Phase
	rng            *rand.Rand
}

// NewChoice はアイテムをシャッフルしてエンジンを生成し、最初の問題を準備します。
func NewChoice(items []model.VocabItem, direction model.Direction, rng *rand.Rand) (*Choice, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	g := &Choice{
		deck:      shuffledItems(items, rng),
		direction: direction,
		deltas:    make(DeltaMap),
		rng:       rng,
	}
	g.prepareOptions()
	return g, nil
}

// prepareOptions は現在の問題の選択肢を組み立てます。
func (g *Choice) prepareOptions() {
	current := g.deck[g.cursor]
	correct := AnswerText(g.direction, current)

	var pool []model.VocabItem
	for _, it := range g.deck {
		if it.ItemID != current.ItemID {
			pool = append(pool, it)
		}
	}
	distractors := shuffledItems(pool, g.rng)
	n := choiceOptionCount - 1
	if n > len(distractors) {
		n = len(distractors)
	}

	opts := make([]string, 0, n+1)
	for _, d := range distractors[:n] {
		opts = append(opts, AnswerText(g.direction, d))
	}
	opts = append(opts, correct)
	g.options = shuffledStrings(opts, g.rng)
	g.answered = false
	g.lastCorrect = false
}

// Done は全問の消化が終わったかを返します。
func (g *Choice) Done() bool {
	return g.phase == PhaseComplete
}

// Cursor は現在の問題番号を返します。
func (g *Choice) Cursor() int {
	return g.cursor
}

// DeckSize は総問題数を返します。
func (g *Choice) DeckSize() int {
	return len(g.deck)
}

// SessionCorrect は正解数を返します。
func (g *Choice) SessionCorrect() int {
	return g.sessionCorrect
}

// Answered は現在の問題が回答済みかを返します。
func (g *Choice) Answered() bool {
	return g.answered
}

// Current は現在の問題のアイテムを返します。完了時は false を返します。
func (g *Choice) Current() (model.VocabItem, bool) {
	if g.phase == PhaseComplete {
		return model.VocabItem{}, false
	}
	return g.deck[g.cursor], true
}

// Options は現在の問題の選択肢を返します。
func (g *Choice) Options() []string {
	return g.options
}

// CorrectAnswer は現在の問題の正解テキストを返します。
func (g *Choice) CorrectAnswer() string {
	if g.phase == PhaseComplete {
		return ""
	}
	return AnswerText(g.direction, g.deck[g.cursor])
}

// Answer は選択肢を回答として記録します。正解テキストとの完全一致で判定します。
// 既に回答済みの問題への再回答は無視され false を返します（二重採点を防ぐ）。
// 次の問題へは Advance で進みます。
func (g *Choice) Answer(choice string) bool {
	if g.phase == PhaseComplete || g.answered {
		return false
	}
	current := g.deck[g.cursor]
	correct := choice == AnswerText(g.direction, current)
	g.deltas.record(current.ItemID, correct)
	if correct {
		g.sessionCorrect++
	}
	g.answered = true
	g.lastCorrect = correct
	return true
}

// LastCorrect は直前の回答が正解だったかを返します。
func (g *Choice) LastCorrect() bool {
	return g.lastCorrect
}

// Advance は回答済みの問題から次の問題へ進みます。
// 最終問題の後は完了状態に遷移します。未回答では進めません。
func (g *Choice) Advance() bool {
	if g.phase == PhaseComplete || !g.answered {
		return false
	}
	g.cursor++
	if g.cursor >= len(g.deck) {
		g.phase = PhaseComplete
		return true
	}
	g.prepareOptions()
	return true
}

// Outcome は完了したセッションの結果を返します。分母は総問題数です。
func (g *Choice) Outcome() (Outcome, error) {
	if g.phase != PhaseComplete {
		return Outcome{}, ErrNotCompleted
	}
	return Outcome{
		ScorePercentage: Percentage(g.sessionCorrect, len(g.deck)),
		Deltas:          g.deltas.clone(),
	}, nil
}
