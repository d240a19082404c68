// internal/quiz/flashcard_test.go
package quiz

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revocab/internal/model"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func makeItems(n int) []model.VocabItem {
	items := make([]model.VocabItem, n)
	for i := range items {
		items[i] = newTestItem("orig", "trans", 0, 0)
	}
	return items
}

func TestNewFlashcard_空のリストは拒否される(t *testing.T) {
	_, err := NewFlashcard(nil, testRand())
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestFlashcard_N回の採点でちょうど1回完了する(t *testing.T) {
	items := makeItems(5)
	g, err := NewFlashcard(items, testRand())
	require.NoError(t, err)

	// 4問known、1問unknown
	for i := 0; i < 5; i++ {
		require.False(t, g.Done())
		ok := g.Grade(i != 2)
		require.True(t, ok)
	}

	require.True(t, g.Done())
	outcome, err := g.Outcome()
	require.NoError(t, err)
	assert.Equal(t, 80, outcome.ScorePercentage)

	// 完了後の採点は無視される
	assert.False(t, g.Grade(true))
	after, err := g.Outcome()
	require.NoError(t, err)
	assert.Equal(t, outcome.ScorePercentage, after.ScorePercentage)
}

func TestFlashcard_デッキは元リストの並べ替え(t *testing.T) {
	items := makeItems(10)
	g, err := NewFlashcard(items, testRand())
	require.NoError(t, err)

	seen := make(map[uuid.UUID]int)
	for !g.Done() {
		card, ok := g.Current()
		require.True(t, ok)
		seen[card.ItemID]++
		g.Grade(true)
	}

	assert.Len(t, seen, 10)
	for _, count := range seen {
		assert.Equal(t, 1, count)
	}
}

func TestFlashcard_Flipは表示のみで採点に影響しない(t *testing.T) {
	g, err := NewFlashcard(makeItems(2), testRand())
	require.NoError(t, err)

	assert.False(t, g.Flipped())
	g.Flip()
	assert.True(t, g.Flipped())
	g.Flip()
	g.Flip()
	assert.True(t, g.Flipped())

	g.Grade(true)
	// 採点で表に戻る
	assert.False(t, g.Flipped())
}

func TestFlashcard_ミスのリプレイはデルタを保存する(t *testing.T) {
	items := makeItems(3)
	g, err := NewFlashcard(items, testRand())
	require.NoError(t, err)

	// 1ラウンド目: 全てunknown
	var firstRound []uuid.UUID
	for !g.Done() {
		card, _ := g.Current()
		firstRound = append(firstRound, card.ItemID)
		g.Grade(false)
	}
	require.Equal(t, 3, g.MistakeCount())

	// リプレイ開始。デルタは持ち越し、mistakesは空に戻る
	require.True(t, g.RepeatMistakes())
	require.False(t, g.Done())
	assert.Equal(t, 3, g.DeckSize())
	assert.Equal(t, 0, g.MistakeCount())

	// 2ラウンド目: 全てknown
	for !g.Done() {
		g.Grade(true)
	}

	outcome, err := g.Outcome()
	require.NoError(t, err)
	// ミニラウンドのスコアは2ラウンド目のもの
	assert.Equal(t, 100, outcome.ScorePercentage)

	// 両ラウンドのイベントが合算されている: 各アイテム wrong1 + correct1
	require.Len(t, outcome.Deltas, 3)
	for _, d := range outcome.Deltas {
		assert.Equal(t, Delta{Correct: 1, Wrong: 1}, d)
	}
}

func TestFlashcard_ミスが無ければリプレイは何もしない(t *testing.T) {
	g, err := NewFlashcard(makeItems(2), testRand())
	require.NoError(t, err)
	for !g.Done() {
		g.Grade(true)
	}

	assert.False(t, g.RepeatMistakes())
	assert.True(t, g.Done())
}

func TestFlashcard_Restartはフルデッキで新しいセッションを始める(t *testing.T) {
	items := makeItems(4)
	g, err := NewFlashcard(items, testRand())
	require.NoError(t, err)

	for !g.Done() {
		g.Grade(false)
	}
	require.True(t, g.RepeatMistakes())
	g.Grade(false) // リプレイ中に1件記録

	g.Restart()

	assert.False(t, g.Done())
	assert.Equal(t, 4, g.DeckSize())
	assert.Equal(t, 0, g.Cursor())
	assert.Equal(t, 0, g.MistakeCount())
	assert.Equal(t, 0, g.SessionCorrect())

	// デルタは空から始まる
	for !g.Done() {
		g.Grade(true)
	}
	outcome, err := g.Outcome()
	require.NoError(t, err)
	for _, d := range outcome.Deltas {
		assert.Equal(t, Delta{Correct: 1}, d)
	}
}

func TestFlashcard_未完了でOutcomeは取り出せない(t *testing.T) {
	g, err := NewFlashcard(makeItems(3), testRand())
	require.NoError(t, err)
	g.Grade(true)

	_, err = g.Outcome()
	assert.ErrorIs(t, err, ErrNotCompleted)
}
