// internal/quiz/shuffle.go
package quiz

import (
	"math/rand"

	"revocab/internal/model"
)

// shuffledItems は一様ランダムな並べ替えのコピーを返します (Fisher–Yates)。
// 元のスライスは変更しません。
func shuffledItems(items []model.VocabItem, rng *rand.Rand) []model.VocabItem {
	out := make([]model.VocabItem, len(items))
	copy(out, items)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// shuffledStrings は文字列スライスの一様ランダムな並べ替えのコピーを返します。
func shuffledStrings(ss []string, rng *rand.Rand) []string {
	out := make([]string, len(ss))
	copy(out, ss)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
