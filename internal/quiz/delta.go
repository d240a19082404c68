// internal/quiz/delta.go
package quiz

import (
	"math"

	"github.com/google/uuid"

	"revocab/internal/model"
)

// Delta は1セッション中に1アイテムへ記録された正誤イベントの合計
type Delta struct {
	Correct int
	Wrong   int
}

// DeltaMap はアイテムIDごとのセッション内デルタ。
// エンジンが実行中に蓄積し、完了時に Outcome に畳み込まれます。
type DeltaMap map[uuid.UUID]Delta

// clone はマップのコピーを返します。Outcome が取り出された後に
// エンジン側がデルタをクリアしても（Restartなど）結果が変わらないようにします。
func (m DeltaMap) clone() DeltaMap {
	out := make(DeltaMap, len(m))
	for id, d := range m {
		out[id] = d
	}
	return out
}

// record は1件の正誤イベントを加算します。
func (m DeltaMap) record(itemID uuid.UUID, correct bool) {
	d := m[itemID]
	if correct {
		d.Correct++
	} else {
		d.Wrong++
	}
	m[itemID] = d
}

// Outcome は完了したセッションの結果です。
// Deltas はこのセッションで触れたアイテムごとの正誤イベントの合計で、
// Reconcilerがちょうど1回、永続カウンタへ加算適用して消費します。
type Outcome struct {
	ScorePercentage int
	Deltas          DeltaMap
}

// Percentage はセッションスコアを百分率に変換します。[0,100]にクランプされ、
// 四捨五入されます。total が 0 の場合は 0 を返します。
func Percentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	p := int(math.Round(100 * float64(correct) / float64(total)))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// ApplyDeltas はデルタを永続アイテムに加算適用したコピーを返します。
// デルタに含まれないアイテムはそのまま返されます。加算は可換で、
// 同じパッチを2回適用してはいけません（エンジンが完了時に1回だけ適用します）。
func ApplyDeltas(items []model.VocabItem, deltas DeltaMap) []model.VocabItem {
	out := make([]model.VocabItem, len(items))
	for i, item := range items {
		if d, ok := deltas[item.ItemID]; ok {
			item.CorrectCount += d.Correct
			item.WrongCount += d.Wrong
		}
		out[i] = item
	}
	return out
}
