// internal/quiz/reconciler.go
package quiz

import (
	"revocab/internal/model"
)

// Commit は完了したセッションのデルタを、真の所有セットへ加算適用した
// セットコレクションの完全な置き換えを返します。I/Oは行いません。
//
//   - 適用は加算です: newCount = oldCount + delta。同じOutcomeを2回適用しては
//     いけません（Reconcilerが完了したセッションごとに1回だけ呼びます）。
//   - カウンタのみを更新します。original/translation のテキストはゲームプレイで
//     変更されません。
//   - 直接プレイされた通常セットにのみ lastScore を設定します。
//   - Toughモードのセッションではどのセットの lastScore も変更しません。
//     アイテムは由来するセットがいくつあっても全セット走査でパッチされます。
//   - デルタに含まれるが所有セットが既に存在しないアイテムは黙ってスキップされます
//     （セッション中に削除されたデータは更新を放棄します）。
func Commit(sets []model.VocabSet, source PlaySource, outcome Outcome) []model.VocabSet {
	out := make([]model.VocabSet, len(sets))
	for i, set := range sets {
		set.Items = ApplyDeltas(set.Items, outcome.Deltas)

		if !source.IsTough() && set.SetID == source.SetID() {
			score := outcome.ScorePercentage
			set.LastScore = &score
		}
		out[i] = set
	}
	return out
}
