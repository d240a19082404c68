// internal/quiz/classifier.go
package quiz

import "revocab/internal/model"

// ToughThreshold を下回る正答率のアイテムが「苦手」に分類されます。
// 境界は排他で、ちょうど 0.81 のアイテムは含まれません。
const ToughThreshold = 0.81

// ToughItems は全セットを走査し、生涯正答率が閾値未満のアイテムを返します。
// 回答数0のアイテムは正答率0として常に含まれます。
// 副作用はなく、呼び出しごとに全件再計算されます（書き込み後の再読込で呼び直すこと）。
// 順序はセット順・セット内の保存順で安定しています。
func ToughItems(sets []model.VocabSet) []model.VocabItem {
	var tough []model.VocabItem
	for _, set := range sets {
		for _, item := range set.Items {
			if item.SuccessRate() < ToughThreshold {
				tough = append(tough, item)
			}
		}
	}
	return tough
}
