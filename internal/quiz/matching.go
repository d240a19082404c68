// internal/quiz/matching.go
package quiz

import (
	"math/rand"

	"github.com/google/uuid"

	"revocab/internal/model"
)

// MatchingPageSize は1ページのペア数。グリッドのレイアウトを揃えるため固定です。
const MatchingPageSize = 6

// MatchResult は右列選択の結果
type MatchResult int

const (
	MatchIgnored MatchResult = iota // 選択が無効（既にマッチ済み、左未選択など）
	MatchCorrect
	MatchWrong
)

// WrongPair はマッチング失敗時に点滅させる両側のアイテムID
type WrongPair struct {
	Left  uuid.UUID
	Right uuid.UUID
}

// Matching はペア合わせゲームのエンジンです。
// フルリストを一度シャッフルして6件ずつのページに分割し、ページごとに
// 左右の列を独立にシャッフルして表示します。最終ページが6件に満たず、
// かつ全体が6件以上ある場合は、セットの他のアイテムからランダムに補充します
// （ページを跨いだ重複は許容。補充はグリッドを揃えるためだけに存在します）。
type Matching struct {
	pages          [][]model.VocabItem
	pageIndex      int
	left           []model.VocabItem
	right          []model.VocabItem
	matched        map[uuid.UUID]bool
	selectedLeft   uuid.UUID
	hasSelection   bool
	wrongPair      *WrongPair
	sessionCorrect int
	deltas         DeltaMap
	phase          Phase
	rng            *rand.Rand
}

// NewMatching はアイテムをページ分割してエンジンを生成します。
func NewMatching(items []model.VocabItem, rng *rand.Rand) (*Matching, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	g := &Matching{
		pages:  buildPages(items, rng),
		deltas: make(DeltaMap),
		rng:    rng,
	}
	g.setupPage()
	return g, nil
}

// buildPages はシャッフル済みのアイテムを6件ずつに分割し、必要なら補充します。
func buildPages(items []model.VocabItem, rng *rand.Rand) [][]model.VocabItem {
	shuffled := shuffledItems(items, rng)
	numPages := (len(shuffled) + MatchingPageSize - 1) / MatchingPageSize

	pages := make([][]model.VocabItem, 0, numPages)
	for i := 0; i < numPages; i++ {
		start := i * MatchingPageSize
		end := start + MatchingPageSize
		if end > len(shuffled) {
			end = len(shuffled)
		}
		chunk := make([]model.VocabItem, end-start)
		copy(chunk, shuffled[start:end])

		// 最終ページの補充。チャンクに含まれないアイテムから引きます。
		if len(chunk) < MatchingPageSize && len(items) >= MatchingPageSize {
			inChunk := make(map[uuid.UUID]bool, len(chunk))
			for _, c := range chunk {
				inChunk[c.ItemID] = true
			}
			var pool []model.VocabItem
			for _, it := range shuffled {
				if !inChunk[it.ItemID] {
					pool = append(pool, it)
				}
			}
			fillers := shuffledItems(pool, rng)
			needed := MatchingPageSize - len(chunk)
			if needed > len(fillers) {
				needed = len(fillers)
			}
			chunk = append(chunk, fillers[:needed]...)
		}
		pages = append(pages, chunk)
	}
	return pages
}

// setupPage は現在ページの左右の列を独立にシャッフルし、選択状態をリセットします。
func (g *Matching) setupPage() {
	page := g.pages[g.pageIndex]
	g.left = shuffledItems(page, g.rng)
	g.right = shuffledItems(page, g.rng)
	g.matched = make(map[uuid.UUID]bool, len(page))
	g.hasSelection = false
	g.wrongPair = nil
}

// Done は全ページの消化が終わったかを返します。
func (g *Matching) Done() bool {
	return g.phase == PhaseComplete
}

// PageIndex は現在のページ番号を返します。
func (g *Matching) PageIndex() int {
	return g.pageIndex
}

// PageCount は総ページ数を返します。
func (g *Matching) PageCount() int {
	return len(g.pages)
}

// Left は現在ページの左列を返します。
func (g *Matching) Left() []model.VocabItem {
	return g.left
}

// Right は現在ページの右列を返します。
func (g *Matching) Right() []model.VocabItem {
	return g.right
}

// MatchedIDs は現在ページでマッチ済みのアイテムIDを返します。
func (g *Matching) MatchedIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(g.matched))
	for _, it := range g.left {
		if g.matched[it.ItemID] {
			ids = append(ids, it.ItemID)
		}
	}
	return ids
}

// SessionCorrect はセッションで成立したペア数を返します。
func (g *Matching) SessionCorrect() int {
	return g.sessionCorrect
}

// PageCleared は現在ページの全アイテムがマッチ済みかを返します。
func (g *Matching) PageCleared() bool {
	if g.phase == PhaseComplete {
		return false
	}
	return len(g.matched) == len(g.pages[g.pageIndex])
}

// WrongShown は直近のミスマッチの両側を返します。未表示なら nil です。
func (g *Matching) WrongShown() *WrongPair {
	return g.wrongPair
}

// onPage は現在ページに存在するアイテムIDかを返します。
// 左右は同一アイテム集合の二言語表示なので、片側の走査で足ります。
func (g *Matching) onPage(id uuid.UUID) bool {
	for _, it := range g.left {
		if it.ItemID == id {
			return true
		}
	}
	return false
}

// SelectLeft は左列のアイテムを選択します。
// マッチ済みのID・現在ページに存在しないIDは無視します。
// 表示中のミスマッチフラグはここでクリアされます。
func (g *Matching) SelectLeft(id uuid.UUID) bool {
	if g.phase == PhaseComplete || g.matched[id] || !g.onPage(id) {
		return false
	}
	g.wrongPair = nil
	g.selectedLeft = id
	g.hasSelection = true
	return true
}

// SelectRight は右列のアイテムを選択し、左の選択と突き合わせます。
// 左未選択・マッチ済みID・現在ページに存在しないIDは無視します。
// 左右は同一アイテムの二言語表示なので、IDの一致がそのまま正解です。
// 正解は +1 correct、ミスマッチは左選択側に +1 wrong を記録し、
// WRONG_SHOWN状態に入ります（ClearWrongで解除）。
func (g *Matching) SelectRight(id uuid.UUID) MatchResult {
	if g.phase == PhaseComplete || !g.hasSelection || g.matched[id] || !g.onPage(id) {
		return MatchIgnored
	}
	if g.selectedLeft == id {
		g.matched[id] = true
		g.sessionCorrect++
		g.deltas.record(id, true)
		g.hasSelection = false
		return MatchCorrect
	}
	g.wrongPair = &WrongPair{Left: g.selectedLeft, Right: id}
	g.deltas.record(g.selectedLeft, false)
	return MatchWrong
}

// ClearWrong はミスマッチ表示を解除し、選択状態を空に戻します。
func (g *Matching) ClearWrong() {
	g.wrongPair = nil
	g.hasSelection = false
}

// AdvancePage は現在ページが全てマッチ済みのときに次のページへ進みます。
// 最終ページを消化すると完了状態に遷移します。UIのディレイの代わりに
// 決定的な呼び出しとしてモデル化しています。
func (g *Matching) AdvancePage() bool {
	if g.phase == PhaseComplete || !g.PageCleared() {
		return false
	}
	g.pageIndex++
	if g.pageIndex >= len(g.pages) {
		g.phase = PhaseComplete
		return true
	}
	g.setupPage()
	return true
}

// Outcome は完了したセッションの結果を返します。
// スコアの分母は pages * 6 の総スロット数です。補充による重複アイテムの分だけ
// 実セット数より大きくなり得る近似値で、100%でキャップされます。
func (g *Matching) Outcome() (Outcome, error) {
	if g.phase != PhaseComplete {
		return Outcome{}, ErrNotCompleted
	}
	totalSlots := len(g.pages) * MatchingPageSize
	return Outcome{
		ScorePercentage: Percentage(g.sessionCorrect, totalSlots),
		Deltas:          g.deltas.clone(),
	}, nil
}
