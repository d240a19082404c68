// internal/service/session_service.go
package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"revocab/internal/middleware"
	"revocab/internal/model"
	"revocab/internal/quiz"
	"revocab/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionService インターフェース。
// アクティブなクイズセッションはメモリ上のレジストリで管理し、
// DBへの書き込みは Finish（コミット）の1回だけです。
// Abandon やTTL失効では一切書き込みません。
type SessionService interface {
	StartSession(ctx context.Context, userID uuid.UUID, req *model.StartSessionRequest) (*model.SessionResponse, error)
	GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*model.SessionResponse, error)
	Flip(ctx context.Context, userID, sessionID uuid.UUID) (*model.SessionResponse, error)
	Grade(ctx context.Context, userID, sessionID uuid.UUID, known bool) (*model.SessionResponse, error)
	Select(ctx context.Context, userID, sessionID uuid.UUID, req *model.SelectRequest) (*model.SessionResponse, error)
	ClearWrong(ctx context.Context, userID, sessionID uuid.UUID) (*model.SessionResponse, error)
	Answer(ctx context.Context, userID, sessionID uuid.UUID, choice string) (*model.SessionResponse, error)
	Advance(ctx context.Context, userID, sessionID uuid.UUID) (*model.SessionResponse, error)
	RepeatMistakes(ctx context.Context, userID, sessionID uuid.UUID) (*model.SessionResponse, error)
	Restart(ctx context.Context, userID, sessionID uuid.UUID) (*model.SessionResponse, error)
	Finish(ctx context.Context, userID, sessionID uuid.UUID) (*model.SessionResult, error)
	Abandon(ctx context.Context, userID, sessionID uuid.UUID) error
	SweepExpired(ctx context.Context, ttl time.Duration) int
}

// activeSession は進行中の1セッションの状態です。
// モードに対応するエンジンだけが non-nil になります。
type activeSession struct {
	sessionID uuid.UUID
	userID    uuid.UUID
	mode      model.GameMode
	direction model.Direction
	source    quiz.PlaySource

	flashcard *quiz.Flashcard
	matching  *quiz.Matching
	choice    *quiz.Choice

	lastTouched time.Time
}

type sessionService struct {
	db         *gorm.DB
	setRepo    repository.SetRepository
	streakRepo repository.StreakRepository

	mu       sync.Mutex
	sessions map[uuid.UUID]*activeSession

	now     func() time.Time
	newRand func() *rand.Rand
}

func NewSessionService(db *gorm.DB, setRepo repository.SetRepository, streakRepo repository.StreakRepository) SessionService {
	return &sessionService{
		db:         db,
		setRepo:    setRepo,
		streakRepo: streakRepo,
		sessions:   make(map[uuid.UUID]*activeSession),
		now:        time.Now,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

func (s *sessionService) StartSession(ctx context.Context, userID uuid.UUID, req *model.StartSessionRequest) (*model.SessionResponse, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)

	if req.Tough == (req.SetID != nil) {
		return nil, model.NewAppError("INVALID_INPUT", "set_id か tough のどちらか一方を指定してください。", "set_id", model.ErrInvalidInput)
	}

	var (
		items  []model.VocabItem
		source quiz.PlaySource
	)
	if req.Tough {
		sets, err := s.setRepo.FindByUser(ctx, s.db, userID)
		if err != nil {
			return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "セットの読み込みに失敗しました。", "", err)
		}
		items = quiz.ToughItems(sets)
		source = quiz.PlayTough()
		if len(items) == 0 {
			return nil, model.NewAppError("NO_TOUGH_ITEMS", "苦手な単語がまだありません。", "", model.ErrInvalidInput)
		}
	} else {
		set, err := s.setRepo.FindByID(ctx, s.db, userID, *req.SetID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return nil, model.NewAppError("NOT_FOUND", "セットが見つかりません。", "set_id", model.ErrNotFound)
			}
			return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "セットの読み込みに失敗しました。", "", err)
		}
		items = set.Items
		source = quiz.PlayRealSet(set.SetID)
		if len(items) == 0 {
			return nil, model.NewAppError("EMPTY_SET", "空のセットではプレイできません。", "set_id", model.ErrInvalidInput)
		}
	}

	sess := &activeSession{
		sessionID:   uuid.New(),
		userID:      userID,
		mode:        req.Mode,
		direction:   req.Direction,
		source:      source,
		lastTouched: s.now(),
	}

	rng := s.newRand()
	var err error
	switch req.Mode {
	case model.ModeFlashcard:
		sess.flashcard, err = quiz.NewFlashcard(items, rng)
	case model.ModeMatching:
		sess.matching, err = quiz.NewMatching(items, rng)
	case model.ModeChoice:
		sess.choice, err = quiz.NewChoice(items, req.Direction, rng)
	default:
		return nil, model.NewAppError("INVALID_INPUT", "不明なゲームモードです。", "mode", model.ErrInvalidInput)
	}
	if err != nil {
		return nil, model.NewAppError("EMPTY_SET", "空のセットではプレイできません。", "", model.ErrInvalidInput)
	}

	s.mu.Lock()
	s.sessions[sess.sessionID] = sess
	s.mu.Unlock()

	logger.Info("Session started",
		"session_id", sess.sessionID.String(),
		"mode", string(sess.mode),
		"tough", source.IsTough(),
		"items", len(items),
	)
	return s.snapshot(sess), nil
}

// lookup はセッションを取得し lastTouched を更新します。
// 他ユーザーのセッションIDは存在しないものとして扱います。
func (s *sessionService) lookup(userID, sessionID uuid.UUID) (*activeSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok || sess.userID != userID {
		return nil, model.NewAppError("SESSION_GONE", "セッションが存在しないか期限切れです。", "", model.ErrSessionGone)
	}
	sess.lastTouched = s.now()
	return sess, nil
}

func (s *sessionService) drop(sessionID uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

func (s *sessionService) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*model.SessionResponse, error) {
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.snapshot(sess), nil
}

func (s *sessionService) Flip(ctx context.Context, userID, sessionID uuid.UUID) (*model.SessionResponse, error) {
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.flashcard == nil {
		return nil, wrongModeError()
	}
	sess.flashcard.Flip()
	return s.snapshot(sess), nil
}

func (s *sessionService) Grade(ctx context.Context, userID, sessionID uuid.UUID, known bool) (*model.SessionResponse, error) {
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.flashcard == nil {
		return nil, wrongModeError()
	}
	sess.flashcard.Grade(known)
	return s.snapshot(sess), nil
}

func (s *sessionService) Select(ctx context.Context, userID, sessionID uuid.UUID, req *model.SelectRequest) (*model.SessionResponse, error) {
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.matching == nil {
		return nil, wrongModeError()
	}

	var feedback *model.SessionResponse
	switch req.Side {
	case "left":
		sess.matching.SelectLeft(req.ItemID)
		feedback = s.snapshot(sess)
	case "right":
		result := sess.matching.SelectRight(req.ItemID)
		feedback = s.snapshot(sess)
		switch result {
		case quiz.MatchCorrect:
			correct := true
			feedback.LastCorrect = &correct
		case quiz.MatchWrong:
			correct := false
			feedback.LastCorrect = &correct
		}
	default:
		return nil, model.NewAppError("INVALID_INPUT", "side は left か right を指定してください。", "side", model.ErrInvalidInput)
	}
	return feedback, nil
}

func (s *sessionService) ClearWrong(ctx context.Context, userID, sessionID uuid.UUID) (*model.SessionResponse, error) {
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.matching == nil {
		return nil, wrongModeError()
	}
	sess.matching.ClearWrong()
	return s.snapshot(sess), nil
}

func (s *sessionService) Answer(ctx context.Context, userID, sessionID uuid.UUID, choice string) (*model.SessionResponse, error) {
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.choice == nil {
		return nil, wrongModeError()
	}
	correctAnswer := sess.choice.CorrectAnswer()
	if sess.choice.Answer(choice) {
		correct := sess.choice.LastCorrect()
		resp := s.snapshot(sess)
		resp.LastCorrect = &correct
		resp.CorrectAnswer = correctAnswer
		return resp, nil
	}
	return s.snapshot(sess), nil
}

// Advance はモードに応じて次へ進みます。
// 多肢選択では次の問題へ、マッチングでは次のページへ。
func (s *sessionService) Advance(ctx context.Context, userID, sessionID uuid.UUID) (*model.SessionResponse, error) {
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	switch {
	case sess.choice != nil:
		sess.choice.Advance()
	case sess.matching != nil:
		sess.matching.AdvancePage()
	default:
		return nil, wrongModeError()
	}
	return s.snapshot(sess), nil
}

func (s *sessionService) RepeatMistakes(ctx context.Context, userID, sessionID uuid.UUID) (*model.SessionResponse, error) {
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.flashcard == nil {
		return nil, wrongModeError()
	}
	sess.flashcard.RepeatMistakes()
	return s.snapshot(sess), nil
}

// Restart はフラッシュカードをフルセットから始め直します。
// 完了済みラウンドの上でリスタートした場合は、そのラウンドの結果を先に
// コミットしてから新しいセッションを開始します（蓄積デルタを失わないため）。
func (s *sessionService) Restart(ctx context.Context, userID, sessionID uuid.UUID) (*model.SessionResponse, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "session_id", sessionID)
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.flashcard == nil {
		return nil, wrongModeError()
	}
	if sess.flashcard.Done() {
		if _, err := s.commit(ctx, sess); err != nil {
			return nil, err
		}
		logger.Info("Completed round committed before restart")
	}
	sess.flashcard.Restart()
	return s.snapshot(sess), nil
}

// Finish は完了したセッションの結果を確定します。
// 集計結果を所有セットへマージして1トランザクションで保存し、
// ストリークを進め、セッションをレジストリから破棄します。
func (s *sessionService) Finish(ctx context.Context, userID, sessionID uuid.UUID) (*model.SessionResult, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "session_id", sessionID)
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}

	result, err := s.commit(ctx, sess)
	if err != nil {
		return nil, err
	}
	s.drop(sessionID)

	logger.Info("Session finished",
		"score", result.ScorePercentage,
		"updated_items", result.UpdatedItems,
		"streak", result.StreakCurrent,
	)
	return result, nil
}

// commit は完了済みエンジンの結果をDBへ反映します。セッションは破棄しません。
func (s *sessionService) commit(ctx context.Context, sess *activeSession) (*model.SessionResult, error) {
	outcome, err := s.outcome(sess)
	if err != nil {
		if errors.Is(err, quiz.ErrNotCompleted) {
			return nil, model.NewAppError("SESSION_NOT_COMPLETED", "セッションがまだ完了していません。", "", model.ErrInvalidInput)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "セッション結果の集計に失敗しました。", "", err)
	}

	// コミット直前の最新状態を読み直してマージします。
	// セッション中に削除されたセットのアイテムは自然に脱落します。
	sets, err := s.setRepo.FindByUser(ctx, s.db, sess.userID)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "セットの読み込みに失敗しました。", "", err)
	}
	merged := quiz.Commit(sets, sess.source, outcome)

	var streak *model.Streak
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.setRepo.SaveAll(ctx, tx, merged); err != nil {
			return err
		}
		streak, err = bumpStreak(ctx, tx, s.streakRepo, sess.userID, s.now())
		return err
	})
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "セッション結果の保存に失敗しました。", "", err)
	}

	return &model.SessionResult{
		ScorePercentage: outcome.ScorePercentage,
		UpdatedItems:    len(outcome.Deltas),
		StreakCurrent:   streak.Current,
		StreakBest:      streak.Best,
	}, nil
}

func (s *sessionService) outcome(sess *activeSession) (quiz.Outcome, error) {
	switch {
	case sess.flashcard != nil:
		return sess.flashcard.Outcome()
	case sess.matching != nil:
		return sess.matching.Outcome()
	default:
		return sess.choice.Outcome()
	}
}

// Abandon はセッションを破棄します。進捗は一切保存されません。
func (s *sessionService) Abandon(ctx context.Context, userID, sessionID uuid.UUID) error {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "session_id", sessionID)
	if _, err := s.lookup(userID, sessionID); err != nil {
		return err
	}
	s.drop(sessionID)
	logger.Info("Session abandoned")
	return nil
}

// SweepExpired はTTLを超えて触られていないセッションを破棄し、破棄数を返します。
// 失効はAbandonと同じで、書き込みは発生しません。
func (s *sessionService) SweepExpired(ctx context.Context, ttl time.Duration) int {
	logger := middleware.GetLogger(ctx)
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastTouched.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		logger.Info("Expired sessions swept", "removed", removed)
	}
	return removed
}

func wrongModeError() error {
	return model.NewAppError("INVALID_INPUT", "この操作は現在のゲームモードでは使えません。", "", model.ErrInvalidInput)
}

// --- レスポンス組み立て ---

func cardView(d model.Direction, item model.VocabItem, withAnswer bool) *model.CardView {
	v := &model.CardView{
		ItemID:   item.ItemID,
		Question: quiz.QuestionText(d, item),
	}
	if withAnswer {
		v.Answer = quiz.AnswerText(d, item)
	}
	return v
}

// snapshot は現在のセッション状態をレスポンスDTOへ写します。
func (s *sessionService) snapshot(sess *activeSession) *model.SessionResponse {
	resp := &model.SessionResponse{
		SessionID: sess.sessionID,
		Mode:      sess.mode,
		Direction: sess.direction,
	}

	switch {
	case sess.flashcard != nil:
		g := sess.flashcard
		resp.Completed = g.Done()
		view := &model.FlashcardView{
			Cursor:       g.Cursor(),
			DeckSize:     g.DeckSize(),
			Flipped:      g.Flipped(),
			MistakeCount: g.MistakeCount(),
		}
		if card, ok := g.Current(); ok {
			view.Card = cardView(sess.direction, card, g.Flipped())
		}
		resp.Flashcard = view
		if g.Done() {
			s.attachCompletion(resp, sess, g.SessionCorrect())
		}

	case sess.matching != nil:
		g := sess.matching
		resp.Completed = g.Done()
		if !g.Done() {
			view := &model.MatchingView{
				PageIndex:   g.PageIndex(),
				PageCount:   g.PageCount(),
				MatchedIDs:  g.MatchedIDs(),
				PageCleared: g.PageCleared(),
			}
			// 左列は問題面、右列は解答面のテキストを表示します。
			for _, it := range g.Left() {
				view.Left = append(view.Left, model.CardView{ItemID: it.ItemID, Question: quiz.QuestionText(sess.direction, it)})
			}
			for _, it := range g.Right() {
				view.Right = append(view.Right, model.CardView{ItemID: it.ItemID, Question: quiz.AnswerText(sess.direction, it)})
			}
			resp.Matching = view
			if wp := g.WrongShown(); wp != nil {
				resp.WrongPair = &model.WrongPairView{Left: wp.Left, Right: wp.Right}
			}
		} else {
			resp.Matching = &model.MatchingView{
				PageIndex: g.PageCount(),
				PageCount: g.PageCount(),
			}
			s.attachCompletion(resp, sess, g.SessionCorrect())
		}

	case sess.choice != nil:
		g := sess.choice
		resp.Completed = g.Done()
		view := &model.ChoiceView{
			Cursor:   g.Cursor(),
			DeckSize: g.DeckSize(),
			Answered: g.Answered(),
		}
		if item, ok := g.Current(); ok {
			view.Question = quiz.QuestionText(sess.direction, item)
			view.Options = g.Options()
		}
		resp.Choice = view
		if g.Done() {
			s.attachCompletion(resp, sess, g.SessionCorrect())
		}
	}
	return resp
}

func (s *sessionService) attachCompletion(resp *model.SessionResponse, sess *activeSession, sessionCorrect int) {
	outcome, err := s.outcome(sess)
	if err != nil {
		return
	}
	score := outcome.ScorePercentage
	correct := sessionCorrect
	resp.ScorePercentage = &score
	resp.SessionCorrect = &correct
}
