// internal/service/streak_service.go
package service

import (
	"context"
	"errors"
	"time"

	"revocab/internal/model"
	"revocab/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StreakService インターフェース
type StreakService interface {
	GetStreak(ctx context.Context, userID uuid.UUID) (*model.StreakResponse, error)
}

type streakService struct {
	db         *gorm.DB
	streakRepo repository.StreakRepository
	now        func() time.Time
}

func NewStreakService(db *gorm.DB, streakRepo repository.StreakRepository) StreakService {
	return &streakService{
		db:         db,
		streakRepo: streakRepo,
		now:        time.Now,
	}
}

// dayDiff は2つの時刻の暦日差（後者 - 前者）を返します。
// 同じ日なら0、翌日なら1。時刻部分は比較に影響しません。
func dayDiff(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// bumpStreak はセッションコミットに伴うストリーク更新を行います。
// 同日内の2回目以降のコミットでは何も変わりません。
// トランザクション内で呼ばれる前提です。
func bumpStreak(ctx context.Context, tx *gorm.DB, streakRepo repository.StreakRepository, userID uuid.UUID, now time.Time) (*model.Streak, error) {
	streak, err := streakRepo.Find(ctx, tx, userID)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		streak = &model.Streak{UserID: userID}
	}

	if streak.LastActivity == nil {
		streak.Current = 1
	} else {
		switch diff := dayDiff(*streak.LastActivity, now); {
		case diff == 0:
			// 同日はノーオペ（LastActivityだけ進める）
		case diff == 1:
			streak.Current++
		default:
			streak.Current = 1
		}
	}
	if streak.Current > streak.Best {
		streak.Best = streak.Current
	}
	activity := now
	streak.LastActivity = &activity

	if err := streakRepo.Upsert(ctx, tx, streak); err != nil {
		return nil, err
	}
	return streak, nil
}

func (s *streakService) GetStreak(ctx context.Context, userID uuid.UUID) (*model.StreakResponse, error) {
	streak, err := s.streakRepo.Find(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return &model.StreakResponse{}, nil
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "ストリークの取得に失敗しました。", "", err)
	}

	resp := &model.StreakResponse{
		Current: streak.Current,
		Best:    streak.Best,
	}
	if streak.LastActivity != nil {
		diff := dayDiff(*streak.LastActivity, s.now())
		if diff > 1 {
			// 1日以上の空白でストリークは途切れている。表示上は0扱い。
			resp.Current = 0
			resp.IsBroken = true
			resp.DaysMissed = diff - 1
		}
	}
	return resp, nil
}
