// internal/service/streak_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"revocab/internal/model"
	"revocab/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDBStreak() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect database for testing: " + err.Error())
	}
	return db
}

func Test_dayDiff(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{
			name: "同日（時刻違い）",
			from: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
			to:   time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "翌日（深夜をまたぐ）",
			from: time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC),
			to:   time.Date(2025, 6, 2, 0, 1, 0, 0, time.UTC),
			want: 1,
		},
		{
			name: "3日後",
			from: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			to:   time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC),
			want: 3,
		},
		{
			name: "月またぎの翌日",
			from: time.Date(2025, 5, 31, 12, 0, 0, 0, time.UTC),
			to:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			want: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dayDiff(tt.from, tt.to))
		})
	}
}

func Test_bumpStreak(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBStreak()
	userID := uuid.New()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	day := func(d int) *time.Time {
		t := now.AddDate(0, 0, -d)
		return &t
	}

	tests := []struct {
		name        string
		existing    *model.Streak
		wantCurrent int
		wantBest    int
	}{
		{
			name:        "正常系: 初回コミットで1から開始",
			existing:    nil,
			wantCurrent: 1,
			wantBest:    1,
		},
		{
			name:        "正常系: 同日2回目はノーオペ",
			existing:    &model.Streak{UserID: userID, Current: 3, Best: 5, LastActivity: day(0)},
			wantCurrent: 3,
			wantBest:    5,
		},
		{
			name:        "正常系: 連続日でインクリメント",
			existing:    &model.Streak{UserID: userID, Current: 3, Best: 5, LastActivity: day(1)},
			wantCurrent: 4,
			wantBest:    5,
		},
		{
			name:        "正常系: ベスト更新",
			existing:    &model.Streak{UserID: userID, Current: 5, Best: 5, LastActivity: day(1)},
			wantCurrent: 6,
			wantBest:    6,
		},
		{
			name:        "正常系: 空白日があれば1にリセット",
			existing:    &model.Streak{UserID: userID, Current: 9, Best: 9, LastActivity: day(3)},
			wantCurrent: 1,
			wantBest:    9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			streakRepo := new(mocks.StreakRepository)
			if tt.existing == nil {
				streakRepo.On("Find", ctx, mock.AnythingOfType("*gorm.DB"), userID).
					Return(nil, model.ErrNotFound).Once()
			} else {
				existing := *tt.existing
				streakRepo.On("Find", ctx, mock.AnythingOfType("*gorm.DB"), userID).
					Return(&existing, nil).Once()
			}
			streakRepo.On("Upsert", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.Streak")).
				Return(nil).Once()

			streak, err := bumpStreak(ctx, db, streakRepo, userID, now)

			require.NoError(t, err)
			assert.Equal(t, tt.wantCurrent, streak.Current)
			assert.Equal(t, tt.wantBest, streak.Best)
			require.NotNil(t, streak.LastActivity)
			assert.Equal(t, now, *streak.LastActivity)
			streakRepo.AssertExpectations(t)
		})
	}
}

func Test_streakService_GetStreak(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBStreak()
	userID := uuid.New()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	day := func(d int) *time.Time {
		t := now.AddDate(0, 0, -d)
		return &t
	}

	tests := []struct {
		name     string
		existing *model.Streak
		want     model.StreakResponse
	}{
		{
			name:     "正常系: レコードなしはゼロ値",
			existing: nil,
			want:     model.StreakResponse{},
		},
		{
			name:     "正常系: 当日学習済み",
			existing: &model.Streak{UserID: userID, Current: 4, Best: 7, LastActivity: day(0)},
			want:     model.StreakResponse{Current: 4, Best: 7},
		},
		{
			name:     "正常系: 昨日までの連続は生きている",
			existing: &model.Streak{UserID: userID, Current: 4, Best: 7, LastActivity: day(1)},
			want:     model.StreakResponse{Current: 4, Best: 7},
		},
		{
			name:     "正常系: 2日空きは途切れ扱い",
			existing: &model.Streak{UserID: userID, Current: 4, Best: 7, LastActivity: day(3)},
			want:     model.StreakResponse{Current: 0, Best: 7, IsBroken: true, DaysMissed: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			streakRepo := new(mocks.StreakRepository)
			if tt.existing == nil {
				streakRepo.On("Find", ctx, mock.AnythingOfType("*gorm.DB"), userID).
					Return(nil, model.ErrNotFound).Once()
			} else {
				streakRepo.On("Find", ctx, mock.AnythingOfType("*gorm.DB"), userID).
					Return(tt.existing, nil).Once()
			}
			svc := NewStreakService(db, streakRepo).(*streakService)
			svc.now = func() time.Time { return now }

			resp, err := svc.GetStreak(ctx, userID)

			require.NoError(t, err)
			assert.Equal(t, tt.want, *resp)
			streakRepo.AssertExpectations(t)
		})
	}
}
