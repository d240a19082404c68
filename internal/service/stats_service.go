// internal/service/stats_service.go
package service

import (
	"context"

	"revocab/internal/model"
	"revocab/internal/quiz"
	"revocab/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatsService インターフェース
type StatsService interface {
	GetStats(ctx context.Context, userID uuid.UUID) (*model.StatsResponse, error)
}

type statsService struct {
	db      *gorm.DB
	setRepo repository.SetRepository
}

func NewStatsService(db *gorm.DB, setRepo repository.SetRepository) StatsService {
	return &statsService{db: db, setRepo: setRepo}
}

// GetStats は全セット横断の学習統計を集計します。
// 成功率は全アイテムの生涯カウンタの合算、苦手数は成功率ベースの判定と同じです。
func (s *statsService) GetStats(ctx context.Context, userID uuid.UUID) (*model.StatsResponse, error) {
	sets, err := s.setRepo.FindByUser(ctx, s.db, userID)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "統計の集計に失敗しました。", "", err)
	}

	resp := &model.StatsResponse{
		SetCount: len(sets),
		Sets:     make([]model.SetStatsEntry, 0, len(sets)),
	}
	for _, set := range sets {
		resp.ItemCount += len(set.Items)
		for _, item := range set.Items {
			resp.TotalCorrect += item.CorrectCount
			resp.TotalWrong += item.WrongCount
		}
		resp.Sets = append(resp.Sets, model.SetStatsEntry{
			SetID:     set.SetID,
			Title:     set.Title,
			ItemCount: len(set.Items),
			LastScore: set.LastScore,
		})
	}
	if attempts := resp.TotalCorrect + resp.TotalWrong; attempts > 0 {
		resp.SuccessRate = float64(resp.TotalCorrect) / float64(attempts)
	}
	resp.ToughCount = len(quiz.ToughItems(sets))
	return resp, nil
}
