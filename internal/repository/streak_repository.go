//go:generate mockery --name StreakRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"revocab/internal/middleware"
	"revocab/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StreakRepository インターフェース
type StreakRepository interface {
	Find(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.Streak, error)
	Upsert(ctx context.Context, tx *gorm.DB, streak *model.Streak) error
}

type gormStreakRepository struct{}

func NewGormStreakRepository() StreakRepository {
	return &gormStreakRepository{}
}

func (r *gormStreakRepository) Find(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.Streak, error) {
	logger := middleware.GetLogger(ctx)
	var streak model.Streak
	result := db.WithContext(ctx).Where("user_id = ?", userID).First(&streak)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding streak in DB",
			"error", result.Error,
			"user_id", userID.String(),
		)
		return nil, fmt.Errorf("gormStreakRepository.Find: %w", result.Error)
	}
	return &streak, nil
}

func (r *gormStreakRepository) Upsert(ctx context.Context, tx *gorm.DB, streak *model.Streak) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Save(streak)
	if result.Error != nil {
		logger.Error("Error upserting streak in DB",
			"error", result.Error,
			"user_id", streak.UserID.String(),
		)
		return fmt.Errorf("gormStreakRepository.Upsert: %w", result.Error)
	}
	return nil
}
