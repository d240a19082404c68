//go:generate mockery --name SetRepository --output ./mocks --outpkg mocks --case=underscore
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

// SetRepository インターフェース。
// セット・アイテムの読み取りと、セットコレクションの保存を提供します。
// コミット境界での読み書きのみが想定で、セッション中はメモリ上のスナップショットを使います。
type SetRepository interface {
	Create(ctx context.Context, tx *gorm.DB, set *model.VocabSet) error
	FindByID(ctx context.Context, db *gorm.DB, userID, setID uuid.UUID) (*model.VocabSet, error)
	FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]model.VocabSet, error)
	Update(ctx context.Context, tx *gorm.DB, userID, setID uuid.UUID, updates map[string]interface{}) error
	ReplaceItems(ctx context.Context, tx *gorm.DB, setID uuid.UUID, items []model.VocabItem) error
	Delete(ctx context.Context, tx *gorm.DB, userID, setID uuid.UUID) error
	SaveAll(ctx context.Context, tx *gorm.DB, sets []model.VocabSet) error
}

type gormSetRepository struct{}

func NewGormSetRepository() SetRepository {
	return &gormSetRepository{}
}

// preloadItems はアイテムをセット内の保存順で読み込みます。
func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	})
}

func (r *gormSetRepository) Create(ctx context.Context, tx *gorm.DB, set *model.VocabSet) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(set)
	if result.Error != nil {
		logger.Error("Error creating set in DB",
			"error", result.Error,
			"user_id", set.UserID.String(),
			"title", set.Title,
		)
		return fmt.Errorf("gormSetRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormSetRepository) FindByID(ctx context.Context, db *gorm.DB, userID, setID uuid.UUID) (*model.VocabSet, error) {
	logger := middleware.GetLogger(ctx)
	var set model.VocabSet
	result := preloadItems(db.WithContext(ctx)).
		Where("user_id = ? AND set_id = ?", userID, setID).
		First(&set)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding set by ID in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"set_id", setID.String(),
		)
		return nil, fmt.Errorf("gormSetRepository.FindByID: %w", result.Error)
	}
	return &set, nil
}

func (r *gormSetRepository) FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]model.VocabSet, error) {
	logger := middleware.GetLogger(ctx)
	var sets []model.VocabSet
	result := preloadItems(db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&sets)
	if result.Error != nil {
		logger.Error("Error finding sets by user in DB",
			"error", result.Error,
			"user_id", userID.String(),
		)
		return nil, fmt.Errorf("gormSetRepository.FindByUser: %w", result.Error)
	}
	return sets, nil
}

func (r *gormSetRepository) Update(ctx context.Context, tx *gorm.DB, userID, setID uuid.UUID, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.VocabSet{}).
		Where("user_id = ? AND set_id = ?", userID, setID).
		Updates(updates)
	if result.Error != nil {
		logger.Error("Error updating set in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"set_id", setID.String(),
		)
		return fmt.Errorf("gormSetRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// ReplaceItems はセットの語彙リスト全体を置き換えます。
func (r *gormSetRepository) ReplaceItems(ctx context.Context, tx *gorm.DB, setID uuid.UUID, items []model.VocabItem) error {
	logger := middleware.GetLogger(ctx)
	if err := tx.WithContext(ctx).Where("set_id = ?", setID).Delete(&model.VocabItem{}).Error; err != nil {
		logger.Error("Error deleting old items in DB", "error", err, "set_id", setID.String())
		return fmt.Errorf("gormSetRepository.ReplaceItems: %w", err)
	}
	if len(items) == 0 {
		return nil
	}
	if err := tx.WithContext(ctx).Create(&items).Error; err != nil {
		logger.Error("Error inserting new items in DB", "error", err, "set_id", setID.String())
		return fmt.Errorf("gormSetRepository.ReplaceItems: %w", err)
	}
	return nil
}

func (r *gormSetRepository) Delete(ctx context.Context, tx *gorm.DB, userID, setID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).
		Where("user_id = ? AND set_id = ?", userID, setID).
		Delete(&model.VocabSet{})
	if result.Error != nil {
		logger.Error("Error deleting set in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"set_id", setID.String(),
		)
		return fmt.Errorf("gormSetRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// SaveAll はReconcilerが返したセットコレクションを冪等に上書き保存します。
// カウンタとlastScoreのみが変わる想定のため、アイテムはカウンタだけを更新します。
// 既に削除されたセット・アイテムの更新は黙ってスキップされます（0行更新を許容）。
func (r *gormSetRepository) SaveAll(ctx context.Context, tx *gorm.DB, sets []model.VocabSet) error {
	logger := middleware.GetLogger(ctx)
	for _, set := range sets {
		if set.LastScore != nil {
			err := tx.WithContext(ctx).Model(&model.VocabSet{}).
				Where("set_id = ?", set.SetID).
				Update("last_score", *set.LastScore).Error
			if err != nil {
				logger.Error("Error saving set score in DB", "error", err, "set_id", set.SetID.String())
				return fmt.Errorf("gormSetRepository.SaveAll: %w", err)
			}
		}
		for _, item := range set.Items {
			err := tx.WithContext(ctx).Model(&model.VocabItem{}).
				Where("item_id = ? AND set_id = ?", item.ItemID, set.SetID).
				Updates(map[string]interface{}{
					"correct_count": item.CorrectCount,
					"wrong_count":   item.WrongCount,
				}).Error
			if err != nil {
				logger.Error("Error saving item counters in DB", "error", err, "item_id", item.ItemID.String())
				return fmt.Errorf("gormSetRepository.SaveAll: %w", err)
			}
		}
	}
	return nil
}
