// internal/service/set_service.go
package service

import (
	"context"
	"errors"
	"strings"

	"revocab/internal/middleware"
	"revocab/internal/model"
	"revocab/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SetService インターフェース
type SetService interface {
	CreateSet(ctx context.Context, userID uuid.UUID, req *model.PostSetRequest) (*model.VocabSet, error)
	CreateSetFromImage(ctx context.Context, userID uuid.UUID, req *model.ExtractSetRequest) (*model.VocabSet, error)
	GetSet(ctx context.Context, userID, setID uuid.UUID) (*model.VocabSet, error)
	GetSets(ctx context.Context, userID uuid.UUID) ([]model.VocabSet, error)
	PatchSet(ctx context.Context, userID, setID uuid.UUID, req *model.PatchSetRequest) (*model.VocabSet, error)
	DeleteSet(ctx context.Context, userID, setID uuid.UUID) error
}

type setService struct {
	db        *gorm.DB
	setRepo   repository.SetRepository
	extractor Extractor
}

func NewSetService(db *gorm.DB, setRepo repository.SetRepository, extractor Extractor) SetService {
	return &setService{
		db:        db,
		setRepo:   setRepo,
		extractor: extractor,
	}
}

// buildItems はDTOの単語ペアを保存順つきのアイテムに変換します。
func buildItems(setID uuid.UUID, payloads []model.ItemPayload) []model.VocabItem {
	items := make([]model.VocabItem, 0, len(payloads))
	for i, p := range payloads {
		items = append(items, model.VocabItem{
			ItemID:      uuid.New(),
			SetID:       setID,
			Position:    i,
			Original:    strings.TrimSpace(p.Original),
			Translation: strings.TrimSpace(p.Translation),
		})
	}
	return items
}

func (s *setService) CreateSet(ctx context.Context, userID uuid.UUID, req *model.PostSetRequest) (*model.VocabSet, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)

	setID := uuid.New()
	set := &model.VocabSet{
		SetID:    setID,
		UserID:   userID,
		Title:    req.Title,
		Language: req.Metadata.Language,
		Grade:    req.Metadata.Grade,
		Chapter:  req.Metadata.Chapter,
		Page:     req.Metadata.Page,
		Items:    buildItems(setID, req.Items),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.setRepo.Create(ctx, tx, set); err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "セットの作成に失敗しました。", "", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Set created", "set_id", set.SetID.String(), "items", len(set.Items))
	return set, nil
}

// CreateSetFromImage は抽出サービスの出力からセットを組み立てて保存します。
func (s *setService) CreateSetFromImage(ctx context.Context, userID uuid.UUID, req *model.ExtractSetRequest) (*model.VocabSet, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)

	result, err := s.extractor.Extract(ctx, req.Image)
	if err != nil {
		logger.Error("Extraction failed", "error", err)
		return nil, model.NewAppError("EXTRACTION_FAILED", "画像からの語彙抽出に失敗しました。", "", err)
	}
	if len(result.Vocabulary) == 0 {
		return nil, model.NewAppError("NO_VOCABULARY_FOUND", "画像から語彙が見つかりませんでした。", "image", model.ErrInvalidInput)
	}

	title := req.Title
	if title == "" {
		// 抽出メタデータからタイトルを組み立てる
		parts := make([]string, 0, 2)
		if result.Metadata.Language != "" {
			parts = append(parts, result.Metadata.Language)
		}
		if result.Metadata.Chapter != "" {
			parts = append(parts, result.Metadata.Chapter)
		}
		title = strings.Join(parts, " ")
		if title == "" {
			title = "新しいセット"
		}
	}

	payloads := make([]model.ItemPayload, 0, len(result.Vocabulary))
	for _, pair := range result.Vocabulary {
		if pair.Original == "" || pair.Translation == "" {
			continue
		}
		payloads = append(payloads, model.ItemPayload{
			Original:    pair.Original,
			Translation: pair.Translation,
		})
	}
	if len(payloads) == 0 {
		return nil, model.NewAppError("NO_VOCABULARY_FOUND", "画像から有効な単語ペアが見つかりませんでした。", "image", model.ErrInvalidInput)
	}

	return s.CreateSet(ctx, userID, &model.PostSetRequest{
		Title:    title,
		Metadata: result.Metadata,
		Items:    payloads,
	})
}

func (s *setService) GetSet(ctx context.Context, userID, setID uuid.UUID) (*model.VocabSet, error) {
	set, err := s.setRepo.FindByID(ctx, s.db, userID, setID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("NOT_FOUND", "セットが見つかりません。", "", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "セットの取得に失敗しました。", "", err)
	}
	return set, nil
}

func (s *setService) GetSets(ctx context.Context, userID uuid.UUID) ([]model.VocabSet, error) {
	sets, err := s.setRepo.FindByUser(ctx, s.db, userID)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "セット一覧の取得に失敗しました。", "", err)
	}
	return sets, nil
}

func (s *setService) PatchSet(ctx context.Context, userID, setID uuid.UUID, req *model.PatchSetRequest) (*model.VocabSet, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "set_id", setID)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := make(map[string]interface{})
		if req.Title != nil {
			updates["title"] = *req.Title
		}
		if req.Metadata != nil {
			updates["language"] = req.Metadata.Language
			updates["grade"] = req.Metadata.Grade
			updates["chapter"] = req.Metadata.Chapter
			updates["page"] = req.Metadata.Page
		}

		if len(updates) > 0 {
			if err := s.setRepo.Update(ctx, tx, userID, setID, updates); err != nil {
				if errors.Is(err, model.ErrNotFound) {
					return model.NewAppError("NOT_FOUND", "更新対象のセットが見つかりません。", "", model.ErrNotFound)
				}
				return model.NewAppError("INTERNAL_SERVER_ERROR", "セットの更新に失敗しました。", "", err)
			}
		} else if req.Items != nil {
			// updatesが空でもセットの存在と所有は確認する
			if _, err := s.setRepo.FindByID(ctx, tx, userID, setID); err != nil {
				if errors.Is(err, model.ErrNotFound) {
					return model.NewAppError("NOT_FOUND", "更新対象のセットが見つかりません。", "", model.ErrNotFound)
				}
				return model.NewAppError("INTERNAL_SERVER_ERROR", "セットの更新に失敗しました。", "", err)
			}
		}

		if req.Items != nil {
			// 語彙リストの全置き換え。カウンタは新規アイテムとして0から始まります。
			if err := s.setRepo.ReplaceItems(ctx, tx, setID, buildItems(setID, req.Items)); err != nil {
				return model.NewAppError("INTERNAL_SERVER_ERROR", "単語リストの更新に失敗しました。", "", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Set patched")
	return s.GetSet(ctx, userID, setID)
}

func (s *setService) DeleteSet(ctx context.Context, userID, setID uuid.UUID) error {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "set_id", setID)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.setRepo.Delete(ctx, tx, userID, setID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("NOT_FOUND", "削除対象のセットが見つかりません。", "", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "セットの削除に失敗しました。", "", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Set deleted")
	return nil
}
