// internal/service/set_service_test.go
package service

import (
	"context"
	"errors"
	"testing"

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

func setupTestDBSet() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect database for testing: " + err.Error())
	}
	return db
}

// stubExtractor はテスト用の固定レスポンスを返すExtractor
type stubExtractor struct {
	result *model.ExtractionResult
	err    error
}

func (s *stubExtractor) Extract(ctx context.Context, imageBase64 string) (*model.ExtractionResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

// --- Test CreateSet ---
func Test_setService_CreateSet(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	tests := []struct {
		name      string
		req       *model.PostSetRequest
		setupMock func(setRepo *mocks.SetRepository)
		wantErr   bool
	}{
		{
			name: "正常系: セット作成成功",
			req: &model.PostSetRequest{
				Title:    "英単語 Unit 3",
				Metadata: model.SetMetadata{Language: "English", Chapter: "Unit 3"},
				Items: []model.ItemPayload{
					{Original: "apple", Translation: "りんご"},
					{Original: "  banana ", Translation: "バナナ"},
				},
			},
			setupMock: func(setRepo *mocks.SetRepository) {
				setRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.VocabSet")).
					Run(func(args mock.Arguments) {
						set := args.Get(2).(*model.VocabSet)
						assert.Equal(t, userID, set.UserID)
						assert.Equal(t, "英単語 Unit 3", set.Title)
						assert.NotEqual(t, uuid.Nil, set.SetID)
						require.Len(t, set.Items, 2)
						// 空白はトリムされ、保存順が振られる
						assert.Equal(t, "banana", set.Items[1].Original)
						assert.Equal(t, 0, set.Items[0].Position)
						assert.Equal(t, 1, set.Items[1].Position)
						assert.Equal(t, set.SetID, set.Items[0].SetID)
					}).Return(nil).Once()
			},
		},
		{
			name: "異常系: リポジトリエラー",
			req: &model.PostSetRequest{
				Title: "失敗するセット",
				Items: []model.ItemPayload{{Original: "a", Translation: "b"}},
			},
			setupMock: func(setRepo *mocks.SetRepository) {
				setRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.VocabSet")).
					Return(errors.New("db error")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRepo := new(mocks.SetRepository)
			tt.setupMock(setRepo)
			svc := NewSetService(setupTestDBSet(), setRepo, &stubExtractor{})

			set, err := svc.CreateSet(ctx, userID, tt.req)

			if tt.wantErr {
				require.Error(t, err)
				var appErr *model.AppError
				require.True(t, errors.As(err, &appErr))
				assert.Nil(t, set)
			} else {
				require.NoError(t, err)
				require.NotNil(t, set)
			}
			setRepo.AssertExpectations(t)
		})
	}
}

// --- Test CreateSetFromImage ---
func Test_setService_CreateSetFromImage(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	tests := []struct {
		name      string
		req       *model.ExtractSetRequest
		extractor Extractor
		setupMock func(setRepo *mocks.SetRepository)
		wantErr   bool
		wantTitle string
	}{
		{
			name: "正常系: 抽出結果からセット作成",
			req:  &model.ExtractSetRequest{Image: "base64data"},
			extractor: &stubExtractor{result: &model.ExtractionResult{
				Metadata: model.SetMetadata{Language: "French", Chapter: "Leçon 2"},
				Vocabulary: []model.ExtractedPair{
					{Original: "chat", Translation: "猫"},
					{Original: "chien", Translation: "犬"},
				},
			}},
			setupMock: func(setRepo *mocks.SetRepository) {
				setRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.VocabSet")).
					Run(func(args mock.Arguments) {
						set := args.Get(2).(*model.VocabSet)
						assert.Equal(t, "French Leçon 2", set.Title)
						assert.Equal(t, "French", set.Language)
						require.Len(t, set.Items, 2)
					}).Return(nil).Once()
			},
			wantTitle: "French Leçon 2",
		},
		{
			name: "正常系: 指定タイトルが優先される",
			req:  &model.ExtractSetRequest{Image: "base64data", Title: "マイセット"},
			extractor: &stubExtractor{result: &model.ExtractionResult{
				Vocabulary: []model.ExtractedPair{{Original: "a", Translation: "b"}},
			}},
			setupMock: func(setRepo *mocks.SetRepository) {
				setRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.VocabSet")).
					Return(nil).Once()
			},
			wantTitle: "マイセット",
		},
		{
			name:      "異常系: 抽出サービスの失敗",
			req:       &model.ExtractSetRequest{Image: "base64data"},
			extractor: &stubExtractor{err: errors.New("upstream error")},
			setupMock: func(setRepo *mocks.SetRepository) {},
			wantErr:   true,
		},
		{
			name: "異常系: 語彙が1件も抽出されない",
			req:  &model.ExtractSetRequest{Image: "base64data"},
			extractor: &stubExtractor{result: &model.ExtractionResult{
				Vocabulary: []model.ExtractedPair{},
			}},
			setupMock: func(setRepo *mocks.SetRepository) {},
			wantErr:   true,
		},
		{
			name: "異常系: 片側が空のペアしかない",
			req:  &model.ExtractSetRequest{Image: "base64data"},
			extractor: &stubExtractor{result: &model.ExtractionResult{
				Vocabulary: []model.ExtractedPair{{Original: "orphan", Translation: ""}},
			}},
			setupMock: func(setRepo *mocks.SetRepository) {},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRepo := new(mocks.SetRepository)
			tt.setupMock(setRepo)
			svc := NewSetService(setupTestDBSet(), setRepo, tt.extractor)

			set, err := svc.CreateSetFromImage(ctx, userID, tt.req)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, set)
			} else {
				require.NoError(t, err)
				require.NotNil(t, set)
				assert.Equal(t, tt.wantTitle, set.Title)
			}
			setRepo.AssertExpectations(t)
		})
	}
}

// --- Test PatchSet ---
func Test_setService_PatchSet(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	setID := uuid.New()
	newTitle := "改訂版"

	current := &model.VocabSet{SetID: setID, UserID: userID, Title: newTitle}

	tests := []struct {
		name      string
		req       *model.PatchSetRequest
		setupMock func(setRepo *mocks.SetRepository)
		wantErr   error
	}{
		{
			name: "正常系: タイトルのみ更新",
			req:  &model.PatchSetRequest{Title: &newTitle},
			setupMock: func(setRepo *mocks.SetRepository) {
				setRepo.On("Update", ctx, mock.AnythingOfType("*gorm.DB"), userID, setID,
					map[string]interface{}{"title": newTitle}).Return(nil).Once()
				setRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), userID, setID).
					Return(current, nil).Once()
			},
		},
		{
			name: "正常系: 語彙リストの置き換え",
			req: &model.PatchSetRequest{Items: []model.ItemPayload{
				{Original: "new", Translation: "新しい"},
			}},
			setupMock: func(setRepo *mocks.SetRepository) {
				setRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), userID, setID).
					Return(current, nil).Twice() // 所有チェックと最終取得
				setRepo.On("ReplaceItems", ctx, mock.AnythingOfType("*gorm.DB"), setID, mock.AnythingOfType("[]model.VocabItem")).
					Run(func(args mock.Arguments) {
						items := args.Get(3).([]model.VocabItem)
						require.Len(t, items, 1)
						assert.Equal(t, "new", items[0].Original)
						assert.Equal(t, 0, items[0].CorrectCount) // カウンタは引き継がない
					}).Return(nil).Once()
			},
		},
		{
			name: "異常系: セットが存在しない",
			req:  &model.PatchSetRequest{Title: &newTitle},
			setupMock: func(setRepo *mocks.SetRepository) {
				setRepo.On("Update", ctx, mock.AnythingOfType("*gorm.DB"), userID, setID,
					mock.Anything).Return(model.ErrNotFound).Once()
			},
			wantErr: model.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRepo := new(mocks.SetRepository)
			tt.setupMock(setRepo)
			svc := NewSetService(setupTestDBSet(), setRepo, &stubExtractor{})

			set, err := svc.PatchSet(ctx, userID, setID, tt.req)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, set)
			} else {
				require.NoError(t, err)
				require.NotNil(t, set)
			}
			setRepo.AssertExpectations(t)
		})
	}
}

// --- Test DeleteSet ---
func Test_setService_DeleteSet(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	setID := uuid.New()

	tests := []struct {
		name      string
		setupMock func(setRepo *mocks.SetRepository)
		wantErr   error
	}{
		{
			name: "正常系: 削除成功",
			setupMock: func(setRepo *mocks.SetRepository) {
				setRepo.On("Delete", ctx, mock.AnythingOfType("*gorm.DB"), userID, setID).
					Return(nil).Once()
			},
		},
		{
			name: "異常系: セットが存在しない",
			setupMock: func(setRepo *mocks.SetRepository) {
				setRepo.On("Delete", ctx, mock.AnythingOfType("*gorm.DB"), userID, setID).
					Return(model.ErrNotFound).Once()
			},
			wantErr: model.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRepo := new(mocks.SetRepository)
			tt.setupMock(setRepo)
			svc := NewSetService(setupTestDBSet(), setRepo, &stubExtractor{})

			err := svc.DeleteSet(ctx, userID, setID)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			setRepo.AssertExpectations(t)
		})
	}
}
