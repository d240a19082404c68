// internal/service/auth_service_test.go
package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"revocab/internal/config"
	"revocab/internal/model"
	"revocab/internal/repository/mocks"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDBAuth() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect database for testing: " + err.Error())
	}
	return db
}

func testAuthConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.SecretKey = "test-secret"
	cfg.JWT.AccessTokenTTL = time.Hour
	return cfg
}

// --- Test Register ---
func Test_authService_Register(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		req       *model.RegisterRequest
		setupMock func(userRepo *mocks.UserRepository)
		wantErr   error
		wantUser  bool
	}{
		{
			name: "正常系: ユーザー登録成功",
			req: &model.RegisterRequest{
				Name:     "テスト太郎",
				Email:    "taro@example.com",
				Password: "password123",
			},
			setupMock: func(userRepo *mocks.UserRepository) {
				userRepo.On("CheckEmailExists", ctx, mock.AnythingOfType("*gorm.DB"), "taro@example.com").
					Return(false, nil).Once()
				userRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.User")).
					Run(func(args mock.Arguments) {
						user := args.Get(2).(*model.User)
						assert.Equal(t, "テスト太郎", user.Name)
						assert.NotEqual(t, uuid.Nil, user.UserID)
						// 平文パスワードは保存しない
						assert.NotEqual(t, "password123", user.PasswordHash)
						assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
					}).Return(nil).Once()
			},
			wantUser: true,
		},
		{
			name: "異常系: メールアドレスの重複",
			req: &model.RegisterRequest{
				Name:     "テスト太郎",
				Email:    "taro@example.com",
				Password: "password123",
			},
			setupMock: func(userRepo *mocks.UserRepository) {
				userRepo.On("CheckEmailExists", ctx, mock.AnythingOfType("*gorm.DB"), "taro@example.com").
					Return(true, nil).Once()
			},
			wantErr: model.ErrConflict,
		},
		{
			name: "異常系: 重複チェックでDBエラー",
			req: &model.RegisterRequest{
				Name:     "テスト太郎",
				Email:    "taro@example.com",
				Password: "password123",
			},
			setupMock: func(userRepo *mocks.UserRepository) {
				userRepo.On("CheckEmailExists", ctx, mock.AnythingOfType("*gorm.DB"), "taro@example.com").
					Return(false, errors.New("db error")).Once()
			},
			wantErr: nil, // AppErrorだがセンチネルなし
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(mocks.UserRepository)
			tt.setupMock(userRepo)
			svc := NewAuthService(setupTestDBAuth(), userRepo, testAuthConfig())

			user, err := svc.Register(ctx, tt.req)

			if tt.wantUser {
				require.NoError(t, err)
				require.NotNil(t, user)
			} else {
				require.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				assert.Nil(t, user)
			}
			userRepo.AssertExpectations(t)
		})
	}
}

// --- Test Login ---
func Test_authService_Login(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	password := "correct-password"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	existingUser := &model.User{
		UserID:       userID,
		Name:         "テスト太郎",
		Email:        "taro@example.com",
		PasswordHash: string(hash),
	}

	tests := []struct {
		name      string
		req       *model.LoginRequest
		setupMock func(userRepo *mocks.UserRepository)
		wantErr   error
		wantToken bool
	}{
		{
			name: "正常系: ログイン成功",
			req:  &model.LoginRequest{Email: "taro@example.com", Password: password},
			setupMock: func(userRepo *mocks.UserRepository) {
				userRepo.On("FindByEmail", ctx, mock.AnythingOfType("*gorm.DB"), "taro@example.com").
					Return(existingUser, nil).Once()
			},
			wantToken: true,
		},
		{
			name: "異常系: ユーザーが存在しない",
			req:  &model.LoginRequest{Email: "unknown@example.com", Password: password},
			setupMock: func(userRepo *mocks.UserRepository) {
				userRepo.On("FindByEmail", ctx, mock.AnythingOfType("*gorm.DB"), "unknown@example.com").
					Return(nil, model.ErrNotFound).Once()
			},
			wantErr: model.ErrForbidden,
		},
		{
			name: "異常系: パスワード不一致",
			req:  &model.LoginRequest{Email: "taro@example.com", Password: "wrong-password"},
			setupMock: func(userRepo *mocks.UserRepository) {
				userRepo.On("FindByEmail", ctx, mock.AnythingOfType("*gorm.DB"), "taro@example.com").
					Return(existingUser, nil).Once()
			},
			wantErr: model.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(mocks.UserRepository)
			tt.setupMock(userRepo)
			svc := NewAuthService(setupTestDBAuth(), userRepo, testAuthConfig())

			resp, err := svc.Login(ctx, tt.req)

			if tt.wantToken {
				require.NoError(t, err)
				require.NotNil(t, resp)
				require.NotEmpty(t, resp.AccessToken)

				// 発行されたトークンのsubjectがユーザーIDと一致する
				token, err := jwt.Parse(resp.AccessToken, func(token *jwt.Token) (interface{}, error) {
					return []byte("test-secret"), nil
				})
				require.NoError(t, err)
				require.True(t, token.Valid)
				subject, err := token.Claims.GetSubject()
				require.NoError(t, err)
				assert.Equal(t, userID.String(), subject)
			} else {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, resp)
				// 存在しないユーザーとパスワード不一致で同じエラーコードを返す
				var appErr *model.AppError
				require.True(t, errors.As(err, &appErr))
				assert.Equal(t, "INVALID_CREDENTIALS", appErr.Detail.Code)
			}
			userRepo.AssertExpectations(t)
		})
	}
}

// --- Test GetUser ---
func Test_authService_GetUser(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	tests := []struct {
		name      string
		setupMock func(userRepo *mocks.UserRepository)
		wantErr   error
	}{
		{
			name: "正常系: ユーザー取得",
			setupMock: func(userRepo *mocks.UserRepository) {
				userRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), userID).
					Return(&model.User{UserID: userID, Name: "テスト太郎"}, nil).Once()
			},
		},
		{
			name: "異常系: ユーザーが存在しない",
			setupMock: func(userRepo *mocks.UserRepository) {
				userRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), userID).
					Return(nil, model.ErrNotFound).Once()
			},
			wantErr: model.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(mocks.UserRepository)
			tt.setupMock(userRepo)
			svc := NewAuthService(setupTestDBAuth(), userRepo, testAuthConfig())

			user, err := svc.GetUser(ctx, userID)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, userID, user.UserID)
			}
			userRepo.AssertExpectations(t)
		})
	}
}
