package auth

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/weatherflick/weather-travel-api/config"
	"github.com/weatherflick/weather-travel-api/internal/api"
	"github.com/weatherflick/weather-travel-api/internal/types"
)

// MockAuthRepo is a mock implementation of the AuthRepo interface
type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) CreateUser(ctx context.Context, email, nickname, passwordHash string) (*types.UserAuth, error) {
	args := m.Called(ctx, email, nickname, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAuth), args.Error(1)
}

func (m *MockAuthRepo) GetUserByEmail(ctx context.Context, email string) (*types.UserAuth, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAuth), args.Error(1)
}

func (m *MockAuthRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.UserAuth, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAuth), args.Error(1)
}

func (m *MockAuthRepo) UpsertGoogleUser(ctx context.Context, googleID, email, nickname string, profileImage *string) (*types.UserAuth, error) {
	args := m.Called(ctx, googleID, email, nickname, profileImage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAuth), args.Error(1)
}

func (m *MockAuthRepo) UpdatePasswordHash(ctx context.Context, userID uuid.UUID, newHash string) error {
	args := m.Called(ctx, userID, newHash)
	return args.Error(0)
}

func (m *MockAuthRepo) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAuthRepo) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, token, expiresAt)
	return args.Error(0)
}

func (m *MockAuthRepo) GetRefreshToken(ctx context.Context, token string) (uuid.UUID, time.Time, *time.Time, error) {
	args := m.Called(ctx, token)
	var revokedAt *time.Time
	if args.Get(2) != nil {
		revokedAt = args.Get(2).(*time.Time)
	}
	return args.Get(0).(uuid.UUID), args.Get(1).(time.Time), revokedAt, args.Error(3)
}

func (m *MockAuthRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthRepo) RevokeAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAuthRepo) ListUsers(ctx context.Context, page, pageSize int) ([]types.UserAuth, int, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]types.UserAuth), args.Int(1), args.Error(2)
}

func (m *MockAuthRepo) SetUserActive(ctx context.Context, userID uuid.UUID, active bool) error {
	args := m.Called(ctx, userID, active)
	return args.Error(0)
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		SecretKey:     "test-secret-key",
		Issuer:        "weather-travel-api",
		Audience:      "weather-travel-app",
		AccessExpiry:  30 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
	}
}

func TestLoginService(t *testing.T) {
	ctx := context.Background()
	jwtCfg := testJWTConfig()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &types.UserAuth{
		ID:           uuid.New(),
		Email:        "test@example.com",
		Nickname:     "testuser",
		PasswordHash: string(hash),
		Role:         types.RoleUser,
		IsActive:     true,
	}

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		svc := NewAuthService(mockRepo, jwtCfg, slog.Default())

		mockRepo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil).Once()
		mockRepo.On("StoreRefreshToken", mock.Anything, user.ID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()
		mockRepo.On("UpdateLastLogin", mock.Anything, user.ID).Return(nil).Once()

		resp, err := svc.Login(ctx, user.Email, "password123")
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)

		// The access token must carry the expected claims.
		claims := &types.Claims{}
		_, err = jwt.ParseWithClaims(resp.AccessToken, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(jwtCfg.SecretKey), nil
		})
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID)
		assert.Equal(t, user.Email, claims.Email)
		assert.Equal(t, types.RoleUser, claims.Role)
		assert.Equal(t, jwtCfg.Issuer, claims.Issuer)

		mockRepo.AssertExpectations(t)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		svc := NewAuthService(mockRepo, jwtCfg, slog.Default())

		mockRepo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil).Once()

		_, err := svc.Login(ctx, user.Email, "wrong-password")
		assert.ErrorIs(t, err, api.ErrUnauthenticated)
		mockRepo.AssertExpectations(t)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		svc := NewAuthService(mockRepo, jwtCfg, slog.Default())

		mockRepo.On("GetUserByEmail", mock.Anything, "nobody@example.com").Return(nil, api.ErrNotFound).Once()

		_, err := svc.Login(ctx, "nobody@example.com", "password123")
		assert.ErrorIs(t, err, api.ErrUnauthenticated)
		mockRepo.AssertExpectations(t)
	})

	t.Run("SocialAccountWithoutPassword", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		svc := NewAuthService(mockRepo, jwtCfg, slog.Default())

		googleUser := &types.UserAuth{
			ID:           uuid.New(),
			Email:        "google@example.com",
			AuthProvider: "google",
			Role:         types.RoleUser,
		}
		mockRepo.On("GetUserByEmail", mock.Anything, googleUser.Email).Return(googleUser, nil).Once()

		_, err := svc.Login(ctx, googleUser.Email, "anything")
		assert.ErrorIs(t, err, api.ErrUnauthenticated)
		mockRepo.AssertExpectations(t)
	})
}

func TestRefreshSessionService(t *testing.T) {
	ctx := context.Background()
	jwtCfg := testJWTConfig()

	user := &types.UserAuth{
		ID:       uuid.New(),
		Email:    "test@example.com",
		Nickname: "testuser",
		Role:     types.RoleUser,
		IsActive: true,
	}

	t.Run("SuccessRotatesToken", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		svc := NewAuthService(mockRepo, jwtCfg, slog.Default())

		mockRepo.On("GetRefreshToken", mock.Anything, "old-token").
			Return(user.ID, time.Now().Add(time.Hour), nil, nil).Once()
		mockRepo.On("GetUserByID", mock.Anything, user.ID).Return(user, nil).Once()
		mockRepo.On("StoreRefreshToken", mock.Anything, user.ID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()
		mockRepo.On("RevokeRefreshToken", mock.Anything, "old-token").Return(nil).Once()

		resp, err := svc.RefreshSession(ctx, "old-token")
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEqual(t, "old-token", resp.RefreshToken)
		mockRepo.AssertExpectations(t)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		svc := NewAuthService(mockRepo, jwtCfg, slog.Default())

		mockRepo.On("GetRefreshToken", mock.Anything, "expired-token").
			Return(user.ID, time.Now().Add(-time.Hour), nil, nil).Once()

		_, err := svc.RefreshSession(ctx, "expired-token")
		assert.ErrorIs(t, err, api.ErrUnauthenticated)
		mockRepo.AssertExpectations(t)
	})

	t.Run("RevokedToken", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		svc := NewAuthService(mockRepo, jwtCfg, slog.Default())

		revokedAt := time.Now().Add(-time.Minute)
		mockRepo.On("GetRefreshToken", mock.Anything, "revoked-token").
			Return(user.ID, time.Now().Add(time.Hour), &revokedAt, nil).Once()

		_, err := svc.RefreshSession(ctx, "revoked-token")
		assert.ErrorIs(t, err, api.ErrUnauthenticated)
		mockRepo.AssertExpectations(t)
	})
}

func TestChangePasswordService(t *testing.T) {
	ctx := context.Background()
	jwtCfg := testJWTConfig()

	hash, err := bcrypt.GenerateFromPassword([]byte("oldpassword"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &types.UserAuth{
		ID:           uuid.New(),
		Email:        "test@example.com",
		PasswordHash: string(hash),
		Role:         types.RoleUser,
	}

	t.Run("SuccessRevokesAllTokens", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		svc := NewAuthService(mockRepo, jwtCfg, slog.Default())

		mockRepo.On("GetUserByID", mock.Anything, user.ID).Return(user, nil).Once()
		mockRepo.On("UpdatePasswordHash", mock.Anything, user.ID, mock.AnythingOfType("string")).Return(nil).Once()
		mockRepo.On("RevokeAllUserRefreshTokens", mock.Anything, user.ID).Return(nil).Once()

		err := svc.ChangePassword(ctx, user.ID, "oldpassword", "newpassword")
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("WrongOldPassword", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		svc := NewAuthService(mockRepo, jwtCfg, slog.Default())

		mockRepo.On("GetUserByID", mock.Anything, user.ID).Return(user, nil).Once()

		err := svc.ChangePassword(ctx, user.ID, "wrongpassword", "newpassword")
		assert.ErrorIs(t, err, api.ErrUnauthenticated)
		mockRepo.AssertExpectations(t)
	})

	t.Run("TooShortNewPassword", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		svc := NewAuthService(mockRepo, jwtCfg, slog.Default())

		err := svc.ChangePassword(ctx, user.ID, "oldpassword", "short")
		assert.ErrorIs(t, err, api.ErrBadRequest)
		mockRepo.AssertExpectations(t)
	})
}

func TestListUsersService(t *testing.T) {
	ctx := context.Background()
	jwtCfg := testJWTConfig()

	users := []types.UserAuth{
		{ID: uuid.New(), Email: "a@example.com", Nickname: "a", Role: types.RoleUser, IsActive: true},
		{ID: uuid.New(), Email: "b@example.com", Nickname: "b", Role: types.RoleUser, IsActive: false},
	}

	t.Run("NormalizesPaging", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		svc := NewAuthService(mockRepo, jwtCfg, slog.Default())

		mockRepo.On("ListUsers", mock.Anything, 1, 20).Return(users, 2, nil).Once()

		got, total, err := svc.ListUsers(ctx, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, got, 2)
		mockRepo.AssertExpectations(t)
	})

	t.Run("OversizedPageSizeFallsBackToDefault", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		svc := NewAuthService(mockRepo, jwtCfg, slog.Default())

		mockRepo.On("ListUsers", mock.Anything, 3, 20).Return([]types.UserAuth{}, 0, nil).Once()

		_, _, err := svc.ListUsers(ctx, 3, 500)
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestDeactivateUserService(t *testing.T) {
	ctx := context.Background()
	jwtCfg := testJWTConfig()
	userID := uuid.New()

	t.Run("RevokesTokens", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		svc := NewAuthService(mockRepo, jwtCfg, slog.Default())

		mockRepo.On("SetUserActive", mock.Anything, userID, false).Return(nil).Once()
		mockRepo.On("RevokeAllUserRefreshTokens", mock.Anything, userID).Return(nil).Once()

		err := svc.DeactivateUser(ctx, userID)
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		svc := NewAuthService(mockRepo, jwtCfg, slog.Default())

		mockRepo.On("SetUserActive", mock.Anything, userID, false).Return(api.ErrNotFound).Once()

		err := svc.DeactivateUser(ctx, userID)
		assert.ErrorIs(t, err, api.ErrNotFound)
		mockRepo.AssertExpectations(t)
	})
}
