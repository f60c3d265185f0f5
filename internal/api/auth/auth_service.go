package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/markbates/goth"
	"golang.org/x/crypto/bcrypt"

	"github.com/weatherflick/weather-travel-api/config"
	"github.com/weatherflick/weather-travel-api/internal/api"
	"github.com/weatherflick/weather-travel-api/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService defines the business logic contract for authentication.
type AuthService interface {
	Register(ctx context.Context, req types.RegisterRequest) (*types.UserAuth, error)
	Login(ctx context.Context, email, password string) (*types.LoginResponse, error)
	RefreshSession(ctx context.Context, refreshToken string) (*types.LoginResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	GetMe(ctx context.Context, userID uuid.UUID) (*types.UserAuth, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
	LoginWithGoogle(ctx context.Context, gothUser goth.User) (*types.LoginResponse, error)

	ListUsers(ctx context.Context, page, pageSize int) ([]types.UserAuth, int, error)
	DeactivateUser(ctx context.Context, userID uuid.UUID) error
}

type AuthServiceImpl struct {
	logger *slog.Logger
	repo   AuthRepo
	jwtCfg config.JWTConfig
}

func NewAuthService(repo AuthRepo, jwtCfg config.JWTConfig, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger: logger,
		repo:   repo,
		jwtCfg: jwtCfg,
	}
}

// generateRefreshToken creates an opaque random token stored server side.
func generateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (s *AuthServiceImpl) generateAccessToken(user *types.UserAuth) (string, error) {
	now := time.Now()
	claims := types.Claims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.jwtCfg.Issuer,
			Audience:  jwt.ClaimStrings{s.jwtCfg.Audience},
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtCfg.AccessExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtCfg.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

func (s *AuthServiceImpl) issueTokenPair(ctx context.Context, user *types.UserAuth) (*types.LoginResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}
	expiresAt := time.Now().Add(s.jwtCfg.RefreshExpiry)
	if err := s.repo.StoreRefreshToken(ctx, user.ID, refreshToken, expiresAt); err != nil {
		return nil, err
	}

	return &types.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthServiceImpl) Register(ctx context.Context, req types.RegisterRequest) (*types.UserAuth, error) {
	l := s.logger.With(slog.String("method", "Register"), slog.String("email", req.Email))

	if req.Email == "" || req.Nickname == "" {
		return nil, fmt.Errorf("%w: email and nickname are required", api.ErrBadRequest)
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", api.ErrBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, req.Email, req.Nickname, string(hash))
	if err != nil {
		l.WarnContext(ctx, "Registration failed", slog.Any("error", err))
		return nil, err
	}

	l.InfoContext(ctx, "User registered", slog.String("userID", user.ID.String()))
	return user, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*types.LoginResponse, error) {
	l := s.logger.With(slog.String("method", "Login"), slog.String("email", email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return nil, api.ErrUnauthenticated
		}
		return nil, err
	}
	if user.PasswordHash == "" {
		// Social sign-in account without a local password.
		return nil, api.ErrUnauthenticated
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		l.WarnContext(ctx, "Invalid credentials")
		return nil, api.ErrUnauthenticated
	}

	resp, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		l.WarnContext(ctx, "Failed to update last login", slog.Any("error", err))
	}

	l.InfoContext(ctx, "Login successful", slog.String("userID", user.ID.String()))
	return resp, nil
}

// RefreshSession rotates the refresh token: the presented token is revoked and
// a new pair is issued.
func (s *AuthServiceImpl) RefreshSession(ctx context.Context, refreshToken string) (*types.LoginResponse, error) {
	l := s.logger.With(slog.String("method", "RefreshSession"))

	userID, expiresAt, revokedAt, err := s.repo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if time.Now().After(expiresAt) || revokedAt != nil {
		l.WarnContext(ctx, "Refresh token expired or revoked")
		return nil, api.ErrUnauthenticated
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return nil, api.ErrUnauthenticated
		}
		return nil, err
	}

	resp, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.repo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		l.WarnContext(ctx, "Failed to revoke old refresh token", slog.Any("error", err))
	}

	return resp, nil
}

func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	return s.repo.RevokeRefreshToken(ctx, refreshToken)
}

func (s *AuthServiceImpl) GetMe(ctx context.Context, userID uuid.UUID) (*types.UserAuth, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// ChangePassword verifies the old password, stores the new hash and revokes
// every outstanding refresh token for the user.
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	l := s.logger.With(slog.String("method", "ChangePassword"), slog.String("userID", userID.String()))

	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", api.ErrBadRequest)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.PasswordHash == "" {
		return fmt.Errorf("%w: social sign-in account has no password", api.ErrBadRequest)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return fmt.Errorf("%w: invalid old password", api.ErrUnauthenticated)
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	if err := s.repo.UpdatePasswordHash(ctx, userID, string(newHash)); err != nil {
		return err
	}

	if err := s.repo.RevokeAllUserRefreshTokens(ctx, userID); err != nil {
		l.WarnContext(ctx, "Failed to revoke refresh tokens after password change", slog.Any("error", err))
	}

	l.InfoContext(ctx, "Password changed")
	return nil
}

func (s *AuthServiceImpl) ListUsers(ctx context.Context, page, pageSize int) ([]types.UserAuth, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.repo.ListUsers(ctx, page, pageSize)
}

// DeactivateUser disables the account and revokes its sessions. The row
// stays for audit; logins and token refreshes fail from here on.
func (s *AuthServiceImpl) DeactivateUser(ctx context.Context, userID uuid.UUID) error {
	l := s.logger.With(slog.String("method", "DeactivateUser"), slog.String("userID", userID.String()))

	if err := s.repo.SetUserActive(ctx, userID, false); err != nil {
		return err
	}
	if err := s.repo.RevokeAllUserRefreshTokens(ctx, userID); err != nil {
		l.WarnContext(ctx, "Failed to revoke refresh tokens after deactivation", slog.Any("error", err))
	}

	l.InfoContext(ctx, "User deactivated")
	return nil
}

// LoginWithGoogle provisions or links the account from the OAuth profile and
// issues a normal token pair.
func (s *AuthServiceImpl) LoginWithGoogle(ctx context.Context, gothUser goth.User) (*types.LoginResponse, error) {
	l := s.logger.With(slog.String("method", "LoginWithGoogle"), slog.String("email", gothUser.Email))

	if gothUser.Email == "" {
		return nil, fmt.Errorf("%w: google profile has no email", api.ErrBadRequest)
	}
	nickname := gothUser.Name
	if nickname == "" {
		nickname = gothUser.NickName
	}
	if nickname == "" {
		nickname = gothUser.Email
	}
	var profileImage *string
	if gothUser.AvatarURL != "" {
		profileImage = &gothUser.AvatarURL
	}

	user, err := s.repo.UpsertGoogleUser(ctx, gothUser.UserID, gothUser.Email, nickname, profileImage)
	if err != nil {
		return nil, err
	}

	resp, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		l.WarnContext(ctx, "Failed to update last login", slog.Any("error", err))
	}

	l.InfoContext(ctx, "Google login successful", slog.String("userID", user.ID.String()))
	return resp, nil
}
