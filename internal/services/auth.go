package services

import (
	"context"
	"errors"
	"time"

	"menshub/internal/config"
	"menshub/internal/logger"
	"menshub/internal/models"
	"menshub/internal/repository"
	"menshub/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type AuthService struct {
	repo       repository.UserRepo
	jwtSecret  string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(repo repository.UserRepo, cfg *config.Config) *AuthService {
	accessTTL, err := time.ParseDuration(cfg.AccessTokenTTL)
	if err != nil {
		accessTTL = 12 * time.Hour
	}
	refreshTTL, err := time.ParseDuration(cfg.RefreshTokenTTL)
	if err != nil {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: cfg.JWTSecret, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Login verifies the password and mints an access/refresh token pair. The
// refresh token is persisted so it can be revoked on logout.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, string, *models.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Warn("service: login for unknown user", zap.String("username", username))
		return "", "", nil, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		logger.Log.Warn("service: wrong password", zap.String("username", username))
		return "", "", nil, ErrInvalidCredentials
	}

	accessToken, err := utils.GenerateToken(s.jwtSecret, user.ID, user.Role, s.accessTTL, "access")
	if err != nil {
		logger.Log.Error("service: token generation failed", zap.Error(err))
		return "", "", nil, err
	}

	refreshToken, err := utils.GenerateToken(s.jwtSecret, user.ID, user.Role, s.refreshTTL, "refresh")
	if err != nil {
		logger.Log.Error("service: refresh token generation failed", zap.Error(err))
		return "", "", nil, err
	}
	if err := s.repo.SaveRefreshToken(ctx, user.ID, refreshToken); err != nil {
		logger.Log.Error("service: failed to save refresh token", zap.Error(err))
		return "", "", nil, err
	}

	logger.Log.Info("service: user logged in", zap.Int("user_id", user.ID), zap.String("role", user.Role))
	return accessToken, refreshToken, user, nil
}

// Refresh exchanges a stored refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, userID int, role, refreshToken string) (string, error) {
	valid, err := s.repo.IsRefreshTokenValid(ctx, userID, refreshToken)
	if err != nil {
		return "", err
	}
	if !valid {
		return "", ErrInvalidCredentials
	}
	return utils.GenerateToken(s.jwtSecret, userID, role, s.accessTTL, "access")
}

func (s *AuthService) Logout(ctx context.Context, userID int, refreshToken string) error {
	logger.Log.Info("service: user logged out", zap.Int("user_id", userID))
	return s.repo.DeleteRefreshToken(ctx, userID, refreshToken)
}

func (s *AuthService) GetUser(ctx context.Context, id int) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}
