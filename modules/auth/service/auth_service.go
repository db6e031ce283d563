package service

import (
	"context"
	"strings"
	"time"

	"bookly-api/core/cache"
	"bookly-api/core/config"
	"bookly-api/core/errors"
	"bookly-api/core/logger"
	"bookly-api/core/utils"
	"bookly-api/modules/auth/dto"
	"bookly-api/modules/auth/entity"
	"bookly-api/modules/auth/repository"
	availservice "bookly-api/modules/availability/service"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, *errors.AppError)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, *errors.AppError)
	Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AuthResponse, *errors.AppError)
	Logout(ctx context.Context, token string) *errors.AppError
	GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, *errors.AppError)
}

type AuthService struct {
	repo         repository.AuthRepositoryInterface
	cache        cache.Cache
	availability availservice.AvailabilityServiceInterface
}

func NewAuthService(repo repository.AuthRepositoryInterface, c cache.Cache, avail availservice.AvailabilityServiceInterface) *AuthService {
	return &AuthService{
		repo:         repo,
		cache:        c,
		availability: avail,
	}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, *errors.AppError) {
	logger.Info("AuthService:Register:Start", "username", req.Username)

	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if len(username) < 3 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "username must be at least 3 characters", nil)
	}
	if !utils.IsValidEmail(email) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid email address", nil)
	}
	if len(req.Password) < 8 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "password must be at least 8 characters", nil)
	}
	timezone := req.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid timezone", err)
	}

	if existing, err := s.repo.GetUserByUsername(ctx, username); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check username", err)
	} else if existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "username is taken", nil)
	}
	if existing, err := s.repo.GetUserByEmail(ctx, email); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check email", err)
	} else if existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "email is already registered", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to hash password", err)
	}

	user, err := s.repo.CreateUser(ctx, &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Timezone:     timezone,
		IsActive:     true,
	})
	if err != nil {
		logger.Error("AuthService:Register:CreateUser", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create user", err)
	}

	// Every host starts with the default scheduling policy.
	if appErr := s.availability.EnsureDefaultConfig(ctx, user.ID); appErr != nil {
		logger.Error("AuthService:Register:EnsureDefaultConfig", "error", appErr, "user_id", user.ID)
		return nil, appErr
	}

	return s.issueTokens(user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, *errors.AppError) {
	identifier := strings.ToLower(strings.TrimSpace(req.Identifier))

	var user *entity.User
	var err error
	if strings.Contains(identifier, "@") {
		user, err = s.repo.GetUserByEmail(ctx, identifier)
	} else {
		user, err = s.repo.GetUserByUsername(ctx, identifier)
	}
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to look up user", err)
	}
	if user == nil || !user.IsActive {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid credentials", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid credentials", nil)
	}

	logger.Info("AuthService:Login:Success", "user_id", user.ID)
	return s.issueTokens(user)
}

// Refresh exchanges a valid refresh token for a new token pair. The spent
// refresh token is blacklisted for its remaining lifetime.
func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AuthResponse, *errors.AppError) {
	claims, err := utils.ValidateAndParseToken(req.RefreshToken)
	if err != nil || claims.Purpose != "refresh" {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid refresh token", err)
	}

	blacklisted, err := s.cache.IsTokenBlacklisted(ctx, req.RefreshToken)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check token", err)
	}
	if blacklisted {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid refresh token", nil)
	}

	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to look up user", err)
	}
	if user == nil || !user.IsActive {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid refresh token", nil)
	}

	if ttl := time.Until(claims.ExpiresAt.Time); ttl > 0 {
		if err := s.cache.BlacklistToken(ctx, req.RefreshToken, ttl); err != nil {
			logger.Warn("AuthService:Refresh:BlacklistToken", "error", err)
		}
	}

	logger.Info("AuthService:Refresh:Success", "user_id", user.ID)
	return s.issueTokens(user)
}

func (s *AuthService) Logout(ctx context.Context, token string) *errors.AppError {
	claims, err := utils.ValidateAndParseToken(token)
	if err != nil {
		return errors.NewAppError(errors.ErrUnauthorized, "invalid token", err)
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.cache.BlacklistToken(ctx, token, ttl); err != nil {
		logger.Error("AuthService:Logout:BlacklistToken", "error", err)
		return errors.NewAppError(errors.ErrInternalServer, "failed to invalidate token", err)
	}
	return nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, *errors.AppError) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
	}
	return user, nil
}

func (s *AuthService) issueTokens(user *entity.User) (*dto.AuthResponse, *errors.AppError) {
	cfg := config.Get()

	access, err := utils.GenerateToken(user.ID, &user.Email, "access", time.Duration(cfg.JWT.ExpiryMinutes)*time.Minute)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to sign token", err)
	}
	refresh, err := utils.GenerateToken(user.ID, &user.Email, "refresh", time.Duration(cfg.JWT.RefreshExpiryHr)*time.Hour)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to sign refresh token", err)
	}

	return &dto.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user,
	}, nil
}
