package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cinetag/cinetag-server/internal/auth"
	"github.com/cinetag/cinetag-server/internal/domain"
	domainerrors "github.com/cinetag/cinetag-server/internal/errors"
	"github.com/cinetag/cinetag-server/internal/id"
	"github.com/cinetag/cinetag-server/internal/normalize"
	"github.com/cinetag/cinetag-server/internal/ratelimit"
	"github.com/cinetag/cinetag-server/internal/store"
	"github.com/cinetag/cinetag-server/internal/validation"
)

// AuthService handles registration, login and token verification.
type AuthService struct {
	store        store.Store
	tokenService *auth.TokenService
	loginLimiter *ratelimit.KeyedRateLimiter
	validator    *validation.Validator
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service. loginLimiter may be
// nil to disable per-account login throttling.
func NewAuthService(
	store store.Store,
	tokenService *auth.TokenService,
	loginLimiter *ratelimit.KeyedRateLimiter,
	validator *validation.Validator,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:        store,
		tokenService: tokenService,
		loginLimiter: loginLimiter,
		validator:    validator,
		logger:       logger,
	}
}

// RegisterRequest contains user registration data.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=1024"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse contains an access token and the authenticated user.
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        *domain.User `json:"user"`
}

// Register creates an account and signs it in.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	req.Name = normalize.Text(req.Name)
	req.Email = domain.NormalizeEmail(req.Email)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		Document:     domain.Document{ID: userID},
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		MyBag:        domain.RefList{},
		Likes:        domain.RefList{},
	}
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailInUse) {
			return nil, domainerrors.AlreadyExists("a user with this email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)

	return s.issue(user)
}

// Login verifies credentials and returns a new access token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	req.Email = domain.NormalizeEmail(req.Email)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if s.loginLimiter != nil && !s.loginLimiter.Allow(req.Email) {
		s.logger.Warn("login throttled", "email", req.Email)
		return nil, domainerrors.RateLimited("too many login attempts, try again later")
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Same answer as a wrong password.
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	if s.loginLimiter != nil {
		s.loginLimiter.Reset(req.Email)
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return s.issue(user)
}

// VerifyAccessToken resolves a bearer token to its user.
func (s *AuthService) VerifyAccessToken(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokenService.VerifyAccessToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, domainerrors.TokenExpired("access token expired")
		}
		return nil, domainerrors.Unauthorized("invalid access token").WithCause(err)
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.Unauthorized("user no longer exists")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	return publicUser(user), nil
}

func (s *AuthService) issue(user *domain.User) (*AuthResponse, error) {
	token, expires, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	return &AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expires,
		User:        publicUser(user),
	}, nil
}
