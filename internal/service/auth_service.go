package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"adotapet/api/internal/config"
	"adotapet/api/internal/ids"
	"adotapet/api/internal/models"
	"adotapet/api/internal/repository"
	"adotapet/api/internal/security"
)

type AuthService struct {
	users  UserStore
	policy security.PasswordPolicy
	cfg    *config.AppConfig
	log    zerolog.Logger
}

func NewAuthService(users UserStore, policy security.PasswordPolicy, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		policy: policy,
		cfg:    cfg,
		log:    log,
	}
}

type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
	Name            string
}

type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         models.User
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	if input.Password != input.PasswordConfirm {
		return AuthResult{}, ErrPasswordMismatch
	}
	if reasons := s.policy.Validate(input.Password); len(reasons) > 0 {
		return AuthResult{}, &WeakPasswordError{Reasons: reasons}
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return AuthResult{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return AuthResult{}, err
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		// Same rule the registration form relies on: the email local part
		// doubles as the username.
		username, _, _ = strings.Cut(input.Email, "@")
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return AuthResult{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Username:     username,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Name:         input.Name,
		IsActive:     true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return AuthResult{}, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return s.issueTokens(user)
}

type LoginInput struct {
	Email    string
	Password string
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return AuthResult{}, ErrInvalidCredentials
	}

	if !user.IsActive {
		return AuthResult{}, ErrAccountInactive
	}

	return s.issueTokens(user)
}

type RefreshResult struct {
	AccessToken string
	// RefreshToken is empty unless rotation is enabled in config.
	RefreshToken string
}

// Refresh validates a refresh token and mints a new access token for its
// subject. With rotation off (the default) the refresh token stays valid
// and reusable until it expires.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (RefreshResult, error) {
	if refreshToken == "" {
		return RefreshResult{}, ErrMissingToken
	}

	claims, err := security.ParseToken(refreshToken, s.cfg.Security.JWTSecret, security.TokenKindRefresh)
	if err != nil {
		return RefreshResult{}, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		return RefreshResult{}, ErrInvalidToken
	}
	if !user.IsActive {
		return RefreshResult{}, ErrAccountInactive
	}

	accessToken, err := security.MintToken(s.cfg.Security.JWTSecret, security.TokenKindAccess, user.ID, s.cfg.Security.AccessTTL)
	if err != nil {
		return RefreshResult{}, err
	}

	result := RefreshResult{AccessToken: accessToken}
	if s.cfg.Security.RefreshRotation {
		rotated, err := security.MintToken(s.cfg.Security.JWTSecret, security.TokenKindRefresh, user.ID, s.cfg.Security.RefreshTTL)
		if err != nil {
			return RefreshResult{}, err
		}
		result.RefreshToken = rotated
	}
	return result, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (models.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) issueTokens(user models.User) (AuthResult, error) {
	accessToken, err := security.MintToken(s.cfg.Security.JWTSecret, security.TokenKindAccess, user.ID, s.cfg.Security.AccessTTL)
	if err != nil {
		return AuthResult{}, err
	}
	refreshToken, err := security.MintToken(s.cfg.Security.JWTSecret, security.TokenKindRefresh, user.ID, s.cfg.Security.RefreshTTL)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}
