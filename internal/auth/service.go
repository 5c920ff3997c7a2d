package auth

import (
	"context"
	"time"

	"github.com/listinghub/listinghub/internal/config"
	"github.com/listinghub/listinghub/internal/identity"
)

// Service issues and validates session tokens.
type Service struct {
	cfg    config.Config
	idRepo identity.Repository
	now    func() time.Time
}

// NewService builds an auth service on top of the user repository.
func NewService(cfg config.Config, idRepo identity.Repository) *Service {
	return &Service{cfg: cfg, idRepo: idRepo, now: time.Now}
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Login issues a token pair for an already authenticated user.
func (s *Service) Login(user identity.User) (TokenPair, error) {
	now := s.now()
	access, _, err := sign(user, useAccess, []byte(s.cfg.JWTSecret), now, s.cfg.AccessTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, _, err := sign(user, useRefresh, []byte(s.cfg.RefreshSecret), now, s.cfg.RefreshTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresIn: int64(s.cfg.AccessTokenTTL.Seconds())}, nil
}

// Refresh verifies the refresh token and returns a new access token if valid.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, int64, error) {
	user, err := s.current(ctx, refreshToken, useRefresh, s.cfg.RefreshSecret)
	if err != nil {
		return "", 0, err
	}
	signed, _, err := sign(user, useAccess, []byte(s.cfg.JWTSecret), s.now(), s.cfg.AccessTokenTTL)
	if err != nil {
		return "", 0, err
	}
	return signed, int64(s.cfg.AccessTokenTTL.Seconds()), nil
}

// Logout increments token version so older tokens become invalid.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	user, err := s.current(ctx, refreshToken, useRefresh, s.cfg.RefreshSecret)
	if err != nil {
		return err
	}
	return s.idRepo.UpdateTokenVersion(ctx, user.ID, user.TokenVersion+1)
}

// Authorize validates an access token against the user's current token
// version and role.
func (s *Service) Authorize(ctx context.Context, accessToken string) (identity.User, error) {
	return s.current(ctx, accessToken, useAccess, s.cfg.JWTSecret)
}

func (s *Service) current(ctx context.Context, token, use, secret string) (identity.User, error) {
	claims, err := parse(token, use, []byte(secret), s.now())
	if err != nil {
		return identity.User{}, err
	}
	user, err := s.idRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return identity.User{}, ErrInvalidToken
	}
	if user.TokenVersion != claims.Version {
		return identity.User{}, ErrTokenRevoked
	}
	return user, nil
}
