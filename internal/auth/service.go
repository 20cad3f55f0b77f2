package auth

import (
	"context"
	"errors"

	"github.com/tokenbridge/discord-relay/internal/auth/models"
	"github.com/tokenbridge/discord-relay/internal/auth/providers"
	"github.com/tokenbridge/discord-relay/internal/logger"
	"go.uber.org/zap"
)

// ErrMissingCode indicates the caller supplied no authorization code
var ErrMissingCode = errors.New("authorization code is required")

// Service performs the code-for-profile exchange against the identity
// provider. It holds no state between calls.
type Service struct {
	provider providers.Provider
}

// NewService creates a new OAuth relay service
func NewService(provider providers.Provider) *Service {
	return &Service{
		provider: provider,
	}
}

// LoginURL returns the provider's authorization URL for the configured
// client. The state value is passed through untouched.
func (s *Service) LoginURL(state string) string {
	return s.provider.AuthCodeURL(state)
}

// Login runs the two-stage exchange: redeem the code for a token, then
// fetch the user's profile with it. The profile is only requested after a
// token with a non-empty access token was obtained; an exchange failure
// short-circuits the pipeline.
func (s *Service) Login(ctx context.Context, code string) (*models.LoginResult, error) {
	if code == "" {
		return nil, ErrMissingCode
	}

	token, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	profile, err := s.provider.FetchUser(ctx, token)
	if err != nil {
		return nil, err
	}

	logger.Info("Completed code exchange",
		zap.Any("user_id", profile["id"]),
	)

	return &models.LoginResult{
		AccessToken: token.AccessToken,
		User:        profile,
	}, nil
}
