package providers

import (
	"context"

	"github.com/tokenbridge/discord-relay/internal/auth/models"
	"golang.org/x/oauth2"
)

// Provider defines what the relay needs from an identity provider
type Provider interface {
	// AuthCodeURL returns the provider's authorization URL for the
	// configured client
	AuthCodeURL(state string) string

	// ExchangeCode redeems an authorization code for tokens
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)

	// FetchUser fetches the authenticated user's profile with the token
	// obtained from ExchangeCode
	FetchUser(ctx context.Context, token *oauth2.Token) (models.UserProfile, error)
}
