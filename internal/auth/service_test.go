package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tokenbridge/discord-relay/internal/auth/models"
	"github.com/tokenbridge/discord-relay/internal/auth/providers"
	"golang.org/x/oauth2"
)

// mockProvider implements providers.Provider and counts outbound calls
type mockProvider struct {
	exchangeCalls int
	fetchCalls    int

	token       *oauth2.Token
	exchangeErr error
	profile     models.UserProfile
	fetchErr    error
}

func (m *mockProvider) AuthCodeURL(state string) string {
	return "https://discord.example/oauth2/authorize?state=" + state
}

func (m *mockProvider) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	m.exchangeCalls++
	return m.token, m.exchangeErr
}

func (m *mockProvider) FetchUser(ctx context.Context, token *oauth2.Token) (models.UserProfile, error) {
	m.fetchCalls++
	return m.profile, m.fetchErr
}

func TestLoginMissingCode(t *testing.T) {
	provider := &mockProvider{}
	service := NewService(provider)

	result, err := service.Login(context.Background(), "")
	require.ErrorIs(t, err, ErrMissingCode)
	assert.Nil(t, result)

	// No outbound call may happen without a code
	assert.Equal(t, 0, provider.exchangeCalls)
	assert.Equal(t, 0, provider.fetchCalls)
}

func TestLoginExchangeFailureSkipsProfileFetch(t *testing.T) {
	exchangeErr := &providers.TokenExchangeError{Code: "invalid_grant"}
	provider := &mockProvider{exchangeErr: exchangeErr}
	service := NewService(provider)

	result, err := service.Login(context.Background(), "expired")
	require.Error(t, err)
	assert.Nil(t, result)

	var typed *providers.TokenExchangeError
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, "invalid_grant", typed.Code)

	assert.Equal(t, 1, provider.exchangeCalls)
	assert.Equal(t, 0, provider.fetchCalls, "profile endpoint must not be called after a failed exchange")
}

func TestLoginProfileFailure(t *testing.T) {
	provider := &mockProvider{
		token:    &oauth2.Token{AccessToken: "tok-abc"},
		fetchErr: &providers.ProfileFetchError{StatusCode: 401, Message: "401: Unauthorized"},
	}
	service := NewService(provider)

	result, err := service.Login(context.Background(), "valid123")
	require.Error(t, err)
	assert.Nil(t, result)

	var typed *providers.ProfileFetchError
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, 1, provider.exchangeCalls)
	assert.Equal(t, 1, provider.fetchCalls)
}

func TestLoginSuccess(t *testing.T) {
	provider := &mockProvider{
		token:   &oauth2.Token{AccessToken: "tok-abc"},
		profile: models.UserProfile{"id": "1", "username": "alice"},
	}
	service := NewService(provider)

	result, err := service.Login(context.Background(), "valid123")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "tok-abc", result.AccessToken)
	assert.Equal(t, models.UserProfile{"id": "1", "username": "alice"}, result.User)
}

func TestLoginURL(t *testing.T) {
	service := NewService(&mockProvider{})
	assert.Equal(t, "https://discord.example/oauth2/authorize?state=xyz", service.LoginURL("xyz"))
}
