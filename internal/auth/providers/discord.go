package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tokenbridge/discord-relay/internal/auth/models"
	"github.com/tokenbridge/discord-relay/internal/config"
	"github.com/tokenbridge/discord-relay/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

type DiscordProvider struct {
	oauth2Config *oauth2.Config
	userURL      string
	client       *http.Client
}

func NewDiscordProvider(cfg *config.DiscordConfig) *DiscordProvider {
	return &DiscordProvider{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
		},
		userURL: cfg.UserURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (p *DiscordProvider) AuthCodeURL(state string) string {
	return p.oauth2Config.AuthCodeURL(state)
}

// ExchangeCode posts the code to Discord's token endpoint. The exchange is
// done by hand rather than through oauth2.Config.Exchange because Discord
// returns its diagnostic in the body on failure, and that body has to be
// parsed on every status to forward error/error_description to the caller.
func (p *DiscordProvider) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	form := url.Values{
		"client_id":     {p.oauth2Config.ClientID},
		"client_secret": {p.oauth2Config.ClientSecret},
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {p.oauth2Config.RedirectURL},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.oauth2Config.Endpoint.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	status, body, err := p.do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		var providerErr struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}
		// Best effort, a non-JSON body still yields a status-based message
		_ = json.Unmarshal(body, &providerErr)
		logger.Warn("Token exchange rejected",
			zap.Int("status", status),
			zap.String("error", providerErr.Error),
		)
		return nil, &TokenExchangeError{
			StatusCode:  status,
			Code:        providerErr.Error,
			Description: providerErr.ErrorDescription,
		}
	}

	var tokenResult models.TokenResult
	if err := json.Unmarshal(body, &tokenResult); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokenResult.AccessToken == "" {
		return nil, &TokenExchangeError{
			StatusCode:  status,
			Description: "no access token returned",
		}
	}

	token := &oauth2.Token{
		AccessToken:  tokenResult.AccessToken,
		TokenType:    tokenResult.TokenType,
		RefreshToken: tokenResult.RefreshToken,
	}
	if tokenResult.ExpiresIn > 0 {
		token.Expiry = time.Now().Add(time.Duration(tokenResult.ExpiresIn) * time.Second)
	}
	return token, nil
}

// FetchUser gets the user object from Discord's /users/@me endpoint using
// the bearer token from ExchangeCode.
func (p *DiscordProvider) FetchUser(ctx context.Context, token *oauth2.Token) (models.UserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user request: %w", err)
	}
	token.SetAuthHeader(req)
	req.Header.Set("Accept", "application/json")

	status, body, err := p.do(req)
	if err != nil {
		return nil, fmt.Errorf("user request failed: %w", err)
	}

	if status != http.StatusOK {
		var providerErr struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &providerErr)
		logger.Warn("User profile request rejected",
			zap.Int("status", status),
			zap.String("message", providerErr.Message),
		)
		return nil, &ProfileFetchError{
			StatusCode: status,
			Message:    providerErr.Message,
		}
	}

	var profile models.UserProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode user response: %w", err)
	}
	return profile, nil
}

// do executes the request and reads the whole body so the connection can be
// reused regardless of status.
func (p *DiscordProvider) do(req *http.Request) (int, []byte, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Error("Failed to close response body", zap.Error(closeErr))
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, body, nil
}
