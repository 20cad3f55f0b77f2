package providers

import "fmt"

// TokenExchangeError reports the provider rejecting the authorization code,
// or answering without a usable access token. It carries the provider's
// own diagnostic fields so the frontend sees why the code was refused.
type TokenExchangeError struct {
	StatusCode  int
	Code        string // provider "error" field
	Description string // provider "error_description" field
}

func (e *TokenExchangeError) Error() string {
	switch {
	case e.Code != "" && e.Description != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Description)
	case e.Code != "":
		return e.Code
	case e.Description != "":
		return e.Description
	default:
		return fmt.Sprintf("token exchange failed with status %d", e.StatusCode)
	}
}

// ProfileFetchError reports a failed profile request after a token was
// already obtained.
type ProfileFetchError struct {
	StatusCode int
	Message    string // provider "message" field
}

func (e *ProfileFetchError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("profile request failed with status %d", e.StatusCode)
}
