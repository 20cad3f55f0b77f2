package models

// TokenResult holds the fields Discord returns from the token endpoint.
// Which optional fields are present depends on the grant and scopes.
type TokenResult struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// UserProfile is the provider's user object, passed through to the frontend
// exactly as returned. Keeping it untyped preserves fields the relay does
// not know about (avatar decorations, locale, flags, ...).
type UserProfile map[string]interface{}

// LoginResult is the combined response for a completed code exchange.
type LoginResult struct {
	AccessToken string      `json:"access_token"`
	User        UserProfile `json:"user"`
}
