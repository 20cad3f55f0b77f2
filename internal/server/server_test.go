package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tokenbridge/discord-relay/internal/auth"
	"github.com/tokenbridge/discord-relay/internal/auth/providers"
	"github.com/tokenbridge/discord-relay/internal/config"
	"github.com/tokenbridge/discord-relay/internal/server/handler"
)

func newTestServer() *Server {
	cfg := &config.Config{
		Server: config.ServerConfig{Name: "discord-relay", Host: "127.0.0.1", Port: 0},
		CORS:   config.CORSConfig{AllowOrigin: "http://localhost:3000"},
		Discord: config.DiscordConfig{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			RedirectURI:  "http://localhost:3000/callback",
			AuthURL:      "https://discord.example/oauth2/authorize",
			TokenURL:     "https://discord.example/oauth2/token",
			UserURL:      "https://discord.example/users/@me",
		},
	}

	provider := providers.NewDiscordProvider(&cfg.Discord)
	h := handler.NewHandler(auth.NewService(provider), cfg.Server.Name)
	return NewServer(cfg, h)
}

func TestRoutes(t *testing.T) {
	routes := newTestServer().routes()

	tests := []struct {
		name       string
		method     string
		path       string
		origin     string
		wantStatus int
	}{
		{name: "health", method: http.MethodGet, path: "/api/health", wantStatus: http.StatusOK},
		{name: "login redirects", method: http.MethodGet, path: "/api/auth/discord/login", wantStatus: http.StatusFound},
		{name: "callback rejects GET", method: http.MethodGet, path: "/api/auth/discord/callback", wantStatus: http.StatusMethodNotAllowed},
		{name: "unknown path", method: http.MethodGet, path: "/api/unknown", wantStatus: http.StatusNotFound},
		{name: "preflight handled before routing", method: http.MethodOptions, path: "/api/auth/discord/callback", origin: "http://localhost:3000", wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			routes.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRoutesAppliesCORS(t *testing.T) {
	routes := newTestServer().routes()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
