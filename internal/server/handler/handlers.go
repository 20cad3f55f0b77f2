// Package handler provides the relay's inbound HTTP endpoints.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/tokenbridge/discord-relay/internal/auth"
	"github.com/tokenbridge/discord-relay/internal/auth/providers"
	"github.com/tokenbridge/discord-relay/internal/logger"
	"github.com/tokenbridge/discord-relay/internal/utils"
	"go.uber.org/zap"
)

// Handler handles the relay's HTTP requests
type Handler struct {
	authService *auth.Service
	serviceName string
}

// NewHandler creates a new Handler instance
func NewHandler(authService *auth.Service, serviceName string) *Handler {
	return &Handler{
		authService: authService,
		serviceName: serviceName,
	}
}

// HandleHealth handles GET /api/health. It never touches the provider, so
// it reports ok even when Discord is down.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"service":   h.serviceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleLogin handles GET /api/auth/discord/login and sends the browser to
// Discord's authorization page. An optional state query value is passed
// through to the provider.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	state := r.URL.Query().Get("state")
	http.Redirect(w, r, h.authService.LoginURL(state), http.StatusFound)
}

// HandleCallback handles POST /api/auth/discord/callback. It exchanges the
// authorization code and returns the access token with the user profile.
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Authorization code is required")
		return
	}

	result, err := h.authService.Login(r.Context(), req.Code)
	if err != nil {
		h.writeLoginError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, result)
}

// writeLoginError maps pipeline failures onto the response contract:
// caller faults (missing or rejected code) are 400s with the provider's
// diagnostic text, everything after a successful exchange is a 500 with a
// short detail message.
func (h *Handler) writeLoginError(w http.ResponseWriter, err error) {
	var exchangeErr *providers.TokenExchangeError
	var profileErr *providers.ProfileFetchError

	switch {
	case errors.Is(err, auth.ErrMissingCode):
		utils.WriteError(w, http.StatusBadRequest, "Authorization code is required")
	case errors.As(err, &exchangeErr):
		logger.Warn("Token exchange failed", zap.Error(err))
		utils.WriteError(w, http.StatusBadRequest, exchangeErr.Error())
	case errors.As(err, &profileErr):
		logger.Error("Profile fetch failed", zap.Error(err))
		utils.WriteErrorDetails(w, http.StatusInternalServerError, "Failed to fetch user profile", profileErr.Error())
	default:
		logger.Error("Authentication failed", zap.Error(err))
		utils.WriteErrorDetails(w, http.StatusInternalServerError, "Authentication failed", err.Error())
	}
}
