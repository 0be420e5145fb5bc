package handler

import (
	"log/slog"
	"net/http"

	"github.com/arif/devnetwork/internal/auth"
	"github.com/arif/devnetwork/internal/service"
)

// AuthHandler serves login and the current-user lookup.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected;
// the handler has no knowledge of how they're constructed.
func NewAuthHandler(authSvc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: authSvc, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin verifies credentials and returns a signed token.
//
// HTTP: POST /api/v1/auth
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}
	if !validateRequest(w, h.logger, &req, map[string]string{
		"email":    "Please include a valid email",
		"password": "Password is required",
	}) {
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, tokenResponse{Token: token})
}

// HandleCurrentUser returns the authenticated caller's account, password
// hash excluded.
//
// HTTP: GET /api/v1/auth (token required)
func (h *AuthHandler) HandleCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, h.logger, http.StatusUnauthorized, msgResponse{Msg: "missing token"})
		return
	}

	user, err := h.auth.CurrentUser(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, user)
}
