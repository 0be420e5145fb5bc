package handler

import (
	"log/slog"
	"net/http"

	"github.com/arif/devnetwork/internal/service"
)

// UserHandler serves account registration.
type UserHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(auth *service.AuthService, logger *slog.Logger) *UserHandler {
	return &UserHandler{auth: auth, logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// HandleRegister creates an account and returns a signed token.
//
// HTTP: POST /api/v1/users
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}
	if !validateRequest(w, h.logger, &req, map[string]string{
		"name":     "Name is required",
		"email":    "Please include a valid email",
		"password": "Please enter a password with 6 or more characters",
	}) {
		return
	}

	token, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, tokenResponse{Token: token})
}
