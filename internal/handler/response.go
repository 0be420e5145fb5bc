package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/arif/devnetwork/internal/apperror"
)

// msgResponse is the single-message error/status body: {"msg": "..."}.
type msgResponse struct {
	Msg string `json:"msg"`
}

// fieldError is one entry in a validation error response. Param names the
// offending request field.
type fieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param,omitempty"`
}

// errorsResponse is the validation error body: {"errors": [{msg, param}]}.
type errorsResponse struct {
	Errors []fieldError `json:"errors"`
}

// writeJSON sends a JSON response. Headers and status must be written
// before the body; Encode starts the body.
func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			logger.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError translates a service-layer error into the API's wire format.
//
// The status mapping is deliberately non-standard in places because clients
// were built against it: conflicts come back as 400 (not 409) and
// authorization failures as 401 (not 403). Validation failures use the
// {"errors": [...]} list shape; everything else uses {"msg": "..."}.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(err, apperror.ErrValidation):
			writeJSON(w, logger, http.StatusBadRequest, errorsResponse{
				Errors: []fieldError{{Msg: appErr.Message, Param: appErr.Field}},
			})
		case errors.Is(err, apperror.ErrConflict):
			// Field-level conflicts (duplicate email) use the validation
			// list shape; state conflicts (double like) use plain msg.
			if appErr.Field != "" {
				writeJSON(w, logger, http.StatusBadRequest, errorsResponse{
					Errors: []fieldError{{Msg: appErr.Message, Param: appErr.Field}},
				})
			} else {
				writeJSON(w, logger, http.StatusBadRequest, msgResponse{Msg: appErr.Message})
			}
		case errors.Is(err, apperror.ErrUnauthorized), errors.Is(err, apperror.ErrForbidden):
			writeJSON(w, logger, http.StatusUnauthorized, msgResponse{Msg: appErr.Message})
		case errors.Is(err, apperror.ErrNotFound):
			writeJSON(w, logger, http.StatusNotFound, msgResponse{Msg: appErr.Message})
		default:
			writeJSON(w, logger, http.StatusInternalServerError, msgResponse{Msg: "Server Error"})
		}
		return
	}

	// Unknown error. Never leak internals to the client.
	logger.Error("unhandled error", slog.String("error", err.Error()))
	writeJSON(w, logger, http.StatusInternalServerError, msgResponse{Msg: "Server Error"})
}

// decodeJSON reads a request body into dst, rejecting malformed JSON with
// a field-style validation error.
func decodeJSON(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.Warn("invalid request JSON", slog.String("error", err.Error()))
		writeJSON(w, logger, http.StatusBadRequest, errorsResponse{
			Errors: []fieldError{{Msg: "Invalid request body"}},
		})
		return false
	}
	return true
}
