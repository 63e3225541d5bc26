package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"ordertrack/internal/mw"
	"ordertrack/internal/service"
	"ordertrack/internal/store"
)

const maxBody = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

var errBadJSON = errors.New("invalid json")

// decode reads a JSON body into dst and validates it.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadJSON)
		}
		return fmt.Errorf("%w: %w", errBadJSON, err)
	}
	return validate.Struct(dst)
}

// writeDecodeError answers 400 for unreadable JSON and 422 for failed validation.
func writeDecodeError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag()))
		}
		http.Error(w, strings.Join(msgs, "; "), http.StatusUnprocessableEntity)
		return
	}
	http.Error(w, "invalid request body", http.StatusBadRequest)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps core errors onto HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	userID, _ := mw.UserID(r.Context())
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		http.Error(w, "order not found", http.StatusNotFound)
	case errors.Is(err, service.ErrClientNotFound):
		http.Error(w, "client not found", http.StatusNotFound)
	case errors.Is(err, service.ErrLoginTaken):
		http.Error(w, "login already exists", http.StatusConflict)
	case errors.Is(err, service.ErrInvalidCredentials):
		http.Error(w, "invalid login or password", http.StatusUnauthorized)
	case errors.Is(err, store.ErrStoreUnavailable):
		slog.ErrorContext(r.Context(), "store unavailable", "path", r.URL.Path, "user_id", userID, "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	default:
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
