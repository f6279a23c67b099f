package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"fintrack/internal/core"
)

// Response messages the SPA matches on. Keep the exact wording stable.
const (
	msgUserCreated    = "User created!"
	msgUserExists     = "User already exists"
	msgLoginOK        = "Login successful"
	msgBadCredentials = "Invalid credentials"
	msgUserNotFound   = "User not found"
	msgExpenseLogged  = "Expense logged successfully"
	msgExpenseUpdated = "Expense updated successfully"
	msgExpenseRemoved = "Expense removed successfully"
	msgExpenseMissing = "Expense not found"
	msgValidation     = "Validation error"
	msgServerError    = "Server error"
)

type messageResponse struct {
	Message string `json:"message"`
}

type tokenResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type loginResponse struct {
	Message  string `json:"message"`
	Token    string `json:"token"`
	Username string `json:"username"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	return dec.Decode(dst)
}

// writeDomainError maps domain sentinels onto the wire statuses and
// messages; anything unrecognized degrades to a generic 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrAccountNotFound):
		writeMessage(w, http.StatusNotFound, msgUserNotFound)
	case errors.Is(err, core.ErrExpenseNotFound):
		writeMessage(w, http.StatusNotFound, msgExpenseMissing)
	case errors.Is(err, core.ErrDuplicateAccount):
		writeMessage(w, http.StatusBadRequest, msgUserExists)
	case errors.Is(err, core.ErrInvalidCredentials):
		writeMessage(w, http.StatusBadRequest, msgBadCredentials)
	case errors.Is(err, core.ErrEmptyUsername),
		errors.Is(err, core.ErrEmptyPassword),
		errors.Is(err, core.ErrInvalidEmail):
		writeMessage(w, http.StatusBadRequest, msgValidation)
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeMessage(w, http.StatusInternalServerError, msgServerError)
	}
}

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// bearerToken extracts the opaque token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

// clientIP resolves the caller's address, honoring proxy headers.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
