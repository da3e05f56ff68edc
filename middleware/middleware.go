// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dayanithi400/ethervote-sentinel/models"
)

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// WithLogging wraps a handler with request logging
func WithLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Info("request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
		)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		slog.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// JSONResponse writes a JSON response
func JSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

var statusCodes = map[int]string{
	http.StatusBadRequest:          models.CodeValidationFailed,
	http.StatusUnauthorized:        models.CodeUnauthorized,
	http.StatusForbidden:           models.CodeForbidden,
	http.StatusNotFound:            models.CodeNotFound,
	http.StatusTooManyRequests:     models.CodeRateLimited,
	http.StatusServiceUnavailable:  models.CodeUnavailable,
	http.StatusInternalServerError: models.CodeInternal,
}

// ErrorResponse writes a JSON error response with the default code for
// the status
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	code, ok := statusCodes[statusCode]
	if !ok {
		code = strings.ToLower(strings.ReplaceAll(http.StatusText(statusCode), " ", "_"))
	}
	retryable := statusCode == http.StatusTooManyRequests || statusCode == http.StatusServiceUnavailable
	writeError(w, statusCode, code, message, retryable)
}

// WriteError maps a service error to its status and code. Server-side
// failures are logged and their details kept out of the response.
func WriteError(w http.ResponseWriter, err error) {
	code, status, retryable := models.ErrorCode(err)

	message := err.Error()
	switch {
	case status == http.StatusInternalServerError:
		slog.Error("request failed", "error", err)
		message = "Internal error"
	case status == http.StatusServiceUnavailable:
		slog.Error("request failed, retry possible", "error", err)
		message = "Temporarily unavailable, please retry"
		if errors.Is(err, models.ErrTransactionAborted) {
			message = "Vote was not recorded, please retry"
		}
	case errors.Is(err, models.ErrInvalidCredentials):
		message = "Invalid email or password"
	}

	writeError(w, status, code, message, retryable)
}

func writeError(w http.ResponseWriter, status int, code, message string, retryable bool) {
	JSONResponse(w, status, models.ErrorResponse{
		Error:     http.StatusText(status),
		Code:      code,
		Message:   message,
		Retryable: retryable,
	})
}

// ParseJSONBody parses the request body into the given struct
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return nil
}

// CORS middleware allows cross-origin requests from the frontend
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetClientIP returns the host part of RemoteAddr. Behind trusted proxies
// RealIP has already replaced it with the forwarded client address.
func GetClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
