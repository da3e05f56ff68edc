// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dayanithi400/ethervote-sentinel/models"
)

func TestWithLogging(t *testing.T) {
	testCases := []struct {
		name       string
		statusCode int
		body       string
	}{
		{"OK", http.StatusOK, "ok"},
		{"Created", http.StatusCreated, `{"id":"123"}`},
		{"Conflict", http.StatusConflict, `{"code":"already_voted"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := WithLogging(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.statusCode)
				w.Write([]byte(tc.body))
			})

			w := httptest.NewRecorder()
			handler(w, httptest.NewRequest("POST", "/votes", nil))

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
			if w.Body.String() != tc.body {
				t.Errorf("Expected body '%s', got '%s'", tc.body, w.Body.String())
			}
		})
	}
}

func TestErrorResponse(t *testing.T) {
	testCases := []struct {
		name          string
		statusCode    int
		message       string
		expectedError string
		expectedCode  string
	}{
		{
			name:          "bad request",
			statusCode:    http.StatusBadRequest,
			message:       "name is required",
			expectedError: "Bad Request",
			expectedCode:  models.CodeValidationFailed,
		},
		{
			name:          "unauthorized",
			statusCode:    http.StatusUnauthorized,
			message:       "invalid session",
			expectedError: "Unauthorized",
			expectedCode:  models.CodeUnauthorized,
		},
		{
			name:          "not found",
			statusCode:    http.StatusNotFound,
			message:       "candidate not found",
			expectedError: "Not Found",
			expectedCode:  models.CodeNotFound,
		},
		{
			name:          "conflict",
			statusCode:    http.StatusConflict,
			message:       "already voted",
			expectedError: "Conflict",
			expectedCode:  "conflict",
		},
		{
			name:          "internal error",
			statusCode:    http.StatusInternalServerError,
			message:       "database error",
			expectedError: "Internal Server Error",
			expectedCode:  models.CodeInternal,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			ErrorResponse(w, tc.statusCode, tc.message)

			// Check status code
			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}

			// Check Content-Type
			if w.Header().Get("Content-Type") != "application/json" {
				t.Error("Expected Content-Type 'application/json'")
			}

			// Decode and verify error response
			var resp models.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}

			if resp.Error != tc.expectedError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectedError, resp.Error)
			}
			if resp.Message != tc.message {
				t.Errorf("Expected message '%s', got '%s'", tc.message, resp.Message)
			}
			if resp.Code != tc.expectedCode {
				t.Errorf("Expected code '%s', got '%s'", tc.expectedCode, resp.Code)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("handled"))
	}))

	req := httptest.NewRequest("OPTIONS", "/votes", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK || w.Body.Len() != 0 {
		t.Errorf("Expected empty 200 preflight, got %d %q", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Expected origin to be reflected, got %q", got)
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "Authorization") {
		t.Error("Expected Authorization in allowed headers")
	}
}

func TestGetClientIP(t *testing.T) {
	testCases := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expectedIP string
	}{
		{"RemoteAddr with port", nil, "192.168.1.50:54321", "192.168.1.50"},
		{"RemoteAddr without port", nil, "192.168.1.50", "192.168.1.50"},
		{"IPv6 RemoteAddr with port", nil, "[::1]:12345", "::1"},
		{"X-Forwarded-For is ignored", map[string]string{"X-Forwarded-For": "203.0.113.7"}, "10.0.0.1:12345", "10.0.0.1"},
		{"X-Real-IP is ignored", map[string]string{"X-Real-IP": "203.0.113.50"}, "10.0.0.1:12345", "10.0.0.1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}

			if result := GetClientIP(req); result != tc.expectedIP {
				t.Errorf("Expected IP '%s', got '%s'", tc.expectedIP, result)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	testCases := []struct {
		name          string
		err           error
		expectedCode  int
		expectedError string
		retryable     bool
	}{
		{"validation", fmt.Errorf("%w: name required", models.ErrValidationFailed), http.StatusBadRequest, models.CodeValidationFailed, false},
		{"credentials", models.ErrInvalidCredentials, http.StatusUnauthorized, models.CodeInvalidCredentials, false},
		{"not found", fmt.Errorf("candidate x: %w", models.ErrNotFound), http.StatusNotFound, models.CodeNotFound, false},
		{"already voted", models.ErrAlreadyVoted, http.StatusConflict, models.CodeAlreadyVoted, false},
		{"duplicate", models.ErrDuplicateIdentifier, http.StatusConflict, models.CodeDuplicate, false},
		{"aborted", fmt.Errorf("cast vote: %w", models.ErrTransactionAborted), http.StatusServiceUnavailable, models.CodeTxAborted, true},
		{"unavailable", models.ErrExternalServiceUnavailable, http.StatusServiceUnavailable, models.CodeUnavailable, true},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, models.CodeInternal, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			WriteError(w, tc.err)

			if w.Code != tc.expectedCode {
				t.Errorf("Expected status %d, got %d", tc.expectedCode, w.Code)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			if resp.Code != tc.expectedError {
				t.Errorf("Expected code '%s', got '%s'", tc.expectedError, resp.Code)
			}
			if resp.Retryable != tc.retryable {
				t.Errorf("Expected retryable %v, got %v", tc.retryable, resp.Retryable)
			}
		})
	}

	t.Run("internal details are hidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, errors.New("pq: password authentication failed"))

		if strings.Contains(w.Body.String(), "pq:") {
			t.Errorf("Internal error leaked: %s", w.Body.String())
		}
	})
}
