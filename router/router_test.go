// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/dayanithi400/ethervote-sentinel/cliparse"
	"github.com/dayanithi400/ethervote-sentinel/election"
	"github.com/dayanithi400/ethervote-sentinel/reconcile"
	"github.com/dayanithi400/ethervote-sentinel/testutil"
)

func setupRouter(t *testing.T) (*http.ServeMux, *election.Service, cliparse.Config) {
	t.Helper()

	svc, st := testutil.SetupTestService(t)
	cfg := testutil.GetTestConfig()
	cfg.ImageDir = t.TempDir()

	mux := NewRouter(svc, testutil.NewTestSessions(), reconcile.NewReconciler(st, true), cfg)
	return mux, svc, cfg
}

func TestHealthEndpoint(t *testing.T) {
	mux, _, _ := setupRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestHealthEndpointStoreDown(t *testing.T) {
	svc, st := testutil.SetupTestService(t)
	mux := NewRouter(svc, testutil.NewTestSessions(), reconcile.NewReconciler(st, false), testutil.GetTestConfig())
	st.DB().Close()

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
}

func TestRootEndpoint(t *testing.T) {
	mux, _, _ := setupRouter(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "ethervote API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	mux, _, _ := setupRouter(t)

	// 400, 401 and 404 are valid responses depending on handler logic
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},

		{"POST", "/auth/register"},
		{"POST", "/auth/login"},
		{"GET", "/auth/session"},
		{"POST", "/auth/logout"},
		{"PUT", "/me/wallet"},
		{"GET", "/me/vote"},
		{"POST", "/votes"},

		{"GET", "/candidates"},
		{"GET", "/candidates/test-id"},
		{"GET", "/districts"},
		{"GET", "/results"},

		{"POST", "/candidates"},
		{"PUT", "/admin/voters/test-id/role"},
		{"POST", "/admin/reconcile"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestProtectedRoutes(t *testing.T) {
	mux, _, _ := setupRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/auth/session"},
		{"PUT", "/me/wallet"},
		{"GET", "/me/vote"},
		{"POST", "/votes"},
		{"POST", "/candidates"},
		{"PUT", "/admin/voters/test-id/role"},
		{"POST", "/admin/reconcile"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))

			if w.Code != http.StatusUnauthorized {
				t.Errorf("Expected 401 without a session, got %d", w.Code)
			}
		})
	}
}

func TestSpecificMethodRouting(t *testing.T) {
	mux, _, _ := setupRouter(t)

	testCases := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"POST to health endpoint", "POST", "/health", http.StatusMethodNotAllowed},
		{"DELETE a candidate", "DELETE", "/candidates/test-id", http.StatusMethodNotAllowed},
		{"GET votes", "GET", "/votes", http.StatusMethodNotAllowed},
		{"unknown path", "GET", "/polls", http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != tc.expectedStatus {
				t.Errorf("Expected %d for %s %s, got %d", tc.expectedStatus, tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestPathParameterExtraction(t *testing.T) {
	mux, svc, _ := setupRouter(t)
	c := testutil.CreateTestCandidate(t, svc, "Alice", "Central District", "North Central")

	req := httptest.NewRequest("GET", "/candidates/"+c.ID, nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for existing candidate, got %d. Body: %s", w.Code, w.Body.String())
	}
}

func TestImagesServed(t *testing.T) {
	mux, _, cfg := setupRouter(t)

	if err := os.WriteFile(filepath.Join(cfg.ImageDir, "photo.png"), []byte("png-bytes"), 0o644); err != nil {
		t.Fatalf("Failed to write image: %v", err)
	}
	if err := os.Mkdir(filepath.Join(cfg.ImageDir, "thumbs"), 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	tests := []struct {
		path           string
		expectedStatus int
	}{
		{"/images/photo.png", http.StatusOK},
		{"/images/missing.png", http.StatusNotFound},
		{"/images/", http.StatusNotFound},
		{"/images/thumbs", http.StatusNotFound},
		{"/images/thumbs/", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", tt.path, nil))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}
