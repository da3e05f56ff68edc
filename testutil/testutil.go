// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/dayanithi400/ethervote-sentinel/auth"
	"github.com/dayanithi400/ethervote-sentinel/cliparse"
	"github.com/dayanithi400/ethervote-sentinel/db"
	"github.com/dayanithi400/ethervote-sentinel/election"
	"github.com/dayanithi400/ethervote-sentinel/images"
	"github.com/dayanithi400/ethervote-sentinel/models"
	"github.com/dayanithi400/ethervote-sentinel/store"
	"github.com/dayanithi400/ethervote-sentinel/wallet"
)

// TestSessionSecret signs session tokens in tests
const TestSessionSecret = "test-session-secret"

// TestPassword is the password of every fixture voter
const TestPassword = "secret123"

// SetupTestDB creates a fresh SQLite database file with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), db.TypeSQLite, "file:"+filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupTestService returns an election service over a seeded SQLite store,
// an instant simulated ledger and a temporary image directory.
func SetupTestService(t *testing.T) (*election.Service, *db.SQLStore) {
	t.Helper()

	st := db.NewSQLStore(SetupTestDB(t))
	seeds, err := store.LoadSeed("")
	if err != nil {
		t.Fatalf("Failed to load seed: %v", err)
	}
	if err := st.SeedReferenceData(context.Background(), seeds); err != nil {
		t.Fatalf("Failed to seed reference data: %v", err)
	}

	imgs, err := images.NewFileStore(t.TempDir(), "/images")
	if err != nil {
		t.Fatalf("Failed to create image store: %v", err)
	}

	return election.NewService(st, wallet.NewSimulatedLedger(0), imgs), st
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:              3318,
		Store:             cliparse.StoreMemory,
		StoreFallback:     "none",
		DatabaseType:      "sqlite",
		SessionSecret:     TestSessionSecret,
		SessionTTL:        time.Hour,
		Ledger:            cliparse.LedgerSimulated,
		ImageBaseURL:      "/images",
		ReconcileSchedule: cliparse.ScheduleOff,
		AuthRateLimit:     1000,
		AuthRateBurst:     1000,
	}
}

// NewTestSessions returns a session issuer using TestSessionSecret
func NewTestSessions() *auth.Sessions {
	return auth.NewSessions(TestSessionSecret, time.Hour)
}

// CreateTestVoter registers voter number n in the given constituency
func CreateTestVoter(t *testing.T, svc *election.Service, n int, district, constituency string) models.Voter {
	t.Helper()

	v, err := svc.RegisterVoter(context.Background(), models.RegisterVoterRequest{
		Name:         fmt.Sprintf("Test Voter %d", n),
		VoterID:      fmt.Sprintf("TEST-%04d", n),
		District:     district,
		Constituency: constituency,
		Email:        fmt.Sprintf("voter%d@example.com", n),
		Password:     TestPassword,
	})
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}

	return v
}

// CreateTestAdmin registers voter number n and grants the admin role
func CreateTestAdmin(t *testing.T, svc *election.Service, n int) models.Voter {
	t.Helper()

	v := CreateTestVoter(t, svc, n, "Central District", "North Central")
	admin, err := svc.AssignRole(context.Background(), v.ID, models.RoleAdmin)
	if err != nil {
		t.Fatalf("Failed to promote test admin: %v", err)
	}

	return admin
}

// CreateTestCandidate adds a candidate and returns it
func CreateTestCandidate(t *testing.T, svc *election.Service, name, district, constituency string) models.Candidate {
	t.Helper()

	c, err := svc.AddCandidate(context.Background(), models.AddCandidateRequest{
		Name:         name,
		Party:        name + " Party",
		District:     district,
		Constituency: constituency,
	}, nil)
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return c
}

// AuthHeader issues a session for the voter and returns the request header
func AuthHeader(t *testing.T, sessions *auth.Sessions, v models.Voter) map[string]string {
	t.Helper()

	token, _, err := sessions.Issue(v.ID, v.Role)
	if err != nil {
		t.Fatalf("Failed to issue session: %v", err)
	}

	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
