// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSessionsIssueAndVerify(t *testing.T) {
	sessions := NewSessions("test-secret", time.Hour)

	token, expiresAt, err := sessions.Issue("voter-1", "admin")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if strings.Count(token, ".") != 2 {
		t.Errorf("Issue() did not return a compact JWT: %s", token)
	}
	if time.Until(expiresAt) <= 0 || time.Until(expiresAt) > time.Hour {
		t.Errorf("Issue() expiry out of range: %s", expiresAt)
	}

	sess, err := sessions.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if sess.VoterID != "voter-1" {
		t.Errorf("VoterID = %s, want voter-1", sess.VoterID)
	}
	if sess.Role != "admin" {
		t.Errorf("Role = %s, want admin", sess.Role)
	}
	if sess.TokenID == "" {
		t.Error("TokenID is empty")
	}
	if !sess.ExpiresAt.Equal(expiresAt) {
		t.Errorf("ExpiresAt = %s, want %s", sess.ExpiresAt, expiresAt)
	}
}

func TestSessionsRejectsBadTokens(t *testing.T) {
	sessions := NewSessions("test-secret", time.Hour)
	other := NewSessions("other-secret", time.Hour)

	foreign, _, err := other.Issue("voter-1", "voter")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"wrong secret", foreign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := sessions.Verify(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestSessionsExpiry(t *testing.T) {
	sessions := NewSessions("test-secret", time.Minute)

	token, _, err := sessions.Issue("voter-1", "voter")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// Move the clock past the expiry
	sessions.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	if _, err := sessions.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() of expired token error = %v, want ErrInvalidToken", err)
	}
}

func TestSessionsRevoke(t *testing.T) {
	sessions := NewSessions("test-secret", time.Hour)

	token, _, _ := sessions.Issue("voter-1", "voter")
	otherToken, _, _ := sessions.Issue("voter-1", "voter")

	sess, err := sessions.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	sessions.Revoke(sess)

	if _, err := sessions.Verify(token); !errors.Is(err, ErrRevokedToken) {
		t.Errorf("Verify() after Revoke error = %v, want ErrRevokedToken", err)
	}

	// Other sessions of the same voter stay valid
	if _, err := sessions.Verify(otherToken); err != nil {
		t.Errorf("Verify() of unrelated session error = %v", err)
	}
}
