// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dayanithi400/ethervote-sentinel/auth"
	"github.com/dayanithi400/ethervote-sentinel/models"
)

type contextKey int

const sessionKey contextKey = iota

// VoterLookup loads the identity record behind a session
type VoterLookup interface {
	Profile(ctx context.Context, voterID string) (models.Voter, error)
}

// BearerToken returns the token of an "Authorization: Bearer" header
func BearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// SessionFrom returns the session stored by RequireSession
func SessionFrom(ctx context.Context) (auth.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(auth.Session)
	return sess, ok
}

// RequireSession rejects requests without a valid session token
func RequireSession(sessions *auth.Sessions, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r)
		if token == "" {
			ErrorResponse(w, http.StatusUnauthorized, "Authorization: Bearer token required")
			return
		}

		sess, err := sessions.Verify(token)
		if err != nil {
			message := "Invalid or expired session"
			if errors.Is(err, auth.ErrRevokedToken) {
				message = "Session has been signed out"
			}
			ErrorResponse(w, http.StatusUnauthorized, message)
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
	}
}

// RequireAdmin allows only sessions whose voter currently holds the admin
// role in the store. The role claim in the token is not consulted, so role
// changes apply to sessions issued before them.
func RequireAdmin(sessions *auth.Sessions, voters VoterLookup, next http.HandlerFunc) http.HandlerFunc {
	return RequireSession(sessions, func(w http.ResponseWriter, r *http.Request) {
		sess, _ := SessionFrom(r.Context())
		voter, err := voters.Profile(r.Context(), sess.VoterID)
		if errors.Is(err, models.ErrNotFound) {
			ErrorResponse(w, http.StatusUnauthorized, "Session voter no longer exists")
			return
		}
		if err != nil {
			WriteError(w, err)
			return
		}
		if !voter.IsAdmin() {
			slog.Warn("admin route denied", "voter", voter.ID, "claim", sess.Role)
			ErrorResponse(w, http.StatusForbidden, "Admin role required")
			return
		}

		next(w, r)
	})
}
