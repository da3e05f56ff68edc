// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	gocache "github.com/patrickmn/go-cache"
)

const (
	sessionIssuer = "ethervote"
	roleClaim     = "role"
)

// Session is the verified content of a session token
type Session struct {
	VoterID   string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// Sessions issues and verifies HS256 session tokens.
// Signed-out tokens are remembered until they would have expired anyway.
type Sessions struct {
	key     []byte
	ttl     time.Duration
	revoked *gocache.Cache
	now     func() time.Time
}

func NewSessions(secret string, ttl time.Duration) *Sessions {
	return &Sessions{
		key:     []byte(secret),
		ttl:     ttl,
		revoked: gocache.New(ttl, 10*time.Minute),
		now:     time.Now,
	}
}

// Issue creates a signed token for a voter record
func (s *Sessions) Issue(voterID, role string) (string, time.Time, error) {
	tokenID, err := GenerateTokenID()
	if err != nil {
		return "", time.Time{}, err
	}

	now := s.now()
	expiresAt := now.Add(s.ttl).Truncate(time.Second)

	tok, err := jwt.NewBuilder().
		Issuer(sessionIssuer).
		Subject(voterID).
		JwtID(tokenID).
		IssuedAt(now).
		Expiration(expiresAt).
		Claim(roleClaim, role).
		Build()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to build session token: %w", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, s.key))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return string(signed), expiresAt, nil
}

// Verify checks signature, issuer, expiry and revocation
func (s *Sessions) Verify(token string) (Session, error) {
	tok, err := jwt.Parse([]byte(token),
		jwt.WithKey(jwa.HS256, s.key),
		jwt.WithValidate(true),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithClock(jwt.ClockFunc(s.now)),
	)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if tok.Subject() == "" || tok.JwtID() == "" {
		return Session{}, ErrInvalidToken
	}

	if _, found := s.revoked.Get(tok.JwtID()); found {
		return Session{}, ErrRevokedToken
	}

	role, _ := tok.Get(roleClaim)
	roleStr, _ := role.(string)

	return Session{
		VoterID:   tok.Subject(),
		Role:      roleStr,
		TokenID:   tok.JwtID(),
		ExpiresAt: tok.Expiration(),
	}, nil
}

// Revoke signs a session out
func (s *Sessions) Revoke(sess Session) {
	remaining := sess.ExpiresAt.Sub(s.now())
	if remaining <= 0 {
		return
	}
	s.revoked.Set(sess.TokenID, struct{}{}, remaining)
}
