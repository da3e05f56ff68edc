// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides credential, session and token generation utilities.

# Passwords

Passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, password)

CheckPassword returns ErrPasswordHash for any mismatch, including an empty
or malformed hash.

# Sessions

Sessions are HS256 JWTs carrying the voter record id (sub), the role claim
and a random token id (jti):

	sessions := auth.NewSessions(secret, 12*time.Hour)
	token, expiresAt, err := sessions.Issue(voter.ID, voter.Role)
	sess, err := sessions.Verify(token)

Sign-out revokes the token id. Revoked ids are kept in memory until the
token would have expired:

	sessions.Revoke(sess)

The role claim is a hint only. Admin checks re-read the voter record.

# ID Generation

Random hex IDs:

	id, err := auth.GenerateID(16)  // 32 hex characters

# IP Hashing

For privacy-preserving rate limiting:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
