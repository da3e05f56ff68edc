// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status, duration_ms).

# Sessions

RequireSession checks the "Authorization: Bearer" token and stores the
session in the request context:

	mux.HandleFunc("POST /votes", middleware.RequireSession(sessions, h.SubmitVote))

	sess, _ := middleware.SessionFrom(r.Context())

RequireAdmin re-reads the voter record and demands the stored admin role.
The token's role claim is informational only.

# Rate Limiting

RateLimiter keeps a golang.org/x/time/rate bucket per hashed client IP:

	limiter := middleware.NewRateLimiter(1, 5, cfg.RateLimitSalt)
	mux.HandleFunc("POST /auth/login", limiter.Limit(h.Login))

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(middleware.RealIP(cfg.TrustedProxies, mux)),
	}

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.WriteError(w, err) // status and code from models.ErrorCode

Parse JSON request bodies:

	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

GetClientIP returns the host of RemoteAddr. Forwarding headers are only
honoured through RealIP, and only when the peer is a trusted proxy:

	handler := middleware.RealIP(cfg.TrustedProxies, mux)
	ip := middleware.GetClientIP(r)
*/
package middleware
