// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"crypto/rand"
	"log/slog"
	"net/http"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/dayanithi400/ethervote-sentinel/auth"
)

// RateLimiter keeps one token bucket per hashed client IP. Idle buckets
// expire from the cache.
type RateLimiter struct {
	limit float64
	burst int
	salt  string

	mu       sync.Mutex
	limiters *gocache.Cache
}

// NewRateLimiter allows limit requests per second with the given burst.
// An empty salt is replaced with a random one.
func NewRateLimiter(limit float64, burst int, salt string) *RateLimiter {
	if salt == "" {
		salt = rand.Text()
	}
	return &RateLimiter{
		limit:    limit,
		burst:    burst,
		salt:     salt,
		limiters: gocache.New(10*time.Minute, 5*time.Minute),
	}
}

func (l *RateLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, ok := l.limiters.Get(key); ok {
		return limiter.(*rate.Limiter)
	}

	limiter := rate.NewLimiter(rate.Limit(l.limit), l.burst)
	l.limiters.SetDefault(key, limiter)
	return limiter
}

// Allow reports whether the request's client may proceed
func (l *RateLimiter) Allow(r *http.Request) bool {
	return l.limiter(auth.HashIP(GetClientIP(r), l.salt)).Allow()
}

// Limit wraps a handler, answering 429 when the client is over its rate
func (l *RateLimiter) Limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(r) {
			slog.Warn("rate limited", "path", r.URL.Path)
			w.Header().Set("Retry-After", "1")
			ErrorResponse(w, http.StatusTooManyRequests, "Too many requests, slow down")
			return
		}
		next(w, r)
	}
}
