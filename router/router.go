// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"log/slog"
	"net/http"

	"github.com/dayanithi400/ethervote-sentinel/auth"
	"github.com/dayanithi400/ethervote-sentinel/cliparse"
	"github.com/dayanithi400/ethervote-sentinel/election"
	"github.com/dayanithi400/ethervote-sentinel/handlers"
	"github.com/dayanithi400/ethervote-sentinel/images"
	"github.com/dayanithi400/ethervote-sentinel/middleware"
)

func NewRouter(svc *election.Service, sessions *auth.Sessions, reconciler handlers.Reconciler, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	voterHandler := handlers.NewVoterHandler(svc, sessions)
	candidateHandler := handlers.NewCandidateHandler(svc)
	voteHandler := handlers.NewVoteHandler(svc)
	resultsHandler := handlers.NewResultsHandler(svc)
	adminHandler := handlers.NewAdminHandler(reconciler)

	limiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst, cfg.RateLimitSalt)
	session := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireSession(sessions, h))
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAdmin(sessions, svc, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Store().Ping(r.Context()); err != nil {
			slog.Error("health check failed", "error", err)
			middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Store unavailable")
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Identity (public, rate limited)
	mux.HandleFunc("POST /auth/register", middleware.WithLogging(limiter.Limit(voterHandler.Register)))
	mux.HandleFunc("POST /auth/login", middleware.WithLogging(limiter.Limit(voterHandler.Login)))

	// Session operations
	mux.HandleFunc("GET /auth/session", session(voterHandler.Session))
	mux.HandleFunc("POST /auth/logout", session(voterHandler.Logout))
	mux.HandleFunc("PUT /me/wallet", session(voterHandler.LinkWallet))
	mux.HandleFunc("GET /me/vote", session(voterHandler.Receipt))
	mux.HandleFunc("POST /votes", session(voteHandler.SubmitVote))

	// Directory and results (public)
	mux.HandleFunc("GET /candidates", middleware.WithLogging(candidateHandler.ListCandidates))
	mux.HandleFunc("GET /candidates/{id}", middleware.WithLogging(candidateHandler.GetCandidate))
	mux.HandleFunc("GET /districts", middleware.WithLogging(candidateHandler.ListDistricts))
	mux.HandleFunc("GET /results", middleware.WithLogging(resultsHandler.GetResults))

	// Administration
	mux.HandleFunc("POST /candidates", admin(candidateHandler.AddCandidate))
	mux.HandleFunc("PUT /admin/voters/{id}/role", admin(voterHandler.AssignRole))
	mux.HandleFunc("POST /admin/reconcile", admin(adminHandler.Reconcile))

	// Candidate images
	if cfg.ImageDir != "" {
		mux.Handle("GET /images/", http.StripPrefix("/images/", images.FileServer(cfg.ImageDir)))
	}

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ethervote API v1"))
	})

	return mux
}
