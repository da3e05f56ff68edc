// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dayanithi400/ethervote-sentinel/auth"
	"github.com/dayanithi400/ethervote-sentinel/election"
	"github.com/dayanithi400/ethervote-sentinel/middleware"
	"github.com/dayanithi400/ethervote-sentinel/models"
)

type VoterHandler struct {
	svc      *election.Service
	sessions *auth.Sessions
}

func NewVoterHandler(svc *election.Service, sessions *auth.Sessions) *VoterHandler {
	return &VoterHandler{svc: svc, sessions: sessions}
}

// Register handles POST /auth/register
func (h *VoterHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	voter, err := h.svc.RegisterVoter(r.Context(), req)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, voter)
}

// Login handles POST /auth/login
func (h *VoterHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	voter, err := h.svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			slog.Warn("failed sign-in attempt", "remote", middleware.GetClientIP(r))
		}
		middleware.WriteError(w, err)
		return
	}

	token, expiresAt, err := h.sessions.Issue(voter.ID, voter.Role)
	if err != nil {
		slog.Error("failed to issue session", "error", err, "voter", voter.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	slog.Info("voter signed in", "voter", voter.ID)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Voter:     voter,
	})
}

// Session handles GET /auth/session
func (h *VoterHandler) Session(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Session required")
		return
	}

	voter, err := h.svc.Profile(r.Context(), sess.VoterID)
	if errors.Is(err, models.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Session voter no longer exists")
		return
	}
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, voter)
}

// Logout handles POST /auth/logout
func (h *VoterHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Session required")
		return
	}

	h.sessions.Revoke(sess)
	slog.Info("voter signed out", "voter", sess.VoterID)

	w.WriteHeader(http.StatusNoContent)
}

// LinkWallet handles PUT /me/wallet
func (h *VoterHandler) LinkWallet(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Session required")
		return
	}

	var req models.LinkWalletRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	voter, err := h.svc.LinkWallet(r.Context(), sess.VoterID, req.WalletAddress)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, voter)
}

// Receipt handles GET /me/vote
func (h *VoterHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Session required")
		return
	}

	rec, err := h.svc.VoteReceipt(r.Context(), sess.VoterID)
	if errors.Is(err, models.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "You have not voted yet")
		return
	}
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, rec)
}

// AssignRole handles PUT /admin/voters/{id}/role
func (h *VoterHandler) AssignRole(w http.ResponseWriter, r *http.Request) {
	voterID := r.PathValue("id")
	if voterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter id is required")
		return
	}

	var req models.AssignRoleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	voter, err := h.svc.AssignRole(r.Context(), voterID, req.Role)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, voter)
}
