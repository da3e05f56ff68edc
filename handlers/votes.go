// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/dayanithi400/ethervote-sentinel/election"
	"github.com/dayanithi400/ethervote-sentinel/middleware"
	"github.com/dayanithi400/ethervote-sentinel/models"
)

type VoteHandler struct {
	svc *election.Service
}

func NewVoteHandler(svc *election.Service) *VoteHandler {
	return &VoteHandler{svc: svc}
}

// SubmitVote handles POST /votes
func (h *VoteHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Session required")
		return
	}

	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	rec, err := h.svc.SubmitVote(r.Context(), sess.VoterID, req.CandidateID, req.TransactionRef)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, rec)
}
