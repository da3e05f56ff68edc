// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/dayanithi400/ethervote-sentinel/election"
	"github.com/dayanithi400/ethervote-sentinel/middleware"
	"github.com/dayanithi400/ethervote-sentinel/models"
)

type ResultsHandler struct {
	svc *election.Service
}

func NewResultsHandler(svc *election.Service) *ResultsHandler {
	return &ResultsHandler{svc: svc}
}

// GetResults handles GET /results?district=&constituency=
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	filter := models.CandidateFilter{
		District:     r.URL.Query().Get("district"),
		Constituency: r.URL.Query().Get("constituency"),
	}

	results, err := h.svc.GetResults(r.Context(), filter)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}
