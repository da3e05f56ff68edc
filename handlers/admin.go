// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"

	"github.com/dayanithi400/ethervote-sentinel/middleware"
	"github.com/dayanithi400/ethervote-sentinel/models"
)

// Reconciler runs a tally audit on demand
type Reconciler interface {
	RunOnce(ctx context.Context) (models.ReconcileResponse, error)
}

type AdminHandler struct {
	reconciler Reconciler
}

func NewAdminHandler(reconciler Reconciler) *AdminHandler {
	return &AdminHandler{reconciler: reconciler}
}

// Reconcile handles POST /admin/reconcile
func (h *AdminHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	res, err := h.reconciler.RunOnce(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, res)
}
