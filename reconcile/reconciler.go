// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron"

	"github.com/dayanithi400/ethervote-sentinel/models"
)

// runTimeout bounds a single scheduled run
const runTimeout = time.Minute

// Tallies is the part of the store the reconciler works on
type Tallies interface {
	AuditTallies(ctx context.Context) ([]models.TallyDrift, error)
	RepairTallies(ctx context.Context) (int, error)
}

// Reconciler compares candidate tallies with their vote records on a
// schedule. Drift is logged; with repair enabled it is also corrected.
type Reconciler struct {
	store  Tallies
	repair bool
	cron   *cron.Cron

	mu sync.Mutex // one run at a time
}

func NewReconciler(store Tallies, repair bool) *Reconciler {
	return &Reconciler{
		store:  store,
		repair: repair,
		cron:   cron.New(),
	}
}

// Start schedules RunOnce with a cron spec such as "@every 5m"
func (r *Reconciler) Start(spec string) error {
	err := r.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		if _, err := r.RunOnce(ctx); err != nil {
			slog.Error("tally reconciliation failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reconcile schedule %q: %w", spec, err)
	}

	r.cron.Start()
	slog.Info("tally reconciler started", "schedule", spec, "repair", r.repair)
	return nil
}

func (r *Reconciler) Stop() {
	r.cron.Stop()
}

// RunOnce audits all tallies and repairs them when enabled
func (r *Reconciler) RunOnce(ctx context.Context) (models.ReconcileResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	drifts, err := r.store.AuditTallies(ctx)
	if err != nil {
		return models.ReconcileResponse{}, fmt.Errorf("audit tallies: %w", err)
	}

	result := models.ReconcileResponse{Drifts: drifts}
	if len(drifts) == 0 {
		slog.Debug("tallies consistent")
		return result, nil
	}

	for _, d := range drifts {
		slog.Warn("tally drift",
			"candidate_id", d.CandidateID,
			"vote_count", d.VoteCount,
			"record_count", d.RecordCount,
		)
	}

	if !r.repair {
		return result, nil
	}

	n, err := r.store.RepairTallies(ctx)
	if err != nil {
		return result, fmt.Errorf("repair tallies: %w", err)
	}
	result.Repaired = n
	slog.Info("tallies repaired", "count", n)
	return result, nil
}
