// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package reconcile audits candidate tallies against vote records.

A Reconciler runs on a cron schedule:

	r := reconcile.NewReconciler(store, cfg.ReconcileRepair)
	if err := r.Start("@every 5m"); err != nil {
		log.Fatal(err)
	}
	defer r.Stop()

Each drift is logged at WARN. With repair enabled the vote_count is reset
to the number of vote records. RunOnce backs POST /admin/reconcile.
*/
package reconcile
