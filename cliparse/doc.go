// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags and Environment Variables

Flags fall back to environment variables:

	PORT               → -p               (default 3318)
	DATABASE_URL       → -d               (required with STORE=sql)
	DATABASE_TYPE      → -t               sqlite | postgres (default sqlite)
	STORE              → -store           sql | memory (default sql)
	STORE_FALLBACK     → -store-fallback  none | memory (default none)
	SESSION_SECRET     → -session-secret  (required)
	SESSION_TTL        → -session-ttl     (default 12h)
	ADMIN_EMAIL        → -admin-email
	ADMIN_PASSWORD     → -admin-password
	LEDGER             → -ledger          simulated | rpc (default simulated)
	LEDGER_RPC_URL     → -ledger-rpc      (required with LEDGER=rpc)
	LEDGER_DELAY       → -ledger-delay    (default 2s)
	IMAGE_DIR          → -image-dir       (default data/images)
	IMAGE_BASE_URL     → -image-base-url  (default /images)
	SEED_FILE          → -seed-file       (default: embedded districts)
	RECONCILE_SCHEDULE → -reconcile       cron spec or "off" (default @every 5m)
	RECONCILE_REPAIR   → -reconcile-repair
	AUTH_RATE_LIMIT    → -auth-rate       (default 1/s)
	AUTH_RATE_BURST    → -auth-burst      (default 5)

CLI flags take precedence over environment variables. main loads an
optional .env file before parsing.

# Memory Fallback

The in-memory store loses every vote on restart. It is used only when
STORE=memory, or when STORE_FALLBACK=memory and the database cannot be
reached at start-up. The server never falls back silently.
*/
package cliparse
