// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the EtherVote API server.

EtherVote registers voters against a fixed set of districts and
constituencies, publishes a candidate directory, and records exactly one
vote per voter, each carrying an Ethereum-style transaction reference.

# Starting the Server

Settings come from CLI flags, then environment variables, then a .env file:

	SESSION_SECRET=... DATABASE_URL=file:ethervote.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

Required settings:

  - DATABASE_URL (-d): connection string, unless STORE=memory
  - SESSION_SECRET (--session-secret): token signing secret

Optional settings:

  - PORT (-p): server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - STORE, STORE_FALLBACK: sql or memory; memory fallback on an unreachable database
  - LEDGER, LEDGER_RPC_URL, LEDGER_DELAY: simulated or rpc transaction references
  - IMAGE_DIR, IMAGE_BASE_URL: candidate image storage
  - SEED_FILE: YAML districts and constituencies
  - ADMIN_EMAIL, ADMIN_PASSWORD: bootstrap administrator
  - RECONCILE_SCHEDULE, RECONCILE_REPAIR: tally audit cron spec, or off
  - AUTH_RATE_LIMIT, AUTH_RATE_BURST: sign-in throttling per client
  - RATE_LIMIT_SALT: salt for hashed client IPs (default: random per process)
  - TRUSTED_PROXIES: comma separated IPs or CIDRs allowed to set X-Forwarded-For

# Architecture

  - handlers: HTTP request handlers
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, sessions, rate limiting, JSON helpers
  - election: voter, candidate, vote and results operations
  - store: storage interface, in-memory backend, seed data
  - db: PostgreSQL and SQLite backend
  - wallet: address checks and transaction references
  - images: candidate image storage
  - reconcile: scheduled tally audit
  - auth: passwords, identifiers, session tokens
  - models: request, response and domain types
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
