// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The schema is shared by PostgreSQL and SQLite, so it sticks to the
// common subset: TEXT ids, CURRENT_TIMESTAMP defaults, ON CONFLICT.
const schema = `
-- Districts
CREATE TABLE IF NOT EXISTS district (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Constituencies
CREATE TABLE IF NOT EXISTS constituency (
    id TEXT PRIMARY KEY,
    district_id TEXT NOT NULL REFERENCES district(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (district_id, name)
);

CREATE INDEX IF NOT EXISTS idx_constituency_district_id ON constituency(district_id);

-- Voter identity records
CREATE TABLE IF NOT EXISTS voter (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    voter_id TEXT NOT NULL UNIQUE,
    district TEXT NOT NULL,
    constituency TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    phone TEXT NOT NULL DEFAULT '',
    wallet_address TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL,
    has_voted BOOLEAN NOT NULL DEFAULT FALSE,
    role TEXT NOT NULL DEFAULT 'voter' CHECK (role IN ('voter', 'admin')),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Candidates
CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    party TEXT NOT NULL,
    party_leader TEXT,
    district_id TEXT NOT NULL REFERENCES district(id),
    constituency_id TEXT NOT NULL REFERENCES constituency(id),
    symbol TEXT NOT NULL,
    image_url TEXT,
    vote_count INTEGER NOT NULL DEFAULT 0 CHECK (vote_count >= 0),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_candidate_scope ON candidate(district_id, constituency_id);
CREATE INDEX IF NOT EXISTS idx_candidate_vote_count ON candidate(vote_count);

-- Votes (append-only, one per voter)
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    voter_id TEXT NOT NULL UNIQUE REFERENCES voter(id),
    candidate_id TEXT NOT NULL REFERENCES candidate(id),
    district_id TEXT NOT NULL REFERENCES district(id),
    constituency_id TEXT NOT NULL REFERENCES constituency(id),
    cast_at TIMESTAMP NOT NULL,
    transaction_ref TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_vote_candidate_id ON vote(candidate_id);
`
