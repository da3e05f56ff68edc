// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db is the SQL storage backend for PostgreSQL and SQLite.

# Connecting

Open picks the driver by type and pings the server:

	conn, err := db.Open(ctx, db.TypeSQLite, "file:ethervote.db")
	if err != nil {
		log.Fatal(err)
	}
	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}
	s := db.NewSQLStore(conn)

SQLite is limited to one open connection. Never issue a query on the pool
while a transaction or a result set is still open.

Connection failures are wrapped with models.ErrExternalServiceUnavailable.

# Tables

  - district: reference districts (unique name)
  - constituency: constituencies, unique per district
  - voter: identity records, unique email and voter_id
  - candidate: candidates with their running vote_count
  - vote: one row per voter, append-only

# Relationships

	district 1──* constituency
	constituency 1──* candidate
	candidate 1──* vote
	voter 1──1 vote

# Voting

CastVote runs in a single transaction:

 1. UPDATE voter SET has_voted = TRUE WHERE has_voted = FALSE
 2. UPDATE candidate SET vote_count = vote_count + 1
 3. INSERT INTO vote

Zero rows in step 1 means the voter already voted (or does not exist).
The UNIQUE constraint on vote.voter_id backs this up.
*/
package db
