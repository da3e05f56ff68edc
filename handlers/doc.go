// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the EtherVote API.

# Handler Types

Each handler is a thin struct over the election service:

  - VoterHandler: registration, sign-in, sessions, wallet linking, receipts, roles
  - CandidateHandler: candidate directory and district reference data
  - VoteHandler: vote submission
  - ResultsHandler: ranked results
  - AdminHandler: on-demand tally reconciliation

Handlers are created via constructor functions:

	voterHandler := handlers.NewVoterHandler(svc, sessions)

# Sessions

Session routes are wrapped by middleware.RequireSession, admin routes by
middleware.RequireAdmin. Handlers read the caller with
middleware.SessionFrom.

# Voting Flow

	POST /auth/register → Register (201, voter profile)
	POST /auth/login    → Login (bearer token)
	GET  /candidates    → ListCandidates (own constituency)
	POST /votes         → SubmitVote (201, vote record)
	GET  /me/vote       → Receipt

A second vote answers 409 with code already_voted. A candidate outside the
voter's constituency answers 404.

# Candidate Uploads

AddCandidate accepts JSON, or multipart/form-data with the same field names
and an optional "image" file of at most 5 MiB.

# Errors

Service errors are mapped by middleware.WriteError:

	{"error": "Conflict", "code": "already_voted", "message": "...", "retryable": false}
*/
package handlers
