// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - RegisterVoterRequest: voter profile plus password
  - LoginRequest: email, password
  - LinkWalletRequest: wallet_address
  - AssignRoleRequest: role
  - AddCandidateRequest: name, party, party_leader, district, constituency, symbol
  - SubmitVoteRequest: candidate_id, transaction_ref

# Response Types

  - LoginResponse: token, expires_at, voter
  - CandidateListResponse: candidates
  - ResultsResponse: total_votes, candidates with share
  - DistrictListResponse: districts with constituency names
  - ReconcileResponse: drifts, repaired
  - ErrorResponse: error, code, message, retryable

# Domain Types

  - District, Constituency: immutable reference data
  - Candidate: candidate with tally (vote_count)
  - Voter: identity record with the one-shot has_voted flag and a role
  - VoteRecord: append-only record of a cast vote
  - TallyDrift: vote_count disagreeing with vote records

# Errors

Every failure is one of the sentinel errors in errors.go. ErrorCode maps an
error to the code, HTTP status and retry hint sent to clients:

	code, status, retryable := models.ErrorCode(err)

# Constants

Roles:

	RoleVoter = "voter"
	RoleAdmin = "admin"
*/
package models
