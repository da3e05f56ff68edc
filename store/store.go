// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"

	"github.com/dayanithi400/ethervote-sentinel/models"
)

// Store is the persistence boundary of the election service. Lookups that
// miss return models.ErrNotFound. Implementations must be safe for
// concurrent use.
type Store interface {
	Ping(ctx context.Context) error
	Close() error

	// Reference data
	SeedReferenceData(ctx context.Context, seeds []models.DistrictSeed) error
	ListDistricts(ctx context.Context) ([]models.District, error)
	ResolveDistrict(ctx context.Context, name string) (models.District, error)
	ResolveConstituency(ctx context.Context, districtID, name string) (models.Constituency, error)

	// Voter identity records. CreateVoter returns
	// models.ErrDuplicateIdentifier when the email or voter id is taken.
	CreateVoter(ctx context.Context, v models.Voter) (models.Voter, error)
	VoterByID(ctx context.Context, id string) (models.Voter, error)
	VoterByEmail(ctx context.Context, email string) (models.Voter, error)
	UpdateWallet(ctx context.Context, voterID, address string) error
	UpdateRole(ctx context.Context, voterID, role string) error

	// Candidates. Empty ids in ListCandidates match everything.
	CreateCandidate(ctx context.Context, c models.Candidate) (models.Candidate, error)
	CandidateByID(ctx context.Context, id string) (models.Candidate, error)
	ListCandidates(ctx context.Context, districtID, constituencyID string) ([]models.Candidate, error)

	// CastVote atomically flips the voter's has_voted flag, appends the
	// vote record and increments the candidate's tally. Either all three
	// happen or none does. Returns models.ErrAlreadyVoted if the flag was
	// already set, models.ErrNotFound if the voter or candidate is missing,
	// and models.ErrTransactionAborted for any other failure.
	CastVote(ctx context.Context, v models.VoteRecord) (models.VoteRecord, error)
	VoteByVoter(ctx context.Context, voterID string) (models.VoteRecord, error)

	// AuditTallies lists candidates whose vote_count differs from the
	// number of vote records referencing them. RepairTallies resets those
	// counts to the record count and returns how many were changed.
	AuditTallies(ctx context.Context) ([]models.TallyDrift, error)
	RepairTallies(ctx context.Context) (int, error)
}
