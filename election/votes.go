// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dayanithi400/ethervote-sentinel/models"
)

// SubmitVote records the voter's single vote for a candidate of their own
// constituency. txRef may be empty when the ledger mints references.
func (s *Service) SubmitVote(ctx context.Context, voterID, candidateID, txRef string) (models.VoteRecord, error) {
	candidateID = strings.TrimSpace(candidateID)
	if candidateID == "" {
		return models.VoteRecord{}, fmt.Errorf("%w: candidate_id required", models.ErrValidationFailed)
	}

	voter, err := s.store.VoterByID(ctx, voterID)
	if err != nil {
		return models.VoteRecord{}, err
	}
	if voter.HasVoted {
		return models.VoteRecord{}, models.ErrAlreadyVoted
	}

	d, k, err := s.refs.resolve(ctx, voter.District, voter.Constituency)
	if err != nil {
		return models.VoteRecord{}, err
	}

	candidate, err := s.store.CandidateByID(ctx, candidateID)
	if err != nil {
		return models.VoteRecord{}, err
	}
	if candidate.DistrictID != d.ID || candidate.ConstituencyID != k.ID {
		return models.VoteRecord{}, fmt.Errorf("candidate not found in your constituency: %w", models.ErrNotFound)
	}

	ref, err := s.ledger.Reference(ctx, voter.ID, candidate.ID, strings.TrimSpace(txRef))
	if err != nil {
		return models.VoteRecord{}, err
	}

	rec, err := s.store.CastVote(ctx, models.VoteRecord{
		VoterID:        voter.ID,
		CandidateID:    candidate.ID,
		DistrictID:     d.ID,
		ConstituencyID: k.ID,
		TransactionRef: ref,
	})
	if err != nil {
		return models.VoteRecord{}, err
	}

	slog.Info("vote recorded", "voter", voter.ID, "candidate", candidate.ID, "transaction_ref", ref)
	return rec, nil
}

// VoteReceipt returns the vote record of a voter, or ErrNotFound if they
// have not voted.
func (s *Service) VoteReceipt(ctx context.Context, voterID string) (models.VoteRecord, error) {
	return s.store.VoteByVoter(ctx, voterID)
}
