// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"math"
	"sort"

	"github.com/dayanithi400/ethervote-sentinel/models"
)

// GetResults returns the filtered candidates ordered by vote count, highest
// first. Ties are broken by name, then id.
func (s *Service) GetResults(ctx context.Context, filter models.CandidateFilter) (models.ResultsResponse, error) {
	candidates, err := s.ListCandidates(ctx, filter)
	if err != nil {
		return models.ResultsResponse{}, err
	}

	SortByVotes(candidates)

	total := 0
	for _, c := range candidates {
		total += c.VoteCount
	}

	results := make([]models.CandidateResult, len(candidates))
	for i, c := range candidates {
		results[i] = models.CandidateResult{Candidate: c, Share: share(c.VoteCount, total)}
	}

	return models.ResultsResponse{
		District:     filter.District,
		Constituency: filter.Constituency,
		TotalVotes:   total,
		Candidates:   results,
	}, nil
}

// SortByVotes orders candidates by vote count descending, then name, then id
func SortByVotes(candidates []models.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.VoteCount != b.VoteCount {
			return a.VoteCount > b.VoteCount
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
}

// share is the percentage of total, rounded to two decimals
func share(votes, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(votes)*10000/float64(total)) / 100
}
