// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dayanithi400/ethervote-sentinel/models"
)

func setupMemory(t *testing.T) (*MemoryStore, models.Candidate) {
	t.Helper()

	ctx := context.Background()
	m := NewMemoryStore()
	seeds, err := LoadSeed("")
	if err != nil {
		t.Fatalf("LoadSeed failed: %v", err)
	}
	if err := m.SeedReferenceData(ctx, seeds); err != nil {
		t.Fatalf("SeedReferenceData failed: %v", err)
	}

	d, err := m.ResolveDistrict(ctx, "Central District")
	if err != nil {
		t.Fatalf("ResolveDistrict failed: %v", err)
	}
	k, err := m.ResolveConstituency(ctx, d.ID, "North Central")
	if err != nil {
		t.Fatalf("ResolveConstituency failed: %v", err)
	}
	c, err := m.CreateCandidate(ctx, models.Candidate{
		Name:           "Alice",
		Party:          "Test Party",
		DistrictID:     d.ID,
		ConstituencyID: k.ID,
		Symbol:         models.DefaultSymbol,
	})
	if err != nil {
		t.Fatalf("CreateCandidate failed: %v", err)
	}
	return m, c
}

func TestMemorySeedIdempotent(t *testing.T) {
	m, _ := setupMemory(t)
	ctx := context.Background()

	before, _ := m.ListDistricts(ctx)
	seeds, _ := LoadSeed("")
	if err := m.SeedReferenceData(ctx, seeds); err != nil {
		t.Fatalf("Second seed failed: %v", err)
	}
	after, _ := m.ListDistricts(ctx)

	if len(before) != len(after) {
		t.Fatalf("Expected %d districts after reseed, got %d", len(before), len(after))
	}
	for i := range before {
		if before[i].ID != after[i].ID || len(before[i].Constituencies) != len(after[i].Constituencies) {
			t.Errorf("District %q changed on reseed", before[i].Name)
		}
	}
	for i := 1; i < len(after); i++ {
		if after[i-1].Name > after[i].Name {
			t.Errorf("Districts not sorted: %q before %q", after[i-1].Name, after[i].Name)
		}
	}
}

func TestMemoryCreateVoterDuplicate(t *testing.T) {
	m, _ := setupMemory(t)
	ctx := context.Background()

	voter := models.Voter{Name: "A", VoterID: "V-1", Email: "a@example.com", District: "Central District", Constituency: "North Central"}
	if _, err := m.CreateVoter(ctx, voter); err != nil {
		t.Fatalf("CreateVoter failed: %v", err)
	}

	tests := []struct {
		name    string
		email   string
		voterID string
	}{
		{"same email", "a@example.com", "V-2"},
		{"same email other case", "A@Example.com", "V-3"},
		{"same voter id", "b@example.com", "V-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.CreateVoter(ctx, models.Voter{Name: "B", VoterID: tt.voterID, Email: tt.email})
			if !errors.Is(err, models.ErrDuplicateIdentifier) {
				t.Errorf("Expected ErrDuplicateIdentifier, got %v", err)
			}
		})
	}
}

func TestMemoryCreateCandidateWrongDistrict(t *testing.T) {
	m, c := setupMemory(t)
	ctx := context.Background()

	eastern, _ := m.ResolveDistrict(ctx, "Eastern District")
	_, err := m.CreateCandidate(ctx, models.Candidate{
		Name:           "Bob",
		Party:          "P",
		DistrictID:     eastern.ID,
		ConstituencyID: c.ConstituencyID,
	})
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	all, _ := m.ListCandidates(ctx, "", "")
	if len(all) != 1 {
		t.Errorf("Expected 1 candidate, got %d", len(all))
	}
}

func TestMemoryCastVote(t *testing.T) {
	m, c := setupMemory(t)
	ctx := context.Background()

	v, _ := m.CreateVoter(ctx, models.Voter{Name: "A", VoterID: "V-1", Email: "a@example.com"})

	_, err := m.CastVote(ctx, models.VoteRecord{VoterID: v.ID, CandidateID: "missing"})
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	if got, _ := m.VoterByID(ctx, v.ID); got.HasVoted {
		t.Fatal("Failed vote must not set has_voted")
	}

	rec, err := m.CastVote(ctx, models.VoteRecord{VoterID: v.ID, CandidateID: c.ID, TransactionRef: "0x01"})
	if err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}
	if rec.ID == "" || rec.Timestamp.IsZero() {
		t.Errorf("Expected id and timestamp: %+v", rec)
	}

	if _, err := m.CastVote(ctx, models.VoteRecord{VoterID: v.ID, CandidateID: c.ID}); !errors.Is(err, models.ErrAlreadyVoted) {
		t.Errorf("Expected ErrAlreadyVoted, got %v", err)
	}

	got, _ := m.CandidateByID(ctx, c.ID)
	if got.VoteCount != 1 {
		t.Errorf("Expected vote_count 1, got %d", got.VoteCount)
	}
	stored, err := m.VoteByVoter(ctx, v.ID)
	if err != nil || stored.ID != rec.ID {
		t.Errorf("VoteByVoter returned %+v, %v", stored, err)
	}
}

func TestMemoryCastVoteConcurrent(t *testing.T) {
	m, c := setupMemory(t)
	ctx := context.Background()

	v, _ := m.CreateVoter(ctx, models.Voter{Name: "A", VoterID: "V-1", Email: "a@example.com"})

	const attempts = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes, rejected := 0, 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.CastVote(ctx, models.VoteRecord{VoterID: v.ID, CandidateID: c.ID})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, models.ErrAlreadyVoted):
				rejected++
			default:
				t.Errorf("Unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 || rejected != attempts-1 {
		t.Errorf("Expected 1 success and %d rejections, got %d and %d", attempts-1, successes, rejected)
	}
	got, _ := m.CandidateByID(ctx, c.ID)
	if got.VoteCount != 1 {
		t.Errorf("Expected vote_count 1, got %d", got.VoteCount)
	}
}

func TestMemoryCastVoteCancelled(t *testing.T) {
	m, c := setupMemory(t)
	v, _ := m.CreateVoter(context.Background(), models.Voter{Name: "A", VoterID: "V-1", Email: "a@example.com"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.CastVote(ctx, models.VoteRecord{VoterID: v.ID, CandidateID: c.ID})
	if !errors.Is(err, models.ErrTransactionAborted) {
		t.Fatalf("Expected ErrTransactionAborted, got %v", err)
	}
	if got, _ := m.VoterByID(context.Background(), v.ID); got.HasVoted {
		t.Error("Cancelled vote must not set has_voted")
	}
}

func TestMemoryAuditAndRepair(t *testing.T) {
	m, c := setupMemory(t)
	ctx := context.Background()

	drifts, _ := m.AuditTallies(ctx)
	if len(drifts) != 0 {
		t.Fatalf("Expected no drift, got %+v", drifts)
	}

	m.SetVoteCount(c.ID, 3)
	drifts, _ = m.AuditTallies(ctx)
	if len(drifts) != 1 || drifts[0].VoteCount != 3 || drifts[0].RecordCount != 0 {
		t.Fatalf("Unexpected drifts: %+v", drifts)
	}

	n, err := m.RepairTallies(ctx)
	if err != nil || n != 1 {
		t.Fatalf("RepairTallies returned %d, %v", n, err)
	}
	got, _ := m.CandidateByID(ctx, c.ID)
	if got.VoteCount != 0 {
		t.Errorf("Expected vote_count 0 after repair, got %d", got.VoteCount)
	}
}
