// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dayanithi400/ethervote-sentinel/models"
)

// MemoryStore keeps everything in process memory. Nothing survives a
// restart. A single mutex guards all maps, so CastVote is atomic.
type MemoryStore struct {
	mu sync.RWMutex

	districts      map[string]models.District // by id
	constituencies map[string]models.Constituency
	voters         map[string]models.Voter
	candidates     map[string]models.Candidate
	votes          map[string]models.VoteRecord // by voter record id
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		districts:      make(map[string]models.District),
		constituencies: make(map[string]models.Constituency),
		voters:         make(map[string]models.Voter),
		candidates:     make(map[string]models.Candidate),
		votes:          make(map[string]models.VoteRecord),
	}
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryStore) Close() error {
	return nil
}

func (m *MemoryStore) SeedReferenceData(ctx context.Context, seeds []models.DistrictSeed) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, seed := range seeds {
		district, ok := m.districtByNameLocked(seed.Name)
		if !ok {
			district = models.District{ID: uuid.NewString(), Name: seed.Name}
			m.districts[district.ID] = district
		}
		for _, name := range seed.Constituencies {
			if _, ok := m.constituencyByNameLocked(district.ID, name); ok {
				continue
			}
			c := models.Constituency{ID: uuid.NewString(), Name: name, DistrictID: district.ID}
			m.constituencies[c.ID] = c
		}
	}
	return nil
}

func (m *MemoryStore) ListDistricts(ctx context.Context) ([]models.District, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	districts := make([]models.District, 0, len(m.districts))
	for _, d := range m.districts {
		d.Constituencies = []string{}
		for _, c := range m.constituencies {
			if c.DistrictID == d.ID {
				d.Constituencies = append(d.Constituencies, c.Name)
			}
		}
		sort.Strings(d.Constituencies)
		districts = append(districts, d)
	}
	sort.Slice(districts, func(i, j int) bool { return districts[i].Name < districts[j].Name })
	return districts, nil
}

func (m *MemoryStore) ResolveDistrict(ctx context.Context, name string) (models.District, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.districtByNameLocked(name)
	if !ok {
		return models.District{}, fmt.Errorf("district %q: %w", name, models.ErrNotFound)
	}
	return d, nil
}

func (m *MemoryStore) ResolveConstituency(ctx context.Context, districtID, name string) (models.Constituency, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.constituencyByNameLocked(districtID, name)
	if !ok {
		return models.Constituency{}, fmt.Errorf("constituency %q: %w", name, models.ErrNotFound)
	}
	return c, nil
}

func (m *MemoryStore) CreateVoter(ctx context.Context, v models.Voter) (models.Voter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.voters {
		if strings.EqualFold(existing.Email, v.Email) || existing.VoterID == v.VoterID {
			return models.Voter{}, models.ErrDuplicateIdentifier
		}
	}

	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	if v.Role == "" {
		v.Role = models.RoleVoter
	}
	v.HasVoted = false
	m.voters[v.ID] = v
	return v, nil
}

func (m *MemoryStore) VoterByID(ctx context.Context, id string) (models.Voter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.voters[id]
	if !ok {
		return models.Voter{}, fmt.Errorf("voter %s: %w", id, models.ErrNotFound)
	}
	return v, nil
}

func (m *MemoryStore) VoterByEmail(ctx context.Context, email string) (models.Voter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, v := range m.voters {
		if strings.EqualFold(v.Email, email) {
			return v, nil
		}
	}
	return models.Voter{}, fmt.Errorf("voter with email %q: %w", email, models.ErrNotFound)
}

func (m *MemoryStore) UpdateWallet(ctx context.Context, voterID, address string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.voters[voterID]
	if !ok {
		return fmt.Errorf("voter %s: %w", voterID, models.ErrNotFound)
	}
	v.WalletAddress = address
	m.voters[voterID] = v
	return nil
}

func (m *MemoryStore) UpdateRole(ctx context.Context, voterID, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.voters[voterID]
	if !ok {
		return fmt.Errorf("voter %s: %w", voterID, models.ErrNotFound)
	}
	v.Role = role
	m.voters[voterID] = v
	return nil
}

func (m *MemoryStore) CreateCandidate(ctx context.Context, c models.Candidate) (models.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	constituency, ok := m.constituencies[c.ConstituencyID]
	if !ok || constituency.DistrictID != c.DistrictID {
		return models.Candidate{}, fmt.Errorf("constituency %s in district %s: %w", c.ConstituencyID, c.DistrictID, models.ErrNotFound)
	}

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	c.VoteCount = 0
	m.candidates[c.ID] = c
	return m.withNamesLocked(c), nil
}

func (m *MemoryStore) CandidateByID(ctx context.Context, id string) (models.Candidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.candidates[id]
	if !ok {
		return models.Candidate{}, fmt.Errorf("candidate %s: %w", id, models.ErrNotFound)
	}
	return m.withNamesLocked(c), nil
}

func (m *MemoryStore) ListCandidates(ctx context.Context, districtID, constituencyID string) ([]models.Candidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	candidates := []models.Candidate{}
	for _, c := range m.candidates {
		if districtID != "" && c.DistrictID != districtID {
			continue
		}
		if constituencyID != "" && c.ConstituencyID != constituencyID {
			continue
		}
		candidates = append(candidates, m.withNamesLocked(c))
	}
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
			return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
		}
		return candidates[i].ID < candidates[j].ID
	})
	return candidates, nil
}

func (m *MemoryStore) CastVote(ctx context.Context, v models.VoteRecord) (models.VoteRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// All checks run before the first mutation.
	if err := ctx.Err(); err != nil {
		return models.VoteRecord{}, fmt.Errorf("%w: %v", models.ErrTransactionAborted, err)
	}

	voter, ok := m.voters[v.VoterID]
	if !ok {
		return models.VoteRecord{}, fmt.Errorf("voter %s: %w", v.VoterID, models.ErrNotFound)
	}
	if voter.HasVoted {
		return models.VoteRecord{}, models.ErrAlreadyVoted
	}
	if _, exists := m.votes[v.VoterID]; exists {
		return models.VoteRecord{}, models.ErrAlreadyVoted
	}
	candidate, ok := m.candidates[v.CandidateID]
	if !ok {
		return models.VoteRecord{}, fmt.Errorf("candidate %s: %w", v.CandidateID, models.ErrNotFound)
	}

	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.Timestamp.IsZero() {
		v.Timestamp = time.Now().UTC()
	}

	voter.HasVoted = true
	m.voters[voter.ID] = voter
	m.votes[v.VoterID] = v
	candidate.VoteCount++
	m.candidates[candidate.ID] = candidate

	return v, nil
}

func (m *MemoryStore) VoteByVoter(ctx context.Context, voterID string) (models.VoteRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.votes[voterID]
	if !ok {
		return models.VoteRecord{}, fmt.Errorf("vote of voter %s: %w", voterID, models.ErrNotFound)
	}
	return v, nil
}

func (m *MemoryStore) AuditTallies(ctx context.Context) ([]models.TallyDrift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.auditLocked(), nil
}

func (m *MemoryStore) RepairTallies(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	drifts := m.auditLocked()
	for _, d := range drifts {
		c := m.candidates[d.CandidateID]
		c.VoteCount = d.RecordCount
		m.candidates[c.ID] = c
	}
	return len(drifts), nil
}

func (m *MemoryStore) auditLocked() []models.TallyDrift {
	records := make(map[string]int)
	for _, v := range m.votes {
		records[v.CandidateID]++
	}

	drifts := []models.TallyDrift{}
	for _, c := range m.candidates {
		if c.VoteCount != records[c.ID] {
			drifts = append(drifts, models.TallyDrift{
				CandidateID: c.ID,
				VoteCount:   c.VoteCount,
				RecordCount: records[c.ID],
			})
		}
	}
	sort.Slice(drifts, func(i, j int) bool { return drifts[i].CandidateID < drifts[j].CandidateID })
	return drifts
}

func (m *MemoryStore) districtByNameLocked(name string) (models.District, bool) {
	for _, d := range m.districts {
		if d.Name == name {
			return d, true
		}
	}
	return models.District{}, false
}

func (m *MemoryStore) constituencyByNameLocked(districtID, name string) (models.Constituency, bool) {
	for _, c := range m.constituencies {
		if c.DistrictID == districtID && c.Name == name {
			return c, true
		}
	}
	return models.Constituency{}, false
}

func (m *MemoryStore) withNamesLocked(c models.Candidate) models.Candidate {
	c.District = m.districts[c.DistrictID].Name
	c.Constituency = m.constituencies[c.ConstituencyID].Name
	return c
}

// SetVoteCount overwrites a tally without a vote record. Only useful for
// exercising the reconciler.
func (m *MemoryStore) SetVoteCount(candidateID string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.candidates[candidateID]; ok {
		c.VoteCount = count
		m.candidates[candidateID] = c
	}
}
