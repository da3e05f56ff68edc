// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/dayanithi400/ethervote-sentinel/models"
)

// SQLStore persists the election in PostgreSQL or SQLite
type SQLStore struct {
	db       *sql.DB
	postgres bool
}

func NewSQLStore(db *sql.DB) *SQLStore {
	_, postgres := db.Driver().(*pq.Driver)
	return &SQLStore{db: db, postgres: postgres}
}

// DB exposes the underlying pool, mainly for tests
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return classify(s.db.PingContext(ctx))
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// SeedReferenceData inserts missing districts and constituencies
func (s *SQLStore) SeedReferenceData(ctx context.Context, seeds []models.DistrictSeed) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", classify(err))
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, seed := range seeds {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO district (id, name, created_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO NOTHING
		`, uuid.NewString(), seed.Name, now)
		if err != nil {
			return fmt.Errorf("failed to seed district %q: %w", seed.Name, classify(err))
		}

		var districtID string
		err = tx.QueryRowContext(ctx, `SELECT id FROM district WHERE name = $1`, seed.Name).Scan(&districtID)
		if err != nil {
			return fmt.Errorf("failed to read seeded district %q: %w", seed.Name, classify(err))
		}

		for _, name := range seed.Constituencies {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO constituency (id, district_id, name, created_at)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (district_id, name) DO NOTHING
			`, uuid.NewString(), districtID, name, now)
			if err != nil {
				return fmt.Errorf("failed to seed constituency %q: %w", name, classify(err))
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", classify(err))
	}
	return nil
}

func (s *SQLStore) ListDistricts(ctx context.Context) ([]models.District, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.name, k.name
		FROM district d
		LEFT JOIN constituency k ON k.district_id = d.id
		ORDER BY d.name, k.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query districts: %w", classify(err))
	}
	defer rows.Close()

	districts := []models.District{}
	for rows.Next() {
		var id, name string
		var constituency sql.NullString
		if err := rows.Scan(&id, &name, &constituency); err != nil {
			return nil, fmt.Errorf("failed to scan district: %w", err)
		}
		if len(districts) == 0 || districts[len(districts)-1].ID != id {
			districts = append(districts, models.District{ID: id, Name: name, Constituencies: []string{}})
		}
		if constituency.Valid {
			last := &districts[len(districts)-1]
			last.Constituencies = append(last.Constituencies, constituency.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read districts: %w", classify(err))
	}
	return districts, nil
}

func (s *SQLStore) ResolveDistrict(ctx context.Context, name string) (models.District, error) {
	var d models.District
	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM district WHERE name = $1`, name).Scan(&d.ID, &d.Name)
	if err == sql.ErrNoRows {
		return models.District{}, fmt.Errorf("district %q: %w", name, models.ErrNotFound)
	}
	if err != nil {
		return models.District{}, fmt.Errorf("failed to query district: %w", classify(err))
	}
	return d, nil
}

func (s *SQLStore) ResolveConstituency(ctx context.Context, districtID, name string) (models.Constituency, error) {
	var c models.Constituency
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, district_id FROM constituency
		WHERE district_id = $1 AND name = $2
	`, districtID, name).Scan(&c.ID, &c.Name, &c.DistrictID)
	if err == sql.ErrNoRows {
		return models.Constituency{}, fmt.Errorf("constituency %q: %w", name, models.ErrNotFound)
	}
	if err != nil {
		return models.Constituency{}, fmt.Errorf("failed to query constituency: %w", classify(err))
	}
	return c, nil
}

func (s *SQLStore) CreateVoter(ctx context.Context, v models.Voter) (models.Voter, error) {
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

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO voter (id, name, voter_id, district, constituency, email, phone,
		                   wallet_address, password_hash, has_voted, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, v.ID, v.Name, v.VoterID, v.District, v.Constituency, v.Email, v.Phone,
		v.WalletAddress, v.PasswordHash, false, v.Role, v.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Voter{}, models.ErrDuplicateIdentifier
		}
		return models.Voter{}, fmt.Errorf("failed to insert voter: %w", classify(err))
	}
	return v, nil
}

const voterColumns = `id, name, voter_id, district, constituency, email, phone,
	wallet_address, password_hash, has_voted, role, created_at`

func scanVoter(row *sql.Row) (models.Voter, error) {
	var v models.Voter
	err := row.Scan(&v.ID, &v.Name, &v.VoterID, &v.District, &v.Constituency, &v.Email, &v.Phone,
		&v.WalletAddress, &v.PasswordHash, &v.HasVoted, &v.Role, &v.CreatedAt)
	return v, err
}

func (s *SQLStore) VoterByID(ctx context.Context, id string) (models.Voter, error) {
	v, err := scanVoter(s.db.QueryRowContext(ctx, `SELECT `+voterColumns+` FROM voter WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return models.Voter{}, fmt.Errorf("voter %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Voter{}, fmt.Errorf("failed to query voter: %w", classify(err))
	}
	return v, nil
}

func (s *SQLStore) VoterByEmail(ctx context.Context, email string) (models.Voter, error) {
	v, err := scanVoter(s.db.QueryRowContext(ctx, `SELECT `+voterColumns+` FROM voter WHERE email = $1`, email))
	if err == sql.ErrNoRows {
		return models.Voter{}, fmt.Errorf("voter with email %q: %w", email, models.ErrNotFound)
	}
	if err != nil {
		return models.Voter{}, fmt.Errorf("failed to query voter: %w", classify(err))
	}
	return v, nil
}

func (s *SQLStore) UpdateWallet(ctx context.Context, voterID, address string) error {
	return s.updateVoter(ctx, `UPDATE voter SET wallet_address = $1 WHERE id = $2`, address, voterID)
}

func (s *SQLStore) UpdateRole(ctx context.Context, voterID, role string) error {
	return s.updateVoter(ctx, `UPDATE voter SET role = $1 WHERE id = $2`, role, voterID)
}

func (s *SQLStore) updateVoter(ctx context.Context, query, value, voterID string) error {
	res, err := s.db.ExecContext(ctx, query, value, voterID)
	if err != nil {
		return fmt.Errorf("failed to update voter: %w", classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update voter: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("voter %s: %w", voterID, models.ErrNotFound)
	}
	return nil
}

func (s *SQLStore) CreateCandidate(ctx context.Context, c models.Candidate) (models.Candidate, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	c.VoteCount = 0

	// The constituency must belong to the stated district
	var district, constituency string
	err := s.db.QueryRowContext(ctx, `
		SELECT d.name, k.name
		FROM constituency k
		JOIN district d ON d.id = k.district_id
		WHERE k.id = $1 AND d.id = $2
	`, c.ConstituencyID, c.DistrictID).Scan(&district, &constituency)
	if err == sql.ErrNoRows {
		return models.Candidate{}, fmt.Errorf("constituency %s in district %s: %w", c.ConstituencyID, c.DistrictID, models.ErrNotFound)
	}
	if err != nil {
		return models.Candidate{}, fmt.Errorf("failed to query constituency: %w", classify(err))
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO candidate (id, name, party, party_leader, district_id, constituency_id,
		                       symbol, image_url, vote_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9)
	`, c.ID, c.Name, c.Party, c.PartyLeader, c.DistrictID, c.ConstituencyID,
		c.Symbol, c.ImageURL, c.CreatedAt)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("failed to insert candidate: %w", classify(err))
	}

	c.District = district
	c.Constituency = constituency
	return c, nil
}

const candidateQuery = `
	SELECT c.id, c.name, c.party, c.party_leader, c.district_id, c.constituency_id,
	       d.name, k.name, c.symbol, c.image_url, c.vote_count, c.created_at
	FROM candidate c
	JOIN district d ON d.id = c.district_id
	JOIN constituency k ON k.id = c.constituency_id
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (models.Candidate, error) {
	var c models.Candidate
	var partyLeader, imageURL sql.NullString
	err := row.Scan(&c.ID, &c.Name, &c.Party, &partyLeader, &c.DistrictID, &c.ConstituencyID,
		&c.District, &c.Constituency, &c.Symbol, &imageURL, &c.VoteCount, &c.CreatedAt)
	if err != nil {
		return models.Candidate{}, err
	}
	if partyLeader.Valid {
		c.PartyLeader = &partyLeader.String
	}
	if imageURL.Valid {
		c.ImageURL = &imageURL.String
	}
	return c, nil
}

func (s *SQLStore) CandidateByID(ctx context.Context, id string) (models.Candidate, error) {
	c, err := scanCandidate(s.db.QueryRowContext(ctx, candidateQuery+` WHERE c.id = $1`, id))
	if err == sql.ErrNoRows {
		return models.Candidate{}, fmt.Errorf("candidate %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Candidate{}, fmt.Errorf("failed to query candidate: %w", classify(err))
	}
	return c, nil
}

func (s *SQLStore) ListCandidates(ctx context.Context, districtID, constituencyID string) ([]models.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, candidateQuery+`
		WHERE ($1 = '' OR c.district_id = $1)
		  AND ($2 = '' OR c.constituency_id = $2)
		ORDER BY c.created_at, c.id
	`, districtID, constituencyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", classify(err))
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", classify(err))
	}
	return candidates, nil
}

// CastVote records a vote in one transaction. The compare-and-swap on
// has_voted runs first, so concurrent submissions for the same voter queue
// on the voter row and all but the first see zero affected rows.
func (s *SQLStore) CastVote(ctx context.Context, v models.VoteRecord) (models.VoteRecord, error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.Timestamp.IsZero() {
		v.Timestamp = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.VoteRecord{}, aborted("begin", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE voter SET has_voted = TRUE
		WHERE id = $1 AND has_voted = FALSE
	`, v.VoterID)
	if err != nil {
		return models.VoteRecord{}, aborted("mark voter", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.VoteRecord{}, aborted("mark voter", err)
	}
	if n == 0 {
		var hasVoted bool
		err := tx.QueryRowContext(ctx, `SELECT has_voted FROM voter WHERE id = $1`, v.VoterID).Scan(&hasVoted)
		if err == sql.ErrNoRows {
			return models.VoteRecord{}, fmt.Errorf("voter %s: %w", v.VoterID, models.ErrNotFound)
		}
		if err != nil {
			return models.VoteRecord{}, aborted("read voter", err)
		}
		return models.VoteRecord{}, models.ErrAlreadyVoted
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE candidate SET vote_count = vote_count + 1
		WHERE id = $1
	`, v.CandidateID)
	if err != nil {
		return models.VoteRecord{}, aborted("increment tally", err)
	}
	n, err = res.RowsAffected()
	if err != nil {
		return models.VoteRecord{}, aborted("increment tally", err)
	}
	if n == 0 {
		return models.VoteRecord{}, fmt.Errorf("candidate %s: %w", v.CandidateID, models.ErrNotFound)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO vote (id, voter_id, candidate_id, district_id, constituency_id, cast_at, transaction_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, v.ID, v.VoterID, v.CandidateID, v.DistrictID, v.ConstituencyID, v.Timestamp, v.TransactionRef)
	if err != nil {
		if isUniqueViolation(err) {
			return models.VoteRecord{}, models.ErrAlreadyVoted
		}
		return models.VoteRecord{}, aborted("insert vote", err)
	}

	if err := tx.Commit(); err != nil {
		return models.VoteRecord{}, aborted("commit", err)
	}
	return v, nil
}

// aborted wraps a failure inside the vote transaction. Connectivity
// problems keep their own category so callers can tell them apart.
func aborted(step string, err error) error {
	if isUnavailable(err) {
		return fmt.Errorf("cast vote (%s): %w: %v", step, models.ErrExternalServiceUnavailable, err)
	}
	return fmt.Errorf("cast vote (%s): %w: %v", step, models.ErrTransactionAborted, err)
}

func (s *SQLStore) VoteByVoter(ctx context.Context, voterID string) (models.VoteRecord, error) {
	var v models.VoteRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, voter_id, candidate_id, district_id, constituency_id, cast_at, transaction_ref
		FROM vote WHERE voter_id = $1
	`, voterID).Scan(&v.ID, &v.VoterID, &v.CandidateID, &v.DistrictID, &v.ConstituencyID, &v.Timestamp, &v.TransactionRef)
	if errors.Is(err, sql.ErrNoRows) {
		return models.VoteRecord{}, fmt.Errorf("vote of voter %s: %w", voterID, models.ErrNotFound)
	}
	if err != nil {
		return models.VoteRecord{}, fmt.Errorf("failed to query vote: %w", classify(err))
	}
	return v, nil
}

func (s *SQLStore) AuditTallies(ctx context.Context) ([]models.TallyDrift, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.vote_count, COUNT(v.id)
		FROM candidate c
		LEFT JOIN vote v ON v.candidate_id = c.id
		GROUP BY c.id, c.vote_count
		HAVING c.vote_count <> COUNT(v.id)
		ORDER BY c.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to audit tallies: %w", classify(err))
	}
	defer rows.Close()

	drifts := []models.TallyDrift{}
	for rows.Next() {
		var d models.TallyDrift
		if err := rows.Scan(&d.CandidateID, &d.VoteCount, &d.RecordCount); err != nil {
			return nil, fmt.Errorf("failed to scan tally drift: %w", err)
		}
		drifts = append(drifts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tally drifts: %w", classify(err))
	}
	return drifts, nil
}

// RepairTallies resets every drifting vote_count to its record count.
//
// On PostgreSQL the candidate rows are locked first. A CastVote holding a
// candidate row commits before the lock is granted, and one that has not
// reached its candidate yet waits until the repair commits, so the
// recount in the next statement sees every vote whose tally it rewrites.
// SQLite runs on a single connection and needs no lock.
func (s *SQLStore) RepairTallies(ctx context.Context) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to repair tallies: %w", classify(err))
	}
	defer tx.Rollback()

	if s.postgres {
		if _, err := tx.ExecContext(ctx, `SELECT id FROM candidate ORDER BY id FOR UPDATE`); err != nil {
			return 0, fmt.Errorf("failed to lock candidates: %w", classify(err))
		}
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE candidate
		SET vote_count = (SELECT COUNT(*) FROM vote v WHERE v.candidate_id = candidate.id)
		WHERE vote_count <> (SELECT COUNT(*) FROM vote v WHERE v.candidate_id = candidate.id)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to repair tallies: %w", classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to repair tallies: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit tally repair: %w", classify(err))
	}
	return int(n), nil
}
