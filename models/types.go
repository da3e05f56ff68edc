package models

import "time"

// Voter roles
const (
	RoleVoter = "voter"
	RoleAdmin = "admin"
)

// DefaultSymbol is used when a candidate is created without one
const DefaultSymbol = "🏛️"

// Request types

type RegisterVoterRequest struct {
	Name          string `json:"name"`
	VoterID       string `json:"voter_id"`
	District      string `json:"district"`
	Constituency  string `json:"constituency"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Password      string `json:"password"`
	WalletAddress string `json:"wallet_address"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LinkWalletRequest struct {
	WalletAddress string `json:"wallet_address"`
}

type AssignRoleRequest struct {
	Role string `json:"role"`
}

type AddCandidateRequest struct {
	Name         string `json:"name"`
	Party        string `json:"party"`
	PartyLeader  string `json:"party_leader"`
	District     string `json:"district"`
	Constituency string `json:"constituency"`
	Symbol       string `json:"symbol"`
}

type SubmitVoteRequest struct {
	CandidateID    string `json:"candidate_id"`
	TransactionRef string `json:"transaction_ref"`
}

// Response types

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Voter     Voter     `json:"voter"`
}

type CandidateListResponse struct {
	Candidates []Candidate `json:"candidates"`
}

type CandidateResult struct {
	Candidate
	Share float64 `json:"share"` // percentage of total_votes
}

type ResultsResponse struct {
	District     string            `json:"district,omitempty"`
	Constituency string            `json:"constituency,omitempty"`
	TotalVotes   int               `json:"total_votes"`
	Candidates   []CandidateResult `json:"candidates"`
}

type DistrictListResponse struct {
	Districts []District `json:"districts"`
}

type ReconcileResponse struct {
	Drifts   []TallyDrift `json:"drifts"`
	Repaired int          `json:"repaired"`
}

// Domain types

type District struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Constituencies []string `json:"constituencies,omitempty"`
}

// DistrictSeed is one district of the reference data seed file
type DistrictSeed struct {
	Name           string   `yaml:"name"`
	Constituencies []string `yaml:"constituencies"`
}

type Constituency struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DistrictID string `json:"district_id"`
}

type Candidate struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Party          string    `json:"party"`
	PartyLeader    *string   `json:"party_leader,omitempty"`
	DistrictID     string    `json:"district_id"`
	ConstituencyID string    `json:"constituency_id"`
	District       string    `json:"district"`
	Constituency   string    `json:"constituency"`
	Symbol         string    `json:"symbol"`
	ImageURL       *string   `json:"image_url,omitempty"`
	VoteCount      int       `json:"vote_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// CandidateFilter narrows candidate listings by name. Empty fields match all.
type CandidateFilter struct {
	District     string
	Constituency string
}

type Voter struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	VoterID       string    `json:"voter_id"`
	District      string    `json:"district"`
	Constituency  string    `json:"constituency"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	WalletAddress string    `json:"wallet_address"`
	HasVoted      bool      `json:"has_voted"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"created_at"`
	PasswordHash  string    `json:"-"` // Never expose in JSON
}

func (v Voter) IsAdmin() bool {
	return v.Role == RoleAdmin
}

type VoteRecord struct {
	ID             string    `json:"id"`
	VoterID        string    `json:"voter_id"`
	CandidateID    string    `json:"candidate_id"`
	DistrictID     string    `json:"district_id"`
	ConstituencyID string    `json:"constituency_id"`
	Timestamp      time.Time `json:"timestamp"`
	TransactionRef string    `json:"transaction_ref"`
}

// TallyDrift reports a candidate whose vote_count disagrees with its vote records
type TallyDrift struct {
	CandidateID string `json:"candidate_id"`
	VoteCount   int    `json:"vote_count"`
	RecordCount int    `json:"record_count"`
}

// Error response

type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Message   string `json:"message,omitempty"`
	Retryable bool   `json:"retryable"`
}
