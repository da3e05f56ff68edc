// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dayanithi400/ethervote-sentinel/auth"
	"github.com/dayanithi400/ethervote-sentinel/models"
	"github.com/dayanithi400/ethervote-sentinel/wallet"
)

// bcrypt ignores everything past 72 bytes
const maxPasswordLen = 72

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePassword(password string) error {
	if len(password) < auth.MinPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", models.ErrValidationFailed, auth.MinPasswordLen)
	}
	if len(password) > maxPasswordLen {
		return fmt.Errorf("%w: password must be at most %d bytes", models.ErrValidationFailed, maxPasswordLen)
	}
	return nil
}

// RegisterVoter creates a voter identity record with the voter role
func (s *Service) RegisterVoter(ctx context.Context, req models.RegisterVoterRequest) (models.Voter, error) {
	v := models.Voter{
		Name:         strings.TrimSpace(req.Name),
		VoterID:      strings.TrimSpace(req.VoterID),
		District:     strings.TrimSpace(req.District),
		Constituency: strings.TrimSpace(req.Constituency),
		Email:        normalizeEmail(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         models.RoleVoter,
	}

	err := requireFields(
		[2]string{"name", v.Name},
		[2]string{"voter_id", v.VoterID},
		[2]string{"district", v.District},
		[2]string{"constituency", v.Constituency},
		[2]string{"email", v.Email},
		[2]string{"password", req.Password},
	)
	if err != nil {
		return models.Voter{}, err
	}
	if !strings.Contains(v.Email, "@") {
		return models.Voter{}, fmt.Errorf("%w: email is malformed", models.ErrValidationFailed)
	}
	if err := validatePassword(req.Password); err != nil {
		return models.Voter{}, err
	}
	if addr := strings.TrimSpace(req.WalletAddress); addr != "" {
		v.WalletAddress, err = wallet.NormalizeAddress(addr)
		if err != nil {
			return models.Voter{}, err
		}
	}

	if _, _, err := s.refs.resolve(ctx, v.District, v.Constituency); err != nil {
		return models.Voter{}, err
	}

	v.PasswordHash, err = auth.HashPassword(req.Password)
	if err != nil {
		return models.Voter{}, err
	}

	v, err = s.store.CreateVoter(ctx, v)
	if err != nil {
		return models.Voter{}, err
	}

	slog.Info("voter registered", "voter", v.ID, "district", v.District, "constituency", v.Constituency)
	return v, nil
}

// Authenticate checks an email and password pair. Unknown emails and wrong
// passwords both return ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (models.Voter, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return models.Voter{}, models.ErrInvalidCredentials
	}

	v, err := s.store.VoterByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return models.Voter{}, models.ErrInvalidCredentials
	}
	if err != nil {
		return models.Voter{}, err
	}

	if err := auth.CheckPassword(v.PasswordHash, password); err != nil {
		return models.Voter{}, models.ErrInvalidCredentials
	}
	return v, nil
}

// Profile returns the identity record behind a session
func (s *Service) Profile(ctx context.Context, voterID string) (models.Voter, error) {
	return s.store.VoterByID(ctx, voterID)
}

// LinkWallet stores a validated wallet address on the voter record
func (s *Service) LinkWallet(ctx context.Context, voterID, address string) (models.Voter, error) {
	addr, err := wallet.NormalizeAddress(address)
	if err != nil {
		return models.Voter{}, err
	}
	if err := s.store.UpdateWallet(ctx, voterID, addr); err != nil {
		return models.Voter{}, err
	}

	slog.Info("wallet linked", "voter", voterID, "address", addr)
	return s.store.VoterByID(ctx, voterID)
}

// AssignRole sets a voter's role. Callers must check the actor is an admin.
func (s *Service) AssignRole(ctx context.Context, voterID, role string) (models.Voter, error) {
	if role != models.RoleVoter && role != models.RoleAdmin {
		return models.Voter{}, fmt.Errorf("%w: role must be %q or %q", models.ErrValidationFailed, models.RoleVoter, models.RoleAdmin)
	}
	if err := s.store.UpdateRole(ctx, voterID, role); err != nil {
		return models.Voter{}, err
	}

	slog.Info("role assigned", "voter", voterID, "role", role)
	return s.store.VoterByID(ctx, voterID)
}

// BootstrapAdmin makes sure an admin identity exists for email. An existing
// voter with that email is promoted; otherwise one is created in the first
// seeded constituency.
func (s *Service) BootstrapAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)

	existing, err := s.store.VoterByEmail(ctx, email)
	if err == nil {
		if existing.IsAdmin() {
			return nil
		}
		if err := s.store.UpdateRole(ctx, existing.ID, models.RoleAdmin); err != nil {
			return fmt.Errorf("failed to promote admin: %w", err)
		}
		slog.Info("bootstrap admin promoted", "voter", existing.ID)
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	if err := validatePassword(password); err != nil {
		return err
	}

	districts, err := s.store.ListDistricts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list districts: %w", err)
	}
	if len(districts) == 0 || len(districts[0].Constituencies) == 0 {
		return errors.New("no reference data to place the admin in")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	suffix, err := auth.GenerateID(6)
	if err != nil {
		return err
	}

	v, err := s.store.CreateVoter(ctx, models.Voter{
		Name:         "Administrator",
		VoterID:      "ADMIN-" + suffix,
		District:     districts[0].Name,
		Constituency: districts[0].Constituencies[0],
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	slog.Info("bootstrap admin created", "voter", v.ID, "email", email)
	return nil
}
