// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dayanithi400/ethervote-sentinel/models"
)

// AddCandidate validates and stores a candidate. image may be nil.
func (s *Service) AddCandidate(ctx context.Context, req models.AddCandidateRequest, image []byte) (models.Candidate, error) {
	c := models.Candidate{
		Name:   strings.TrimSpace(req.Name),
		Party:  strings.TrimSpace(req.Party),
		Symbol: strings.TrimSpace(req.Symbol),
	}
	district := strings.TrimSpace(req.District)
	constituency := strings.TrimSpace(req.Constituency)

	err := requireFields(
		[2]string{"name", c.Name},
		[2]string{"party", c.Party},
		[2]string{"district", district},
		[2]string{"constituency", constituency},
	)
	if err != nil {
		return models.Candidate{}, err
	}
	if leader := strings.TrimSpace(req.PartyLeader); leader != "" {
		c.PartyLeader = &leader
	}
	if c.Symbol == "" {
		c.Symbol = models.DefaultSymbol
	}

	d, k, err := s.refs.resolve(ctx, district, constituency)
	if err != nil {
		return models.Candidate{}, err
	}
	c.DistrictID = d.ID
	c.ConstituencyID = k.ID

	if len(image) > 0 {
		if s.images == nil {
			return models.Candidate{}, fmt.Errorf("%w: image uploads are disabled", models.ErrValidationFailed)
		}
		url, err := s.images.Save(ctx, image)
		if err != nil {
			return models.Candidate{}, err
		}
		c.ImageURL = &url
	}

	created, err := s.store.CreateCandidate(ctx, c)
	if err != nil {
		if c.ImageURL != nil {
			if delErr := s.images.Delete(ctx, *c.ImageURL); delErr != nil {
				slog.Warn("failed to remove orphaned image", "url", *c.ImageURL, "error", delErr)
			}
		}
		return models.Candidate{}, err
	}

	slog.Info("candidate added", "candidate", created.ID, "district", created.District, "constituency", created.Constituency)
	return created, nil
}

// GetCandidate returns one candidate by id
func (s *Service) GetCandidate(ctx context.Context, id string) (models.Candidate, error) {
	return s.store.CandidateByID(ctx, id)
}

// ListCandidates lists all candidates, or those of a district, or those of
// one constituency. Names that do not resolve yield an empty list.
func (s *Service) ListCandidates(ctx context.Context, filter models.CandidateFilter) ([]models.Candidate, error) {
	district := strings.TrimSpace(filter.District)
	constituency := strings.TrimSpace(filter.Constituency)

	if district == "" {
		if constituency != "" {
			return nil, fmt.Errorf("%w: constituency filter requires a district", models.ErrValidationFailed)
		}
		return s.store.ListCandidates(ctx, "", "")
	}

	d, err := s.refs.district(ctx, district)
	if errors.Is(err, models.ErrNotFound) {
		return []models.Candidate{}, nil
	}
	if err != nil {
		return nil, err
	}
	if constituency == "" {
		return s.store.ListCandidates(ctx, d.ID, "")
	}

	k, err := s.refs.constituency(ctx, d.ID, constituency)
	if errors.Is(err, models.ErrNotFound) {
		return []models.Candidate{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.store.ListCandidates(ctx, d.ID, k.ID)
}
