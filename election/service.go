// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"fmt"
	"strings"

	"github.com/dayanithi400/ethervote-sentinel/images"
	"github.com/dayanithi400/ethervote-sentinel/models"
	"github.com/dayanithi400/ethervote-sentinel/store"
	"github.com/dayanithi400/ethervote-sentinel/wallet"
)

// Service implements voter registration, the candidate directory, vote
// submission and results on top of a store.Store.
type Service struct {
	store  store.Store
	ledger wallet.Ledger
	images images.Store // nil disables image uploads
	refs   *referenceCache
}

func NewService(s store.Store, ledger wallet.Ledger, imgs images.Store) *Service {
	return &Service{
		store:  s,
		ledger: ledger,
		images: imgs,
		refs:   newReferenceCache(s),
	}
}

// Store exposes the backing store for health checks
func (s *Service) Store() store.Store {
	return s.store
}

// requireFields returns ErrValidationFailed naming every empty field
func requireFields(fields ...[2]string) error {
	var missing []string
	for _, f := range fields {
		if f[1] == "" {
			missing = append(missing, f[0])
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", models.ErrValidationFailed, strings.Join(missing, ", "))
	}
	return nil
}
