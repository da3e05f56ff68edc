// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dayanithi400/ethervote-sentinel/cliparse"
	"github.com/dayanithi400/ethervote-sentinel/db"
	"github.com/dayanithi400/ethervote-sentinel/models"
)

var (
	_ Store = (*db.SQLStore)(nil)
	_ Store = (*MemoryStore)(nil)
)

// Open builds the configured store, creates the schema and seeds the
// reference data. With STORE_FALLBACK=memory an unreachable database
// degrades to an in-memory store instead of failing start-up.
func Open(ctx context.Context, cfg cliparse.Config, seeds []models.DistrictSeed) (Store, error) {
	var s Store
	switch cfg.Store {
	case cliparse.StoreMemory:
		slog.Info("using in-memory store")
		s = NewMemoryStore()
	default:
		conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
		if err != nil {
			if cfg.StoreFallback != cliparse.StoreMemory || !errors.Is(err, models.ErrExternalServiceUnavailable) {
				return nil, err
			}
			slog.Warn("database unreachable, falling back to in-memory store; data will not persist",
				"type", cfg.DatabaseType, "error", err)
			s = NewMemoryStore()
			break
		}
		if err := db.CreateSchema(conn); err != nil {
			conn.Close()
			return nil, err
		}
		slog.Info("database connected", "type", cfg.DatabaseType)
		s = db.NewSQLStore(conn)
	}

	if err := s.SeedReferenceData(ctx, seeds); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to seed reference data: %w", err)
	}
	return s, nil
}
