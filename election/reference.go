// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dayanithi400/ethervote-sentinel/models"
	"github.com/dayanithi400/ethervote-sentinel/store"
)

// referenceCache memoizes district and constituency name lookups.
// Reference data never changes after seeding, so entries never expire.
// Misses are not cached.
type referenceCache struct {
	store store.Store
	cache *gocache.Cache
}

func newReferenceCache(s store.Store) *referenceCache {
	return &referenceCache{
		store: s,
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

func (r *referenceCache) district(ctx context.Context, name string) (models.District, error) {
	key := "district:" + name
	if v, ok := r.cache.Get(key); ok {
		return v.(models.District), nil
	}
	d, err := r.store.ResolveDistrict(ctx, name)
	if err != nil {
		return models.District{}, err
	}
	r.cache.Set(key, d, gocache.NoExpiration)
	return d, nil
}

func (r *referenceCache) constituency(ctx context.Context, districtID, name string) (models.Constituency, error) {
	key := "constituency:" + districtID + "/" + name
	if v, ok := r.cache.Get(key); ok {
		return v.(models.Constituency), nil
	}
	c, err := r.store.ResolveConstituency(ctx, districtID, name)
	if err != nil {
		return models.Constituency{}, err
	}
	r.cache.Set(key, c, gocache.NoExpiration)
	return c, nil
}

// resolve maps a district and constituency name pair to their records
func (r *referenceCache) resolve(ctx context.Context, district, constituency string) (models.District, models.Constituency, error) {
	d, err := r.district(ctx, district)
	if err != nil {
		return models.District{}, models.Constituency{}, err
	}
	c, err := r.constituency(ctx, d.ID, constituency)
	if err != nil {
		return models.District{}, models.Constituency{}, err
	}
	return d, c, nil
}

// ListDistricts returns all districts with their constituency names
func (s *Service) ListDistricts(ctx context.Context) ([]models.District, error) {
	return s.store.ListDistricts(ctx)
}
