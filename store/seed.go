// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/dayanithi400/ethervote-sentinel/models"
)

//go:embed districts.yaml
var defaultSeed []byte

type seedFile struct {
	Districts []models.DistrictSeed `yaml:"districts"`
}

// LoadSeed reads district reference data from path, or the built-in
// districts when path is empty.
func LoadSeed(path string) ([]models.DistrictSeed, error) {
	data := defaultSeed
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read seed file: %w", err)
		}
	}
	return ParseSeed(data)
}

// ParseSeed decodes and validates a seed document
func ParseSeed(data []byte) ([]models.DistrictSeed, error) {
	var f seedFile
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	if len(f.Districts) == 0 {
		return nil, fmt.Errorf("seed has no districts")
	}

	seen := make(map[string]bool)
	for i, d := range f.Districts {
		d.Name = strings.TrimSpace(d.Name)
		if d.Name == "" {
			return nil, fmt.Errorf("seed district %d has no name", i)
		}
		if seen[d.Name] {
			return nil, fmt.Errorf("seed district %q listed twice", d.Name)
		}
		seen[d.Name] = true
		if len(d.Constituencies) == 0 {
			return nil, fmt.Errorf("seed district %q has no constituencies", d.Name)
		}
		for j, c := range d.Constituencies {
			d.Constituencies[j] = strings.TrimSpace(c)
			if d.Constituencies[j] == "" {
				return nil, fmt.Errorf("seed district %q has an empty constituency", d.Name)
			}
		}
		f.Districts[i] = d
	}
	return f.Districts, nil
}
