package watchlist

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SeedEntry is one row of the YAML seed file.
type SeedEntry struct {
	Symbol string `yaml:"symbol"`
	Name   string `yaml:"name,omitempty"`
}

// SeedFile is the on-disk shape of the default watchlist.
type SeedFile struct {
	Watchlist []SeedEntry `yaml:"watchlist"`
}

// SeedFromFile populates an empty watchlist from the YAML seed of popular
// tickers. A non-empty watchlist is left untouched; a missing seed file is
// not an error. Returns the number of entries inserted.
func (s *Store) SeedFromFile(ctx context.Context, path string) (int, error) {
	count, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read seed file: %w", err)
	}

	var seed SeedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return 0, fmt.Errorf("parse seed file: %w", err)
	}

	inserted := 0
	now := time.Now().UTC()
	for _, e := range seed.Watchlist {
		if e.Symbol == "" {
			continue
		}
		entry := Entry{Symbol: e.Symbol, Name: e.Name, PinnedAt: now}
		if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
			return inserted, fmt.Errorf("seed %s: %w", e.Symbol, err)
		}
		inserted++
	}

	return inserted, nil
}
