// Package watchlist persists the set of tickers the user pinned. Entries
// survive across sessions in a local SQLite database; the pipeline output
// itself is never stored here.
package watchlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"marketmood/internal/models"
)

// ErrNotFound is returned when removing a ticker that is not pinned.
var ErrNotFound = errors.New("ticker not in watchlist")

// Entry is one pinned ticker.
type Entry struct {
	Symbol   string    `json:"symbol" gorm:"primaryKey"`
	Name     string    `json:"name,omitempty"`
	PinnedAt time.Time `json:"pinned_at"`
}

// TableName keeps the schema explicit instead of relying on pluralization.
func (Entry) TableName() string { return "watchlist_entries" }

// Store is a SQLite-backed watchlist.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the watchlist database at path.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open watchlist db: %w", err)
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate watchlist db: %w", err)
	}

	return &Store{db: db}, nil
}

// Add pins a ticker. Adding an already-pinned ticker is a no-op.
func (s *Store) Add(ctx context.Context, t models.Ticker) error {
	entry := Entry{Symbol: t.String(), PinnedAt: time.Now().UTC()}
	res := s.db.WithContext(ctx).
		Where(Entry{Symbol: entry.Symbol}).
		FirstOrCreate(&entry)
	if res.Error != nil {
		return fmt.Errorf("add %s: %w", t, res.Error)
	}
	return nil
}

// Remove unpins a ticker, reporting ErrNotFound when it was never pinned.
func (s *Store) Remove(ctx context.Context, t models.Ticker) error {
	res := s.db.WithContext(ctx).Delete(&Entry{Symbol: t.String()})
	if res.Error != nil {
		return fmt.Errorf("remove %s: %w", t, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, t)
	}
	return nil
}

// List returns all pinned tickers sorted by symbol.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	if err := s.db.WithContext(ctx).Order("symbol asc").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	return entries, nil
}

// Count returns the number of pinned tickers.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&Entry{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count watchlist: %w", err)
	}
	return n, nil
}
