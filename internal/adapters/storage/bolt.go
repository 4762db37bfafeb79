// Package storage implements the durable and session state stores.
// The durable store is a single-file bbolt database holding the full
// quote collection and the shared view state under fixed keys.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"go.etcd.io/bbolt"

	"github.com/quotevault/quotevault/internal/domain"
)

// Fixed bucket and key names. The whole collection lives under one key,
// mirroring the original single-entry layout of the durable store.
var (
	stateBucket     = []byte("state")
	quotesKey       = []byte("quotes")
	lastCategoryKey = []byte("last_category")
	lastSyncKey     = []byte("last_sync")
)

// BoltStore is a StateStore backed by a bbolt database file.
type BoltStore struct {
	db     *bbolt.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the database at path and ensures the
// state bucket exists.
func Open(path string, logger *slog.Logger) (*BoltStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening state database %q: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(stateBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating state bucket: %w", err)
	}

	return &BoltStore{
		db:     db,
		logger: logger.With(slog.String("component", "storage.BoltStore")),
	}, nil
}

// Close releases the underlying database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// persistedQuote is the stored shape of a quote. Text and category are
// decoded loosely so a corrupted entry fails the shape check instead of
// failing the whole unmarshal.
type persistedQuote struct {
	ID          string        `json:"id"`
	Text        any           `json:"text"`
	Category    any           `json:"category"`
	Source      domain.Source `json:"source"`
	Version     int           `json:"version"`
	LastUpdated int64         `json:"lastUpdated"`
}

// LoadQuotes reads the collection. Missing key, unparseable JSON, a
// non-array payload, or any element failing the minimal shape check
// (text and category present as strings) all degrade to (nil, nil);
// the caller falls back to seed data.
func (s *BoltStore) LoadQuotes(ctx context.Context) ([]domain.Quote, error) {
	var raw []byte

	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(stateBucket).Get(quotesKey); v != nil {
			raw = make([]byte, len(v))
			copy(raw, v)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading quotes: %w", err)
	}

	if raw == nil {
		return nil, nil
	}

	var stored []persistedQuote
	if err := json.Unmarshal(raw, &stored); err != nil {
		s.logger.Warn("stored collection is not parseable, treating as absent",
			slog.Any("error", err))
		return nil, nil
	}

	quotes := make([]domain.Quote, 0, len(stored))

	for _, p := range stored {
		text, textOK := p.Text.(string)
		category, catOK := p.Category.(string)

		if !textOK || !catOK || text == "" || category == "" {
			s.logger.Warn("stored collection failed shape check, treating as absent",
				slog.String("quote_id", p.ID))
			return nil, nil
		}

		quotes = append(quotes, domain.Quote{
			ID:          p.ID,
			Text:        text,
			Category:    category,
			Source:      p.Source,
			Version:     p.Version,
			LastUpdated: p.LastUpdated,
		})
	}

	return quotes, nil
}

// SaveQuotes overwrites the stored collection with an indented JSON
// array, matching the export format.
func (s *BoltStore) SaveQuotes(ctx context.Context, quotes []domain.Quote) error {
	data, err := json.MarshalIndent(quotes, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding quotes: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(stateBucket).Put(quotesKey, data)
	})
	if err != nil {
		return fmt.Errorf("writing quotes: %w", err)
	}

	return nil
}

// LastCategory returns the stored category filter, or "" when absent.
func (s *BoltStore) LastCategory(ctx context.Context) (string, error) {
	value, err := s.getString(lastCategoryKey)
	if err != nil {
		return "", fmt.Errorf("reading last category: %w", err)
	}

	return value, nil
}

// SaveLastCategory records the active category filter.
func (s *BoltStore) SaveLastCategory(ctx context.Context, category string) error {
	err := s.putString(lastCategoryKey, category)
	if err != nil {
		return fmt.Errorf("writing last category: %w", err)
	}

	return nil
}

// LastSync returns the stored sync timestamp, or 0 when absent or not a
// valid integer.
func (s *BoltStore) LastSync(ctx context.Context) (int64, error) {
	value, err := s.getString(lastSyncKey)
	if err != nil {
		return 0, fmt.Errorf("reading last sync: %w", err)
	}

	if value == "" {
		return 0, nil
	}

	millis, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		s.logger.Warn("stored sync timestamp is not an integer, treating as absent",
			slog.String("value", value))
		return 0, nil
	}

	return millis, nil
}

// SaveLastSync records the sync timestamp as a string-encoded integer.
func (s *BoltStore) SaveLastSync(ctx context.Context, millis int64) error {
	err := s.putString(lastSyncKey, strconv.FormatInt(millis, 10))
	if err != nil {
		return fmt.Errorf("writing last sync: %w", err)
	}

	return nil
}

func (s *BoltStore) getString(key []byte) (string, error) {
	var value string

	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(stateBucket).Get(key); v != nil {
			value = string(v)
		}
		return nil
	})

	return value, err
}

func (s *BoltStore) putString(key []byte, value string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(stateBucket).Put(key, []byte(value))
	})
}

// Name returns the health check name for this store.
// Implements ports.HealthChecker.
func (s *BoltStore) Name() string {
	return "state-store"
}

// Check verifies the state bucket is readable.
// Implements ports.HealthChecker.
func (s *BoltStore) Check(ctx context.Context) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(stateBucket) == nil {
			return fmt.Errorf("state bucket missing")
		}
		return nil
	})
}
