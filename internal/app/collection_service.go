// Package app contains application services that orchestrate use cases.
// This is the application layer in Clean Architecture - it coordinates
// domain logic and infrastructure through ports.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/quotevault/quotevault/internal/domain"
	"github.com/quotevault/quotevault/internal/platform/logging"
	"github.com/quotevault/quotevault/internal/ports"
)

// CollectionService owns the in-memory quote collection. It is the only
// writer: additions arrive through Add, Import, and ApplySync, all of
// which run under one mutex, enforce id uniqueness, and trigger a
// persistence write plus a category refresh whenever they change the
// collection. Zero-change merges skip the write.
type CollectionService struct {
	mu         sync.RWMutex
	quotes     []domain.Quote
	categories []string

	store  ports.StateStore
	logger *slog.Logger
}

// CollectionServiceConfig contains dependencies for the collection service.
type CollectionServiceConfig struct {
	Store  ports.StateStore
	Logger *slog.Logger
}

// ImportStats reports the outcome of a file import.
type ImportStats struct {
	// Added is the number of records appended to the collection.
	Added int `json:"added"`

	// Skipped is the number of records rejected as duplicates plus the
	// number dropped during normalization. Per-record failures are not
	// reported individually.
	Skipped int `json:"skipped"`
}

// SyncStats reports the outcome of a sync cycle.
type SyncStats struct {
	Added    int `json:"added"`
	Replaced int `json:"replaced"`
}

// NewCollectionService creates the collection service and hydrates the
// collection: from the durable store when it holds valid data, from the
// seed set otherwise. Panics if Store is nil.
func NewCollectionService(ctx context.Context, cfg CollectionServiceConfig) (*CollectionService, error) {
	if cfg.Store == nil {
		panic("CollectionService: Store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &CollectionService{
		store:  cfg.Store,
		logger: logger.With(slog.String("component", "app.CollectionService")),
	}

	quotes, err := s.store.LoadQuotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("hydrating collection: %w", err)
	}

	if len(quotes) == 0 {
		quotes = domain.SeedQuotes()
		s.logger.Info("durable store empty or invalid, seeding collection",
			slog.Int("count", len(quotes)))

		if err := s.store.SaveQuotes(ctx, quotes); err != nil {
			return nil, fmt.Errorf("persisting seed collection: %w", err)
		}
	} else {
		s.logger.Info("hydrated collection from durable store",
			slog.Int("count", len(quotes)))
	}

	s.quotes = quotes
	s.categories = domain.Categories(quotes)

	return s, nil
}

// Snapshot returns a copy of the current collection in insertion order.
func (s *CollectionService) Snapshot() []domain.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	quotes := make([]domain.Quote, len(s.quotes))
	copy(quotes, s.quotes)

	return quotes
}

// Categories returns the sorted set of distinct categories currently
// present in the collection.
func (s *CollectionService) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]string, len(s.categories))
	copy(categories, s.categories)

	return categories
}

// HasCategory reports whether the given category currently exists.
func (s *CollectionService) HasCategory(category string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.categories {
		if c == category {
			return true
		}
	}

	return false
}

// Get returns the quote with the given id.
func (s *CollectionService) Get(id string) (domain.Quote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, q := range s.quotes {
		if q.ID == id {
			return q, true
		}
	}

	return domain.Quote{}, false
}

// Add appends a single user-entered quote, following the same
// uniqueness discipline as import: a duplicate (text, category) pair is
// rejected with a conflict error.
func (s *CollectionService) Add(ctx context.Context, text, category string) (domain.Quote, error) {
	logger := logging.FromContext(ctx)

	text = strings.TrimSpace(text)
	category = strings.ToLower(strings.TrimSpace(category))

	if text == "" {
		return domain.Quote{}, domain.NewValidationError("text", "must not be empty")
	}

	if category == "" {
		return domain.Quote{}, domain.NewValidationError("category", "must not be empty")
	}

	quote := domain.Quote{
		ID:          domain.NewID(),
		Text:        text,
		Category:    category,
		Source:      domain.SourceLocal,
		Version:     1,
		LastUpdated: domain.NowMillis(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	merged, result := domain.ImportMerge(s.quotes, []domain.Quote{quote})
	if result.Added == 0 {
		return domain.Quote{}, domain.NewConflictError("quote", "identical text and category already present")
	}

	if err := s.commitLocked(ctx, merged); err != nil {
		return domain.Quote{}, err
	}

	logger.Info("quote added",
		slog.String("quote_id", quote.ID),
		slog.String("category", quote.Category),
	)

	return quote, nil
}

// Import normalizes an untrusted record sequence and merges it under
// the append-if-new policy. Records dropped by normalization and
// records skipped as duplicates are folded into one aggregate count.
func (s *CollectionService) Import(ctx context.Context, raw []any) (ImportStats, error) {
	logger := logging.FromContext(ctx)

	incoming, dropped := domain.Normalize(raw, domain.SourceImport)

	s.mu.Lock()
	defer s.mu.Unlock()

	merged, result := domain.ImportMerge(s.quotes, incoming)

	if result.Added > 0 {
		if err := s.commitLocked(ctx, merged); err != nil {
			return ImportStats{}, err
		}
	}

	stats := ImportStats{
		Added:   result.Added,
		Skipped: result.Skipped + dropped,
	}

	logger.Info("import merged",
		slog.Int("added", stats.Added),
		slog.Int("skipped", stats.Skipped),
		slog.Int("total", len(merged)),
	)

	return stats, nil
}

// ApplySync merges normalized feed records under the server-wins
// policy. Re-applying an unchanged feed reports zero changes and skips
// the persistence write.
func (s *CollectionService) ApplySync(ctx context.Context, incoming []domain.Quote) (SyncStats, error) {
	logger := logging.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	merged, result := domain.SyncMerge(s.quotes, incoming)

	if result.Added > 0 || result.Replaced > 0 {
		if err := s.commitLocked(ctx, merged); err != nil {
			return SyncStats{}, err
		}
	}

	stats := SyncStats{Added: result.Added, Replaced: result.Replaced}

	logger.Info("sync merged",
		slog.Int("added", stats.Added),
		slog.Int("replaced", stats.Replaced),
		slog.Int("total", len(merged)),
	)

	return stats, nil
}

// Export serializes the full collection as an indented JSON array.
// Re-importing the output into an empty collection reproduces the same
// records.
func (s *CollectionService) Export() ([]byte, error) {
	snapshot := s.Snapshot()

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding collection: %w", err)
	}

	return data, nil
}

// commitLocked swaps in the merged collection, persists it, and
// refreshes the derived category set. Callers must hold the write lock.
// A persistence failure propagates; the in-memory state is not swapped
// so the collection and the store stay consistent.
func (s *CollectionService) commitLocked(ctx context.Context, merged []domain.Quote) error {
	if err := s.store.SaveQuotes(ctx, merged); err != nil {
		return fmt.Errorf("persisting collection: %w", err)
	}

	s.quotes = merged
	s.categories = domain.Categories(merged)

	return nil
}
