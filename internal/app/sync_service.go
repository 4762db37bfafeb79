package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quotevault/quotevault/internal/domain"
	"github.com/quotevault/quotevault/internal/ports"
)

// SyncService reconciles the local collection with the upstream feed.
// A cycle fetches the feed, applies the server-wins merge, and records
// the sync timestamp. Fetch failures leave the collection untouched;
// the next tick retries with no backoff, for the lifetime of the
// process.
type SyncService struct {
	feed       ports.QuoteFeed
	collection *CollectionService
	store      ports.StateStore
	interval   time.Duration
	logger     *slog.Logger
}

// SyncServiceConfig contains dependencies for the sync service.
type SyncServiceConfig struct {
	Feed       ports.QuoteFeed
	Collection *CollectionService
	Store      ports.StateStore
	Interval   time.Duration
	Logger     *slog.Logger
}

// NewSyncService creates a sync service. Panics if Feed, Collection, or
// Store is nil.
func NewSyncService(cfg SyncServiceConfig) *SyncService {
	if cfg.Feed == nil {
		panic("SyncService: Feed is required")
	}

	if cfg.Collection == nil {
		panic("SyncService: Collection is required")
	}

	if cfg.Store == nil {
		panic("SyncService: Store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SyncService{
		feed:       cfg.Feed,
		collection: cfg.Collection,
		store:      cfg.Store,
		interval:   cfg.Interval,
		logger:     logger.With(slog.String("component", "app.SyncService")),
	}
}

// RunOnce performs a single reconcile cycle.
func (s *SyncService) RunOnce(ctx context.Context) (SyncStats, error) {
	incoming, err := s.feed.Fetch(ctx)
	if err != nil {
		return SyncStats{}, fmt.Errorf("fetching feed: %w", err)
	}

	stats, err := s.collection.ApplySync(ctx, incoming)
	if err != nil {
		return SyncStats{}, err
	}

	if err := s.store.SaveLastSync(ctx, domain.NowMillis()); err != nil {
		s.logger.Warn("recording sync timestamp", slog.Any("error", err))
	}

	return stats, nil
}

// Start runs reconcile cycles on a fixed interval until ctx is
// canceled. Errors are logged and swallowed so a failing feed keeps
// retrying at the same cadence indefinitely.
func (s *SyncService) Start(ctx context.Context) {
	s.logger.Info("starting periodic sync",
		slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Info("periodic sync stopped")
				return
			case <-ticker.C:
				stats, err := s.RunOnce(ctx)
				if err != nil {
					s.logger.Warn("sync cycle failed, collection unchanged",
						slog.Any("error", err))
					continue
				}

				s.logger.Debug("sync cycle complete",
					slog.Int("added", stats.Added),
					slog.Int("replaced", stats.Replaced),
				)
			}
		}
	}()
}
