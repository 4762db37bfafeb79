package app

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/quotevault/quotevault/internal/domain"
	"github.com/quotevault/quotevault/internal/platform/logging"
	"github.com/quotevault/quotevault/internal/ports"
)

// ViewService answers "what should be displayed now": it tracks the
// active category filter, picks a uniform-random quote from the
// candidate pool, and lets a session resume its last-viewed quote.
type ViewService struct {
	collection *CollectionService
	store      ports.StateStore
	sessions   ports.SessionStore
	logger     *slog.Logger

	// pick is the random index function, overridable in tests.
	pick func(n int) int
}

// ViewServiceConfig contains dependencies for the view service.
type ViewServiceConfig struct {
	Collection *CollectionService
	Store      ports.StateStore
	Sessions   ports.SessionStore
	Logger     *slog.Logger
}

// Selection is the outcome of a display pick. When the candidate pool
// is empty, Empty is true and Quote is the zero value; an empty pool is
// a valid state, not an error.
type Selection struct {
	Quote    domain.Quote
	Category string
	Resumed  bool
	Empty    bool
}

// NewViewService creates a view service. Panics if Collection or Store
// is nil.
func NewViewService(cfg ViewServiceConfig) *ViewService {
	if cfg.Collection == nil {
		panic("ViewService: Collection is required")
	}

	if cfg.Store == nil {
		panic("ViewService: Store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ViewService{
		collection: cfg.Collection,
		store:      cfg.Store,
		sessions:   cfg.Sessions,
		logger:     logger.With(slog.String("component", "app.ViewService")),
		pick:       rand.IntN,
	}
}

// ActiveCategory returns the current filter state: the stored category
// when it still exists in the category set, "all" otherwise.
func (s *ViewService) ActiveCategory(ctx context.Context) string {
	stored, err := s.store.LastCategory(ctx)
	if err != nil {
		s.logger.Warn("reading stored category", slog.Any("error", err))
		return domain.CategoryAll
	}

	if stored == "" || stored == domain.CategoryAll {
		return domain.CategoryAll
	}

	if !s.collection.HasCategory(stored) {
		return domain.CategoryAll
	}

	return stored
}

// SelectCategory transitions the filter state and persists it. The
// category must be "all" or a category currently present in the
// collection.
func (s *ViewService) SelectCategory(ctx context.Context, category string) error {
	if category != domain.CategoryAll && !s.collection.HasCategory(category) {
		return domain.NewNotFoundError("category", category)
	}

	if err := s.store.SaveLastCategory(ctx, category); err != nil {
		return err
	}

	logging.FromContext(ctx).Info("category selected",
		slog.String("category", category))

	return nil
}

// Pick selects a quote for display. Category "" means "use the active
// filter". A fresh uniform-random pick is made over the candidate pool
// and remembered for the session, so the session can always reach a new
// quote. When resume is set (the session is starting up, not asking for
// a new quote) and the session last viewed a quote that still exists
// and matches the filter, that quote is replayed verbatim instead.
func (s *ViewService) Pick(ctx context.Context, sessionID, category string, resume bool) Selection {
	if category == "" {
		category = s.ActiveCategory(ctx)
	}

	if resume {
		if resumed, ok := s.lastViewed(sessionID, category); ok {
			return Selection{Quote: resumed, Category: category, Resumed: true}
		}
	}

	pool := s.pool(category)
	if len(pool) == 0 {
		return Selection{Category: category, Empty: true}
	}

	quote := pool[s.pick(len(pool))]

	if s.sessions != nil {
		s.sessions.RememberLastViewed(sessionID, quote.ID)
	}

	return Selection{Quote: quote, Category: category}
}

// lastViewed returns the session's last-viewed quote when it still
// exists and belongs to the requested category (or the filter is "all").
func (s *ViewService) lastViewed(sessionID, category string) (domain.Quote, bool) {
	if s.sessions == nil || sessionID == "" {
		return domain.Quote{}, false
	}

	lastID, ok := s.sessions.LastViewed(sessionID)
	if !ok {
		return domain.Quote{}, false
	}

	quote, exists := s.collection.Get(lastID)
	if !exists {
		return domain.Quote{}, false
	}

	if category != domain.CategoryAll && quote.Category != category {
		return domain.Quote{}, false
	}

	return quote, true
}

// pool returns the candidate quotes for the given category.
func (s *ViewService) pool(category string) []domain.Quote {
	snapshot := s.collection.Snapshot()
	if category == domain.CategoryAll {
		return snapshot
	}

	pool := snapshot[:0]
	for _, q := range snapshot {
		if q.Category == category {
			pool = append(pool, q)
		}
	}

	return pool
}
