package handlers

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/quotevault/quotevault/internal/app"
	"github.com/quotevault/quotevault/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memStore is an in-memory StateStore for handler tests.
type memStore struct {
	mu       sync.Mutex
	quotes   []domain.Quote
	category string
	lastSync int64
	saveErr  error
	saves    int
}

func (s *memStore) LoadQuotes(_ context.Context) ([]domain.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quotes == nil {
		return nil, nil
	}

	out := make([]domain.Quote, len(s.quotes))
	copy(out, s.quotes)

	return out, nil
}

func (s *memStore) SaveQuotes(_ context.Context, quotes []domain.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveErr != nil {
		return s.saveErr
	}

	s.quotes = make([]domain.Quote, len(quotes))
	copy(s.quotes, quotes)
	s.saves++

	return nil
}

func (s *memStore) LastCategory(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.category, nil
}

func (s *memStore) SaveLastCategory(_ context.Context, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.category = category

	return nil
}

func (s *memStore) LastSync(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastSync, nil
}

func (s *memStore) SaveLastSync(_ context.Context, millis int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSync = millis

	return nil
}

// memSessions is an in-memory SessionStore for handler tests.
type memSessions struct {
	mu        sync.Mutex
	lastViews map[string]string
}

func newMemSessions() *memSessions {
	return &memSessions{lastViews: make(map[string]string)}
}

func (s *memSessions) RememberLastViewed(sessionID, quoteID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastViews[sessionID] = quoteID
}

func (s *memSessions) LastViewed(sessionID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.lastViews[sessionID]

	return id, ok
}

// memFeed is a canned QuoteFeed for handler tests.
type memFeed struct {
	quotes []domain.Quote
	err    error
}

func (f *memFeed) Fetch(_ context.Context) ([]domain.Quote, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.quotes, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testQuote(id, text, category string) domain.Quote {
	return domain.Quote{
		ID:          id,
		Text:        text,
		Category:    category,
		Source:      domain.SourceImport,
		Version:     1,
		LastUpdated: 1700000000000,
	}
}

// newTestServices builds a collection and view service over an
// in-memory store seeded with the given quotes.
func newTestServices(t *testing.T, quotes []domain.Quote) (*app.CollectionService, *app.ViewService, *memStore) {
	t.Helper()

	store := &memStore{quotes: quotes}

	collection, err := app.NewCollectionService(context.Background(), app.CollectionServiceConfig{
		Store:  store,
		Logger: testLogger(),
	})
	require.NoError(t, err)

	view := app.NewViewService(app.ViewServiceConfig{
		Collection: collection,
		Store:      store,
		Sessions:   newMemSessions(),
		Logger:     testLogger(),
	})

	return collection, view, store
}
