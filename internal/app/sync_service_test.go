package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotevault/quotevault/internal/domain"
)

func newSync(t *testing.T, store *fakeStateStore, feed *fakeFeed) *SyncService {
	t.Helper()

	return NewSyncService(SyncServiceConfig{
		Feed:       feed,
		Collection: newCollection(t, store),
		Store:      store,
		Interval:   time.Minute,
		Logger:     discardLogger(),
	})
}

func TestNewSyncService_PanicsWithoutDependencies(t *testing.T) {
	store := &fakeStateStore{quotes: []domain.Quote{
		storedQuote("q-1", "first", "wisdom"),
	}}
	collection := newCollection(t, store)
	feed := &fakeFeed{}

	assert.Panics(t, func() {
		NewSyncService(SyncServiceConfig{Collection: collection, Store: store})
	})
	assert.Panics(t, func() {
		NewSyncService(SyncServiceConfig{Feed: feed, Store: store})
	})
	assert.Panics(t, func() {
		NewSyncService(SyncServiceConfig{Feed: feed, Collection: collection})
	})
}

func TestSyncService_RunOnce(t *testing.T) {
	t.Run("merges the feed and records the timestamp", func(t *testing.T) {
		store := &fakeStateStore{quotes: []domain.Quote{
			storedQuote("q-1", "first", "wisdom"),
			storedQuote("server-1", "old text", "server"),
		}}
		feed := &fakeFeed{quotes: []domain.Quote{
			storedQuote("server-1", "updated text", "server"),
			storedQuote("server-2", "fresh", "server"),
		}}

		svc := newSync(t, store, feed)

		stats, err := svc.RunOnce(context.Background())
		require.NoError(t, err)

		assert.Equal(t, SyncStats{Added: 1, Replaced: 1}, stats)
		assert.NotZero(t, store.lastSync)

		saved := store.savedQuotes()
		require.Len(t, saved, 3)
		assert.Equal(t, "updated text", saved[1].Text)
	})

	t.Run("feed failure leaves the collection untouched", func(t *testing.T) {
		store := &fakeStateStore{quotes: []domain.Quote{
			storedQuote("q-1", "first", "wisdom"),
		}}
		feed := &fakeFeed{err: domain.NewUnavailableError("quote-feed", "connection refused")}

		svc := newSync(t, store, feed)

		_, err := svc.RunOnce(context.Background())
		require.Error(t, err)
		assert.True(t, domain.IsUnavailable(err))

		assert.Zero(t, store.lastSync)
		assert.Zero(t, store.quoteSaves)
	})

	t.Run("unchanged feed is idempotent", func(t *testing.T) {
		existing := storedQuote("server-1", "stable", "server")
		store := &fakeStateStore{quotes: []domain.Quote{existing}}
		feed := &fakeFeed{quotes: []domain.Quote{existing}}

		svc := newSync(t, store, feed)

		for range 3 {
			stats, err := svc.RunOnce(context.Background())
			require.NoError(t, err)
			assert.Equal(t, SyncStats{}, stats)
		}

		assert.Zero(t, store.quoteSaves)
		assert.Equal(t, 3, feed.fetches)
	})
}

func TestSyncService_Start(t *testing.T) {
	store := &fakeStateStore{quotes: []domain.Quote{
		storedQuote("q-1", "first", "wisdom"),
	}}
	feed := &fakeFeed{quotes: []domain.Quote{
		storedQuote("server-1", "fresh", "server"),
	}}

	svc := NewSyncService(SyncServiceConfig{
		Feed:       feed,
		Collection: newCollection(t, store),
		Store:      store,
		Interval:   10 * time.Millisecond,
		Logger:     discardLogger(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc.Start(ctx)

	require.Eventually(t, func() bool {
		feed.mu.Lock()
		defer feed.mu.Unlock()

		return feed.fetches >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()

	saved := store.savedQuotes()
	require.Len(t, saved, 2)
	assert.Equal(t, "server-1", saved[1].ID)
}
