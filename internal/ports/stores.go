// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrConflict, etc.)
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

import (
	"context"

	"github.com/quotevault/quotevault/internal/domain"
)

// StateStore is the durable key-value persistence contract for the quote
// collection and the shared view state. One key holds the full collection,
// one holds the last selected category, one holds the last sync timestamp.
type StateStore interface {
	// LoadQuotes reads the full collection from the durable store.
	// Absent, unreadable, or malformed data all degrade to (nil, nil) so
	// the caller can fall back to the seed set; an error is returned only
	// for an unexpected store failure.
	LoadQuotes(ctx context.Context) ([]domain.Quote, error)

	// SaveQuotes serializes the full collection as formatted JSON and
	// overwrites the prior content unconditionally.
	SaveQuotes(ctx context.Context, quotes []domain.Quote) error

	// LastCategory returns the last selected category, or "" if none has
	// been stored.
	LastCategory(ctx context.Context) (string, error)

	// SaveLastCategory records the active category filter. Shared across
	// sessions.
	SaveLastCategory(ctx context.Context, category string) error

	// LastSync returns the timestamp of the last successful sync in
	// milliseconds since epoch, or 0 if none has been recorded.
	LastSync(ctx context.Context) (int64, error)

	// SaveLastSync records the timestamp of a successful sync cycle.
	SaveLastSync(ctx context.Context, millis int64) error
}

// SessionStore holds ephemeral per-session view state. Sessions are
// isolated from each other and from the durable store; writes are
// best-effort and never fail the caller.
type SessionStore interface {
	// RememberLastViewed records the id of the quote last shown to the
	// given session.
	RememberLastViewed(sessionID, quoteID string)

	// LastViewed returns the id of the quote last shown to the given
	// session, or false if the session has none.
	LastViewed(sessionID string) (string, bool)
}

// QuoteFeed fetches the upstream feed and returns its records already
// normalized as valid quotes with server provenance. Implementations
// return domain.ErrUnavailable when the feed is unreachable or responds
// with a non-success status.
type QuoteFeed interface {
	Fetch(ctx context.Context) ([]domain.Quote, error)
}
