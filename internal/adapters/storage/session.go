package storage

import (
	"sync"
	"time"
)

// sessionTTL is how long an idle session keeps its last-viewed entry.
const sessionTTL = 30 * time.Minute

type sessionEntry struct {
	quoteID string
	seenAt  time.Time
}

// SessionCache is an in-memory SessionStore, the server-side analog of
// session-scoped browser storage. Entries are isolated per session id
// and expire after sessionTTL of inactivity; expired entries are pruned
// lazily on writes so the cache stays bounded by the number of sessions
// active within the window. Writes are best-effort.
type SessionCache struct {
	mu        sync.RWMutex
	lastViews map[string]sessionEntry
	now       func() time.Time
}

// NewSessionCache creates an empty session cache.
func NewSessionCache() *SessionCache {
	return &SessionCache{
		lastViews: make(map[string]sessionEntry),
		now:       time.Now,
	}
}

// RememberLastViewed records the quote last shown to a session.
// Empty session ids are ignored.
func (c *SessionCache) RememberLastViewed(sessionID, quoteID string) {
	if sessionID == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for id, entry := range c.lastViews {
		if now.Sub(entry.seenAt) > sessionTTL {
			delete(c.lastViews, id)
		}
	}

	c.lastViews[sessionID] = sessionEntry{quoteID: quoteID, seenAt: now}
}

// LastViewed returns the quote last shown to a session. Entries older
// than sessionTTL are treated as absent.
func (c *SessionCache) LastViewed(sessionID string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.lastViews[sessionID]
	if !ok || c.now().Sub(entry.seenAt) > sessionTTL {
		return "", false
	}

	return entry.quoteID, true
}
