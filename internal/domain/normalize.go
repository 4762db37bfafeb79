package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// nowMillis returns the current logical clock value. Overridable in tests.
var nowMillis = func() int64 {
	return time.Now().UnixMilli()
}

// NowMillis returns the current logical clock value in milliseconds
// since epoch, the timestamp representation carried by quote records.
func NowMillis() int64 {
	return nowMillis()
}

// NewID returns a collision-resistant unique identifier for a quote.
// UUIDs are independent of wall-clock granularity, so rapid successive
// calls never collide.
func NewID() string {
	return uuid.NewString()
}

// Normalize coerces a sequence of untrusted records (typically a parsed
// JSON array) into valid quotes. Elements that are not objects, or whose
// text or category fields are missing, not strings, or empty after
// trimming, are dropped silently; only the aggregate dropped count is
// reported.
//
// Every quote returned satisfies the collection invariants: non-empty
// trimmed text, non-empty trimmed lowercase category, a non-empty id
// (synthesized when absent), a source (falling back to defaultSource),
// a numeric version defaulting to 1, and a lastUpdated defaulting to
// the current time.
func Normalize(raw []any, defaultSource Source) ([]Quote, int) {
	quotes := make([]Quote, 0, len(raw))
	dropped := 0

	for _, elem := range raw {
		record, ok := elem.(map[string]any)
		if !ok {
			dropped++
			continue
		}

		quote, ok := normalizeRecord(record, defaultSource)
		if !ok {
			dropped++
			continue
		}

		quotes = append(quotes, quote)
	}

	return quotes, dropped
}

// normalizeRecord coerces a single untrusted record into a Quote.
// Returns false if the record fails the minimal shape check.
func normalizeRecord(record map[string]any, defaultSource Source) (Quote, bool) {
	text, ok := record["text"].(string)
	if !ok {
		return Quote{}, false
	}

	category, ok := record["category"].(string)
	if !ok {
		return Quote{}, false
	}

	text = strings.TrimSpace(text)
	category = strings.ToLower(strings.TrimSpace(category))

	if text == "" || category == "" {
		return Quote{}, false
	}

	id, _ := record["id"].(string)
	if id == "" {
		id = NewID()
	}

	source := defaultSource
	if s, ok := record["source"].(string); ok && s != "" {
		source = Source(s)
	}

	version := 1
	if v, ok := asInt64(record["version"]); ok {
		version = int(v)
	}

	lastUpdated := nowMillis()
	if ts, ok := asInt64(record["lastUpdated"]); ok {
		lastUpdated = ts
	}

	return Quote{
		ID:          id,
		Text:        text,
		Category:    category,
		Source:      source,
		Version:     version,
		LastUpdated: lastUpdated,
	}, true
}

// asInt64 coerces the numeric types produced by JSON decoding.
// encoding/json decodes all numbers into float64.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}
