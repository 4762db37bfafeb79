// Package domain contains core business entities and rules.
package domain

import "sort"

// Source identifies where a quote record came from.
// It is informational provenance only and plays no part in merge
// conflict resolution.
type Source string

// Known quote sources.
const (
	// SourceSeed marks quotes from the built-in seed set.
	SourceSeed Source = "seed"

	// SourceLocal marks quotes added by a user through the API.
	SourceLocal Source = "local"

	// SourceImport marks quotes loaded from an imported file.
	SourceImport Source = "import"

	// SourceServer marks quotes reconciled from the upstream feed.
	SourceServer Source = "server"
)

// CategoryAll is the filter value that matches every category.
const CategoryAll = "all"

// Quote represents a single quotation in the collection.
// This is a domain entity - it has no knowledge of external systems.
type Quote struct {
	// ID is the unique identifier for this quote. It is immutable once
	// assigned and is the sole identity key for merge decisions.
	ID string `json:"id"`

	// Text is the quotation body. Always non-empty and trimmed after
	// normalization.
	Text string `json:"text"`

	// Category is a free-form tag, trimmed and lowercased. Always
	// non-empty after normalization.
	Category string `json:"category"`

	// Source records the provenance of this record.
	Source Source `json:"source"`

	// Version is carried through merges but not consulted by any
	// conflict rule.
	Version int `json:"version"`

	// LastUpdated is a logical clock in milliseconds since epoch,
	// recorded at creation, import, or sync time.
	LastUpdated int64 `json:"lastUpdated"`
}

// ContentEquals reports whether two quotes carry the same text and
// category, regardless of identity or provenance.
func (q Quote) ContentEquals(other Quote) bool {
	return q.Text == other.Text && q.Category == other.Category
}

// contentKey is the content-level identity used for import de-duplication.
type contentKey struct {
	text     string
	category string
}

func keyOf(q Quote) contentKey {
	return contentKey{text: q.Text, category: q.Category}
}

// Categories returns the sorted set of distinct category values present
// in the given quotes. It is derived state, recomputed on every
// structural change to the collection.
func Categories(quotes []Quote) []string {
	seen := make(map[string]struct{}, len(quotes))
	for _, q := range quotes {
		seen[q.Category] = struct{}{}
	}

	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}

	sort.Strings(categories)

	return categories
}
