package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quote(id, text, category string, source Source) Quote {
	return Quote{
		ID:          id,
		Text:        text,
		Category:    category,
		Source:      source,
		Version:     1,
		LastUpdated: 1700000000000,
	}
}

func TestImportMerge_AppendsNewRecords(t *testing.T) {
	existing := []Quote{
		quote("a", "first", "wisdom", SourceSeed),
	}
	incoming := []Quote{
		quote("b", "second", "life", SourceImport),
		quote("c", "third", "wisdom", SourceImport),
	}

	merged, result := ImportMerge(existing, incoming)

	assert.Equal(t, 2, result.Added)
	assert.Equal(t, 0, result.Skipped)
	require.Len(t, merged, 3)
	assert.Equal(t, "a", merged[0].ID)
	assert.Equal(t, "b", merged[1].ID)
	assert.Equal(t, "c", merged[2].ID)
}

func TestImportMerge_SkipsDuplicates(t *testing.T) {
	tests := []struct {
		name     string
		existing []Quote
		incoming []Quote
		added    int
		skipped  int
	}{
		{
			name:     "duplicate id",
			existing: []Quote{quote("a", "first", "wisdom", SourceSeed)},
			incoming: []Quote{quote("a", "changed text", "life", SourceImport)},
			added:    0,
			skipped:  1,
		},
		{
			name:     "duplicate content under new id",
			existing: []Quote{quote("a", "first", "wisdom", SourceSeed)},
			incoming: []Quote{quote("z", "first", "wisdom", SourceImport)},
			added:    0,
			skipped:  1,
		},
		{
			name:     "same text different category is not a duplicate",
			existing: []Quote{quote("a", "first", "wisdom", SourceSeed)},
			incoming: []Quote{quote("z", "first", "life", SourceImport)},
			added:    1,
			skipped:  0,
		},
		{
			name:     "duplicate within incoming batch",
			existing: nil,
			incoming: []Quote{
				quote("a", "first", "wisdom", SourceImport),
				quote("b", "first", "wisdom", SourceImport),
			},
			added:   1,
			skipped: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged, result := ImportMerge(tt.existing, tt.incoming)

			assert.Equal(t, tt.added, result.Added)
			assert.Equal(t, tt.skipped, result.Skipped)
			assert.Len(t, merged, len(tt.existing)+tt.added,
				"import must be strictly additive")
		})
	}
}

func TestImportMerge_NeverMutatesExisting(t *testing.T) {
	existing := []Quote{
		quote("a", "first", "wisdom", SourceSeed),
		quote("b", "second", "life", SourceSeed),
	}
	incoming := []Quote{
		quote("a", "overwrite attempt", "other", SourceImport),
		quote("c", "third", "life", SourceImport),
	}

	merged, _ := ImportMerge(existing, incoming)

	assert.Equal(t, "first", merged[0].Text)
	assert.Equal(t, "second", merged[1].Text)
	assert.Equal(t, "first", existing[0].Text, "input slice must be left intact")
}

func TestSyncMerge_ServerWinsOnConflict(t *testing.T) {
	existing := []Quote{
		quote("server-1", "A", "server", SourceServer),
		quote("local-1", "keep me", "life", SourceLocal),
	}
	incoming := []Quote{
		quote("server-1", "B", "server", SourceServer),
	}

	merged, result := SyncMerge(existing, incoming)

	assert.Equal(t, 0, result.Added)
	assert.Equal(t, 1, result.Replaced)
	require.Len(t, merged, 2)
	assert.Equal(t, "B", merged[0].Text, "overwrite preserves position")
	assert.Equal(t, "keep me", merged[1].Text)
}

func TestSyncMerge_AppendsUnknownIDs(t *testing.T) {
	existing := []Quote{quote("server-1", "A", "server", SourceServer)}
	incoming := []Quote{
		quote("server-1", "A", "server", SourceServer),
		quote("server-2", "new", "server", SourceServer),
	}

	merged, result := SyncMerge(existing, incoming)

	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 0, result.Replaced)
	assert.Len(t, merged, 2)
}

func TestSyncMerge_NoContentDedup(t *testing.T) {
	// Identical text and category under different ids both survive:
	// sync is keyed by id only.
	existing := []Quote{quote("local-1", "same words", "server", SourceLocal)}
	incoming := []Quote{quote("server-1", "same words", "server", SourceServer)}

	merged, result := SyncMerge(existing, incoming)

	assert.Equal(t, 1, result.Added)
	assert.Len(t, merged, 2)
}

func TestSyncMerge_Idempotent(t *testing.T) {
	existing := []Quote{quote("server-1", "A", "server", SourceServer)}
	incoming := []Quote{
		quote("server-1", "B", "server", SourceServer),
		quote("server-2", "C", "server", SourceServer),
	}

	merged, first := SyncMerge(existing, incoming)
	assert.Equal(t, 1, first.Added)
	assert.Equal(t, 1, first.Replaced)

	again, second := SyncMerge(merged, incoming)
	assert.Equal(t, 0, second.Added)
	assert.Equal(t, 0, second.Replaced)
	assert.Equal(t, merged, again)
}

func TestMerge_IdentityUniqueness(t *testing.T) {
	// After any sequence of import and sync operations no two records
	// share an id.
	collection := SeedQuotes()

	collection, _ = ImportMerge(collection, []Quote{
		quote("seed-1", "dup id", "x", SourceImport),
		quote("imp-1", "imported", "books", SourceImport),
	})
	collection, _ = SyncMerge(collection, []Quote{
		quote("seed-1", "server override", "server", SourceServer),
		quote("server-1", "from feed", "server", SourceServer),
	})
	collection, _ = ImportMerge(collection, []Quote{
		quote("server-1", "dup again", "server", SourceImport),
	})

	seen := make(map[string]struct{}, len(collection))
	for _, q := range collection {
		_, dup := seen[q.ID]
		require.False(t, dup, "duplicate id %q", q.ID)
		seen[q.ID] = struct{}{}
	}
}
