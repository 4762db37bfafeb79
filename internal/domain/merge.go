package domain

// ImportResult reports the outcome of an import merge.
type ImportResult struct {
	// Added is the number of incoming records appended.
	Added int

	// Skipped is the number of incoming records rejected as duplicates,
	// either by id or by (text, category) content.
	Skipped int
}

// SyncResult reports the outcome of a sync merge.
type SyncResult struct {
	// Added is the number of incoming records appended.
	Added int

	// Replaced is the number of local records overwritten because the
	// incoming record with the same id differed in content.
	Replaced int
}

// ImportMerge merges incoming records into the existing collection under
// the append-if-new policy. An incoming record is skipped if its id is
// already present, or if an existing record carries the same
// (text, category) content under a different id. Import is strictly
// additive: existing records are never mutated or removed, so
// len(merged) == len(existing) + result.Added.
//
// The returned slice is a fresh copy; the existing slice is left intact.
func ImportMerge(existing, incoming []Quote) ([]Quote, ImportResult) {
	merged := make([]Quote, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	ids := make(map[string]struct{}, len(existing))
	contents := make(map[contentKey]struct{}, len(existing))

	for _, q := range existing {
		ids[q.ID] = struct{}{}
		contents[keyOf(q)] = struct{}{}
	}

	var result ImportResult

	for _, q := range incoming {
		if _, dup := ids[q.ID]; dup {
			result.Skipped++
			continue
		}

		if _, dup := contents[keyOf(q)]; dup {
			result.Skipped++
			continue
		}

		merged = append(merged, q)
		ids[q.ID] = struct{}{}
		contents[keyOf(q)] = struct{}{}
		result.Added++
	}

	return merged, result
}

// SyncMerge merges incoming records into the existing collection under
// the server-wins policy, keyed by id only. Unknown ids are appended;
// known ids whose text or category differ are overwritten in place,
// preserving their position; identical records are a no-op. Repeated
// calls with unchanged incoming data therefore report zero changes,
// which keeps the periodic sync re-entrant without drift.
//
// Unlike import there is no content-level de-duplication: two records
// with identical text and category but different ids both survive.
//
// The returned slice is a fresh copy; the existing slice is left intact.
func SyncMerge(existing, incoming []Quote) ([]Quote, SyncResult) {
	merged := make([]Quote, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	positions := make(map[string]int, len(existing))
	for i, q := range existing {
		positions[q.ID] = i
	}

	var result SyncResult

	for _, q := range incoming {
		pos, known := positions[q.ID]
		if !known {
			positions[q.ID] = len(merged)
			merged = append(merged, q)
			result.Added++

			continue
		}

		if merged[pos].ContentEquals(q) {
			continue
		}

		merged[pos] = q
		result.Replaced++
	}

	return merged, result
}
