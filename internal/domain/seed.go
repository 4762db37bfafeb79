package domain

// SeedQuotes returns the fixed seed set used when the durable store is
// empty or unreadable at startup. Ids are stable so a reseeded store
// merges cleanly with previously exported data.
func SeedQuotes() []Quote {
	now := nowMillis()

	seeds := []struct {
		id       string
		text     string
		category string
	}{
		{"seed-1", "The only limit to our realization of tomorrow is our doubts of today.", "motivation"},
		{"seed-2", "Life is what happens when you're busy making other plans.", "life"},
		{"seed-3", "In the middle of difficulty lies opportunity.", "wisdom"},
		{"seed-4", "Simplicity is the ultimate sophistication.", "wisdom"},
		{"seed-5", "Do not go where the path may lead, go instead where there is no path and leave a trail.", "motivation"},
		{"seed-6", "The unexamined life is not worth living.", "philosophy"},
	}

	quotes := make([]Quote, 0, len(seeds))
	for _, s := range seeds {
		quotes = append(quotes, Quote{
			ID:          s.id,
			Text:        s.text,
			Category:    s.category,
			Source:      SourceSeed,
			Version:     1,
			LastUpdated: now,
		})
	}

	return quotes
}
