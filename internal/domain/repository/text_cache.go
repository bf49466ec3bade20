package repository

import "context"

// TextCache stores structured transcripts keyed by the derived cache key.
// Entries never expire and are overwritten on store.
type TextCache interface {
	// Get returns the stored text and whether a non-empty entry was found.
	// An empty stored value counts as a miss.
	Get(ctx context.Context, key string) (string, bool, error)

	// Put stores text under key, replacing any previous value.
	Put(ctx context.Context, key, text string) error
}
