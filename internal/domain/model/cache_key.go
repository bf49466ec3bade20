package model

import (
	"regexp"
	"strings"
)

const (
	// CacheKeyPrefix namespaces processed-text entries in the cache backend.
	CacheKeyPrefix = "processed_text_"
	// MaxCacheKeyLength respects key limits of the storage backends.
	MaxCacheKeyLength = 250
)

var schemePattern = regexp.MustCompile(`^https?://`)

// DeriveCacheKey maps a video URL to a storage-safe cache key.
//
// The scheme is stripped, so http:// and https:// variants of the same
// address share one key.
func DeriveCacheKey(videoURL string) string {
	key := CacheKeyPrefix + SanitizeKey(videoURL)
	if len(key) > MaxCacheKeyLength {
		key = key[:MaxCacheKeyLength]
	}
	return key
}

// SanitizeKey strips a leading http(s) scheme and replaces every rune
// outside [A-Za-z0-9._-] with '_'.
func SanitizeKey(s string) string {
	s = schemePattern.ReplaceAllString(s, "")

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if isKeyRune(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

func isKeyRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.', r == '_', r == '-':
		return true
	}
	return false
}
