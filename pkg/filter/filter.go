// Package filter matches names against simple wildcard patterns.
package filter

import "github.com/tidwall/match"

// FilterOut returns the items whose key matches none of the patterns.
// Patterns are globs: "*" matches any run of characters, including an empty
// one, and "?" matches a single character, anywhere in the pattern:
//   - "prefix*" matches keys starting with "prefix"
//   - "*suffix" matches keys ending with "suffix"
//   - "rg-*-prod" matches "rg-app-prod"
//   - "exact" matches keys exactly
//
// The order of the remaining items is preserved.
func FilterOut[T any](items []T, key func(T) string, patterns []string) []T {
	if len(patterns) == 0 {
		return items
	}

	result := make([]T, 0, len(items))
	for _, item := range items {
		if !Any(key(item), patterns) {
			result = append(result, item)
		}
	}
	return result
}

// Any reports whether key matches at least one pattern.
func Any(key string, patterns []string) bool {
	for _, pattern := range patterns {
		if Match(key, pattern) {
			return true
		}
	}
	return false
}

// Match checks if a key matches a wildcard pattern.
func Match(key, pattern string) bool {
	return match.Match(key, pattern)
}
