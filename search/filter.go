// Package search implements the in-memory substring filter applied to one
// fetched page. A record matches when any of its string-coerced fields
// contains the lower-cased term. The filter never reaches across pages.
package search

import "strings"

// Matches reports whether any field contains term, case-insensitively.
// An empty term matches everything.
func Matches(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// Filter keeps the records whose searchable fields match term. With an
// empty term the input slice is returned untouched.
func Filter[T any](items []T, term string, fields func(T) []string) []T {
	if term == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if Matches(term, fields(it)...) {
			out = append(out, it)
		}
	}
	return out
}
