// Package stringutil has small helpers for config and env values.
package stringutil

import (
	"slices"
	"strings"
)

// EnvOr returns value (trimmed) if non-empty, otherwise returns existing.
func EnvOr(existing, value string) string {
	if value = strings.TrimSpace(value); value == "" {
		return existing
	}
	return value
}

// FirstNonEmpty returns the first value that isn't blank.
func FirstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

// SplitCSV splits a comma-separated list into trimmed, non-empty parts,
// keeping the first occurrence of repeated items.
func SplitCSV(value string) []string {
	var out []string
	for part := range strings.SplitSeq(value, ",") {
		item := strings.TrimSpace(part)
		if item != "" && !slices.Contains(out, item) {
			out = append(out, item)
		}
	}
	return out
}
