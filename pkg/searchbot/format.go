package searchbot

import (
	"fmt"
	"strings"

	"github.com/beeper/search-bot/pkg/search"
)

// maxSuggestions is how many suggestions the suggest commands show.
const maxSuggestions = 3

// FormatResult renders a search result as "<title> — <link>".
func FormatResult(result search.TextResult) string {
	return result.Title + " — " + result.Href
}

// JoinQuoted quotes each item in single quotes and joins them as
// "'a', 'b' and 'c'".
func JoinQuoted(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = "'" + item + "'"
	}
	switch len(quoted) {
	case 0:
		return ""
	case 1:
		return quoted[0]
	default:
		return strings.Join(quoted[:len(quoted)-1], ", ") + " and " + quoted[len(quoted)-1]
	}
}

// SuggestionPhrases extracts the phrases of the first limit suggestions. It
// fails if any of those lacks a phrase.
func SuggestionPhrases(suggestions []search.Suggestion, limit int) ([]string, error) {
	suggestions = firstN(suggestions, limit)
	phrases := make([]string, 0, len(suggestions))
	for i, suggestion := range suggestions {
		phrase, err := suggestion.Phrase()
		if err != nil {
			return nil, fmt.Errorf("suggestion %d: %w", i, err)
		}
		phrases = append(phrases, phrase)
	}
	return phrases, nil
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
