package search

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/beeper/search-bot/pkg/shared/httputil"
)

const suggestBackend = "duckduckgo-suggest"

// Suggestion is one autocomplete entry as returned by DuckDuckGo. The raw
// item is kept so a missing phrase field can be reported instead of guessed.
type Suggestion struct {
	raw gjson.Result
}

// NewSuggestion wraps a raw JSON object.
func NewSuggestion(rawJSON string) Suggestion {
	return Suggestion{raw: gjson.Parse(rawJSON)}
}

// Phrase returns the suggested phrase, or ErrMissingPhrase when the item has none.
func (s Suggestion) Phrase() (string, error) {
	phrase := s.raw.Get("phrase")
	if !phrase.Exists() || phrase.Type != gjson.String {
		return "", ErrMissingPhrase
	}
	return phrase.String(), nil
}

// Suggestions fetches autocomplete phrases for query.
func (c *Client) Suggestions(ctx context.Context, query string, region Region) ([]Suggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("missing query")
	}
	if strings.TrimSpace(string(region)) == "" {
		region = DefaultRegion
	}
	params := url.Values{
		"q":  {query},
		"kl": {string(region)},
	}
	data, status, err := httputil.Get(ctx, c.http, c.endpoints.DuckDuckGoSuggest, params, map[string]string{
		"Accept": "application/json",
	})
	if err != nil {
		return nil, classify(suggestBackend, status, err)
	}
	return parseSuggestions(data)
}

func parseSuggestions(data []byte) ([]Suggestion, error) {
	if !gjson.ValidBytes(data) {
		return nil, &BackendError{Backend: suggestBackend, Err: errors.New("failed to parse results: invalid JSON")}
	}
	parsed := gjson.ParseBytes(data)
	if !parsed.IsArray() {
		return nil, &BackendError{Backend: suggestBackend, Err: fmt.Errorf("failed to parse results: expected array, got %s", parsed.Type)}
	}
	items := parsed.Array()
	out := make([]Suggestion, 0, len(items))
	for _, item := range items {
		out = append(out, Suggestion{raw: item})
	}
	return out, nil
}
