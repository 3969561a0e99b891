package search

import (
	"strings"
	"time"
)

const (
	BackendAuto       = "auto"
	BackendDuckDuckGo = "duckduckgo"
	BackendGoogle     = "google"
	BackendBrave      = "brave"
	BackendBing       = "bing"

	DefaultRegion     = "us-en"
	DefaultMaxResults = 1
	MaxResultsLimit   = 10
	DefaultTimeout    = 10 * time.Second
)

// DefaultBackendOrder is the fallback order used when no backends are given
// or when the list is "auto".
var DefaultBackendOrder = []string{
	BackendDuckDuckGo,
	BackendGoogle,
	BackendBrave,
	BackendBing,
}

// SafeSearch is the provider-side content filtering level.
type SafeSearch string

const (
	SafeSearchOn       SafeSearch = "on"
	SafeSearchModerate SafeSearch = "moderate"
	SafeSearchOff      SafeSearch = "off"
)

// SafeSearchLevels lists the accepted levels in the order they are offered to users.
var SafeSearchLevels = []SafeSearch{SafeSearchOn, SafeSearchModerate, SafeSearchOff}

// ParseSafeSearch returns the level for s, falling back to moderate for unknown values.
func ParseSafeSearch(s string) SafeSearch {
	switch SafeSearch(strings.ToLower(strings.TrimSpace(s))) {
	case SafeSearchOn:
		return SafeSearchOn
	case SafeSearchOff:
		return SafeSearchOff
	default:
		return SafeSearchModerate
	}
}

// Endpoints holds the upstream URLs used by a Client. Zero values fall back
// to the public endpoints.
type Endpoints struct {
	DuckDuckGo        string
	DuckDuckGoSuggest string
	Google            string
	Brave             string
	Bing              string
}

func (e Endpoints) withDefaults() Endpoints {
	if e.DuckDuckGo == "" {
		e.DuckDuckGo = "https://html.duckduckgo.com/html/"
	}
	if e.DuckDuckGoSuggest == "" {
		e.DuckDuckGoSuggest = "https://duckduckgo.com/ac/"
	}
	if e.Google == "" {
		e.Google = "https://www.google.com/search"
	}
	if e.Brave == "" {
		e.Brave = "https://search.brave.com/search"
	}
	if e.Bing == "" {
		e.Bing = "https://www.bing.com/search"
	}
	return e
}
