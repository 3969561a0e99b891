package search

import "strings"

// Region is a DuckDuckGo-style market code such as "us-en" or "wt-wt".
type Region string

// Country returns the part before the first dash, lower-cased. The worldwide
// pseudo-country "wt" yields an empty string.
func (r Region) Country() string {
	country, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(string(r))), "-")
	if country == "wt" {
		return ""
	}
	return country
}

// Language returns the part after the first dash, lower-cased, or "en" when
// the region has no language part.
func (r Region) Language() string {
	_, lang, found := strings.Cut(strings.ToLower(strings.TrimSpace(string(r))), "-")
	if !found || lang == "" || lang == "wt" {
		return "en"
	}
	return lang
}
