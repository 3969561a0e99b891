// Package autocomplete queries Google's toolbar autocomplete endpoint.
package autocomplete

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"

	"github.com/beeper/search-bot/pkg/shared/httputil"
)

const (
	DefaultURL     = "https://suggestqueries.google.com/complete/search"
	DefaultTimeout = 10 * time.Second
)

// Config controls the autocomplete client.
type Config struct {
	URL     string
	Timeout time.Duration
	Log     zerolog.Logger
}

// Client fetches autocomplete suggestions.
type Client struct {
	url  string
	http *http.Client
	log  zerolog.Logger
}

// NewClient creates a client for the configured endpoint.
func NewClient(cfg Config) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		url:  cfg.URL,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  cfg.Log,
	}
}

// Complete returns the suggestions for query in the given language. Transport
// and status failures are returned as errors; a response that can't be parsed
// is treated as having no suggestions.
func (c *Client) Complete(ctx context.Context, query, language string) (Suggestions, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Suggestions{}, errors.New("missing query")
	}
	params := url.Values{
		"output": {"toolbar"},
		"hl":     {strings.ToLower(language)},
		"q":      {query},
	}
	data, _, err := httputil.Get(ctx, c.http, c.url, params, map[string]string{
		"Accept": "text/xml,application/xml",
	})
	if err != nil {
		return Suggestions{}, err
	}
	doc, err := decode(data)
	if err != nil {
		c.log.Debug().Err(err).Msg("Ignoring malformed autocomplete response")
		return Suggestions{}, nil
	}
	return normalize(doc), nil
}

type toplevel struct {
	XMLName            xml.Name             `xml:"toplevel"`
	CompleteSuggestion []completeSuggestion `xml:"CompleteSuggestion"`
}

type completeSuggestion struct {
	Suggestion *suggestionNode `xml:"suggestion"`
}

type suggestionNode struct {
	Data *string `xml:"data,attr"`
}

func decode(data []byte) (*toplevel, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	// Google picks the response charset from hl, not always UTF-8.
	decoder.CharsetReader = charset.NewReaderLabel
	var doc toplevel
	if err := decoder.Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
