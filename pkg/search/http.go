package search

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/beeper/search-bot/pkg/shared/httputil"
)

var htmlHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
}

func getDocument(ctx context.Context, client *http.Client, backend, rawURL string, params url.Values, headers map[string]string) (*goquery.Document, int, error) {
	data, status, err := httputil.Get(ctx, client, rawURL, params, httputil.MergeHeaders(htmlHeaders, headers))
	if err != nil {
		return nil, status, classify(backend, status, err)
	}
	doc, err := parseDocument(backend, data)
	return doc, status, err
}

func postDocument(ctx context.Context, client *http.Client, backend, rawURL string, form url.Values, headers map[string]string) (*goquery.Document, int, error) {
	data, status, err := httputil.PostForm(ctx, client, rawURL, form, httputil.MergeHeaders(htmlHeaders, headers))
	if err != nil {
		return nil, status, classify(backend, status, err)
	}
	doc, err := parseDocument(backend, data)
	return doc, status, err
}

func parseDocument(backend string, data []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, &BackendError{Backend: backend, Err: fmt.Errorf("failed to parse results: %w", err)}
	}
	return doc, nil
}

func cleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func isWebURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return false
	}
	return parsed.Scheme == "http" || parsed.Scheme == "https"
}
