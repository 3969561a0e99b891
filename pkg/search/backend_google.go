package search

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type googleBackend struct {
	url string
}

func (b *googleBackend) Name() string {
	return BackendGoogle
}

func (b *googleBackend) Text(ctx context.Context, client *http.Client, params TextParams) ([]TextResult, error) {
	query := url.Values{
		"q":   {params.Query},
		"hl":  {params.Region.Language()},
		"num": {strconv.Itoa(params.MaxResults + 2)},
	}
	if country := params.Region.Country(); country != "" {
		query.Set("gl", country)
	}
	switch params.SafeSearch {
	case SafeSearchOn:
		query.Set("safe", "active")
	case SafeSearchOff:
		query.Set("safe", "off")
	}
	doc, _, err := getDocument(ctx, client, b.Name(), b.url, query, nil)
	if err != nil {
		return nil, err
	}
	if doc.Find("form#captcha-form").Length() > 0 || strings.Contains(doc.Text(), "unusual traffic from your computer network") {
		return nil, classify(b.Name(), http.StatusTooManyRequests, errors.New("received captcha page"))
	}

	results := make([]TextResult, 0, params.MaxResults)
	seen := make(map[string]bool)
	doc.Find("a:has(h3)").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		href = unwrapGoogleLink(href)
		title := cleanText(s.Find("h3").First().Text())
		if title == "" || !isWebURL(href) || seen[href] {
			return true
		}
		seen[href] = true
		body := s.Closest("div.g").Find(".VwiC3b").First().Text()
		results = append(results, TextResult{Title: title, Href: href, Body: cleanText(body)})
		return len(results) < params.MaxResults
	})
	return results, nil
}

// unwrapGoogleLink extracts the target of a /url?q=... redirect.
func unwrapGoogleLink(href string) string {
	if !strings.HasPrefix(href, "/url?") {
		return href
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := parsed.Query().Get("q"); target != "" {
		return target
	}
	return href
}
