package search

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var ddgSafeSearch = map[SafeSearch]string{
	SafeSearchOn:       "1",
	SafeSearchModerate: "-1",
	SafeSearchOff:      "-2",
}

type ddgBackend struct {
	url string
}

func (b *ddgBackend) Name() string {
	return BackendDuckDuckGo
}

func (b *ddgBackend) Text(ctx context.Context, client *http.Client, params TextParams) ([]TextResult, error) {
	form := url.Values{
		"q":  {params.Query},
		"b":  {""},
		"kl": {string(params.Region)},
		"kp": {ddgSafeSearch[params.SafeSearch]},
	}
	doc, status, err := postDocument(ctx, client, b.Name(), b.url, form, map[string]string{
		"Referer": "https://html.duckduckgo.com/",
	})
	if err != nil {
		return nil, err
	}
	// DuckDuckGo answers with a 202 challenge page instead of results when it
	// decides the session is sending too many requests.
	if status == http.StatusAccepted {
		return nil, classify(b.Name(), status, errors.New("received challenge page"))
	}

	results := make([]TextResult, 0, params.MaxResults)
	doc.Find("div.result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.HasClass("result--ad") {
			return true
		}
		link := s.Find("a.result__a").First()
		href, _ := link.Attr("href")
		href = unwrapDDGLink(href)
		title := cleanText(link.Text())
		if title == "" || !isWebURL(href) {
			return true
		}
		results = append(results, TextResult{
			Title: title,
			Href:  href,
			Body:  cleanText(s.Find(".result__snippet").First().Text()),
		})
		return len(results) < params.MaxResults
	})
	return results, nil
}

// unwrapDDGLink extracts the target of a //duckduckgo.com/l/?uddg=... redirect.
func unwrapDDGLink(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if uddg := parsed.Query().Get("uddg"); uddg != "" {
		return uddg
	}
	return href
}
