package search

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var bingSafeSearch = map[SafeSearch]string{
	SafeSearchOn:       "strict",
	SafeSearchModerate: "moderate",
	SafeSearchOff:      "off",
}

type bingBackend struct {
	url string
}

func (b *bingBackend) Name() string {
	return BackendBing
}

func (b *bingBackend) Text(ctx context.Context, client *http.Client, params TextParams) ([]TextResult, error) {
	query := url.Values{
		"q":       {params.Query},
		"setlang": {params.Region.Language()},
		"adlt":    {bingSafeSearch[params.SafeSearch]},
		"count":   {strconv.Itoa(params.MaxResults + 2)},
	}
	if country := params.Region.Country(); country != "" {
		query.Set("cc", strings.ToUpper(country))
	}
	doc, _, err := getDocument(ctx, client, b.Name(), b.url, query, nil)
	if err != nil {
		return nil, err
	}

	results := make([]TextResult, 0, params.MaxResults)
	doc.Find("li.b_algo").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		link := s.Find("h2 a").First()
		href, _ := link.Attr("href")
		href = unwrapBingLink(href)
		title := cleanText(link.Text())
		if title == "" || !isWebURL(href) {
			return true
		}
		body := s.Find(".b_caption p").First().Text()
		if body == "" {
			body = s.Find("p").First().Text()
		}
		results = append(results, TextResult{Title: title, Href: href, Body: cleanText(body)})
		return len(results) < params.MaxResults
	})
	return results, nil
}

// unwrapBingLink decodes bing.com/ck/a tracking links, whose target is stored
// base64url-encoded in the "u" parameter behind an "a1" marker.
func unwrapBingLink(href string) string {
	parsed, err := url.Parse(href)
	if err != nil || !strings.HasSuffix(parsed.Path, "/ck/a") {
		return href
	}
	encoded := parsed.Query().Get("u")
	if !strings.HasPrefix(encoded, "a1") {
		return href
	}
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(encoded[2:], "="))
	if err != nil {
		return href
	}
	return string(decoded)
}
