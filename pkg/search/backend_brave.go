package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

var braveSafeSearch = map[SafeSearch]string{
	SafeSearchOn:       "strict",
	SafeSearchModerate: "moderate",
	SafeSearchOff:      "off",
}

type braveBackend struct {
	url string
}

func (b *braveBackend) Name() string {
	return BackendBrave
}

func (b *braveBackend) Text(ctx context.Context, client *http.Client, params TextParams) ([]TextResult, error) {
	query := url.Values{
		"q":      {params.Query},
		"source": {"web"},
	}
	country := params.Region.Country()
	if country == "" {
		country = "all"
	}
	cookie := fmt.Sprintf("safesearch=%s; country=%s; useLocation=0", braveSafeSearch[params.SafeSearch], country)
	doc, _, err := getDocument(ctx, client, b.Name(), b.url, query, map[string]string{"Cookie": cookie})
	if err != nil {
		return nil, err
	}

	results := make([]TextResult, 0, params.MaxResults)
	doc.Find(`div.snippet[data-type="web"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		link := s.Find("a[href]").First()
		href, _ := link.Attr("href")
		title := cleanText(s.Find(".title").First().Text())
		if title == "" {
			title = cleanText(link.Text())
		}
		if title == "" || !isWebURL(href) {
			return true
		}
		body := s.Find(".snippet-description").First().Text()
		if body == "" {
			body = s.Find(".generic-snippet .content").First().Text()
		}
		results = append(results, TextResult{Title: title, Href: href, Body: cleanText(body)})
		return len(results) < params.MaxResults
	})
	return results, nil
}
