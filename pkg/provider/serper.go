package provider

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/oriolvn/serptrack/pkg/config"
	"github.com/oriolvn/serptrack/pkg/keyword"
	"github.com/oriolvn/serptrack/pkg/serp"
)

// Serper adapts the serper.dev JSON API. Ranked results live under the
// "organic" key and pagination uses a page query parameter.
type Serper struct{}

func (Serper) ID() string { return "serper" }
func (Serper) ResultKey() string { return "organic" }
func (Serper) AllowsCity() bool { return true }
func (Serper) Parallel() bool { return true }

func (s Serper) BuildRequest(kw keyword.Keyword, cfg config.ScraperConfig) (Request, bool) {
	if cfg.APIKey == "" {
		return Request{}, false
	}
	return Request{URL: s.buildURL(kw, cfg, 1)}, true
}

func (s Serper) AdditionalRequests(kw keyword.Keyword, cfg config.ScraperConfig, pages int) []string {
	if cfg.APIKey == "" || pages <= 1 {
		return nil
	}
	var urls []string
	for page := 2; page <= pages; page++ {
		urls = append(urls, s.buildURL(kw, cfg, page))
	}
	return urls
}

func (Serper) buildURL(kw keyword.Keyword, cfg config.ScraperConfig, page int) string {
	country := kw.Country
	if country == "" {
		country = "US"
	}
	info := CountryInfo(country)
	query := kw.Keyword
	if kw.City != "" {
		query = fmt.Sprintf("%s %s", kw.Keyword, kw.City)
	}
	base := fmt.Sprintf("https://google.serper.dev/search?q=%s&gl=%s&hl=%s&num=10&apiKey=%s",
		url.QueryEscape(query), country, info.Language, cfg.APIKey)
	if page > 1 {
		return fmt.Sprintf("%s&page=%d", base, page)
	}
	return base
}

type serperResult struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Position int    `json:"position"`
}

func (Serper) ExtractResults(payload []byte, _ string) ([]serp.SearchResult, error) {
	var results []serperResult
	if err := json.Unmarshal(payload, &results); err != nil {
		return nil, fmt.Errorf("could not parse serper results: %w", err)
	}
	var extracted []serp.SearchResult
	for _, item := range results {
		if item.Title == "" || item.Link == "" {
			continue
		}
		extracted = append(extracted, serp.SearchResult{
			Title:    item.Title,
			URL:      item.Link,
			Position: item.Position,
		})
	}
	return extracted, nil
}
