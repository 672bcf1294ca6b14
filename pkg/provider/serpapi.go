package provider

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/oriolvn/serptrack/pkg/config"
	"github.com/oriolvn/serptrack/pkg/keyword"
	"github.com/oriolvn/serptrack/pkg/serp"
)

// SerpAPI adapts serpapi.com. Ranked results live under "organic_results"
// and pagination uses a result offset.
type SerpAPI struct{}

func (SerpAPI) ID() string { return "serpapi" }
func (SerpAPI) ResultKey() string { return "organic_results" }
func (SerpAPI) AllowsCity() bool { return true }
func (SerpAPI) Parallel() bool { return true }

func (s SerpAPI) BuildRequest(kw keyword.Keyword, cfg config.ScraperConfig) (Request, bool) {
	if cfg.APIKey == "" {
		return Request{}, false
	}
	return Request{URL: s.buildURL(kw, cfg, 1)}, true
}

func (s SerpAPI) AdditionalRequests(kw keyword.Keyword, cfg config.ScraperConfig, pages int) []string {
	if cfg.APIKey == "" || pages <= 1 {
		return nil
	}
	var urls []string
	for page := 2; page <= pages; page++ {
		urls = append(urls, s.buildURL(kw, cfg, page))
	}
	return urls
}

func (SerpAPI) buildURL(kw keyword.Keyword, cfg config.ScraperConfig, page int) string {
	country := kw.Country
	if country == "" {
		country = "US"
	}
	info := CountryInfo(country)
	device := kw.Device
	if device == "" {
		device = "desktop"
	}
	base := fmt.Sprintf("https://serpapi.com/search?engine=google&q=%s&gl=%s&hl=%s&num=10&device=%s&api_key=%s",
		url.QueryEscape(kw.Keyword), country, info.Language, device, cfg.APIKey)
	if kw.City != "" {
		base = fmt.Sprintf("%s&location=%s", base, url.QueryEscape(fmt.Sprintf("%s,%s", kw.City, info.Name)))
	}
	if page > 1 {
		return fmt.Sprintf("%s&start=%d", base, (page-1)*10)
	}
	return base
}

type serpAPIResult struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Position int    `json:"position"`
}

func (SerpAPI) ExtractResults(payload []byte, _ string) ([]serp.SearchResult, error) {
	var results []serpAPIResult
	if err := json.Unmarshal(payload, &results); err != nil {
		return nil, fmt.Errorf("could not parse serpapi results: %w", err)
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
