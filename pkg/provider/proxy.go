package provider

import (
	"fmt"
	"net/url"

	"github.com/oriolvn/serptrack/pkg/config"
	"github.com/oriolvn/serptrack/pkg/keyword"
	"github.com/oriolvn/serptrack/pkg/serp"
)

// Proxy scrapes raw Google HTML through a rotating proxy list. It is
// rate-limit sensitive, so the orchestrator runs it sequentially with the
// configured delay between keywords.
type Proxy struct{}

func (Proxy) ID() string { return "proxy" }
func (Proxy) ResultKey() string { return "" }
func (Proxy) AllowsCity() bool { return false }
func (Proxy) Parallel() bool { return false }

func (Proxy) BuildRequest(kw keyword.Keyword, cfg config.ScraperConfig) (Request, bool) {
	if len(cfg.Proxies()) == 0 {
		return Request{}, false
	}
	requestURL := fmt.Sprintf("https://www.google.com/search?num=100&q=%s", url.QueryEscape(kw.Keyword))
	return Request{
		URL:     requestURL,
		Headers: map[string]string{"Accept": "gzip,deflate,compress;"},
	}, true
}

func (Proxy) AdditionalRequests(kw keyword.Keyword, cfg config.ScraperConfig, pages int) []string {
	// num=100 already covers every page the policy can request.
	return nil
}

func (Proxy) ExtractResults(payload []byte, device string) ([]serp.SearchResult, error) {
	return serp.ExtractFromHTML(payload, device)
}
