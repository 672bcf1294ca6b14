package provider

import (
	"github.com/oriolvn/serptrack/pkg/config"
	"github.com/oriolvn/serptrack/pkg/keyword"
	"github.com/oriolvn/serptrack/pkg/serp"
)

// Request is a fully built scrape request. Headers hold only the
// provider-specific additions; the orchestrator supplies the base set.
type Request struct {
	URL     string
	Headers map[string]string
}

// Provider is one search-results source. Implementations are pure strategy
// objects with no shared mutable state.
//
// BuildRequest returns ok=false when no request can be built for the keyword
// (for example, missing credentials); callers treat that as "zero results, no
// error". AdditionalRequests builds the page-2..N URLs and is only consulted
// when more than one page was requested. ExtractResults turns one raw page
// payload into ranked results.
type Provider interface {
	ID() string
	ResultKey() string
	AllowsCity() bool
	Parallel() bool
	BuildRequest(kw keyword.Keyword, cfg config.ScraperConfig) (Request, bool)
	AdditionalRequests(kw keyword.Keyword, cfg config.ScraperConfig, pages int) []string
	ExtractResults(payload []byte, device string) ([]serp.SearchResult, error)
}

// Registry holds the configured providers keyed by id.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.ID()] = p
	}
	return r
}

// Default wires every built-in provider.
func Default() *Registry {
	return NewRegistry(
		Serper{},
		SerpAPI{},
		Proxy{},
	)
}

func (r *Registry) Get(id string) (Provider, bool) {
	p, ok := r.providers[id]
	return p, ok
}
