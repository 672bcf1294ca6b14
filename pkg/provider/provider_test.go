package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oriolvn/serptrack/pkg/config"
	"github.com/oriolvn/serptrack/pkg/keyword"
)

func TestRegistry(t *testing.T) {
	registry := Default()

	for _, id := range []string{"serper", "serpapi", "proxy"} {
		p, ok := registry.Get(id)
		require.True(t, ok, "provider %s not registered", id)
		assert.Equal(t, id, p.ID())
	}

	_, ok := registry.Get("nope")
	assert.False(t, ok)
}

func TestSerper_BuildRequest(t *testing.T) {
	cfg := config.ScraperConfig{APIKey: "key123"}
	kw := keyword.Keyword{Keyword: "coffee grinder", Country: "DE"}

	req, ok := Serper{}.BuildRequest(kw, cfg)
	require.True(t, ok)
	assert.Contains(t, req.URL, "https://google.serper.dev/search?")
	assert.Contains(t, req.URL, "q=coffee+grinder")
	assert.Contains(t, req.URL, "gl=DE")
	assert.Contains(t, req.URL, "hl=de")
	assert.Contains(t, req.URL, "apiKey=key123")
	assert.NotContains(t, req.URL, "page=")
}

func TestSerper_BuildRequestWithoutKey(t *testing.T) {
	_, ok := Serper{}.BuildRequest(keyword.Keyword{Keyword: "x"}, config.ScraperConfig{})
	assert.False(t, ok, "missing credentials must be a skip, not an error")
}

func TestSerper_UnknownCountryFallsBackToUS(t *testing.T) {
	cfg := config.ScraperConfig{APIKey: "k"}
	req, ok := Serper{}.BuildRequest(keyword.Keyword{Keyword: "x", Country: "ZZ"}, cfg)
	require.True(t, ok)
	assert.Contains(t, req.URL, "gl=ZZ")
	assert.Contains(t, req.URL, "hl=en")
}

func TestSerper_AdditionalRequests(t *testing.T) {
	cfg := config.ScraperConfig{APIKey: "k"}
	kw := keyword.Keyword{Keyword: "x", Country: "US"}

	urls := Serper{}.AdditionalRequests(kw, cfg, 3)
	require.Len(t, urls, 2)
	assert.Contains(t, urls[0], "page=2")
	assert.Contains(t, urls[1], "page=3")

	assert.Nil(t, Serper{}.AdditionalRequests(kw, cfg, 1))
}

func TestSerper_ExtractResults(t *testing.T) {
	payload := `[
		{"title": "First", "link": "https://a.com/", "position": 1},
		{"title": "", "link": "https://missing-title.com/", "position": 2},
		{"title": "Third", "link": "https://c.com/", "position": 3}
	]`

	results, err := Serper{}.ExtractResults([]byte(payload), "desktop")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "https://a.com/", results[0].URL)
	assert.Equal(t, 3, results[1].Position)
}

func TestSerper_ExtractResultsBadPayload(t *testing.T) {
	_, err := Serper{}.ExtractResults([]byte(`{"not": "an array"}`), "desktop")
	assert.Error(t, err)
}

func TestSerpAPI_BuildRequest(t *testing.T) {
	cfg := config.ScraperConfig{APIKey: "key123"}
	kw := keyword.Keyword{Keyword: "coffee", Country: "FR", Device: "mobile", City: "Paris"}

	req, ok := SerpAPI{}.BuildRequest(kw, cfg)
	require.True(t, ok)
	assert.Contains(t, req.URL, "https://serpapi.com/search?engine=google")
	assert.Contains(t, req.URL, "gl=FR")
	assert.Contains(t, req.URL, "device=mobile")
	assert.Contains(t, req.URL, "location=Paris%2CFrance")

	urls := SerpAPI{}.AdditionalRequests(kw, cfg, 2)
	require.Len(t, urls, 1)
	assert.Contains(t, urls[0], "start=10")
}

func TestProxy_BuildRequest(t *testing.T) {
	kw := keyword.Keyword{Keyword: "coffee grinder"}

	_, ok := Proxy{}.BuildRequest(kw, config.ScraperConfig{})
	assert.False(t, ok, "proxy provider needs a proxy list")

	req, ok := Proxy{}.BuildRequest(kw, config.ScraperConfig{Proxy: "http://127.0.0.1:8080"})
	require.True(t, ok)
	assert.Contains(t, req.URL, "https://www.google.com/search?num=100")
	assert.Contains(t, req.URL, "q=coffee+grinder")

	assert.Nil(t, Proxy{}.AdditionalRequests(kw, config.ScraperConfig{}, 5))
}
