package refresh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"

	"github.com/oriolvn/serptrack/pkg/keyword"
	"github.com/oriolvn/serptrack/pkg/provider"
	"github.com/oriolvn/serptrack/pkg/serp"
)

// ErrUnknown stands in when no result page could be extracted and no request
// error was captured along the way.
var ErrUnknown = errors.New("unknown error")

const (
	desktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/42.0.2311.135 Safari/537.36 Edge/12.246"
	mobileUserAgent  = "Mozilla/5.0 (Linux; Android 10; SM-G996U Build/QP1A.190711.020; wv) AppleWebKit/537.36 (KHTML, like Gecko) Version/4.0 Mobile Safari/537.36"
)

// scrapeKeyword runs one keyword's full scrape attempt: the primary request,
// any additional page requests, extraction and the merge. The primary request
// failing is fatal for the attempt; an additional page failing only records
// the first such error and keeps whatever pages succeeded.
func (r *Refresher) scrapeKeyword(ctx context.Context, p provider.Provider, kw keyword.Keyword) Result {
	res := Result{
		ID:       kw.ID,
		Keyword:  kw.Keyword,
		Position: kw.Position,
		URL:      kw.URL,
		Results:  kw.LastResult,
	}

	req, ok := p.BuildRequest(kw, r.cfg)
	if !ok {
		res.Skipped = true
		return res
	}

	proxied := p.ID() == "proxy" && r.cfg.Proxy != ""
	requests := 0
	var pages [][]byte
	var firstErr error

	body, err := r.fetch(ctx, req.URL, req.Headers, kw.Device, proxied)
	requests++
	if err != nil {
		firstErr = err
	} else {
		pages = append(pages, body)

		if wanted := kw.RequestedPages(); wanted > 1 {
			pageURLs := p.AdditionalRequests(kw, r.cfg, wanted)
			if len(pageURLs) > wanted-1 {
				pageURLs = pageURLs[:wanted-1]
			}
			for _, pageURL := range pageURLs {
				if pageURL == "" {
					continue
				}
				pageBody, pageErr := r.fetch(ctx, pageURL, req.Headers, kw.Device, proxied)
				requests++
				if pageErr != nil {
					slog.Warn("failed to fetch additional result page",
						slog.String("keyword", kw.Keyword), slog.Any("err", pageErr))
					if firstErr == nil {
						firstErr = pageErr
					}
					continue
				}
				pages = append(pages, pageBody)
			}
		}
	}

	var extractedPages [][]serp.SearchResult
	for _, page := range pages {
		payload := locatePayload(page, p.ResultKey())
		if len(payload) == 0 {
			continue
		}
		items, extractErr := p.ExtractResults(payload, kw.Device)
		if extractErr != nil {
			slog.Warn("failed to extract results",
				slog.String("keyword", kw.Keyword), slog.Any("err", extractErr))
			if firstErr == nil {
				firstErr = extractErr
			}
			continue
		}
		if len(items) > 0 {
			extractedPages = append(extractedPages, items)
		}
	}

	res.RequestsMade = requests
	if len(extractedPages) == 0 {
		if firstErr == nil {
			firstErr = ErrUnknown
		}
		res.Err = firstErr
		return res
	}

	merged := serp.MergePages(extractedPages)
	annotated := serp.AnnotateDomainMatches(merged, kw.Domain)
	position, matchedURL := serp.GetSERP(kw.Domain, annotated)

	res.Position = position
	res.URL = matchedURL
	res.Results = annotated
	slog.Info("serp resolved",
		slog.String("keyword", kw.Keyword),
		slog.Int("position", position),
		slog.String("url", matchedURL),
	)
	return res
}

func (r *Refresher) fetch(ctx context.Context, rawURL string, headers map[string]string, device string, proxied bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json; charset=utf8;")
	if device == "mobile" {
		req.Header.Set("User-Agent", mobileUserAgent)
	} else {
		req.Header.Set("User-Agent", desktopUserAgent)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	client := r.client
	if proxied {
		client = r.proxyClient()
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("[%d] %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return body, nil
}

// proxyClient builds a client around one of the configured proxies, picked at
// random per request so load spreads across the pool.
func (r *Refresher) proxyClient() *http.Client {
	proxies := r.cfg.Proxies()
	if len(proxies) == 0 {
		return r.client
	}
	proxyURL, err := url.Parse(proxies[rand.Intn(len(proxies))])
	if err != nil {
		slog.Warn("invalid proxy url, using direct client", slog.Any("err", err))
		return r.client
	}
	return &http.Client{
		Timeout:   r.cfg.GetTimeout(),
		Transport: &http.Transport{Proxy: http.ProxyURL(proxyURL)},
	}
}

// locatePayload finds the ranked-result payload inside a provider response.
// JSON envelopes are probed for the conventional keys and then the provider's
// own result key; a JSON string value is unwrapped (HTML delivered inside
// JSON), anything else is handed over as raw JSON. Bodies that are not JSON
// objects are passed through untouched.
func locatePayload(body []byte, resultKey string) []byte {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return body
	}

	keys := []string{"data", "html", "results"}
	if resultKey != "" {
		keys = append(keys, resultKey)
	}
	for _, key := range keys {
		raw, ok := envelope[key]
		if !ok || len(raw) == 0 || string(raw) == "null" {
			continue
		}
		var unwrapped string
		if err := json.Unmarshal(raw, &unwrapped); err == nil {
			return []byte(unwrapped)
		}
		return raw
	}
	return nil
}
