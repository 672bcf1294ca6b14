// Package refresh is the rank-scrape orchestration engine: it fans keyword
// scrapes out to the configured provider, merges paginated results, computes
// domain and competitor positions, and reconciles each keyword's stored state.
package refresh

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/oriolvn/serptrack/pkg/config"
	"github.com/oriolvn/serptrack/pkg/domains"
	"github.com/oriolvn/serptrack/pkg/keyword"
	"github.com/oriolvn/serptrack/pkg/provider"
	"github.com/oriolvn/serptrack/pkg/queue"
	"github.com/oriolvn/serptrack/pkg/serp"
	"github.com/oriolvn/serptrack/pkg/storage"
)

// Result is the transient outcome of one scrape attempt. On error the
// keyword's previous position, url and result list are carried through
// untouched. Skipped marks attempts where the provider could not build a
// request at all.
type Result struct {
	ID           int
	Keyword      string
	Position     int
	URL          string
	Results      []serp.SearchResult
	Err          error
	RequestsMade int
	Skipped      bool
}

type Refresher struct {
	cfg      config.ScraperConfig
	registry *provider.Registry
	store    storage.Store
	policies *domains.PolicyCache
	queue    *queue.Queue
	client   *http.Client
}

func New(cfg config.ScraperConfig, registry *provider.Registry, store storage.Store, policies *domains.PolicyCache, retryQueue *queue.Queue) *Refresher {
	return &Refresher{
		cfg:      cfg,
		registry: registry,
		store:    store,
		policies: policies,
		queue:    retryQueue,
		client:   &http.Client{Timeout: cfg.GetTimeout()},
	}
}

// RefreshKeywords is the batch entry point. JSON-API providers scrape the
// whole batch concurrently; HTML providers go one keyword at a time with the
// configured delay in between. Every keyword is reconciled independently, so
// one bad keyword never aborts the batch.
func (r *Refresher) RefreshKeywords(ctx context.Context, rows []storage.KeywordRow) []keyword.Keyword {
	if len(rows) == 0 {
		return nil
	}

	p, ok := r.registry.Get(r.cfg.Provider)
	if !ok {
		slog.Error("scraper not configured", slog.String("provider", r.cfg.Provider))
		return nil
	}

	keywords := keyword.FromRows(rows)
	start := time.Now()

	var updated []keyword.Keyword
	if p.Parallel() {
		updated = r.refreshParallel(ctx, p, keywords)
	} else {
		updated = r.refreshSequential(ctx, p, keywords)
	}

	slog.Info("refresh complete",
		slog.Int("keywords", len(updated)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return updated
}

func (r *Refresher) refreshSequential(ctx context.Context, p provider.Provider, keywords []keyword.Keyword) []keyword.Keyword {
	delay := r.cfg.GetDelay()
	updated := make([]keyword.Keyword, 0, len(keywords))

	for i, kw := range keywords {
		slog.Info("scrape start", slog.String("keyword", kw.Keyword), slog.String("domain", kw.Domain))
		res := r.scrapeKeyword(ctx, p, kw)
		if res.Skipped {
			updated = append(updated, kw)
		} else {
			updated = append(updated, r.reconcile(ctx, kw, res))
		}

		if delay > 0 && i < len(keywords)-1 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return updated
			}
		}
	}
	return updated
}

func (r *Refresher) refreshParallel(ctx context.Context, p provider.Provider, keywords []keyword.Keyword) []keyword.Keyword {
	results := make(chan Result, len(keywords))
	for _, kw := range keywords {
		go func(kw keyword.Keyword) {
			results <- r.scrapeKeyword(ctx, p, kw)
		}(kw)
	}

	// Requests are context-bound, so collection unblocks on cancellation too.
	byID := make(map[int]Result, len(keywords))
	for range keywords {
		res := <-results
		byID[res.ID] = res
	}

	updated := make([]keyword.Keyword, 0, len(keywords))
	for _, kw := range keywords {
		res, ok := byID[kw.ID]
		if !ok || res.Skipped {
			updated = append(updated, kw)
			continue
		}
		updated = append(updated, r.reconcile(ctx, kw, res))
	}
	return updated
}

// RetryQueued refreshes every keyword currently in the retry queue. IDs that
// no longer resolve to a keyword are dropped from the queue.
func (r *Refresher) RetryQueued(ctx context.Context) []keyword.Keyword {
	ids := r.queue.List()
	if len(ids) == 0 {
		return nil
	}
	slog.Info("retrying failed scrapes", slog.Int("queued", len(ids)))

	var rows []storage.KeywordRow
	for _, id := range ids {
		row, err := r.store.GetKeyword(ctx, id)
		if err != nil {
			slog.Warn("retry queue references unknown keyword", slog.Int("id", id), slog.Any("err", err))
			if errors.Is(err, storage.ErrKeywordNotFound) {
				if removeErr := r.queue.Remove(id); removeErr != nil {
					slog.Warn("could not prune retry queue", slog.Int("id", id), slog.Any("err", removeErr))
				}
			}
			continue
		}
		rows = append(rows, row)
	}
	return r.RefreshKeywords(ctx, rows)
}
