package refresh

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/oriolvn/serptrack/pkg/keyword"
	"github.com/oriolvn/serptrack/pkg/storage"
)

// reconcile folds one scrape outcome into the keyword's stored state: history
// entry for today, auto-tracking policy, retry queue membership, the row
// update itself, and the accounting side effects. A failed attempt only
// records the error; previous position, url and history stay untouched.
func (r *Refresher) reconcile(ctx context.Context, kw keyword.Keyword, res Result) keyword.Keyword {
	now := time.Now()
	updated := kw
	updated.Updating = false

	policy, err := r.policies.Get(ctx, kw.Domain)
	if err != nil {
		slog.Warn("failed to load domain policy",
			slog.String("domain", kw.Domain), slog.Any("err", err))
	}

	update := storage.KeywordUpdate{Updating: false}

	if res.Err != nil {
		updateErr := keyword.UpdateError{
			Date:    now.Format(time.RFC3339),
			Error:   res.Err.Error(),
			Scraper: r.cfg.Provider,
		}
		updated.LastUpdateError = &updateErr

		update.Position = kw.Position
		update.URL = kw.URL
		update.History = marshalJSON(kw.History, "{}")
		update.LastResult = marshalJSON(kw.LastResult, "[]")
		update.LastUpdated = kw.LastUpdated
		update.LastUpdateError = marshalJSON(updateErr, "false")
	} else {
		var snapshot keyword.CompetitorSnapshot
		if len(policy.Competitors) > 0 {
			snapshot = keyword.ComputeCompetitorSnapshot(res.Results, policy.Competitors)
		}

		if updated.History == nil {
			updated.History = make(keyword.History)
		}
		keyword.SetHistoryEntry(updated.History, keyword.DateKey(now), res.Position, res.URL, snapshot)

		updated.Position = res.Position
		updated.URL = res.URL
		updated.LastResult = res.Results
		updated.LastUpdated = &now
		updated.LastUpdateError = nil

		update.Position = res.Position
		update.URL = res.URL
		update.History = marshalJSON(updated.History, "{}")
		update.LastResult = marshalJSON(res.Results, "[]")
		update.LastUpdated = &now
		update.LastUpdateError = "false"

		if nextSettings, changed := keyword.ApplyAutoTop20(policy.AutoManageTop20, kw.Settings, res.Position); changed {
			updated.Settings = nextSettings
			encoded := ""
			if nextSettings != nil {
				encoded = marshalJSON(nextSettings, "")
			}
			update.Settings = &encoded
		}
	}

	retryScheduled := res.Err != nil && r.cfg.Retry
	if retryScheduled {
		if queueErr := r.queue.Add(kw.ID); queueErr != nil {
			slog.Warn("failed to enqueue retry",
				slog.Int("id", kw.ID), slog.Any("err", queueErr))
		}
	} else {
		if queueErr := r.queue.Remove(kw.ID); queueErr != nil {
			slog.Warn("failed to dequeue retry",
				slog.Int("id", kw.ID), slog.Any("err", queueErr))
		}
	}

	if storeErr := r.store.UpdateKeyword(ctx, kw.ID, update); storeErr != nil {
		slog.Error("failed to update keyword",
			slog.String("keyword", kw.Keyword), slog.Any("err", storeErr))
		r.recordScrapeLog(ctx, storage.ScrapeLog{
			Domain:    kw.Domain,
			Keyword:   kw.Keyword,
			Status:    "error",
			Requests:  res.RequestsMade,
			Message:   "failed to persist keyword update",
			Details:   marshalDetails(map[string]any{"scraper": r.cfg.Provider, "error": storeErr.Error()}),
			CreatedAt: now,
		})
		return updated
	}

	r.incrementScrapeCount(ctx, kw.Domain, now, res.RequestsMade)

	status := "success"
	message := "keyword position updated"
	if res.Err != nil {
		status = "error"
		message = fmt.Sprintf("failed to refresh keyword: %v", res.Err)
	}
	r.recordScrapeLog(ctx, storage.ScrapeLog{
		Domain:   kw.Domain,
		Keyword:  kw.Keyword,
		Status:   status,
		Requests: res.RequestsMade,
		Message:  message,
		Details: marshalDetails(map[string]any{
			"scraper":        r.cfg.Provider,
			"url":            res.URL,
			"position":       res.Position,
			"increment":      res.RequestsMade,
			"retryScheduled": retryScheduled,
		}),
		CreatedAt: now,
	})

	return updated
}

// incrementScrapeCount bumps the per-domain daily counter. Best effort: a
// counter failure never fails the scrape.
func (r *Refresher) incrementScrapeCount(ctx context.Context, domain string, now time.Time, by int) {
	if by < 1 {
		by = 1
	}
	if err := r.store.IncrementScrapeCount(ctx, domain, now.Format("2006-01-02"), by); err != nil {
		slog.Warn("failed to increment domain scrape count",
			slog.String("domain", domain), slog.Any("err", err))
	}
}

// recordScrapeLog appends one audit entry. Best effort, same as the counter.
func (r *Refresher) recordScrapeLog(ctx context.Context, entry storage.ScrapeLog) {
	if err := r.store.SaveScrapeLog(ctx, entry); err != nil {
		slog.Warn("failed to record scrape log",
			slog.String("domain", entry.Domain), slog.Any("err", err))
	}
}

func marshalJSON(value any, fallback string) string {
	data, err := json.Marshal(value)
	if err != nil {
		return fallback
	}
	return string(data)
}

func marshalDetails(details map[string]any) string {
	return marshalJSON(details, "")
}
