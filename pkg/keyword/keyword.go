package keyword

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/oriolvn/serptrack/pkg/serp"
	"github.com/oriolvn/serptrack/pkg/storage"
)

// CustomSettings is the per-keyword tracking policy blob. FetchTop20 widens
// tracking to two result pages; SERPPages overrides the page count outright.
type CustomSettings struct {
	FetchTop20 bool `json:"fetchTop20,omitempty"`
	SERPPages  int  `json:"serpPages,omitempty"`
}

// UpdateError is the structured error recorded after a failed scrape attempt.
type UpdateError struct {
	Date    string `json:"date"`
	Error   string `json:"error"`
	Scraper string `json:"scraper"`
}

// Keyword is the canonical, fully parsed tracking unit. The orchestration
// core only ever sees this shape; JSON-encoded store columns are decoded once
// in FromRow.
type Keyword struct {
	ID              int
	Keyword         string
	Device          string
	Country         string
	City            string
	Domain          string
	Tags            []string
	Sticky          bool
	Position        int
	URL             string
	Volume          int
	History         History
	LastResult      []serp.SearchResult
	Updating        bool
	LastUpdateError *UpdateError
	Settings        *CustomSettings
	SortOrder       *int
	LastUpdated     *time.Time
	Added           time.Time
}

// FromRow decodes one stored keyword into the canonical shape. Unparsable
// JSON fragments are dropped with a warning rather than propagated.
func FromRow(row storage.KeywordRow) Keyword {
	kw := Keyword{
		ID:          row.ID,
		Keyword:     row.Keyword,
		Device:      row.Device,
		Country:     row.Country,
		City:        row.City,
		Domain:      row.Domain,
		Sticky:      row.Sticky,
		Position:    row.Position,
		URL:         row.URL,
		Volume:      row.Volume,
		Updating:    row.Updating,
		SortOrder:   row.SortOrder,
		LastUpdated: row.LastUpdated,
		Added:       row.Added,
	}

	kw.History = NormalizeHistory(parseRawHistory(row.History))

	if row.Tags != "" {
		if err := json.Unmarshal([]byte(row.Tags), &kw.Tags); err != nil {
			slog.Warn("failed to parse keyword tags", slog.Int("id", row.ID), slog.Any("err", err))
		}
	}

	if row.LastResult != "" {
		if err := json.Unmarshal([]byte(row.LastResult), &kw.LastResult); err != nil {
			slog.Warn("failed to parse keyword last result", slog.Int("id", row.ID), slog.Any("err", err))
		}
	}

	if row.LastUpdateError != "" && row.LastUpdateError != "false" {
		var updateErr UpdateError
		if err := json.Unmarshal([]byte(row.LastUpdateError), &updateErr); err == nil {
			kw.LastUpdateError = &updateErr
		}
	}

	kw.Settings = ParseSettings(row.Settings)

	return kw
}

// FromRows decodes a batch of stored keywords.
func FromRows(rows []storage.KeywordRow) []Keyword {
	keywords := make([]Keyword, len(rows))
	for i, row := range rows {
		keywords[i] = FromRow(row)
	}
	return keywords
}

// ParseSettings decodes the settings column; anything that is not a JSON
// object yields nil.
func ParseSettings(raw string) *CustomSettings {
	if raw == "" || raw == "null" {
		return nil
	}
	var settings CustomSettings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		slog.Warn("failed to parse keyword settings", slog.Any("err", err))
		return nil
	}
	if !settings.FetchTop20 && settings.SERPPages == 0 {
		return nil
	}
	return &settings
}

// RequestedPages resolves how many result pages a scrape should fetch: an
// explicit serpPages > 1 wins (capped at 10), the legacy fetchTop20 flag maps
// to 2, everything else to 1.
func (k *Keyword) RequestedPages() int {
	if k.Settings == nil {
		return 1
	}
	if k.Settings.SERPPages > 1 {
		if k.Settings.SERPPages > 10 {
			return 10
		}
		return k.Settings.SERPPages
	}
	if k.Settings.FetchTop20 {
		return 2
	}
	return 1
}

// DateKey formats a time as the history map key. Kept unpadded for
// compatibility with ledgers written by earlier versions.
func DateKey(t time.Time) string {
	return fmt.Sprintf("%d-%d-%d", t.Year(), int(t.Month()), t.Day())
}
