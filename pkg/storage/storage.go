package storage

import (
	"context"
	"time"
)

// KeywordRow is a keyword exactly as stored: history, tags, lastResult and
// settings are JSON-encoded columns. Parsing into the canonical shape happens
// once, at the boundary (see pkg/keyword).
type KeywordRow struct {
	ID              int
	Keyword         string
	Device          string
	Country         string
	City            string
	Domain          string
	Tags            string
	Sticky          bool
	Position        int
	URL             string
	Volume          int
	History         string
	LastResult      string
	Updating        bool
	LastUpdateError string
	Settings        string
	SortOrder       *int
	LastUpdated     *time.Time
	Added           time.Time
}

// KeywordUpdate is the single-row reconciliation write after a scrape attempt.
// Settings is nil when keyword settings are unchanged; a pointer to the empty
// string clears them.
type KeywordUpdate struct {
	Position        int
	URL             string
	LastResult      string
	History         string
	Updating        bool
	LastUpdateError string
	LastUpdated     *time.Time
	Settings        *string
}

type DomainRow struct {
	ID              int
	Domain          string
	Competitors     string
	AutoManageTop20 bool
}

// ScrapeLog is one immutable audit record per reconciled scrape attempt.
type ScrapeLog struct {
	Domain    string
	Keyword   string
	Status    string
	Requests  int
	Message   string
	Details   string
	CreatedAt time.Time
}

type Store interface {
	GetKeyword(ctx context.Context, id int) (KeywordRow, error)
	ListKeywords(ctx context.Context) ([]KeywordRow, error)
	UpdateKeyword(ctx context.Context, id int, update KeywordUpdate) error
	GetDomain(ctx context.Context, domain string) (DomainRow, error)
	IncrementScrapeCount(ctx context.Context, domain, date string, by int) error
	SaveScrapeLog(ctx context.Context, entry ScrapeLog) error
	Close() error
}
