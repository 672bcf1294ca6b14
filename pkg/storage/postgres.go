package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

var ErrKeywordNotFound = sql.ErrNoRows

const keywordColumns = `id, keyword, device, country, city, domain, tags, sticky, position,
		url, volume, history, last_result, updating, last_update_error, settings,
		sort_order, last_updated, added`

func (s *PostgresStorage) GetKeyword(ctx context.Context, id int) (KeywordRow, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+keywordColumns+`
		FROM keywords WHERE id = $1`, id)
	return scanKeyword(row)
}

func (s *PostgresStorage) ListKeywords(ctx context.Context) ([]KeywordRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+keywordColumns+`
		FROM keywords ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keywords []KeywordRow
	for rows.Next() {
		kw, err := scanKeyword(rows)
		if err != nil {
			return nil, err
		}
		keywords = append(keywords, kw)
	}
	return keywords, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanKeyword(row rowScanner) (KeywordRow, error) {
	var kw KeywordRow
	err := row.Scan(
		&kw.ID, &kw.Keyword, &kw.Device, &kw.Country, &kw.City, &kw.Domain,
		&kw.Tags, &kw.Sticky, &kw.Position, &kw.URL, &kw.Volume, &kw.History,
		&kw.LastResult, &kw.Updating, &kw.LastUpdateError, &kw.Settings,
		&kw.SortOrder, &kw.LastUpdated, &kw.Added,
	)
	return kw, err
}

func (s *PostgresStorage) UpdateKeyword(ctx context.Context, id int, update KeywordUpdate) error {
	if update.Settings != nil {
		settings := sql.NullString{String: *update.Settings, Valid: *update.Settings != ""}
		_, err := s.db.ExecContext(ctx, `
			UPDATE keywords
			SET position = $1, url = $2, last_result = $3, history = $4, updating = $5,
				last_update_error = $6, last_updated = $7, settings = COALESCE($8, '')
			WHERE id = $9`,
			update.Position, update.URL, update.LastResult, update.History, update.Updating,
			update.LastUpdateError, update.LastUpdated, settings, id,
		)
		if err != nil {
			return fmt.Errorf("could not update keyword %d: %w", id, err)
		}
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE keywords
		SET position = $1, url = $2, last_result = $3, history = $4, updating = $5,
			last_update_error = $6, last_updated = $7
		WHERE id = $8`,
		update.Position, update.URL, update.LastResult, update.History, update.Updating,
		update.LastUpdateError, update.LastUpdated, id,
	)
	if err != nil {
		return fmt.Errorf("could not update keyword %d: %w", id, err)
	}
	return nil
}

func (s *PostgresStorage) GetDomain(ctx context.Context, domain string) (DomainRow, error) {
	var d DomainRow
	err := s.db.QueryRowContext(ctx, `
		SELECT id, domain, COALESCE(competitors, ''), auto_manage_top20
		FROM domains WHERE domain = $1`, domain,
	).Scan(&d.ID, &d.Domain, &d.Competitors, &d.AutoManageTop20)
	return d, err
}

// IncrementScrapeCount adds to the per-domain daily request counter. The
// upsert increments at the database so concurrent reconciliations for the
// same domain combine additively.
func (s *PostgresStorage) IncrementScrapeCount(ctx context.Context, domain, date string, by int) error {
	if domain == "" || by <= 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO domain_scrape_stats (domain, date, count)
		VALUES ($1, $2, $3)
		ON CONFLICT (domain, date) DO UPDATE
		SET count = domain_scrape_stats.count + EXCLUDED.count`,
		domain, date, by,
	)
	if err != nil {
		return fmt.Errorf("could not increment scrape count for %s: %w", domain, err)
	}
	return nil
}

func (s *PostgresStorage) SaveScrapeLog(ctx context.Context, entry ScrapeLog) error {
	var id int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO domain_scrape_logs (domain, keyword, status, requests, message, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		entry.Domain, entry.Keyword, entry.Status, entry.Requests, entry.Message,
		sql.NullString{String: entry.Details, Valid: entry.Details != ""}, entry.CreatedAt,
	).Scan(&id)

	if err != nil {
		return err
	}

	slog.Debug("saved scrape log", "id", id, "domain", entry.Domain, "status", entry.Status)
	return nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
