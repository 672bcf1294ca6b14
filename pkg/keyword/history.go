package keyword

import (
	"encoding/json"
	"log/slog"
	"sort"
	"time"
)

// CompetitorPosition is one competitor's rank at a point in time. Position 0
// with no URL means the competitor was not found in the result set.
type CompetitorPosition struct {
	Position int    `json:"position"`
	URL      string `json:"url,omitempty"`
}

// CompetitorSnapshot maps competitor domain to its rank. When attached to a
// history entry it is never empty.
type CompetitorSnapshot map[string]CompetitorPosition

// HistoryEntry is one day's reconciled outcome. URL is absent when the
// tracked domain was not found.
type HistoryEntry struct {
	Position    int                `json:"position"`
	URL         string             `json:"url,omitempty"`
	Competitors CompetitorSnapshot `json:"competitors,omitempty"`
}

// History maps a calendar-date key to that day's entry. A later scrape on the
// same day overwrites the day's entry.
type History map[string]HistoryEntry

// HistoryPoint is one dated entry in chronological order.
type HistoryPoint struct {
	Date  string
	Time  time.Time
	Entry HistoryEntry
}

func parseRawHistory(raw string) map[string]json.RawMessage {
	if raw == "" {
		return nil
	}
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		slog.Warn("failed to parse keyword history", slog.Any("err", err))
		return nil
	}
	return parsed
}

// NormalizeHistory coerces legacy history shapes into the canonical one.
// A bare number becomes {position: n}; objects keep position, url and any
// well-formed competitor entries; everything else is dropped.
func NormalizeHistory(raw map[string]json.RawMessage) History {
	normalized := make(History, len(raw))
	for dateKey, value := range raw {
		entry, ok := toHistoryEntry(value)
		if !ok {
			continue
		}
		normalized[dateKey] = entry
	}
	return normalized
}

func toHistoryEntry(value json.RawMessage) (HistoryEntry, bool) {
	var position float64
	if err := json.Unmarshal(value, &position); err == nil {
		return HistoryEntry{Position: int(position)}, true
	}

	var legacy struct {
		Position    *float64                   `json:"position"`
		URL         string                     `json:"url"`
		Competitors map[string]json.RawMessage `json:"competitors"`
	}
	if err := json.Unmarshal(value, &legacy); err != nil || legacy.Position == nil {
		return HistoryEntry{}, false
	}

	entry := HistoryEntry{Position: int(*legacy.Position), URL: legacy.URL}
	if len(legacy.Competitors) > 0 {
		competitors := make(CompetitorSnapshot)
		for domain, rawValue := range legacy.Competitors {
			var competitor struct {
				Position *float64 `json:"position"`
				URL      string   `json:"url"`
			}
			if err := json.Unmarshal(rawValue, &competitor); err != nil || competitor.Position == nil {
				continue
			}
			competitors[domain] = CompetitorPosition{Position: int(*competitor.Position), URL: competitor.URL}
		}
		if len(competitors) > 0 {
			entry.Competitors = competitors
		}
	}
	return entry, true
}

// SetHistoryEntry overwrites (never merges) the entry for the given date key.
func SetHistoryEntry(history History, dateKey string, position int, url string, competitors CompetitorSnapshot) {
	if dateKey == "" {
		return
	}
	entry := HistoryEntry{Position: position, URL: url}
	if len(competitors) > 0 {
		entry.Competitors = competitors
	}
	history[dateKey] = entry
}

// SortHistoryByDate returns entries oldest-first. Keys that do not parse as
// dates get a zero timestamp; their relative order is unspecified.
func SortHistoryByDate(history History) []HistoryPoint {
	points := make([]HistoryPoint, 0, len(history))
	for dateKey, entry := range history {
		points = append(points, HistoryPoint{
			Date:  dateKey,
			Time:  parseDateKey(dateKey),
			Entry: entry,
		})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Time.Before(points[j].Time)
	})
	return points
}

func parseDateKey(dateKey string) time.Time {
	for _, layout := range []string{"2006-1-2", "2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, dateKey); err == nil {
			return t
		}
	}
	return time.Time{}
}
