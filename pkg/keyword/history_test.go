package keyword

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawHistory(t *testing.T, doc string) map[string]json.RawMessage {
	t.Helper()
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(doc), &raw))
	return raw
}

func TestNormalizeHistory_LegacyShapes(t *testing.T) {
	raw := rawHistory(t, `{
		"2023-1-5": 4,
		"2023-1-6": {"position": 2, "url": "https://example.com/"},
		"2023-1-7": {"position": 9, "competitors": {"rival.com": {"position": 3, "url": "https://rival.com/"}, "broken.com": {"url": "no position"}}},
		"2023-1-8": "garbage",
		"2023-1-9": {"url": "https://example.com/no-position"}
	}`)

	history := NormalizeHistory(raw)

	require.Len(t, history, 3)
	assert.Equal(t, HistoryEntry{Position: 4}, history["2023-1-5"])
	assert.Equal(t, HistoryEntry{Position: 2, URL: "https://example.com/"}, history["2023-1-6"])

	entry := history["2023-1-7"]
	assert.Equal(t, 9, entry.Position)
	require.Len(t, entry.Competitors, 1)
	assert.Equal(t, CompetitorPosition{Position: 3, URL: "https://rival.com/"}, entry.Competitors["rival.com"])
}

func TestNormalizeHistory_EmptyAndNil(t *testing.T) {
	assert.Empty(t, NormalizeHistory(nil))
	assert.Empty(t, NormalizeHistory(rawHistory(t, `{}`)))
}

func TestSetHistoryEntry_OverwritesSameDate(t *testing.T) {
	history := make(History)

	SetHistoryEntry(history, "2023-4-1", 12, "https://example.com/old", nil)
	SetHistoryEntry(history, "2023-4-1", 3, "https://example.com/new", CompetitorSnapshot{
		"rival.com": {Position: 5, URL: "https://rival.com/"},
	})

	require.Len(t, history, 1)
	entry := history["2023-4-1"]
	assert.Equal(t, 3, entry.Position)
	assert.Equal(t, "https://example.com/new", entry.URL)
	assert.Len(t, entry.Competitors, 1)
}

func TestSetHistoryEntry_EmptyCompetitorsOmitted(t *testing.T) {
	history := make(History)
	SetHistoryEntry(history, "2023-4-2", 1, "", CompetitorSnapshot{})
	assert.Nil(t, history["2023-4-2"].Competitors)
}

func TestSetHistoryEntry_EmptyDateKeyIgnored(t *testing.T) {
	history := make(History)
	SetHistoryEntry(history, "", 1, "", nil)
	assert.Empty(t, history)
}

func TestSortHistoryByDate(t *testing.T) {
	history := History{
		"2023-2-1":  {Position: 3},
		"2022-12-9": {Position: 8},
		"2023-1-15": {Position: 5},
	}

	points := SortHistoryByDate(history)

	require.Len(t, points, 3)
	assert.Equal(t, "2022-12-9", points[0].Date)
	assert.Equal(t, "2023-1-15", points[1].Date)
	assert.Equal(t, "2023-2-1", points[2].Date)
}

func TestSortHistoryByDate_UnparsableKeysFirst(t *testing.T) {
	// Unparsable keys get a zero timestamp; their relative order among
	// themselves is unspecified, but they always sort before real dates.
	history := History{
		"not-a-date": {Position: 1},
		"2023-3-3":   {Position: 2},
	}

	points := SortHistoryByDate(history)
	require.Len(t, points, 2)
	assert.Equal(t, "not-a-date", points[0].Date)
}
