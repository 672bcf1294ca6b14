package keyword

import (
	"encoding/json"
	"strings"

	"github.com/oriolvn/serptrack/pkg/serp"
)

// ComputeCompetitorSnapshot resolves every competitor's position against the
// merged result list. The returned map always carries one entry per
// competitor; unmatched competitors get position 0 and no URL, including when
// the result list is empty.
func ComputeCompetitorSnapshot(results []serp.SearchResult, competitors []string) CompetitorSnapshot {
	if len(competitors) == 0 {
		return nil
	}
	snapshot := make(CompetitorSnapshot, len(competitors))
	for _, competitorDomain := range competitors {
		snapshot[competitorDomain] = CompetitorPosition{}
		for _, item := range results {
			if item.URL != "" && serp.MatchesDomain(competitorDomain, item.URL) {
				snapshot[competitorDomain] = CompetitorPosition{Position: item.Position, URL: item.URL}
				break
			}
		}
	}
	return snapshot
}

// ParseCompetitorsList accepts the stored competitors column in any of its
// historical shapes: a JSON string array, a comma-separated string, or a
// single bare domain. Values are trimmed, lowercased and deduplicated. A
// malformed JSON array yields nothing rather than being comma-split.
func ParseCompetitorsList(value string) []string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}

	var parsed []string
	if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
		return dedupeCompetitors(parsed)
	}
	if strings.HasPrefix(trimmed, "[") {
		return nil
	}

	if strings.Contains(trimmed, ",") {
		return dedupeCompetitors(strings.Split(trimmed, ","))
	}

	return dedupeCompetitors([]string{trimmed})
}

func dedupeCompetitors(values []string) []string {
	var competitors []string
	seen := make(map[string]struct{})
	for _, value := range values {
		normalized := strings.ToLower(strings.TrimSpace(value))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		competitors = append(competitors, normalized)
	}
	return competitors
}
