package serp

import "sort"

// MergePages flattens per-page result lists (page 1 first) into one
// de-duplicated list ordered by position.
//
// The first occurrence of a URL wins; provider pages are not guaranteed
// disjoint. Positions are renumbered against a running maximum so that a
// provider restarting its numbering at 1 on every page still yields a
// strictly increasing sequence: raw position numbers past page 1 are
// intentionally discarded whenever they fall at or below the running maximum.
func MergePages(pages [][]SearchResult) []SearchResult {
	var merged []SearchResult
	seen := make(map[string]struct{})
	highestPosition := 0

	for _, page := range pages {
		for _, item := range page {
			if item.URL == "" {
				continue
			}
			if _, ok := seen[item.URL]; ok {
				continue
			}
			position := item.Position
			if position <= highestPosition {
				position = highestPosition + 1
			}
			if position > highestPosition {
				highestPosition = position
			}
			item.Position = position
			merged = append(merged, item)
			seen[item.URL] = struct{}{}
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Position < merged[j].Position
	})
	return merged
}
