package serp

// SearchResult is one ranked organic result extracted from a provider response.
// Position is 1-based within the merged result set.
type SearchResult struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Position      int    `json:"position"`
	MatchesDomain bool   `json:"matchesDomain,omitempty"`
}
