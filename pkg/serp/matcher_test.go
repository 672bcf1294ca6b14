package serp

import "testing"

func TestMatchesDomain_HostOnly(t *testing.T) {
	cases := []struct {
		name   string
		domain string
		url    string
		want   bool
	}{
		{"plain host", "example.com", "https://example.com/any/path", true},
		{"www and case insensitive", "example.com", "https://www.EXAMPLE.com/x", true},
		{"www on target", "www.example.com", "https://example.com/pricing", true},
		{"scheme optional on target", "example.com", "http://example.com", true},
		{"different host", "example.com", "https://other.com/example.com", false},
		{"subdomain is a different host", "example.com", "https://blog.example.com/", false},
		{"empty domain", "", "https://example.com", false},
		{"empty url", "example.com", "", false},
		{"malformed url never matches", "example.com", "https://exa mple.com/%zz", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MatchesDomain(tc.domain, tc.url); got != tc.want {
				t.Errorf("MatchesDomain(%q, %q) = %v, want %v", tc.domain, tc.url, got, tc.want)
			}
		})
	}
}

func TestMatchesDomain_PathTarget(t *testing.T) {
	cases := []struct {
		name   string
		domain string
		url    string
		want   bool
	}{
		{"exact path", "example.com/shop", "https://example.com/shop", true},
		{"trailing slash normalized", "example.com/shop/", "https://example.com/shop", true},
		{"candidate trailing slash normalized", "example.com/shop", "https://www.example.com/shop/", true},
		{"different path", "example.com/shop", "https://example.com/blog", false},
		{"deeper path does not match", "example.com/shop", "https://example.com/shop/item", false},
		{"root target matches any path", "example.com/", "https://example.com/shop/item", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MatchesDomain(tc.domain, tc.url); got != tc.want {
				t.Errorf("MatchesDomain(%q, %q) = %v, want %v", tc.domain, tc.url, got, tc.want)
			}
		})
	}
}

func TestGetSERP(t *testing.T) {
	results := []SearchResult{
		{Title: "Other", URL: "https://other.com/", Position: 1},
		{Title: "Mine", URL: "https://www.example.com/pricing", Position: 2},
		{Title: "Mine again", URL: "https://example.com/blog", Position: 5},
	}

	position, url := GetSERP("example.com", results)
	if position != 2 || url != "https://www.example.com/pricing" {
		t.Errorf("GetSERP = (%d, %q), want (2, first matching url)", position, url)
	}

	position, url = GetSERP("missing.com", results)
	if position != 0 || url != "" {
		t.Errorf("GetSERP for unmatched domain = (%d, %q), want (0, \"\")", position, url)
	}
}

func TestAnnotateDomainMatches(t *testing.T) {
	results := []SearchResult{
		{URL: "https://other.com/", Position: 1},
		{URL: "https://example.com/", Position: 2},
	}

	annotated := AnnotateDomainMatches(results, "example.com")
	if annotated[0].MatchesDomain {
		t.Error("non-matching result flagged as domain match")
	}
	if !annotated[1].MatchesDomain {
		t.Error("matching result not flagged")
	}
	if results[1].MatchesDomain {
		t.Error("input slice mutated")
	}
}
