package serp

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/purell"
)

var schemePattern = regexp.MustCompile(`(?i)^https?://`)

const normalizeFlags = purell.FlagLowercaseScheme |
	purell.FlagLowercaseHost |
	purell.FlagRemoveDefaultPort |
	purell.FlagRemoveFragment |
	purell.FlagDecodeUnnecessaryEscapes |
	purell.FlagRemoveDuplicateSlashes |
	purell.FlagRemoveDotSegments

// MatchesDomain reports whether resultURL belongs to the tracked domain.
// Hosts are compared case-insensitively with a leading www. stripped. A target
// with a root (or empty) path matches on host alone; otherwise both paths are
// compared exactly after trailing-slash normalization. Malformed URLs never
// match.
func MatchesDomain(domainURL, resultURL string) bool {
	if domainURL == "" || resultURL == "" {
		return false
	}

	target, err := parseNormalized(domainURL)
	if err != nil {
		return false
	}
	candidate, err := parseNormalized(resultURL)
	if err != nil {
		return false
	}

	if normalizeHost(target.Hostname()) != normalizeHost(candidate.Hostname()) {
		return false
	}

	targetPath := normalizePath(target.Path)
	if targetPath == "/" {
		return true
	}
	return targetPath == normalizePath(candidate.Path)
}

// GetSERP returns the position and URL of the first result matching the
// tracked domain, or (0, "") when no result matches.
func GetSERP(domainURL string, results []SearchResult) (int, string) {
	if domainURL == "" {
		return 0, ""
	}
	for _, item := range results {
		if MatchesDomain(domainURL, item.URL) {
			return item.Position, item.URL
		}
	}
	return 0, ""
}

// AnnotateDomainMatches flags every result that matches the tracked domain.
func AnnotateDomainMatches(results []SearchResult, domainURL string) []SearchResult {
	if domainURL == "" {
		return results
	}
	annotated := make([]SearchResult, len(results))
	for i, item := range results {
		item.MatchesDomain = MatchesDomain(domainURL, item.URL)
		annotated[i] = item
	}
	return annotated
}

func parseNormalized(raw string) (*url.URL, error) {
	if !schemePattern.MatchString(raw) {
		raw = "https://" + raw
	}
	normalized, err := purell.NormalizeURLString(raw, normalizeFlags)
	if err != nil {
		return nil, err
	}
	return url.Parse(normalized)
}

func normalizeHost(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

func normalizePath(path string) string {
	if path == "" || path == "/" {
		return "/"
	}
	if !strings.HasSuffix(path, "/") {
		return path + "/"
	}
	return path
}
