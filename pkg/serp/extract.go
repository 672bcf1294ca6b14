package serp

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var ErrUnrecognizedMarkup = errors.New("scraped search results do not adhere to expected format")

// ExtractFromHTML parses a Google search result page into ranked results.
// Desktop markup is tried first; when it yields nothing and the keyword is
// tracked on mobile, the mobile presentation-link markup is tried instead.
func ExtractFromHTML(content []byte, device string) ([]SearchResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	if doc.Find("#search").Length() == 0 && doc.Find("#rso").Length() == 0 {
		return nil, ErrUnrecognizedMarkup
	}

	var extracted []SearchResult
	lastPosition := 0

	items := doc.Find("#search > div > div").Find("h3")
	slog.Debug("extracting desktop results", slog.Int("count", items.Length()))
	items.Each(func(_ int, heading *goquery.Selection) {
		title := strings.TrimSpace(heading.Text())
		url, _ := heading.Closest("a").Attr("href")
		if title != "" && url != "" {
			lastPosition++
			extracted = append(extracted, SearchResult{Title: title, URL: url, Position: lastPosition})
		}
	})

	if len(extracted) == 0 && device == "mobile" {
		items := doc.Find("#rso > div")
		slog.Debug("extracting mobile results", slog.Int("count", items.Length()))
		items.Each(func(_ int, item *goquery.Selection) {
			link := item.Find(`a[role="presentation"]`)
			url, ok := link.Attr("href")
			if !ok || url == "" {
				return
			}
			title := strings.TrimSpace(link.Find(`[role="link"]`).Text())
			if title != "" {
				lastPosition++
				extracted = append(extracted, SearchResult{Title: title, URL: url, Position: lastPosition})
			}
		})
	}

	return extracted, nil
}
