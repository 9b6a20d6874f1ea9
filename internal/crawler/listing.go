package crawler

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/reliverse/relparse/internal/config"
)

// ExtractTargetLinks reads a listing page and returns the hrefs of elements
// matching selector that start with prefix, deduplicated in first-seen
// order. Once limit matches have been accepted later ones are ignored; a
// repeated href still counts toward the limit.
func ExtractTargetLinks(r io.Reader, limit int, selector, prefix string) ([]string, error) {
	if prefix == "" {
		return nil, config.NewConfigurationError("--rel-prefix", "target extraction")
	}
	if selector == "" {
		return nil, config.NewConfigurationError("--selector", "target extraction")
	}

	matcher, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.NewConfigurationError("--selector", "a valid CSS selector"), err)
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing page: %w", err)
	}

	links := make([]string, 0)
	seen := make(map[string]struct{})
	accepted := 0
	doc.FindMatcher(matcher).Each(func(_ int, s *goquery.Selection) {
		if accepted >= limit {
			return
		}
		href, _ := s.Attr("href")
		if !strings.HasPrefix(href, prefix) {
			return
		}
		accepted++
		if _, ok := seen[href]; ok {
			return
		}
		seen[href] = struct{}{}
		links = append(links, href)
	})
	return links, nil
}
