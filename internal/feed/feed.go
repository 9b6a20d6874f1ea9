package feed

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/antchfx/xmlquery"
)

// Item types.
const (
	TypeRSS  = "rss"
	TypeAtom = "atom"
)

// Item is one RSS item or Atom entry. Fields missing from the source are
// left empty and omitted from output.
type Item struct {
	Type    string `json:"type" yaml:"type"`
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
	Link    string `json:"link,omitempty" yaml:"link,omitempty"`
	GUID    string `json:"guid,omitempty" yaml:"guid,omitempty"`
	PubDate string `json:"pubDate,omitempty" yaml:"pubDate,omitempty"`
	ID      string `json:"id,omitempty" yaml:"id,omitempty"`
	Updated string `json:"updated,omitempty" yaml:"updated,omitempty"`
}

// Feed is the output of the rss command.
type Feed struct {
	URL   string `json:"url" yaml:"url"`
	Items []Item `json:"items" yaml:"items"`
}

// Sitemap lists page and nested sitemap locations.
type Sitemap struct {
	URLs     []string `json:"urls" yaml:"urls"`
	Sitemaps []string `json:"sitemaps" yaml:"sitemaps"`
}

const (
	rssItemQuery    = "//*[local-name()='item']"
	atomEntryQuery  = "//*[local-name()='entry']"
	urlLocQuery     = "//*[local-name()='url']/*[local-name()='loc']"
	sitemapLocQuery = "//*[local-name()='sitemap']/*[local-name()='loc']"
)

// ParseFeed reads an RSS or Atom document. RSS items come first, then Atom
// entries, each in document order.
func ParseFeed(r io.Reader) ([]Item, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]Item, 0)
	for _, n := range xmlquery.Find(doc, rssItemQuery) {
		items = append(items, Item{
			Type:    TypeRSS,
			Title:   childText(n, "title"),
			Link:    childText(n, "link"),
			GUID:    childText(n, "guid"),
			PubDate: childText(n, "pubDate"),
		})
	}
	for _, n := range xmlquery.Find(doc, atomEntryQuery) {
		items = append(items, Item{
			Type:    TypeAtom,
			Title:   childText(n, "title"),
			Link:    atomLink(n),
			ID:      childText(n, "id"),
			Updated: childText(n, "updated"),
		})
	}
	return items, nil
}

// ParseSitemap reads a sitemap or sitemap index.
func ParseSitemap(r io.Reader) (*Sitemap, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sitemap: %w", err)
	}
	return &Sitemap{
		URLs:     locations(doc, urlLocQuery),
		Sitemaps: locations(doc, sitemapLocQuery),
	}, nil
}

func locations(doc *xmlquery.Node, query string) []string {
	out := make([]string, 0)
	for _, n := range xmlquery.Find(doc, query) {
		if loc := strings.TrimSpace(n.InnerText()); loc != "" {
			out = append(out, loc)
		}
	}
	return out
}

// childText returns the trimmed text of the first child element called name
// that is unprefixed or shares the parent's namespace.
func childText(n *xmlquery.Node, name string) string {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode || c.Data != name {
			continue
		}
		if c.Prefix == "" || c.NamespaceURI == n.NamespaceURI {
			return strings.TrimSpace(c.InnerText())
		}
	}
	return ""
}

// atomLink returns the href of the first link element that has one.
func atomLink(n *xmlquery.Node) string {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode || c.Data != "link" {
			continue
		}
		if href := strings.TrimSpace(c.SelectAttr("href")); href != "" {
			return href
		}
	}
	return ""
}

var urlPrefix = regexp.MustCompile(`(?i)^(https?:)?//`)

// IsLikelyURL reports whether input should be fetched rather than read
// from disk.
func IsLikelyURL(input string) bool {
	return urlPrefix.MatchString(input)
}
