package crawler

import (
	"net/url"
	"strings"

	"github.com/reliverse/relparse/internal/config"
)

// Discovery holds the parameters that tell target pages from listing pages
// and resolve listing links into target URLs.
type Discovery struct {
	// Hostname must equal a target URL's host name.
	Hostname string

	// PathContains must occur in a target URL's path.
	PathContains string

	// LinkSelector is the CSS selector for target links on listing pages.
	LinkSelector string

	// RelativePrefix is the href prefix a listing link must carry.
	RelativePrefix string

	// AbsoluteBase resolves accepted relative hrefs.
	AbsoluteBase string
}

// NewDiscovery copies the discovery parameters from a crawl configuration.
func NewDiscovery(cfg *config.CrawlConfig) Discovery {
	return Discovery{
		Hostname:       cfg.Hostname,
		PathContains:   cfg.PathContains,
		LinkSelector:   cfg.LinkSelector,
		RelativePrefix: cfg.RelativePrefix,
		AbsoluteBase:   cfg.AbsoluteBase,
	}
}

// IsTarget reports whether rawURL is a target page. Both Hostname and
// PathContains are required. A URL that does not parse as absolute is not a
// target.
func (d Discovery) IsTarget(rawURL string) (bool, error) {
	if d.Hostname == "" {
		return false, config.NewConfigurationError("--host", "target detection")
	}
	if d.PathContains == "" {
		return false, config.NewConfigurationError("--path-contains", "target detection")
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		return false, nil
	}
	return strings.ToLower(u.Hostname()) == d.Hostname &&
		strings.Contains(u.EscapedPath(), d.PathContains), nil
}

// MissingListingFlags lists the flags listing mode needs that are not set.
func (d Discovery) MissingListingFlags() []string {
	missing := make([]string, 0, 3)
	if d.LinkSelector == "" {
		missing = append(missing, "--selector <css>")
	}
	if d.RelativePrefix == "" {
		missing = append(missing, "--rel-prefix <prefix>")
	}
	if d.AbsoluteBase == "" {
		missing = append(missing, "--abs-base <url>")
	}
	return missing
}

// Absolutize resolves a relative listing href against AbsoluteBase.
// One leading slash is dropped from rel and the base always ends with one.
func (d Discovery) Absolutize(rel string) (string, error) {
	if d.AbsoluteBase == "" {
		return "", config.NewConfigurationError("--abs-base", "target URL absolutization")
	}
	base := d.AbsoluteBase
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + strings.TrimPrefix(rel, "/"), nil
}
