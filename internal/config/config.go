package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/reliverse/relparse/internal/report"
)

// Default configuration values for the crawl command.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "relparse"

	// DefaultPages is the page specification crawled when --pages is not given.
	DefaultPages = "1-15"

	// DefaultPerPage caps the number of target links taken from one listing page.
	DefaultPerPage = 25

	// DefaultDelay is the pause after each listing page.
	DefaultDelay = 1 * time.Second

	// DefaultTimeout applies to each HTTP attempt, body included.
	DefaultTimeout = 15 * time.Second

	// DefaultRetries is the number of extra attempts after a 5xx response
	// or a transport error.
	DefaultRetries = 2

	// DefaultUserAgent identifies relparse in HTTP requests.
	DefaultUserAgent = "relparse/0.1 (+https://github.com/reliverse/relparse)"

	// DefaultCrawlFormat is the crawl output format. Other commands default to JSON.
	DefaultCrawlFormat = report.FormatCSV
)

// HTTPConfig holds the settings shared by every command that fetches URLs.
type HTTPConfig struct {
	// UserAgent is sent with every request.
	UserAgent string

	// Timeout bounds one attempt, including reading the body.
	Timeout time.Duration

	// Retries is the number of extra attempts on 5xx or transport failure.
	Retries int

	// Proxy is an optional proxy URL (socks5://, socks5h://, http://).
	Proxy string
}

// OutputConfig selects where and how results are written.
type OutputConfig struct {
	// Format is the output encoding.
	Format report.Format

	// File is the output path. Empty means standard output.
	File string

	// Stdout forces standard output even when File is set.
	Stdout bool
}

// CrawlConfig holds every option of the crawl command.
// It is populated from CLI flags and passed down explicitly.
type CrawlConfig struct {
	HTTPConfig
	OutputConfig

	// URL is the listing or target URL given on the command line.
	URL string

	// Pages is the page specification for listing mode ("1-15", "1,3,10").
	Pages string

	// PerPage caps the accepted target links per listing page.
	PerPage int

	// Delay is the base pause after each listing page.
	Delay time.Duration

	// Fields are the requested output fields (--get).
	Fields []string

	// RequiredFields must be present and non-blank for a row to be kept.
	RequiredFields []string

	// ExtractAll copies every non-empty string property into result rows.
	ExtractAll bool

	// ExtractProps restricts the structured-data properties read from a node.
	ExtractProps []string

	// JSONLDTypes is the case-insensitive @type allow-list. Empty accepts all.
	JSONLDTypes []string

	// Hostname and PathContains classify a URL as a target page.
	Hostname     string
	PathContains string

	// LinkSelector, RelativePrefix and AbsoluteBase drive listing mode.
	LinkSelector   string
	RelativePrefix string
	AbsoluteBase   string
}

// NewHTTPConfig returns HTTP settings with default values.
func NewHTTPConfig() HTTPConfig {
	return HTTPConfig{
		UserAgent: DefaultUserAgent,
		Timeout:   DefaultTimeout,
		Retries:   DefaultRetries,
	}
}

// NewCrawlConfig creates a CrawlConfig with default values.
func NewCrawlConfig() *CrawlConfig {
	return &CrawlConfig{
		HTTPConfig: NewHTTPConfig(),
		OutputConfig: OutputConfig{
			Format: DefaultCrawlFormat,
		},
		Pages:   DefaultPages,
		PerPage: DefaultPerPage,
		Delay:   DefaultDelay,
	}
}

// MergeEnabled reports whether fresh rows are merged into an existing
// output file: only for delimited output written to a file.
func (o OutputConfig) MergeEnabled() bool {
	return o.File != "" && !o.Stdout && o.Format == report.FormatCSV
}

// Validate checks the HTTP settings.
func (h HTTPConfig) Validate() error {
	if h.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if h.Retries < 0 {
		return ErrInvalidRetries
	}
	return nil
}

// Validate checks the crawl configuration. Discovery parameters are checked
// later, once the URL has been classified, because which ones are required
// depends on the mode.
func (c *CrawlConfig) Validate() error {
	if c.URL == "" {
		return ErrNoURL
	}
	if len(c.Fields) == 0 && !c.ExtractAll {
		return ErrNoFields
	}
	if err := c.HTTPConfig.Validate(); err != nil {
		return err
	}
	if c.PerPage <= 0 {
		return ErrInvalidPerPage
	}
	if c.Delay < 0 {
		return ErrInvalidDelay
	}
	if !c.Format.Valid() {
		return ErrInvalidFormat
	}
	return nil
}

// XDGConfigDir returns the XDG config directory for relparse.
// On Linux: ~/.config/relparse
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for relparse.
// On Linux: ~/.cache/relparse
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}
