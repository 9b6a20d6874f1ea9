package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/reliverse/relparse/internal/config"
	"github.com/reliverse/relparse/internal/jsonld"
	"github.com/reliverse/relparse/internal/model"
	"golang.org/x/net/html/charset"
)

// Getter performs one HTTP GET. A non-nil response always has a success
// status; failures are returned as errors.
type Getter interface {
	Get(ctx context.Context, rawURL string) (*http.Response, error)
}

// Hit is one entity found during a crawl together with its page context.
type Hit struct {
	// Page is the 1-based listing page index, nil for a direct target.
	Page *int

	// Entity is the flat record extracted from a structured-data node.
	Entity *model.Row
}

// Spider visits listing and target pages one at a time.
type Spider struct {
	client    Getter
	discovery Discovery
	extractor *jsonld.Extractor
	perPage   int
	delay     time.Duration
	logger    *slog.Logger

	// sleep waits between listing pages. Replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithPerPage caps the target links taken from one listing page.
func WithPerPage(n int) SpiderOption {
	return func(s *Spider) {
		s.perPage = n
	}
}

// WithDelay sets the base pause between listing pages.
func WithDelay(d time.Duration) SpiderOption {
	return func(s *Spider) {
		s.delay = d
	}
}

// WithExtractor sets the structured-data extractor.
func WithExtractor(e *jsonld.Extractor) SpiderOption {
	return func(s *Spider) {
		s.extractor = e
	}
}

// WithLogger sets the progress logger.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// NewSpider creates a Spider that fetches through client.
func NewSpider(client Getter, discovery Discovery, opts ...SpiderOption) *Spider {
	s := &Spider{
		client:    client,
		discovery: discovery,
		perPage:   config.DefaultPerPage,
		delay:     config.DefaultDelay,
		sleep:     sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.extractor == nil {
		s.extractor = jsonld.NewExtractor(nil, nil)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Crawl collects entities starting from startURL. A target URL is extracted
// directly and any failure aborts. Otherwise startURL is a listing base and
// each page of pages is scanned for target links; failures of individual
// listing pages or targets are logged and skipped.
func (s *Spider) Crawl(ctx context.Context, startURL string, pages []int) ([]Hit, error) {
	direct, err := s.discovery.IsTarget(startURL)
	if err != nil {
		return nil, err
	}

	if direct {
		s.logger.Info("fetching target page", "url", startURL)
		md, err := s.Target(ctx, startURL)
		if err != nil {
			return nil, err
		}
		return s.hits(nil, md), nil
	}

	if missing := s.discovery.MissingListingFlags(); len(missing) > 0 {
		return nil, config.NewConfigurationError(strings.Join(missing, ", "), "category crawl")
	}

	hits := make([]Hit, 0)
	for i, page := range pages {
		processed := i + 1
		found, err := s.listingPage(ctx, startURL, page)
		if err != nil {
			var cfgErr *config.ConfigurationError
			if errors.As(err, &cfgErr) || ctx.Err() != nil {
				return hits, err
			}
			s.logger.Warn("skipping listing page", "page", page, "error", err)
		}
		hits = append(hits, found...)

		d := PageDelay(processed, s.delay)
		if d <= 0 {
			continue
		}
		s.logger.Debug("waiting after page", "page", page, "delay", d)
		if err := s.sleep(ctx, d); err != nil {
			return hits, err
		}
	}
	return hits, nil
}

// listingPage scans one listing page and visits its targets in order.
func (s *Spider) listingPage(ctx context.Context, base string, page int) ([]Hit, error) {
	pageURL := PageURL(base, page)
	s.logger.Info("scanning page for targets", "page", page, "url", pageURL)

	resp, err := s.client.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode listing page: %w", err)
	}
	links, err := ExtractTargetLinks(body, s.perPage, s.discovery.LinkSelector, s.discovery.RelativePrefix)
	if err != nil {
		return nil, err
	}

	p := page
	hits := make([]Hit, 0)
	for i, rel := range links {
		targetURL, err := s.discovery.Absolutize(rel)
		if err != nil {
			return hits, err
		}
		s.logger.Info("visiting target", "page", page, "index", i+1, "total", len(links), "url", targetURL)

		md, err := s.Target(ctx, targetURL)
		if err != nil {
			if ctx.Err() != nil {
				return hits, err
			}
			s.logger.Warn("skipping target", "url", targetURL, "error", err)
			continue
		}
		hits = append(hits, s.hits(&p, md)...)
	}
	return hits, nil
}

// Target fetches one page and extracts its metadata.
func (s *Spider) Target(ctx context.Context, targetURL string) (*Metadata, error) {
	resp, err := s.client.Get(ctx, targetURL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", targetURL, err)
	}
	return ParseMetadata(body, targetURL)
}

func (s *Spider) hits(page *int, md *Metadata) []Hit {
	entities := s.extractor.Extract(md.JSONLD, md.URL)
	hits := make([]Hit, 0, len(entities))
	for _, e := range entities {
		hits = append(hits, Hit{Page: page, Entity: e})
	}
	return hits
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
