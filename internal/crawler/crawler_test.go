package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/reliverse/relparse/internal/config"
	"github.com/reliverse/relparse/internal/jsonld"
)

func TestExpandPages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec string
		want []int
	}{
		{spec: "1-3", want: []int{1, 2, 3}},
		{spec: "1,3,10", want: []int{1, 3, 10}},
		{spec: "5-2", want: []int{}},
		{spec: "0", want: []int{}},
		{spec: "abc", want: []int{}},
		{spec: "", want: []int{}},
		{spec: " 7 ", want: []int{7}},
		{spec: "3,1,3", want: []int{3, 1, 3}},
		{spec: "1, 0, x, 2.7, -4", want: []int{1, 2}},
		{spec: "0-2", want: []int{1, 2}},
		{spec: "2-2", want: []int{2}},
		{spec: "1-x", want: []int{}},
		{spec: "2.9", want: []int{2}},
		{spec: "0.5", want: []int{}},
		{spec: "1-2000000000", want: []int{}},
		{spec: "2000000000", want: []int{}},
		{spec: "5,2000000000,6", want: []int{5, 6}},
		{spec: "99999-100000", want: []int{99999, MaxPage}},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.want, ExpandPages(tt.spec)); diff != "" {
				t.Errorf("ExpandPages(%q) mismatch (-want +got):\n%s", tt.spec, diff)
			}
		})
	}
}

func TestPageURL(t *testing.T) {
	t.Parallel()

	if got := PageURL("https://ex.com/cat/", 3); got != "https://ex.com/cat/3" {
		t.Errorf("expected %q, got %q", "https://ex.com/cat/3", got)
	}
	if got := PageURL("https://ex.com/cat", 12); got != "https://ex.com/cat/12" {
		t.Errorf("expected %q, got %q", "https://ex.com/cat/12", got)
	}
}

func TestDiscoveryIsTarget(t *testing.T) {
	t.Parallel()

	d := Discovery{Hostname: "example.com", PathContains: "/widgets/"}

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{name: "matching host and path", url: "https://example.com/widgets/a", want: true},
		{name: "host case folded", url: "https://EXAMPLE.com/widgets/a", want: true},
		{name: "port ignored", url: "http://example.com:8080/widgets/a", want: true},
		{name: "other host", url: "https://shop.example.com/widgets/a", want: false},
		{name: "path mismatch", url: "https://example.com/category/widgets", want: false},
		{name: "relative url", url: "/widgets/a", want: false},
		{name: "malformed url", url: "https://exa mple.com/%zz", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := d.IsTarget(tt.url)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("IsTarget(%q): expected %v, got %v", tt.url, tt.want, got)
			}
		})
	}

	t.Run("missing parameters", func(t *testing.T) {
		t.Parallel()

		for _, d := range []Discovery{{PathContains: "/w/"}, {Hostname: "example.com"}} {
			_, err := d.IsTarget("https://example.com/w/a")
			var cfgErr *config.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Errorf("expected ConfigurationError, got %v", err)
			}
			if !errors.Is(err, config.ErrMissingParameter) {
				t.Errorf("expected ErrMissingParameter, got %v", err)
			}
		}
	})
}

func TestDiscoveryAbsolutize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base string
		rel  string
		want string
	}{
		{base: "https://ex.com", rel: "/widgets/a", want: "https://ex.com/widgets/a"},
		{base: "https://ex.com/", rel: "widgets/a", want: "https://ex.com/widgets/a"},
		{base: "https://ex.com/shop", rel: "/a", want: "https://ex.com/shop/a"},
	}
	for _, tt := range tests {
		got, err := Discovery{AbsoluteBase: tt.base}.Absolutize(tt.rel)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tt.want {
			t.Errorf("Absolutize(%q, %q): expected %q, got %q", tt.base, tt.rel, tt.want, got)
		}
	}

	if _, err := (Discovery{}).Absolutize("/a"); !errors.Is(err, config.ErrMissingParameter) {
		t.Errorf("expected ErrMissingParameter, got %v", err)
	}
}

func TestDiscoveryMissingListingFlags(t *testing.T) {
	t.Parallel()

	got := Discovery{RelativePrefix: "/w/"}.MissingListingFlags()
	want := []string{"--selector <css>", "--abs-base <url>"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

const listingHTML = `<html><body>
<ul>
  <li><a class="item" href="/w/1">one</a></li>
  <li><a class="item" href="/w/1">one again</a></li>
  <li><a class="item" href="/other/9">elsewhere</a></li>
  <li><a class="item" href="/w/2">two</a></li>
  <li><a class="item" href="/w/3">three</a></li>
  <li><a href="/w/4">not selected</a></li>
</ul>
</body></html>`

func TestExtractTargetLinks(t *testing.T) {
	t.Parallel()

	t.Run("dedups in first-seen order", func(t *testing.T) {
		t.Parallel()

		got, err := ExtractTargetLinks(strings.NewReader(listingHTML), 10, "a.item", "/w/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([]string{"/w/1", "/w/2", "/w/3"}, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("cap counts accepted matches", func(t *testing.T) {
		t.Parallel()

		got, err := ExtractTargetLinks(strings.NewReader(listingHTML), 3, "a.item", "/w/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([]string{"/w/1", "/w/2"}, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing selector or prefix", func(t *testing.T) {
		t.Parallel()

		if _, err := ExtractTargetLinks(strings.NewReader(listingHTML), 5, "", "/w/"); !errors.Is(err, config.ErrMissingParameter) {
			t.Errorf("expected ErrMissingParameter for selector, got %v", err)
		}
		if _, err := ExtractTargetLinks(strings.NewReader(listingHTML), 5, "a", ""); !errors.Is(err, config.ErrMissingParameter) {
			t.Errorf("expected ErrMissingParameter for prefix, got %v", err)
		}
	})

	t.Run("invalid selector", func(t *testing.T) {
		t.Parallel()

		_, err := ExtractTargetLinks(strings.NewReader(listingHTML), 5, "a[", "/w/")
		var cfgErr *config.ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Errorf("expected ConfigurationError, got %v", err)
		}
	})
}

const targetHTML = `<!doctype html>
<html><head>
<title> Acme </title>
<title>Widgets</title>
<link rel="stylesheet" href="/style.css">
<link rel="Canonical" href="https://example.com/widgets/acme">
<link rel="alternate" href="/style.css">
<meta name="Description" content="Widgets since 1901">
<meta name="keywords" content="a,b">
<meta property="og:Title" content="Acme OG">
<meta name="" property="og:ignored" content="x">
<meta charset="utf-8">
<script type="application/ld+json">{"@type":"Organization","name":"Acme","email":"mailto:info@acme.test"}</script>
<script type="application/ld+json">{not json</script>
<script type=" Application/LD+JSON ">[{"@type":"Person","name":"Wile"}]</script>
<script>var x = "<title>nope</title>";</script>
</head><body><p>hello</p></body></html>`

func TestParseMetadata(t *testing.T) {
	t.Parallel()

	md, err := ParseMetadata(strings.NewReader(targetHTML), "https://example.com/widgets/acme?ref=1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if md.Title != "AcmeWidgets" {
		t.Errorf("expected title %q, got %q", "AcmeWidgets", md.Title)
	}
	if md.Description != "Widgets since 1901" {
		t.Errorf("expected description, got %q", md.Description)
	}
	if md.Canonical != "https://example.com/widgets/acme" {
		t.Errorf("expected canonical, got %q", md.Canonical)
	}
	if diff := cmp.Diff([]string{"/style.css", "https://example.com/widgets/acme"}, md.Links); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"description": "Widgets since 1901", "keywords": "a,b"}, md.Meta); diff != "" {
		t.Errorf("meta mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"og:title": "Acme OG"}, md.OG); diff != "" {
		t.Errorf("og mismatch (-want +got):\n%s", diff)
	}

	if len(md.JSONLD) != 2 {
		t.Fatalf("expected 2 structured-data blocks, got %d", len(md.JSONLD))
	}
	if md.JSONLD[0].Kind() != jsonld.KindMapping {
		t.Errorf("expected first block to be a mapping, got %s", md.JSONLD[0].Kind())
	}
	if md.JSONLD[1].Kind() != jsonld.KindSequence {
		t.Errorf("expected second block to be a sequence, got %s", md.JSONLD[1].Kind())
	}
}

func TestParseMetadataEmptyDocument(t *testing.T) {
	t.Parallel()

	md, err := ParseMetadata(strings.NewReader(""), "https://example.com/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if md.Title != "" || md.Canonical != "" || len(md.Links) != 0 || len(md.JSONLD) != 0 {
		t.Errorf("expected empty metadata, got %+v", md)
	}
}

func TestParseMetadataEmptyNameAttribute(t *testing.T) {
	t.Parallel()

	doc := `<meta name="" property="og:title" content="ignored"><meta property="og:site_name" content="Acme">`
	md, err := ParseMetadata(strings.NewReader(doc), "https://example.com/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"og:site_name": "Acme"}, md.OG); diff != "" {
		t.Errorf("og mismatch (-want +got):\n%s", diff)
	}
}

func TestPageDelay(t *testing.T) {
	t.Parallel()

	base := time.Second
	tests := []struct {
		processed int
		want      time.Duration
	}{
		{processed: 1, want: base},
		{processed: 24, want: base},
		{processed: 25, want: base + PenaltyDelay},
		{processed: 26, want: base},
		{processed: 50, want: base + PenaltyDelay},
	}
	for _, tt := range tests {
		if got := PageDelay(tt.processed, base); got != tt.want {
			t.Errorf("PageDelay(%d): expected %v, got %v", tt.processed, tt.want, got)
		}
	}
}

// stubGetter serves canned HTML bodies and fails for unknown URLs.
type stubGetter struct {
	pages map[string]string
	calls []string
}

func (g *stubGetter) Get(_ context.Context, rawURL string) (*http.Response, error) {
	g.calls = append(g.calls, rawURL)
	body, ok := g.pages[rawURL]
	if !ok {
		return nil, fmt.Errorf("request failed (404): %s", rawURL)
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"text/html; charset=utf-8"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}, nil
}

func personPage(name, email string) string {
	return `<html><head><script type="application/ld+json">` +
		`{"@type":"Person","name":"` + name + `","email":"` + email + `"}` +
		`</script></head></html>`
}

func testDiscovery() Discovery {
	return Discovery{
		Hostname:       "example.com",
		PathContains:   "/w/",
		LinkSelector:   "a.item",
		RelativePrefix: "/w/",
		AbsoluteBase:   "https://example.com",
	}
}

func TestSpiderCrawlDirectTarget(t *testing.T) {
	t.Parallel()

	getter := &stubGetter{pages: map[string]string{
		"https://example.com/w/a": personPage("A", "x@y.com"),
	}}
	s := NewSpider(getter, testDiscovery())

	hits, err := s.Crawl(context.Background(), "https://example.com/w/a", []int{1, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].Page != nil {
		t.Errorf("expected no page context, got %d", *hits[0].Page)
	}
	if diff := cmp.Diff([]string{"@type", "name", "email", "url"}, hits[0].Entity.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if url, _ := hits[0].Entity.String("url"); url != "https://example.com/w/a" {
		t.Errorf("expected url default, got %q", url)
	}
	if diff := cmp.Diff([]string{"https://example.com/w/a"}, getter.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestSpiderCrawlDirectTargetFailure(t *testing.T) {
	t.Parallel()

	s := NewSpider(&stubGetter{}, testDiscovery())
	if _, err := s.Crawl(context.Background(), "https://example.com/w/missing", nil); err == nil {
		t.Error("expected error for failed direct target")
	}
}

func TestSpiderCrawlListing(t *testing.T) {
	t.Parallel()

	getter := &stubGetter{pages: map[string]string{
		"https://example.com/cat/1": `<a class="item" href="/w/a">a</a><a class="item" href="/w/b">b</a>`,
		"https://example.com/cat/3": `<a class="item" href="/w/c">c</a>`,
		"https://example.com/w/a":   personPage("A", "a@ex.com"),
		"https://example.com/w/c":   personPage("C", "c@ex.com"),
	}}

	var delays []time.Duration
	s := NewSpider(getter, testDiscovery(), WithDelay(time.Second), WithPerPage(5))
	s.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	hits, err := s.Crawl(context.Background(), "https://example.com/cat/", []int{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantCalls := []string{
		"https://example.com/cat/1",
		"https://example.com/w/a",
		"https://example.com/w/b",
		"https://example.com/cat/2",
		"https://example.com/cat/3",
		"https://example.com/w/c",
	}
	if diff := cmp.Diff(wantCalls, getter.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}

	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Page == nil || *hits[0].Page != 1 {
		t.Errorf("expected first hit on page 1, got %v", hits[0].Page)
	}
	if hits[1].Page == nil || *hits[1].Page != 3 {
		t.Errorf("expected second hit on page 3, got %v", hits[1].Page)
	}
	if diff := cmp.Diff([]time.Duration{time.Second, time.Second, time.Second}, delays); diff != "" {
		t.Errorf("delays mismatch (-want +got):\n%s", diff)
	}
}

func TestSpiderCrawlPenaltyByCount(t *testing.T) {
	t.Parallel()

	crawlDelays := func(t *testing.T, n int) []time.Duration {
		t.Helper()

		pages := make([]int, 0, n)
		for i := range n {
			pages = append(pages, (i+1)*10)
		}

		var delays []time.Duration
		s := NewSpider(&stubGetter{}, testDiscovery(), WithDelay(time.Second))
		s.sleep = func(_ context.Context, d time.Duration) error {
			delays = append(delays, d)
			return nil
		}
		if _, err := s.Crawl(context.Background(), "https://example.com/cat", pages); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return delays
	}

	t.Run("penalty follows the 25th processed page", func(t *testing.T) {
		t.Parallel()

		delays := crawlDelays(t, 26)
		if len(delays) != 26 {
			t.Fatalf("expected 26 delays, got %d", len(delays))
		}
		if delays[23] != time.Second {
			t.Errorf("expected base delay after 24th page, got %v", delays[23])
		}
		if delays[24] != time.Second+PenaltyDelay {
			t.Errorf("expected penalty after 25th page, got %v", delays[24])
		}
		if delays[25] != time.Second {
			t.Errorf("expected base delay after 26th page, got %v", delays[25])
		}
	})

	t.Run("last page still waits", func(t *testing.T) {
		t.Parallel()

		delays := crawlDelays(t, 25)
		if len(delays) != 25 {
			t.Fatalf("expected 25 delays, got %d", len(delays))
		}
		if delays[24] != time.Second+PenaltyDelay {
			t.Errorf("expected penalty after final 25th page, got %v", delays[24])
		}
	})
}

func TestSpiderCrawlMissingListingFlags(t *testing.T) {
	t.Parallel()

	d := testDiscovery()
	d.LinkSelector = ""
	d.AbsoluteBase = ""
	getter := &stubGetter{}
	s := NewSpider(getter, d)

	_, err := s.Crawl(context.Background(), "https://example.com/cat", []int{1})
	var cfgErr *config.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if !strings.Contains(err.Error(), "--selector <css>, --abs-base <url>") {
		t.Errorf("unexpected message %q", err.Error())
	}
	if len(getter.calls) != 0 {
		t.Errorf("expected no fetches, got %v", getter.calls)
	}
}

func TestSpiderCrawlCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	s := NewSpider(&stubGetter{}, testDiscovery(), WithDelay(time.Hour))
	s.sleep = func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := s.Crawl(ctx, "https://example.com/cat", []int{1, 2})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
