package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/reliverse/relparse/internal/feed"
	"github.com/reliverse/relparse/internal/localfile"
)

const testFeed = `<?xml version="1.0"?>
<rss version="2.0"><channel>
  <item><title>One</title><link>https://blog.example/1</link><guid>1</guid></item>
</channel></rss>`

const testSitemap = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/</loc></url>
  <url><loc>https://example.com/about</loc></url>
</urlset>`

func TestRSSCmd(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, testFeed)
	}))
	t.Cleanup(srv.Close)

	stdout, _, err := executeRoot(t, "rss", srv.URL+"/feed.xml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got feed.Feed
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", stdout, err)
	}
	want := feed.Feed{
		URL:   srv.URL + "/feed.xml",
		Items: []feed.Item{{Type: feed.TypeRSS, Title: "One", Link: "https://blog.example/1", GUID: "1"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestSitemapCmd(t *testing.T) {
	t.Parallel()

	want := feed.Sitemap{URLs: []string{"https://example.com/", "https://example.com/about"}}

	t.Run("from url", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, testSitemap)
		}))
		t.Cleanup(srv.Close)

		stdout, _, err := executeRoot(t, "sitemap", srv.URL+"/sitemap.xml")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var got feed.Sitemap
		if err := json.Unmarshal([]byte(stdout), &got); err != nil {
			t.Fatalf("expected JSON output, got %q: %v", stdout, err)
		}
		if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("output mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("from file to file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := filepath.Join(dir, "sitemap.xml")
		out := filepath.Join(dir, "out", "sitemap.yaml")
		if err := os.WriteFile(in, []byte(testSitemap), 0600); err != nil {
			t.Fatalf("failed to write sitemap: %v", err)
		}

		stdout, _, err := executeRoot(t, "sitemap", in, "--format", "yaml", "--out", out)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != "" {
			t.Errorf("expected nothing on stdout, got %q", stdout)
		}
		data, err := os.ReadFile(out) //nolint:gosec // test path
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if !strings.Contains(string(data), "- https://example.com/about") {
			t.Errorf("unexpected YAML output:\n%s", data)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, _, err := executeRoot(t, "sitemap", filepath.Join(t.TempDir(), "none.xml"))
		if err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestFileCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := map[string]string{
		"a.json":  `{"b":1,"a":[true]}`,
		"b.json":  `{broken`,
		"c.md":    "# Title",
		".hidden": "x",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	stdout, _, err := executeRoot(t, "file", filepath.Join(dir, "*"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []localfile.Record
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", stdout, err)
	}
	want := []localfile.Record{
		{Path: filepath.Join(dir, "a.json"), Type: localfile.TypeJSON, Value: map[string]any{"b": float64(1), "a": []any{true}}},
		{Path: filepath.Join(dir, "b.json"), Type: localfile.TypeJSON, Error: "invalid json"},
		{Path: filepath.Join(dir, "c.md"), Type: localfile.TypeMarkdown, Value: "# Title"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}
