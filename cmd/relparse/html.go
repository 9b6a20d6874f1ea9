package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/reliverse/relparse/internal/cache"
	"github.com/reliverse/relparse/internal/config"
	"github.com/reliverse/relparse/internal/crawler"
	"github.com/reliverse/relparse/internal/fetch"
	"github.com/reliverse/relparse/internal/report"
	"github.com/spf13/cobra"
	"golang.org/x/net/html/charset"
)

// NewHTMLCmd creates the html command.
func NewHTMLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "html <url>",
		Short: "Extract metadata, links and JSON-LD from one page",
		Long: `Html fetches a single page and outputs its title, description, canonical
URL, links, meta tags, og: tags and JSON-LD blocks.

With --cache the raw response is stored in the cache directory and reused
on the next run with the same URL and User-Agent.

Examples:
  relparse html https://example.com
  relparse html https://example.com --format yaml --cache`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHTMLCmd,
	}

	cmd.Flags().Bool("cache", false, "Reuse and store the raw response in the cache")
	cmd.Flags().String("cache-dir", config.XDGCacheDir(), "Cache directory")
	addHTTPFlags(cmd.Flags())
	addOutputFlags(cmd.Flags(), report.FormatJSON)

	return cmd
}

// runHTMLCmd executes the html command.
func runHTMLCmd(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return usageError(cmd, "Missing <url>.")
	}

	fs := cmd.Flags()
	httpCfg, err := httpConfigFromFlags(fs)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	outCfg, err := outputConfigFromFlags(fs)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	useCache, err := fs.GetBool("cache")
	if err != nil {
		return err
	}
	cacheDir, err := fs.GetString("cache-dir")
	if err != nil {
		return err
	}

	logger := setupLogger(cmd)
	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	var store *cache.Store
	if useCache {
		store, err = cache.Open(cacheDir)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	md, err := pageMetadata(ctx, args[0], httpCfg, store, logger)
	if err != nil {
		return err
	}
	return report.Write(cmd.OutOrStdout(), destination(outCfg, "page metadata"), outCfg.Format, md)
}

// pageMetadata returns the metadata of rawURL, from store when it holds the
// page and from the network otherwise. store may be nil.
func pageMetadata(ctx context.Context, rawURL string, httpCfg config.HTTPConfig, store *cache.Store, logger *slog.Logger) (*crawler.Metadata, error) {
	key := cache.Key("html:" + rawURL + ":" + httpCfg.UserAgent)
	typeKey := cache.Key("html-type:" + rawURL + ":" + httpCfg.UserAgent)

	if store != nil {
		data, err := store.Read(ctx, key)
		switch {
		case err == nil:
			logger.Debug("using cached page", "url", rawURL, "key", key)
			return parseHTML(data, cachedContentType(ctx, store, typeKey, logger), rawURL)
		case !errors.Is(err, cache.ErrNotFound):
			logger.Warn("cache read failed", "key", key, "error", err)
		}
	}

	client, err := newFetchClient(httpCfg, logger)
	if err != nil {
		return nil, err
	}
	resp, err := client.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &fetch.Error{URL: rawURL, Err: err}
	}
	contentType := resp.Header.Get("Content-Type")
	md, err := parseHTML(data, contentType, rawURL)
	if err != nil {
		return nil, err
	}

	if store != nil {
		if err := store.Write(ctx, typeKey, []byte(contentType)); err != nil {
			logger.Warn("cache write failed", "key", typeKey, "error", err)
		}
		if err := store.Write(ctx, key, data); err != nil {
			logger.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return md, nil
}

// cachedContentType returns the Content-Type stored next to a cached page,
// or "" when none was stored.
func cachedContentType(ctx context.Context, store *cache.Store, key string, logger *slog.Logger) string {
	data, err := store.Read(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			logger.Warn("cache read failed", "key", key, "error", err)
		}
		return ""
	}
	return string(data)
}

func parseHTML(data []byte, contentType, pageURL string) (*crawler.Metadata, error) {
	body, err := charset.NewReader(bytes.NewReader(data), contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", pageURL, err)
	}
	return crawler.ParseMetadata(body, pageURL)
}

// newFetchClient creates the HTTP client used by the single-request commands.
func newFetchClient(cfg config.HTTPConfig, logger *slog.Logger) (*fetch.Client, error) {
	client, err := fetch.New(append(fetch.FromConfig(cfg), fetch.WithLogger(logger))...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	return client, nil
}
