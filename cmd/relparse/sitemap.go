package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/reliverse/relparse/internal/config"
	"github.com/reliverse/relparse/internal/feed"
	"github.com/reliverse/relparse/internal/report"
	"github.com/spf13/cobra"
)

// NewSitemapCmd creates the sitemap command.
func NewSitemapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitemap <url-or-file>",
		Short: "List the locations of a sitemap or sitemap index",
		Long: `Sitemap outputs the <loc> values of a sitemap: page URLs under "urls" and
nested sitemap URLs under "sitemaps". Inputs starting with http://,
https:// or // are fetched; anything else is read from disk.

Examples:
  relparse sitemap https://example.com/sitemap.xml
  relparse sitemap ./sitemap.xml --format csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSitemapCmd,
	}

	addHTTPFlags(cmd.Flags())
	addOutputFlags(cmd.Flags(), report.FormatJSON)

	return cmd
}

// runSitemapCmd executes the sitemap command.
func runSitemapCmd(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return usageError(cmd, "Missing <url-or-file>.")
	}
	input := args[0]

	httpCfg, err := httpConfigFromFlags(cmd.Flags())
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	outCfg, err := outputConfigFromFlags(cmd.Flags())
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd)
	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	src, err := openSitemap(ctx, input, httpCfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	sm, err := feed.ParseSitemap(src)
	if err != nil {
		return fmt.Errorf("failed to parse sitemap %s: %w", input, err)
	}
	logger.Info("sitemap parsed", "input", input, "urls", len(sm.URLs), "sitemaps", len(sm.Sitemaps))

	return report.Write(cmd.OutOrStdout(), destination(outCfg, "sitemap"), outCfg.Format, sm)
}

// openSitemap fetches input when it looks like a URL and opens it as a file
// otherwise.
func openSitemap(ctx context.Context, input string, httpCfg config.HTTPConfig, logger *slog.Logger) (io.ReadCloser, error) {
	if !feed.IsLikelyURL(input) {
		f, err := os.Open(input) //nolint:gosec // User-provided path is intentional
		if err != nil {
			return nil, fmt.Errorf("failed to open sitemap: %w", err)
		}
		return f, nil
	}

	client, err := newFetchClient(httpCfg, logger)
	if err != nil {
		return nil, err
	}
	resp, err := client.Get(ctx, input)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
