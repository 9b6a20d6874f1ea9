package main

import (
	"fmt"

	"github.com/reliverse/relparse/internal/feed"
	"github.com/reliverse/relparse/internal/report"
	"github.com/spf13/cobra"
)

// NewRSSCmd creates the rss command.
func NewRSSCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rss <url>",
		Short: "List the items of an RSS or Atom feed",
		Long: `Rss fetches a feed and outputs its RSS items (title, link, guid, pubDate)
followed by its Atom entries (title, link, id, updated).

Example:
  relparse rss https://blog.example/feed.xml --format yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRSSCmd,
	}

	addHTTPFlags(cmd.Flags())
	addOutputFlags(cmd.Flags(), report.FormatJSON)

	return cmd
}

// runRSSCmd executes the rss command.
func runRSSCmd(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return usageError(cmd, "Missing <url>.")
	}
	feedURL := args[0]

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

	client, err := newFetchClient(httpCfg, logger)
	if err != nil {
		return err
	}
	resp, err := client.Get(ctx, feedURL)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	items, err := feed.ParseFeed(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to parse feed %s: %w", feedURL, err)
	}
	logger.Info("feed parsed", "url", feedURL, "items", len(items))

	return report.Write(cmd.OutOrStdout(), destination(outCfg, "feed items"), outCfg.Format, feed.Feed{URL: feedURL, Items: items})
}
