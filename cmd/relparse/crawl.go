package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/reliverse/relparse/internal/config"
	"github.com/reliverse/relparse/internal/crawler"
	"github.com/reliverse/relparse/internal/jsonld"
	"github.com/reliverse/relparse/internal/pipeline"
	"github.com/reliverse/relparse/internal/report"
	"github.com/spf13/cobra"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <url>",
		Short: "Extract structured entities from a listing or a target page",
		Long: `Crawl extracts JSON-LD entities either from a single target page or from
every target page linked by a paginated listing.

A URL on --host whose path contains --path-contains is a target page and is
extracted directly. Any other URL is a listing base: each page from --pages
is fetched as <url>/<page>, links matching --selector and starting with
--rel-prefix are resolved against --abs-base and visited in order.

With --out and csv output, rows already in the file are kept and new rows
whose e-mail or URL is already known are dropped.

Examples:
  # Single target page
  relparse crawl https://dir.example/company/acme --host dir.example \
    --path-contains /company/ --get name,email,url --stdout

  # Listing pages 1 to 5, merged into people.csv
  relparse crawl https://dir.example/category/agencies --pages 1-5 \
    --selector 'a.card' --rel-prefix /company/ --abs-base https://dir.example \
    --get page,name,email --require-get email --out people.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCrawlCmd,
	}

	fs := cmd.Flags()
	fs.String("pages", config.DefaultPages, "Listing pages: single index, comma list or start-end range")
	fs.Int("per-page", config.DefaultPerPage, "Maximum target links taken from each listing page")
	fs.Duration("delay", config.DefaultDelay, "Pause between listing pages")
	fs.String("get", "", "Comma-separated fields to output (page is always available)")
	fs.String("require-get", "", "Comma-separated fields every row must have")
	fs.Bool("extract-all", false, "Keep every non-empty string property of each entity")
	fs.String("extract-props", "", "Comma-separated properties to extract (default: all)")
	fs.String("jsonld-types", "", "Comma-separated JSON-LD @type values to accept (default: all)")
	fs.String("host", "", "Hostname of target pages")
	fs.String("path-contains", "", "Path substring identifying target pages")
	fs.String("selector", "", "CSS selector for target links on listing pages")
	fs.String("rel-prefix", "", "Required prefix of target link hrefs")
	fs.String("abs-base", "", "Base URL used to absolutize target links")
	addHTTPFlags(fs)
	addOutputFlags(fs, config.DefaultCrawlFormat)

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildCrawlConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrNoURL) || errors.Is(err, config.ErrNoFields) {
			return usageError(cmd, capitalize(err.Error())+".")
		}
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd)
	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	err = runCrawl(ctx, cmd.OutOrStdout(), cfg, logger)
	var cfgErr *config.ConfigurationError
	if errors.As(err, &cfgErr) {
		return usageError(cmd, capitalize(err.Error())+".")
	}
	return err
}

// buildCrawlConfig creates a CrawlConfig from cobra command flags.
func buildCrawlConfig(cmd *cobra.Command, args []string) (*config.CrawlConfig, error) {
	fs := cmd.Flags()
	cfg := config.NewCrawlConfig()

	var err error
	if len(args) > 0 {
		cfg.URL = args[0]
	}
	if cfg.HTTPConfig, err = httpConfigFromFlags(fs); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if cfg.OutputConfig, err = outputConfigFromFlags(fs); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	if cfg.Pages, err = fs.GetString("pages"); err != nil {
		return nil, err
	}
	if cfg.PerPage, err = fs.GetInt("per-page"); err != nil {
		return nil, err
	}
	if cfg.Delay, err = fs.GetDuration("delay"); err != nil {
		return nil, err
	}
	if cfg.ExtractAll, err = fs.GetBool("extract-all"); err != nil {
		return nil, err
	}

	lists := []struct {
		name string
		dst  *[]string
	}{
		{"get", &cfg.Fields},
		{"require-get", &cfg.RequiredFields},
		{"extract-props", &cfg.ExtractProps},
		{"jsonld-types", &cfg.JSONLDTypes},
	}
	for _, l := range lists {
		if *l.dst, err = listFlag(fs, l.name); err != nil {
			return nil, err
		}
	}

	strs := []struct {
		name string
		dst  *string
	}{
		{"host", &cfg.Hostname},
		{"path-contains", &cfg.PathContains},
		{"selector", &cfg.LinkSelector},
		{"rel-prefix", &cfg.RelativePrefix},
		{"abs-base", &cfg.AbsoluteBase},
	}
	for _, s := range strs {
		if *s.dst, err = fs.GetString(s.name); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// runCrawl executes the crawl pipeline and writes its output.
func runCrawl(ctx context.Context, stdout io.Writer, cfg *config.CrawlConfig, logger *slog.Logger) error {
	client, err := newFetchClient(cfg.HTTPConfig, logger)
	if err != nil {
		return err
	}

	spider := crawler.NewSpider(client, crawler.NewDiscovery(cfg),
		crawler.WithPerPage(cfg.PerPage),
		crawler.WithDelay(cfg.Delay),
		crawler.WithExtractor(jsonld.NewExtractor(cfg.JSONLDTypes, cfg.ExtractProps)),
		crawler.WithLogger(logger),
	)

	mergeOpts := []pipeline.MergeStepOption{pipeline.WithMergeLogger(logger)}
	if cfg.MergeEnabled() {
		mergeOpts = append(mergeOpts, pipeline.WithExistingFile(cfg.File))
	}

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewCollectStep(spider),
		pipeline.NewAssembleStep(pipeline.AssembleOptions{
			ExtractAll: cfg.ExtractAll,
			Fields:     cfg.Fields,
			Required:   cfg.RequiredFields,
		}),
		pipeline.NewMergeStep(mergeOpts...),
		pipeline.NewProjectStep(cfg.Fields),
	)

	batch := pipeline.NewBatch(cfg.URL, crawler.ExpandPages(cfg.Pages))
	logger.Info("starting crawl",
		"url", cfg.URL,
		"pages", len(batch.Pages),
		"format", cfg.Format,
	)

	if err := p.Execute(ctx, batch); err != nil {
		return err
	}

	logger.Info("crawl finished", "hits", len(batch.Hits), "rows", len(batch.Output))
	return report.Write(stdout, destination(cfg.OutputConfig, "crawl results"), cfg.Format, batch.Output)
}

// capitalize upper-cases the first byte of an ASCII message.
func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
