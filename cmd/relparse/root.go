package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for relparse.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relparse",
		Short: "Structured data extraction from web pages",
		Long: `relparse crawls listing pages, visits the target pages they link to and
extracts structured entities from JSON-LD blocks plus page metadata
(title, description, canonical, meta and og: tags).

Results are deduplicated by e-mail and URL and, for csv output, merged
with the rows already present in the output file.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHTMLCmd())
	cmd.AddCommand(NewRSSCmd())
	cmd.AddCommand(NewSitemapCmd())
	cmd.AddCommand(NewFileCmd())
	cmd.AddCommand(NewConfigCmd())
	cmd.AddCommand(NewCacheCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
