package main

import (
	"fmt"

	"github.com/reliverse/relparse/internal/localfile"
	"github.com/reliverse/relparse/internal/report"
	"github.com/spf13/cobra"
)

// NewFileCmd creates the file command.
func NewFileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file <glob>",
		Short: "Parse local files matched by a glob",
		Long: `File parses every regular, non-hidden file matched by the glob according
to its extension: json and yaml/yml are decoded, markdown, xml, html and
everything else is returned as text. Each record carries path, type and
either value or error.

Examples:
  relparse file 'data/*.json'
  relparse file 'docs/*.md' --format csv --out docs.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: runFileCmd,
	}

	addOutputFlags(cmd.Flags(), report.FormatJSON)

	return cmd
}

// runFileCmd executes the file command.
func runFileCmd(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return usageError(cmd, "Missing <glob>.")
	}

	outCfg, err := outputConfigFromFlags(cmd.Flags())
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd)

	records, err := localfile.ParseAll(args[0])
	if err != nil {
		return err
	}
	logger.Info("files parsed", "glob", args[0], "files", len(records))

	return report.Write(cmd.OutOrStdout(), destination(outCfg, "file records"), outCfg.Format, records)
}
