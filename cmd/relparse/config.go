package main

import (
	"errors"
	"fmt"

	"github.com/reliverse/relparse/internal/config"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command.
func NewConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config [file]",
		Short: "Run the tasks listed in a YAML task file",
		Long: `Config runs each task of a YAML task file in order, exactly as if its
command line had been typed. Without a file argument, .relparse.yaml in the
current directory and then config.yaml in the XDG config directory are used.

Task file example:
  defaults:
    ua: "relparse-bot/1.0"
    timeout: 20s
  tasks:
    - run: html
      args: ["https://example.com", "--out", "out/home.json"]
    - run: sitemap
      args: ["https://example.com/sitemap.xml", "--format", "csv", "--out", "out/sitemap.csv"]

Known tasks: html, crawl, rss, sitemap, file. Unknown tasks are reported and
skipped; a failing task stops the run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runConfigCmd,
	}
}

// runConfigCmd executes the config command.
func runConfigCmd(cmd *cobra.Command, args []string) error {
	var explicit string
	if len(args) > 0 {
		explicit = args[0]
	}

	path := config.FindConfigFile(explicit)
	if path == "" {
		if explicit != "" {
			return fmt.Errorf("%w: %s", config.ErrConfigNotFound, explicit)
		}
		return usageError(cmd, "Missing <file>.")
	}

	tasks, err := config.LoadConfigFile(path)
	if errors.Is(err, config.ErrNoTasks) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Invalid config: missing tasks")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}

	logger := setupLogger(cmd)
	verbose := getVerboseFlag(cmd)
	logger.Info("running task file", "path", path, "tasks", len(tasks.Tasks))

	for i, task := range tasks.Tasks {
		if !task.Known() {
			fmt.Fprintf(cmd.ErrOrStderr(), "Unknown task in config: %s\n", task.Run)
			continue
		}

		taskArgs := append([]string{task.Run}, tasks.ResolvedArgs(task)...)
		if verbose {
			taskArgs = append(taskArgs, "--verbose")
		}
		logger.Debug("running task", "index", i+1, "run", task.Run)

		root := NewRootCmd()
		root.SetArgs(taskArgs)
		root.SetOut(cmd.OutOrStdout())
		root.SetErr(cmd.ErrOrStderr())
		if err := root.ExecuteContext(cmd.Context()); err != nil {
			return fmt.Errorf("task %d (%s) failed: %w", i+1, task.Run, err)
		}
	}
	return nil
}
