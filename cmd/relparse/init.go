package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/reliverse/relparse/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/relparse.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a task file for the config command",
		Long: `Init writes a commented .relparse.yaml task file to the current directory.
Run it with "relparse config".

Examples:
  # Create .relparse.yaml in current directory
  relparse init

  # Create task file at a specific path
  relparse init -o tasks/site.yaml

  # Force overwrite existing file
  relparse init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile, "Output file path for the task file")
	cmd.Flags().BoolP("force", "f", false, "Overwrite existing task file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("task file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/relparse.yaml")
	if err != nil {
		return fmt.Errorf("failed to read task file template: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write task file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created task file: %s\n", outputPath)
	fmt.Fprintln(out, "Edit the tasks, then run: relparse config", outputPath)
	return nil
}
