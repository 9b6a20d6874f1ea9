package main

import (
	"fmt"

	"github.com/reliverse/relparse/internal/cache"
	"github.com/reliverse/relparse/internal/config"
	"github.com/spf13/cobra"
)

// NewCacheCmd creates the cache command and its subcommands.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the response cache used by html --cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return usageError(cmd, "Missing cache subcommand.")
		},
	}
	cmd.PersistentFlags().String("cache-dir", config.XDGCacheDir(), "Cache directory")

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached response",
		Args:  cobra.NoArgs,
		RunE:  runCacheClearCmd,
	})

	return cmd
}

// runCacheClearCmd executes the cache clear command.
func runCacheClearCmd(cmd *cobra.Command, _ []string) error {
	dir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return err
	}

	logger := setupLogger(cmd)

	store, err := cache.Open(dir)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Clear(cmd.Context())
	if err != nil {
		return err
	}
	logger.Info("cache cleared", "path", store.Path(), "entries", n)

	fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
	return nil
}
