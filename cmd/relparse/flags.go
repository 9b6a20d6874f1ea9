package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/reliverse/relparse/internal/config"
	applog "github.com/reliverse/relparse/internal/log"
	"github.com/reliverse/relparse/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// addHTTPFlags registers the fetch flags shared by network commands.
func addHTTPFlags(fs *pflag.FlagSet) {
	fs.String("ua", config.DefaultUserAgent, "User-Agent header sent with every request")
	fs.Duration("timeout", config.DefaultTimeout, "Timeout for each request")
	fs.Int("retries", config.DefaultRetries, "Retries after a transport error or 5xx response")
	fs.String("proxy", "", "Proxy URL (http, https, socks5 or socks5h)")
}

// addOutputFlags registers the output flags shared by all data commands.
func addOutputFlags(fs *pflag.FlagSet, defaultFormat report.Format) {
	fs.String("format", string(defaultFormat), "Output format: csv, json, yaml or markdown")
	fs.StringP("out", "o", "", "Write output to file (creates directories if needed)")
	fs.Bool("stdout", false, "Print to stdout even when --out is set")
}

// httpConfigFromFlags reads the flags registered by addHTTPFlags.
func httpConfigFromFlags(fs *pflag.FlagSet) (config.HTTPConfig, error) {
	cfg := config.NewHTTPConfig()

	var err error
	if cfg.UserAgent, err = fs.GetString("ua"); err != nil {
		return cfg, err
	}
	if cfg.Timeout, err = fs.GetDuration("timeout"); err != nil {
		return cfg, err
	}
	if cfg.Retries, err = fs.GetInt("retries"); err != nil {
		return cfg, err
	}
	if cfg.Proxy, err = fs.GetString("proxy"); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// outputConfigFromFlags reads the flags registered by addOutputFlags.
func outputConfigFromFlags(fs *pflag.FlagSet) (config.OutputConfig, error) {
	var cfg config.OutputConfig

	raw, err := fs.GetString("format")
	if err != nil {
		return cfg, err
	}
	if cfg.Format, err = report.ParseFormat(raw); err != nil {
		return cfg, err
	}
	if cfg.File, err = fs.GetString("out"); err != nil {
		return cfg, err
	}
	if cfg.Stdout, err = fs.GetBool("stdout"); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// destination converts output settings to a report destination.
func destination(cfg config.OutputConfig, title string) report.Destination {
	return report.Destination{Stdout: cfg.Stdout, File: cfg.File, Title: title}
}

// listFlag reads a comma-separated flag, dropping blank entries.
func listFlag(fs *pflag.FlagSet, name string) ([]string, error) {
	raw, err := fs.GetString(name)
	if err != nil {
		return nil, err
	}
	return splitList(raw), nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the redacting logger for cmd. Logs go to stderr so
// stdout carries only data.
func setupLogger(cmd *cobra.Command) *slog.Logger {
	return applog.NewSecureLogger(cmd.ErrOrStderr(), getVerboseFlag(cmd))
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

// usageError reports a usage problem as one line followed by the command's
// help, both on stderr. The command produces no output and exits cleanly.
func usageError(cmd *cobra.Command, msg string) error {
	errOut := cmd.ErrOrStderr()
	fmt.Fprintln(errOut, msg)
	fmt.Fprint(errOut, cmd.UsageString())
	return nil
}
