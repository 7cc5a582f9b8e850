// Package cli implements the pushpipe command.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fxsml/pushpipe/config"
)

var (
	version = "dev"
	commit  = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "pushpipe",
	Short: "Run and inspect push-based dataflows",
	Long: `pushpipe runs a demo dataflow on the push data plane, exporting
per-stream metrics and optionally capturing stream traffic to a log
that can be inspected later.`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringP("config", "c", "", "YAML settings file")
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file layered under the environment")
}

// settings resolves the settings for cmd and installs the default logger.
func settings(cmd *cobra.Command) (config.Settings, error) {
	file, _ := cmd.Flags().GetString("config")
	dotenv, _ := cmd.Flags().GetString("env-file")

	s, err := config.Resolve(config.Sources{File: file, Dotenv: dotenv})
	if err != nil {
		return config.Settings{}, err
	}
	level, _ := s.Level()
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	return s, nil
}
