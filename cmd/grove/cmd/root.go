// Package cmd provides the CLI commands for grove.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/grovestore/grove/internal/logging"
)

var (
	logLevel string
	logJSON  bool
	biasPath string
	catalogs []string
)

// NewRootCmd creates the root command for the grove CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grove",
		Short: "Fuzzy search over an application catalog",
		Long: `Grove ranks a catalog of application entries against a query using
token-level fuzzy matching, sharded across a worker pool, with
regex-driven bias rules for query rewriting and score boosting.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(logging.Config{Level: logLevel, JSON: logJSON})
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Minimum log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Emit logs as JSON")
	cmd.PersistentFlags().StringVar(&biasPath, "biases", "", "Path to a YAML bias rule file")
	cmd.PersistentFlags().StringArrayVar(&catalogs, "catalog", nil, "Path to a YAML catalog file (repeatable)")

	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newReplCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
