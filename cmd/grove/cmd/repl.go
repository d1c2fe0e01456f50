package cmd

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grovestore/grove/internal/bias"
	"github.com/grovestore/grove/internal/config"
)

func newReplCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Read queries from stdin against a live engine",
		Long: `Repl reads one query per line from stdin and prints the ranking for
each. When --biases points at a file, the file is watched and the rule
table is rebuilt on every save, affecting subsequent queries only.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := buildEngine(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer engine.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			if biasPath != "" {
				source := bias.NewSource()
				if specs, err := config.LoadBiases(biasPath); err == nil {
					source.Replace(specs)
				} else {
					slog.Warn("initial bias load failed", slog.String("error", err.Error()))
				}
				engine.SetBiases(source)

				go func() {
					err := config.WatchBiases(ctx, biasPath, slog.Default(), func(specs []bias.Spec) {
						source.Replace(specs)
					})
					if err != nil && !errors.Is(err, context.Canceled) {
						slog.Warn("bias watcher stopped", slog.String("error", err.Error()))
					}
				}()
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				terms := strings.Fields(scanner.Text())
				if len(terms) == 0 {
					continue
				}

				result, err := engine.Query(ctx, terms)
				if err != nil {
					slog.Error("query failed", slog.String("error", err.Error()))
					continue
				}
				printResult(cmd, result, limit)
			}
			return scanner.Err()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of results to print per query")
	return cmd
}
