package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/grovestore/grove/internal/bias"
	"github.com/grovestore/grove/internal/catalog"
	"github.com/grovestore/grove/internal/config"
	"github.com/grovestore/grove/internal/search"
)

func newSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search [terms...]",
		Short: "Run one query against the catalog and print the ranking",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := buildEngine(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer engine.Close()

			result, err := engine.Query(cmd.Context(), args)
			if err != nil {
				return err
			}

			printResult(cmd, result, limit)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of results to print")
	return cmd
}

// buildEngine loads the catalog files concurrently and wires them into a
// fresh engine. When withBiases is set and --biases was given, the bias
// file is loaded once as a static source; repl manages its own live
// source instead.
func buildEngine(ctx context.Context, withBiases bool) (*search.Engine, error) {
	if len(catalogs) == 0 {
		return nil, fmt.Errorf("at least one --catalog file is required")
	}

	loaded := make([][]*catalog.Group, len(catalogs))
	g, _ := errgroup.WithContext(ctx)
	for i, path := range catalogs {
		i, path := i, path
		g.Go(func() error {
			groups, err := config.LoadCatalog(path)
			if err != nil {
				return err
			}
			loaded[i] = groups
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	collection := catalog.NewCollection()
	for _, groups := range loaded {
		collection.Append(groups...)
	}

	engine, err := search.NewEngine()
	if err != nil {
		return nil, err
	}
	engine.SetModel(collection)

	if withBiases && biasPath != "" {
		specs, err := config.LoadBiases(biasPath)
		if err != nil {
			engine.Close()
			return nil, err
		}
		engine.SetBiases(bias.NewSource(specs...))
	}

	return engine, nil
}

var printMu sync.Mutex

func printResult(cmd *cobra.Command, result *search.Result, limit int) {
	printMu.Lock()
	defer printMu.Unlock()

	if result.InterpretedQuery != "" {
		cmd.Printf("query: %q\n", result.InterpretedQuery)
	}
	entries := result.Entries
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for rank, entry := range entries {
		fields := entry.Group.Fields()
		cmd.Printf("%3d. %-40s %-24s %12.3f\n", rank+1, fields.Title, fields.ID, entry.Score)
	}
	cmd.Printf("%d result(s)\n", len(result.Entries))
}
