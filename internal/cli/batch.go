package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depviz/pkg/depgraph"
	"github.com/matzehuels/depviz/pkg/errors"
)

func (c *CLI) batchCommand() *cobra.Command {
	var (
		src     sourceOpts
		workers int
	)

	cmd := &cobra.Command{
		Use:   "batch PACKAGE...",
		Short: "Summarize the dependency graphs of several packages",
		Long: `Batch builds the forward graph of every named package concurrently and
prints one summary row per package: nodes, edges, leaves, depth and whether
a cycle was found.`,
		Example: `  depviz batch -m offline -r APKINDEX.tar.gz bash busybox curl`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.config()

			roots := make([]string, len(args))
			for i, a := range args {
				name, err := errors.ValidatePackageName(a)
				if err != nil {
					return err
				}
				roots[i] = name
			}
			if err := src.resolve(cfg); err != nil {
				return err
			}
			if workers <= 0 {
				workers = cfg.Workers
			}

			store := c.openCache(ctx, src.noCache)
			defer store.Close()
			idx, err := c.loadIndex(ctx, store, &src)
			if err != nil {
				return err
			}

			prog := newProgress(loggerFromContext(ctx))
			results, err := depgraph.BuildAll(ctx, roots, idx, workers)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(results))
			cycles := 0
			for _, r := range results {
				s := depgraph.Summarize(r.Graph)
				mark := ""
				if r.Cycle {
					mark = iconWarning
					cycles++
				}
				if !idx.Has(r.Root) {
					mark = "unknown"
				}
				rows = append(rows, []string{
					r.Root,
					strconv.Itoa(s.Nodes),
					strconv.Itoa(s.UniqueEdges),
					strconv.Itoa(s.Leaves),
					strconv.Itoa(s.Depth),
					mark,
				})
			}
			printNewline()
			printTable([]string{"Package", "Nodes", "Edges", "Leaves", "Depth", "Cycle"}, rows)
			if cycles > 0 {
				printWarning("%d of %d packages have dependency cycles", cycles, len(results))
			}
			prog.done(fmt.Sprintf("Built %d graphs with %d workers", len(results), workers))
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent builds (default from config)")
	return cmd
}
