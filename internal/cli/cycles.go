package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depviz/pkg/depgraph"
	"github.com/matzehuels/depviz/pkg/errors"
)

func (c *CLI) cyclesCommand() *cobra.Command {
	var (
		src sourceOpts
		pkg string
	)

	cmd := &cobra.Command{
		Use:   "cycles",
		Short: "List the dependency cycles reachable from a package",
		Long: `Cycles builds the forward graph of a package and lists every group of
packages that depend on each other, directly or through other packages.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name, err := errors.ValidatePackageName(pkg)
			if err != nil {
				return err
			}
			if err := src.resolve(c.config()); err != nil {
				return err
			}

			store := c.openCache(ctx, src.noCache)
			defer store.Close()
			idx, err := c.loadIndex(ctx, store, &src)
			if err != nil {
				return err
			}

			g, _ := depgraph.Build(name, idx)
			comps, err := depgraph.Cycles(g)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "find cycles")
			}
			if len(comps) == 0 {
				printSuccess("No dependency cycles reachable from %s", name)
				return nil
			}

			rows := make([][]string, len(comps))
			for i, comp := range comps {
				rows[i] = []string{strconv.Itoa(i + 1), strconv.Itoa(len(comp)), strings.Join(comp, ", ")}
			}
			printNewline()
			printTable([]string{"#", "Size", "Packages"}, rows)
			printWarning("%d cycle(s) reachable from %s", len(comps), name)
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().StringVarP(&pkg, "package", "p", "", "package to inspect (required)")
	return cmd
}
