package cli

import (
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depviz/pkg/depgraph"
	"github.com/matzehuels/depviz/pkg/errors"
	"github.com/matzehuels/depviz/pkg/render/text"
)

func (c *CLI) pickCommand() *cobra.Command {
	var (
		src     sourceOpts
		reverse bool
	)

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose a package interactively and print its tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := src.resolve(c.config()); err != nil {
				return err
			}

			store := c.openCache(ctx, src.noCache)
			defer store.Close()
			idx, err := c.loadIndex(ctx, store, &src)
			if err != nil {
				return err
			}
			if idx.Len() == 0 {
				return errors.New(errors.ErrCodePackageNotFound, "repository %s has no packages", src.repo)
			}

			names := idx.Names()
			slices.Sort(names)
			final, err := tea.NewProgram(NewPackageListModel(names), tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}
			choice := final.(PackageListModel).Selected
			if choice == "" {
				printInfo("Nothing selected")
				return nil
			}

			var g *depgraph.Graph
			if reverse {
				g = depgraph.Reverse(choice, idx)
			} else {
				g, _ = depgraph.Build(choice, idx)
			}
			fmt.Fprint(cmd.OutOrStdout(), text.Tree(g))
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().BoolVar(&reverse, "reverse", false, "show the packages that depend on the choice instead")
	return cmd
}
