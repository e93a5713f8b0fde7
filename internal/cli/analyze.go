package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depviz/pkg/cache"
	"github.com/matzehuels/depviz/pkg/depgraph"
	"github.com/matzehuels/depviz/pkg/errors"
	depio "github.com/matzehuels/depviz/pkg/io"
	"github.com/matzehuels/depviz/pkg/observability"
	"github.com/matzehuels/depviz/pkg/render/nodelink"
	"github.com/matzehuels/depviz/pkg/render/text"
)

// analyzeOpts holds the flags of depviz analyze.
type analyzeOpts struct {
	src       sourceOpts
	pkg       string
	output    string
	asciiTree string
	reverse   bool
	jsonPath  string
	fromJSON  string
	renderer  string
}

func (c *CLI) analyzeCommand() *cobra.Command {
	opts := analyzeOpts{asciiTree: "false"}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Show the dependency graph of a package",
		Long: `Analyze walks the dependencies of a package and prints them as an edge
listing, optionally as an ASCII tree, and reports whether a cycle was found.
The graph is also written as a Graphviz DOT file next to --output and
rendered to the requested image format.`,
		Example: `  depviz analyze -p bash -m online -r https://dl-cdn.alpinelinux.org/alpine/v3.20/main/x86_64/ -o bash.svg
  depviz analyze -p A -m test -r testdata/repo.txt -o out/a.png --ascii-tree yes --reverse
  depviz analyze --from-json bash.json -o bash.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd.Context(), cmd.OutOrStdout(), &opts)
		},
	}

	opts.src.register(cmd)
	cmd.Flags().StringVarP(&opts.pkg, "package", "p", "", "package to analyze (required)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "image file: .png, .svg, .pdf or .jpg (required)")
	cmd.Flags().StringVarP(&opts.asciiTree, "ascii-tree", "a", "false", "print the dependency tree (true/false, yes/no, on/off, 1/0)")
	cmd.Flags().BoolVar(&opts.reverse, "reverse", false, "also show the packages that depend on the package")
	cmd.Flags().StringVar(&opts.jsonPath, "json", "", "write the forward graph as JSON to this file")
	cmd.Flags().StringVar(&opts.fromJSON, "from-json", "", "render a graph exported with --json instead of loading a repository")
	cmd.Flags().StringVar(&opts.renderer, "renderer", "", "image backend: exec, graphviz or none (default from config)")

	return cmd
}

// outputOpts are the validated settings shared by both analyze paths.
type outputOpts struct {
	path     string
	showTree bool
	renderer nodelink.Renderer
}

func (c *CLI) resolveOutput(opts *analyzeOpts) (*outputOpts, error) {
	cfg := c.config()
	path, err := errors.ValidateOutputFile(opts.output)
	if err != nil {
		return nil, err
	}
	showTree, err := errors.ParseBool(opts.asciiTree)
	if err != nil {
		return nil, err
	}
	backend := opts.renderer
	if backend == "" {
		backend = cfg.Renderer
	}
	renderer, err := nodelink.NewRenderer(backend, cfg.Dot)
	if err != nil {
		return nil, err
	}
	return &outputOpts{path: path, showTree: showTree, renderer: renderer}, nil
}

func (c *CLI) runAnalyze(ctx context.Context, out io.Writer, opts *analyzeOpts) error {
	if opts.fromJSON != "" {
		return c.runImported(ctx, out, opts)
	}

	logger := loggerFromContext(ctx)

	pkg, err := errors.ValidatePackageName(opts.pkg)
	if err != nil {
		return err
	}
	if err := opts.src.resolve(c.config()); err != nil {
		return err
	}
	o, err := c.resolveOutput(opts)
	if err != nil {
		return err
	}
	output, showTree := o.path, o.showTree

	printInfo("Run parameters")
	printKeyValue("package", pkg)
	printKeyValue("repo", opts.src.repo)
	printKeyValue("mode", opts.src.mode)
	printKeyValue("output", output)
	printKeyValue("ascii_tree", strconv.FormatBool(showTree))
	printNewline()

	store := c.openCache(ctx, opts.src.noCache)
	defer store.Close()

	idx, err := c.loadIndex(ctx, store, &opts.src)
	if err != nil {
		return err
	}

	rev := depgraph.NewReverseIndex(idx)
	if !idx.Has(pkg) && len(rev.Dependents(pkg)) == 0 {
		logger.Warn("package not found in repository", "package", pkg)
		printWarning("Package %q is not in the repository and nothing depends on it", pkg)
	}

	prog := newProgress(logger)
	start := time.Now()
	g, cycle := depgraph.Build(pkg, idx)
	observability.Analysis().OnBuildComplete(ctx, pkg, g.Len(), cycle, time.Since(start))
	logger.Debug("forward graph", "nodes", g.Len(), "edges", g.EdgeCount())

	fmt.Fprintln(out, "Dependencies:")
	fmt.Fprint(out, text.EdgeList(g))
	if showTree {
		fmt.Fprintln(out)
		fmt.Fprint(out, text.Tree(g))
	}
	fmt.Fprintln(out)
	if cycle {
		printWarning("Dependency cycle detected")
	} else {
		printSuccess("No dependency cycles")
	}

	if opts.reverse {
		rg := rev.Walk(pkg)
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Packages depending on %s:\n", pkg)
		if deps := rg.Deps(pkg); len(deps) == 0 {
			fmt.Fprintln(out, text.NoDependencies)
		} else {
			fmt.Fprint(out, text.EdgeList(rg))
			if showTree {
				fmt.Fprintln(out)
				fmt.Fprint(out, text.Tree(rg))
			}
		}
	}
	printNewline()

	if err := c.writeDiagram(ctx, store, o.renderer, g, nodelink.Options{}, output); err != nil {
		return err
	}

	if opts.jsonPath != "" {
		if err := depio.ExportJSON(depio.Forward(g, cycle), opts.jsonPath); err != nil {
			return err
		}
		printSuccess("Graph exported")
		printFile(opts.jsonPath)
	}

	prog.done(fmt.Sprintf("Analyzed %s", pkg))
	return nil
}

// writeDiagram writes the DOT side file and renders the image. A renderer
// failure is reported as a warning; the DOT file is kept.
func (c *CLI) writeDiagram(ctx context.Context, store cache.Cache, r nodelink.Renderer, g *depgraph.Graph, dotOpts nodelink.Options, output string) error {
	w := &nodelink.Writer{
		Renderer: r,
		Cache:    store,
		Keyer:    keyerFor(store),
		TTL:      c.config().Cache.TTL.Duration,
	}
	res, err := w.Write(ctx, nodelink.ToDOT(g, dotOpts), output)
	if err != nil {
		return err
	}

	printSuccess("Diagram written")
	printFile(res.DOTPath)
	switch {
	case res.RenderErr != nil:
		loggerFromContext(ctx).Warn("image not rendered", "error", res.RenderErr)
		printWarning("Image not rendered: %s", errors.UserMessage(res.RenderErr))
		printDetail("The DOT file can be rendered later with: dot -T%s %s -o %s", nodelink.Format(output), res.DOTPath, output)
	case res.ImagePath != "":
		printFile(res.ImagePath)
		printStats(g.Len(), g.EdgeCount(), res.Cached)
	}
	return nil
}

// runImported renders a graph document written by --json. The repository
// is not consulted, so --reverse is not available here; a reverse document
// is drawn with its edges pointing from dependent to dependency.
func (c *CLI) runImported(ctx context.Context, out io.Writer, opts *analyzeOpts) error {
	if opts.reverse {
		return errors.New(errors.ErrCodeInvalidInput, "--reverse needs a repository and cannot be combined with --from-json")
	}
	o, err := c.resolveOutput(opts)
	if err != nil {
		return err
	}

	doc, g, err := depio.ImportJSON(opts.fromJSON)
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "graph file %s", opts.fromJSON)
	case err != nil:
		return errors.Wrap(errors.ErrCodeInvalidManifest, err, "graph file %s", opts.fromJSON)
	}
	if opts.pkg != "" && opts.pkg != doc.Root {
		return errors.New(errors.ErrCodeInvalidPackage, "%s holds the graph of %q, not %q", opts.fromJSON, doc.Root, opts.pkg)
	}

	printInfo("Run parameters")
	printKeyValue("package", doc.Root)
	printKeyValue("from", opts.fromJSON)
	printKeyValue("direction", doc.Direction)
	printKeyValue("output", o.path)
	printKeyValue("ascii_tree", strconv.FormatBool(o.showTree))
	printNewline()

	reverse := doc.Direction == depio.DirectionReverse
	if reverse {
		fmt.Fprintf(out, "Packages depending on %s:\n", doc.Root)
	} else {
		fmt.Fprintln(out, "Dependencies:")
	}
	fmt.Fprint(out, text.EdgeList(g))
	if o.showTree {
		fmt.Fprintln(out)
		fmt.Fprint(out, text.Tree(g))
	}
	fmt.Fprintln(out)

	if !reverse {
		cycle := doc.Cycle != nil && *doc.Cycle
		if doc.Cycle == nil {
			_, cycle = depgraph.Build(doc.Root, depgraph.AdjacencyFunc(g.Deps))
		}
		if cycle {
			printWarning("Dependency cycle detected")
		} else {
			printSuccess("No dependency cycles")
		}
	}
	printNewline()

	store := c.openCache(ctx, opts.src.noCache)
	defer store.Close()
	return c.writeDiagram(ctx, store, o.renderer, g, nodelink.Options{Reverse: reverse}, o.path)
}
