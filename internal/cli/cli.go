package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depviz/pkg/buildinfo"
	"github.com/matzehuels/depviz/pkg/cache"
	"github.com/matzehuels/depviz/pkg/config"
	"github.com/matzehuels/depviz/pkg/errors"
	"github.com/matzehuels/depviz/pkg/observability"
	"github.com/matzehuels/depviz/pkg/repo"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "depviz",
		Short: "depviz visualizes package dependency graphs",
		Long: `depviz walks the dependencies of a package in an Alpine-style repository
and shows them as an edge listing, an ASCII tree and a Graphviz diagram.
It also answers the reverse question: which packages depend on this one.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.Logger.Debug("configuration loaded", "mode", cfg.Mode, "renderer", cfg.Renderer, "cache", cfg.Cache.Dir)

			hooks := &logHooks{logger: c.Logger}
			observability.SetAnalysisHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)

			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/depviz/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.New(errors.ErrCodeInvalidInput, "%s", err)
	})

	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.cyclesCommand())
	root.AddCommand(c.pickCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config returns the loaded configuration, or the defaults before
// PersistentPreRunE has run.
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		return config.Default()
	}
	return c.cfg
}

// =============================================================================
// Repository Flags
// =============================================================================

// sourceOpts selects the repository a command reads. Values not given on
// the command line fall back to the configuration.
type sourceOpts struct {
	repo    string
	mode    string
	refresh bool
	noCache bool
	raw     bool
}

func (o *sourceOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.repo, "repo", "r", "", "repository URL or path (APKINDEX, APKINDEX.tar.gz or test fixture)")
	cmd.Flags().StringVarP(&o.mode, "mode", "m", "", "repository mode: "+strings.Join(errors.Modes, ", "))
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "ignore cached downloads")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable the download and render cache")
	cmd.Flags().BoolVar(&o.raw, "raw-deps", false, "keep so:/cmd:/pc: dependency tokens instead of resolving their providers")
}

// resolve fills unset values from cfg and validates them.
func (o *sourceOpts) resolve(cfg *config.Config) error {
	if o.repo == "" {
		o.repo = cfg.Repo
	}
	if o.mode == "" {
		o.mode = cfg.Mode
	}
	mode, err := errors.ValidateMode(o.mode)
	if err != nil {
		return err
	}
	r, err := errors.ValidateRepo(o.repo)
	if err != nil {
		return err
	}
	o.mode, o.repo = mode, r
	return nil
}

// =============================================================================
// Loader Factory
// =============================================================================

// openCache returns the cache selected by the configuration. A Redis
// address that cannot be reached falls back to the file cache with a
// warning.
func (c *CLI) openCache(ctx context.Context, noCache bool) cache.Cache {
	cfg := c.config()
	if noCache {
		return cache.NewNullCache()
	}
	if addr := cfg.Cache.RedisAddr; addr != "" {
		rc, err := cache.NewRedisCache(ctx, addr)
		if err == nil {
			return rc
		}
		c.Logger.Warn("redis cache unavailable, using file cache", "addr", addr, "error", err)
	}
	fc, err := cache.NewFileCache(cfg.Cache.Dir)
	if err != nil {
		c.Logger.Warn("file cache unavailable, caching disabled", "dir", cfg.Cache.Dir, "error", err)
		return cache.NewNullCache()
	}
	return fc
}

// keyerFor namespaces keys in a shared Redis instance.
func keyerFor(store cache.Cache) cache.Keyer {
	if _, ok := store.(*cache.RedisCache); ok {
		return cache.NewScopedKeyer(nil, config.AppName+":")
	}
	return cache.NewDefaultKeyer()
}

// newLoader wires a cache, fetcher and loader for src.
func (c *CLI) newLoader(store cache.Cache, src *sourceOpts) *repo.Loader {
	cfg := c.config()
	f := repo.NewFetcher(store)
	f.Keyer = keyerFor(store)
	f.TTL = cfg.Cache.TTL.Duration
	f.Refresh = src.refresh
	f.Logger = c.Logger

	l := repo.NewLoader(f, repo.APKOptions{ResolveProvides: cfg.ResolveProvides && !src.raw})
	l.Logger = c.Logger
	return l
}

// loadIndex loads src behind a spinner.
func (c *CLI) loadIndex(ctx context.Context, store cache.Cache, src *sourceOpts) (*repo.Index, error) {
	spinner := newSpinnerWithContext(ctx, "Loading repository index...")
	spinner.Start()
	idx, err := c.newLoader(store, src).Load(ctx, src.mode, src.repo)
	switch {
	case err != nil && spinner.Cancelled():
		spinner.Stop()
		return nil, err
	case err != nil:
		spinner.StopWithError("Could not load repository index")
		return nil, err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Loaded %d packages", idx.Len()))
	printDetail("%s (%s)", src.repo, src.mode)
	return idx, nil
}
