package cli

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depviz/internal/api"
	"github.com/matzehuels/depviz/pkg/errors"
)

const shutdownTimeout = 5 * time.Second

func (c *CLI) serveCommand() *cobra.Command {
	var (
		src    sourceOpts
		listen string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve dependency graphs over HTTP",
		Long: `Serve loads the repository index once and answers graph queries over
HTTP until interrupted. See GET /packages/{name} and its /reverse, /tree,
/dot and /cycles siblings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.config()
			if err := src.resolve(cfg); err != nil {
				return err
			}
			if listen == "" {
				listen = cfg.Listen
			}

			store := c.openCache(ctx, src.noCache)
			idx, err := c.loadIndex(ctx, store, &src)
			store.Close()
			if err != nil {
				return err
			}

			ln, err := net.Listen("tcp", listen)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "listen on %s", listen)
			}
			printSuccess("Serving on http://%s", ln.Addr())
			return serve(ctx, ln, api.New(idx, c.Logger).Handler())
		},
	}

	src.register(cmd)
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "address to listen on (default from config)")
	return cmd
}

// serve runs h on ln until ctx is done, then shuts down gracefully.
func serve(ctx context.Context, ln net.Listener, h http.Handler) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}
