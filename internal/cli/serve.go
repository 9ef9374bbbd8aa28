package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/imagerows/pkg/pipeline"
	"github.com/matzehuels/imagerows/pkg/server"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout pipeline over HTTP",
		Long: `Serve the layout pipeline over HTTP.

The server exposes layout and render endpoints plus a listing store:

  GET    /healthz
  POST   /v1/layout
  POST   /v1/render/{format}
  GET    /v1/listings
  GET    /v1/listings/{id}
  PUT    /v1/listings/{id}
  DELETE /v1/listings/{id}
  GET    /v1/listings/{id}/layout

The cache and store backends come from the config file. The server shuts down
gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.conf()
			if addr == "" {
				addr = cfg.Server.Addr
			}

			cc, err := cfg.OpenCache(ctx)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			runner := pipeline.NewRunner(cc, nil, c.Logger)
			defer runner.Close()

			st, err := cfg.OpenStore(ctx)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			srv := server.New(runner, st,
				server.WithLogger(c.Logger),
				server.WithLayoutConfig(cfg.LayoutConfig()),
				server.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
			)

			c.Logger.Info("serving",
				"addr", addr,
				"cache", cfg.Cache.Backend,
				"store", cfg.Store.Backend)
			return srv.ListenAndServe(ctx, addr, server.Timeouts{
				Read:  cfg.Server.ReadTimeout.Duration,
				Write: cfg.Server.WriteTimeout.Duration,
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: [server] addr from the config)")
	return cmd
}
