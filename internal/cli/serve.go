package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/neuroc/pkg/api"
	"github.com/matzehuels/neuroc/pkg/cache"
)

// apiKeyPrefix scopes API cache entries apart from CLI entries.
const apiKeyPrefix = "api:v1:"

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the morphology operations over HTTP",
		Long: `Run the JSON HTTP API. Endpoints:

  GET  /healthz
  POST /v1/shrink
  POST /v1/jitter
  POST /v1/scale
  POST /v1/topology

The server shares the cache configured by --no-cache and --redis-addr.`,
		Example: `  neuroc serve --addr :8080`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close(context.Background())
			runner.Keyer = cache.NewScopedKeyer(runner.Keyer, apiKeyPrefix)

			srv := &http.Server{
				Addr:              addr,
				Handler:           api.NewServer(runner),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()
			printSuccess("Listening on %s", StyleLink.Render(addr))

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			c.Logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}
