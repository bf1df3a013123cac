package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowgraph/internal/server"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
		flags   pipelineFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipeline over HTTP",
		Long: `Serve the pipeline over HTTP.

Endpoints accept a compiled closure as JSON or YAML:

  GET  /healthz
  POST /v1/dag
  POST /v1/flatten?depth=
  POST /v1/layout?depth=&direction=
  POST /v1/render?depth=&direction=&format=

Flags and config set the defaults that query parameters override. Layouts and
rendered artifacts go through the configured cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, &flags)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = c.config().Server.Addr
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			printInfo("Serving on %s", StyleHighlight.Render(addr))
			return server.New(runner, opts, c.Logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&flags.theme, "theme", "", "TOML theme file")
	flags.registerDepth(cmd)
	flags.registerDirection(cmd)

	return cmd
}
