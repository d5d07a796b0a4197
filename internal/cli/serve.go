package cli

import (
	"cmp"
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stagegraph/internal/server"
	"github.com/matzehuels/stagegraph/pkg/cache"
	"github.com/matzehuels/stagegraph/pkg/editor"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [graph.json]",
		Short: "Serve the editing API over HTTP",
		Long: `Serve the editing API over HTTP.

The optional file seeds the session; edits are kept in memory only. The
listen address defaults to the [server] addr setting.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runServe(cmd.Context(), input, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: [server] addr)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, input, addr string) error {
	if addr == "" {
		addr = c.cfg.Server.Addr
	}

	ctrl, closeCache, err := c.newSession(ctx, input)
	if err != nil {
		return err
	}
	defer closeCache()

	unsubscribe := ctrl.Subscribe(func(s editor.Snapshot) {
		c.Logger.Debug("graph updated", "nodes", s.Graph.NodeCount(), "edges", s.Graph.EdgeCount(), "valid", s.Report.IsValid)
	})
	defer unsubscribe()

	printInfo("Serving on http://%s", addr)
	printKeyValue("cache", cmp.Or(c.cfg.Cache.Backend, cache.BackendNone))
	if input != "" {
		printKeyValue("graph", input)
	}
	return server.New(ctrl, c.Logger).ListenAndServe(ctx, addr)
}
