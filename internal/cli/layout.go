package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stagegraph/pkg/dag"
	graphio "github.com/matzehuels/stagegraph/pkg/io"
	"github.com/matzehuels/stagegraph/pkg/layout"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute left-to-right positions for a pipeline",
		Long: `Compute left-to-right positions for a pipeline.

Stages are ranked by longest path from the sources and ordered within each
rank to reduce edge crossings. Cycles and self-loops are tolerated. The
result is written as JSON with every position filled in.

Spacing is read from the [layout] section of the config file. Results are
cached according to the [cache] section.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input, output string) error {
	g, err := loadGraph(input)
	if err != nil {
		return err
	}

	ctrl, closeCache, err := c.newController(ctx, g)
	if err != nil {
		return err
	}
	defer closeCache()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()
	snap := ctrl.RunLayout(ctx)
	spinner.Stop()
	prog.done("Layout computed")

	if ctx.Err() != nil {
		return ctx.Err()
	}

	path := outputPath(input, output, ".layout.json")
	if err := graphio.ExportJSON(snap.Graph, path); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}

	printSuccess("Layout complete")
	printFile(path)
	printStats(snap.Graph.NodeCount(), snap.Graph.EdgeCount(), rankCount(snap.Graph))
	printNewline()
	printNextStep("Render", appName+" export -f svg "+path)
	return nil
}

// rankCount returns the number of ranks the layout uses.
func rankCount(g *dag.Graph) int {
	ranks := layout.Ranks(g)
	if len(ranks) == 0 {
		return 0
	}
	top := 0
	for _, r := range ranks {
		top = max(top, r)
	}
	return top + 1
}
