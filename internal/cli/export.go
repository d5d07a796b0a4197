package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/stagegraph/pkg/errors"
	graphio "github.com/matzehuels/stagegraph/pkg/io"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export [graph.json]",
		Short: "Write a pipeline as JSON, Graphviz DOT, or SVG",
		Long: `Write a pipeline as JSON, Graphviz DOT, or SVG.

JSON re-encodes the pipeline in the canonical shape. DOT lays stages out
left to right with edge ids kept as comments. SVG is rendered from the DOT
source by Graphviz.

Use -o - to write to standard output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), args[0], format, output)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, dot, svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, input, format, output string) error {
	if err := errs.ValidateFormat(format); err != nil {
		return err
	}

	g, err := loadGraph(input)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case "json":
		data, err = graphio.MarshalJSON(g)
	case "dot":
		data = []byte(graphio.ToDOT(g))
	case "svg":
		spinner := newSpinnerWithContext(ctx, "Rendering SVG...")
		spinner.Start()
		data, err = graphio.RenderSVG(ctx, graphio.ToDOT(g))
		spinner.Stop()
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}

	if output == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}

	path := outputPath(input, output, "."+format)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	c.Logger.Debug("exported", "format", format, "bytes", len(data))

	printSuccess("Exported %s", format)
	printFile(path)
	return nil
}
