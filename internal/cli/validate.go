package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stagegraph/pkg/dag/validate"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [graph.json]",
		Short: "Check that a pipeline is a connected acyclic graph",
		Long: `Check that a pipeline is a connected acyclic graph.

Prints every error and warning. Exits non-zero when the pipeline has
errors; warnings alone do not fail.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runValidate(ctx context.Context, input string) error {
	g, err := loadGraph(input)
	if err != nil {
		return err
	}

	r := validate.ValidateWithOptions(g, c.cfg.ValidateOptions())
	c.Logger.Debug("validated", "path", input, "valid", r.IsValid, "errors", len(r.Errors), "warnings", len(r.Warnings))

	printReport(r)
	printStats(g.NodeCount(), g.EdgeCount(), 0)
	if !r.IsValid {
		return fmt.Errorf("%s: %d validation error(s)", input, len(r.Errors))
	}
	return nil
}
