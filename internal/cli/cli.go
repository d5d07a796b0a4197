// Package cli implements the stagegraph command-line interface.
//
// # Commands
//
//   - validate: check a pipeline file and print the validation report
//   - layout: compute left-to-right positions and write them back
//   - export: write a pipeline as JSON, Graphviz DOT, or SVG
//   - edit: interactive terminal editor
//   - serve: HTTP editing API
//   - cache: inspect and clear the layout cache
//
// Settings come from a TOML file (--config, default
// $XDG_CONFIG_HOME/stagegraph/config.toml). --verbose switches the logger to
// debug level and logs every editor, layout, cache and HTTP event.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stagegraph/pkg/buildinfo"
	"github.com/matzehuels/stagegraph/pkg/cache"
	"github.com/matzehuels/stagegraph/pkg/config"
	"github.com/matzehuels/stagegraph/pkg/dag"
	"github.com/matzehuels/stagegraph/pkg/editor"
	errs "github.com/matzehuels/stagegraph/pkg/errors"
	graphio "github.com/matzehuels/stagegraph/pkg/io"
	"github.com/matzehuels/stagegraph/pkg/observability"
)

// appName is the application name used for directories and display.
const appName = "stagegraph"

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
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Stagegraph edits and lays out data pipeline graphs",
		Long:         `Stagegraph builds pipelines of stages connected by directed edges, validates that they form a connected acyclic graph, and lays them out left to right.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
				observability.NewLogHooks(c.Logger).Register()
			}
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.Logger.Debug("config loaded", "path", c.configPath, "cache", cfg.Cache.Backend)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+config.DefaultPath()+")")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.validateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Controller Factory
// =============================================================================

// newController creates an editor controller seeded with g and configured
// from the loaded settings. The returned close func releases the cache.
func (c *CLI) newController(ctx context.Context, g *dag.Graph) (*editor.Controller, func() error, error) {
	store, err := cache.Open(ctx, c.cfg.CacheOptions())
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return nil, nil, errs.Wrap(errs.ErrCodeTimeout, err, "open %s cache", c.cfg.Cache.Backend)
	case errors.Is(err, cache.ErrNetwork):
		return nil, nil, errs.Wrap(errs.ErrCodeNetwork, err, "open %s cache", c.cfg.Cache.Backend)
	case err != nil:
		return nil, nil, fmt.Errorf("open cache: %w", err)
	}

	opts := []editor.Option{
		editor.WithLayoutOptions(c.cfg.LayoutOptions()),
		editor.WithValidateOptions(c.cfg.ValidateOptions()),
		editor.WithCache(store, c.cfg.CacheKeyer(), c.cfg.CacheTTL()),
		editor.WithLogger(c.Logger),
	}
	if g != nil {
		opts = append(opts, editor.WithGraph(g))
	}
	return editor.New(opts...), store.Close, nil
}

// newSession creates a controller seeded from input, or empty when input is
// "".
func (c *CLI) newSession(ctx context.Context, input string) (*editor.Controller, func() error, error) {
	var g *dag.Graph
	if input != "" {
		var err error
		if g, err = loadGraph(input); err != nil {
			return nil, nil, err
		}
	}
	return c.newController(ctx, g)
}

// loadGraph reads a pipeline file.
func loadGraph(path string) (*dag.Graph, error) {
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	g, err := graphio.ImportJSON(path)
	if err != nil {
		return nil, fmt.Errorf("load graph %s: %w", path, err)
	}
	return g, nil
}

// outputPath returns output, or input with its extension replaced by suffix.
func outputPath(input, output, suffix string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}
