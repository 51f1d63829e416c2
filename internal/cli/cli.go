// Package cli implements the junction command-line interface.
//
// # Commands
//
//   - budget: connect the closest pairs until a budget is spent, print the
//     product of the three largest circuit sizes
//   - unify: connect until every box is in one circuit, print the product of
//     the X coordinates of the last pair
//   - render: draw the final circuits with Graphviz
//   - inspect: browse every connection of a run interactively
//   - cache: manage the result cache
//
// Input is read from the file argument, or from stdin when the argument is
// missing or "-". The answer is the only thing written to stdout; logs and
// status lines go to stderr.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which logs
// every connection and the final circuits.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/junction/pkg/buildinfo"
	"github.com/matzehuels/junction/pkg/cache"
	"github.com/matzehuels/junction/pkg/junction"
	"github.com/matzehuels/junction/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "junction"

	// stdinArg selects standard input explicitly.
	stdinArg = "-"
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

	// Stdin is read when no input file is given.
	Stdin io.Reader

	configPath string
	workers    int
	useCache   bool
	config     Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Stdin:  os.Stdin,
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
		Short:        "Junction connects the closest junction boxes into circuits",
		Long:         `Junction reads 3D points, joins the closest pairs into circuits, and reports either the sizes of the largest circuits after a fixed number of connections or the pair whose connection unifies all points.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(cmd); err != nil {
				return err
			}
			newLogHooks(c.Logger).register()
			c.Logger.Debug("starting", "command", cmd.CommandPath(), "build", buildinfo.String())
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/junction/config.toml)")
	flags.IntVar(&c.workers, "workers", 0, "goroutines used to compute distances (default: GOMAXPROCS)")
	flags.BoolVar(&c.useCache, "cache", false, "reuse results of identical earlier runs")

	root.AddCommand(c.budgetCommand())
	root.AddCommand(c.unifyCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Caching is only enabled
// by --cache or the config file.
func (c *CLI) newRunner() (*pipeline.Runner, error) {
	ch, err := c.newCache()
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(nil, buildinfo.Version+":")
	runner := pipeline.NewRunner(ch, keyer, c.Logger)
	runner.TTL = c.config.CacheTTL.Duration
	return runner, nil
}

func (c *CLI) newCache() (cache.Cache, error) {
	if !c.useCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// readInput loads points from args[0], or stdin when absent or "-".
func (c *CLI) readInput(args []string) (*junction.Input, string, error) {
	if len(args) == 0 || args[0] == stdinArg {
		in, err := junction.Read(c.Stdin)
		return in, "stdin", err
	}
	in, err := pipeline.LoadFile(args[0])
	return in, args[0], err
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/junction/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/junction/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
