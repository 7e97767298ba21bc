// Package cli implements the neuroc command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/viant/afs"

	"github.com/matzehuels/neuroc/pkg/buildinfo"
	"github.com/matzehuels/neuroc/pkg/cache"
	"github.com/matzehuels/neuroc/pkg/pipeline"
	"github.com/matzehuels/neuroc/pkg/report"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "neuroc"

	// envRedisAddr and envMongoURI provide defaults for --redis-addr and
	// --mongo-uri.
	envRedisAddr = "NEUROC_REDIS_ADDR"
	envMongoURI  = "NEUROC_MONGO_URI"
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

	// Global flags.
	noCache   bool
	redisAddr string
	mongoURI  string
	report    string
	workers   int
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "neuroc builds new neuron morphologies from existing ones",
		Long: `neuroc transforms neuron morphologies in bulk: it shrinks axons by cutting and
grafting them at chosen heights, generates jittered clones, scales cells by a
constant, and rescales rat cells to the dimensions of human cells.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the result cache")
	flags.StringVar(&c.redisAddr, "redis-addr", os.Getenv(envRedisAddr), "cache results in Redis at this address instead of on disk")
	flags.StringVar(&c.mongoURI, "mongo-uri", os.Getenv(envMongoURI), "store batch summaries in MongoDB")
	flags.StringVar(&c.report, "report", "", "append batch summaries to this CSV file")
	flags.IntVarP(&c.workers, "workers", "j", 0, "concurrent items (default: number of CPUs)")

	// Register all subcommands
	root.AddCommand(c.shrinkCommand())
	root.AddCommand(c.cloneCommand())
	root.AddCommand(c.scaleCommand())
	root.AddCommand(c.ratToHumanCommand())
	root.AddCommand(c.topologyCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner from the global flags. The caller
// closes it.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	fs := afs.New()
	cc, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(fs, cc, nil, c.Logger)
	runner.Workers = c.workers

	if c.report != "" {
		runner.Sinks = append(runner.Sinks, report.NewCSVSink(fs, c.report))
	}
	if c.mongoURI != "" {
		sink, err := report.NewMongoSink(ctx, report.MongoConfig{URI: c.mongoURI})
		if err != nil {
			_ = runner.Close(ctx)
			return nil, err
		}
		runner.Sinks = append(runner.Sinks, sink)
	}
	return runner, nil
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	switch {
	case c.noCache:
		return cache.NewNullCache(), nil
	case c.redisAddr != "":
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: c.redisAddr, Prefix: appName + ":"})
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/neuroc/).
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

// =============================================================================
// Argument Helpers
// =============================================================================

// absPath resolves a local path so afs treats it as a file URL. URLs with a
// scheme are returned unchanged.
func absPath(p string) (string, error) {
	if hasScheme(p) {
		return p, nil
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", p, err)
	}
	return abs, nil
}

func hasScheme(p string) bool {
	for i, r := range p {
		switch {
		case r == ':':
			return i > 1 && len(p) > i+2 && p[i+1:i+3] == "//"
		case r == '/' || r == '\\':
			return false
		}
	}
	return false
}

// absPaths applies absPath to every element of args.
func absPaths(args []string) ([]string, error) {
	out := make([]string, len(args))
	for i, a := range args {
		p, err := absPath(a)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}
