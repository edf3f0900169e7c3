// Package cli implements the pathforge command-line interface.
//
// This package provides commands for building conversation pathways from
// content items, validating and rendering pathway documents, submitting them
// to the hosting API, and running the HTTP service. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - build: Construct a pathway from a content items file
//   - validate: Run the validation passes over a pathway document
//   - render: Generate DOT, SVG, or PNG visualizations
//   - submit: Create or update a pathway on the hosting API
//   - hosted: Browse pathways stored on the hosting API
//   - serve: Run the HTTP build service
//   - cache: Manage the local result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pathforge/pathforge/pkg/buildinfo"
	"github.com/pathforge/pathforge/pkg/cache"
	"github.com/pathforge/pathforge/pkg/naming"
	"github.com/pathforge/pathforge/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "pathforge"

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
	config     *Config
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
		Use:          "pathforge",
		Short:        "Pathforge builds voice-agent conversation pathways",
		Long:         `Pathforge transforms raw content items into structured conversation pathways: it names nodes, lays them out on a canvas, derives transitions, and validates the result.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/pathforge/config.toml)")

	// Register all subcommands
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.submitCommand())
	root.AddCommand(c.hostedCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig loads and memoizes the TOML config file.
func (c *CLI) loadConfig() *Config {
	if c.config != nil {
		return c.config
	}
	cfg, err := LoadConfig(c.configPath)
	if err != nil {
		c.Logger.Warn("failed to load config, using defaults", "error", err)
		cfg = DefaultConfig()
	}
	c.config = cfg
	return cfg
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// newCache selects the cache backend from config: "file" (default), "redis",
// or "none". Backend failures degrade to a null cache with a warning so a
// broken Redis never blocks a build.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}

	cfg := c.loadConfig()
	switch cfg.Cache.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		store, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		return store, nil
	default:
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// newNamer builds the LLM namer from config, wrapped with the runner's cache
// so repeat builds reuse labels. A missing API key degrades to fallback
// naming with a warning; the build still succeeds.
func (c *CLI) newNamer(runner *pipeline.Runner) naming.Namer {
	cfg := c.loadConfig()
	token := os.Getenv("OPENAI_API_KEY")
	if token == "" {
		c.Logger.Warn("OPENAI_API_KEY not set, node names fall back to " + naming.Fallback)
		return nil
	}

	model, err := naming.NewOpenAI(cfg.Naming.Model, token)
	if err != nil {
		c.Logger.Warn("LLM namer unavailable, using fallback names", "error", err)
		return nil
	}
	namer, err := naming.NewLLMNamer(model, naming.LLMOptions{
		Model:  cfg.Naming.Model,
		Logger: c.Logger,
	})
	if err != nil {
		c.Logger.Warn("LLM namer unavailable, using fallback names", "error", err)
		return nil
	}
	return naming.NewCachedNamer(namer, namer.Model(), runner.Cache, runner.Keyer)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/pathforge/).
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
