// Package cli implements the depinventory command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depinventory/internal/config"
	"github.com/matzehuels/depinventory/pkg/buildinfo"
	"github.com/matzehuels/depinventory/pkg/cache"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "depinventory"

	// dotEnvFile is loaded from the working directory before each command.
	dotEnvFile = ".env"
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

	configPath string
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
		Short: "Depinventory lists the dependencies a repository declares",
		Long: `Depinventory walks a source tree, finds package manifests and lockfiles
(npm, RubyGems, pip, Composer, NuGet, Docker, Go, Cargo, Maven) and writes
every declared dependency to a single JSON inventory.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return config.LoadDotEnv(dotEnvFile)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./depinventory.yaml if present)")

	// Register all subcommands
	root.AddCommand(c.scanCommand())
	root.AddCommand(c.ecosystemsCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// loadConfig reads the configuration selected by --config.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// =============================================================================
// Cache Factory
// =============================================================================

// newCache opens the parse cache described by cfg. A cache that cannot be
// opened degrades to no caching.
func newCache(cfg config.CacheConfig, logger *log.Logger) cache.Cache {
	if !cfg.Enabled {
		return cache.NewNullCache()
	}
	dir, err := cacheDir(cfg)
	if err != nil {
		logger.Warn("parse cache disabled", "err", err)
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		logger.Warn("parse cache disabled", "dir", dir, "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// cacheDir returns the configured cache directory, or the XDG default
// (~/.cache/depinventory/).
func cacheDir(cfg config.CacheConfig) (string, error) {
	if cfg.Dir != "" {
		return cfg.Dir, nil
	}
	return cache.DefaultDir(appName)
}
