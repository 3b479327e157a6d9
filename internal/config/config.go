// Package config loads CLI configuration from a YAML file, a .env file and
// the environment.
//
// Precedence, lowest first: built-in defaults, the YAML file, environment
// variables (including those loaded from .env), command-line flags. Flags
// are applied by the caller.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/depinventory/pkg/cache"
	"github.com/matzehuels/depinventory/pkg/errors"
)

// Environment variables read by [Config.ApplyEnv].
const (
	EnvOutputDir = "DEPINVENTORY_OUTPUT_DIR"
	EnvWorkers   = "DEPINVENTORY_WORKERS"
	EnvNoCache   = "DEPINVENTORY_NO_CACHE"
	EnvNuGet     = "NUGET_PACKAGES"
)

// DefaultFiles are searched in the working directory when no config file
// is given explicitly.
var DefaultFiles = []string{"depinventory.yaml", "depinventory.yml", ".depinventory.yaml"}

// Config holds scan settings.
type Config struct {
	OutputDir     string      `yaml:"output_dir"`
	OutputFile    string      `yaml:"output_file"`
	Workers       int         `yaml:"workers"`
	SkipDirs      []string    `yaml:"skip_dirs"`
	NuGetPackages []string    `yaml:"nuget_packages"`
	MaxFileSize   int64       `yaml:"max_file_size"`
	Cache         CacheConfig `yaml:"cache"`

	// Upload is read for the owning process, which may publish the
	// artifact after a scan. The scanner itself never uploads.
	Upload bool `yaml:"upload"`
}

// CacheConfig controls the parse cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"`
	TTL     time.Duration `yaml:"ttl"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		OutputDir:  ".",
		OutputFile: "dependencies.json",
		Workers:    runtime.NumCPU(),
		Cache: CacheConfig{
			Enabled: true,
			TTL:     cache.DefaultTTL,
		},
	}
}

// Load builds a configuration from defaults, the YAML file at path and the
// environment. An empty path searches [DefaultFiles] and silently skips
// them when absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = findDefault()
	} else if _, err := os.Stat(path); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config file %s", path)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
		}
		if err := cfg.Decode(bytes.NewReader(data)); err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func findDefault() string {
	for _, name := range DefaultFiles {
		if info, err := os.Stat(name); err == nil && info.Mode().IsRegular() {
			return name
		}
	}
	return ""
}

// Decode merges YAML from r into c. Unknown keys are rejected.
func (c *Config) Decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// LoadDotEnv loads variables from a .env file without overriding the
// existing environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", path)
	}
	return nil
}

// ApplyEnv overrides c with environment variables looked up through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := strings.TrimSpace(getenv(EnvOutputDir)); v != "" {
		c.OutputDir = v
	}
	if v := strings.TrimSpace(getenv(EnvWorkers)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", EnvWorkers)
		}
		c.Workers = n
	}
	if v := strings.TrimSpace(getenv(EnvNoCache)); v != "" {
		off, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", EnvNoCache)
		}
		c.Cache.Enabled = !off
	}
	if v := strings.TrimSpace(getenv(EnvNuGet)); v != "" {
		c.NuGetPackages = filepath.SplitList(v)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Workers < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "workers must not be negative, got %d", c.Workers)
	case c.MaxFileSize < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "max_file_size must not be negative, got %d", c.MaxFileSize)
	case c.Cache.TTL < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative, got %s", c.Cache.TTL)
	case c.OutputFile == "":
		return errors.New(errors.ErrCodeInvalidConfig, "output_file must not be empty")
	}
	for _, d := range c.SkipDirs {
		if d == "" || strings.ContainsAny(d, `/\`) {
			return errors.New(errors.ErrCodeInvalidConfig, "skip_dirs entry %q must be a plain directory name", d)
		}
	}
	return nil
}

// OutputPath returns the artifact path for the i-th scanned root. The first
// root uses OutputFile as is; later roots get a -N suffix before the
// extension.
func (c Config) OutputPath(i int) string {
	name := c.OutputFile
	if i > 0 {
		ext := filepath.Ext(name)
		name = fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), i, ext)
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.OutputDir, name)
}
