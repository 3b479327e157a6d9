package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/depinventory/pkg/errors"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.OutputFile != "dependencies.json" || cfg.OutputDir != "." {
		t.Errorf("unexpected output defaults: %+v", cfg)
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTL <= 0 {
		t.Errorf("cache should be enabled by default: %+v", cfg.Cache)
	}
	if cfg.Workers < 1 {
		t.Errorf("Workers = %d", cfg.Workers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestDecode(t *testing.T) {
	cfg := Default()
	err := cfg.Decode(strings.NewReader(`
output_dir: out
workers: 2
skip_dirs: [third_party, build]
nuget_packages:
  - /opt/nuget
cache:
  enabled: false
  ttl: 12h
upload: true
`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if cfg.OutputDir != "out" || cfg.Workers != 2 || !cfg.Upload {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.OutputFile != "dependencies.json" {
		t.Errorf("unset keys should keep defaults, got output_file %q", cfg.OutputFile)
	}
	if !reflect.DeepEqual(cfg.SkipDirs, []string{"third_party", "build"}) {
		t.Errorf("SkipDirs = %v", cfg.SkipDirs)
	}
	if cfg.Cache.Enabled || cfg.Cache.TTL != 12*time.Hour {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
}

func TestDecode_UnknownKey(t *testing.T) {
	cfg := Default()
	if err := cfg.Decode(strings.NewReader("wokers: 3\n")); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestDecode_Empty(t *testing.T) {
	cfg := Default()
	if err := cfg.Decode(strings.NewReader("")); err != nil {
		t.Errorf("empty document: %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{
		EnvOutputDir: "/tmp/inventory",
		EnvWorkers:   "3",
		EnvNoCache:   "true",
		EnvNuGet:     "/a" + string(os.PathListSeparator) + "/b",
	}))
	if err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.OutputDir != "/tmp/inventory" || cfg.Workers != 3 || cfg.Cache.Enabled {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.NuGetPackages, []string{"/a", "/b"}) {
		t.Errorf("NuGetPackages = %v", cfg.NuGetPackages)
	}
}

func TestApplyEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"workers", map[string]string{EnvWorkers: "many"}},
		{"no cache", map[string]string{EnvNoCache: "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			if err := cfg.ApplyEnv(envMap(tt.env)); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"negative max size", func(c *Config) { c.MaxFileSize = -1 }},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }},
		{"empty output file", func(c *Config) { c.OutputFile = "" }},
		{"skip dir with slash", func(c *Config) { c.SkipDirs = []string{"a/b"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.yaml")
	if err := os.WriteFile(path, []byte("workers: 4\noutput_file: deps.json\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvWorkers, "6")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workers != 6 {
		t.Errorf("environment should override file: Workers = %d", cfg.Workers)
	}
	if cfg.OutputFile != "deps.json" {
		t.Errorf("OutputFile = %q", cfg.OutputFile)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestLoad_DefaultFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile("depinventory.yaml", []byte("output_dir: reports\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OutputDir != "reports" {
		t.Errorf("OutputDir = %q, want reports", cfg.OutputDir)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte(EnvOutputDir+"=from-dotenv\n"+EnvWorkers+"=9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvOutputDir, "")
	os.Unsetenv(EnvOutputDir)
	t.Setenv(EnvWorkers, "2")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv(EnvOutputDir); got != "from-dotenv" {
		t.Errorf("%s = %q", EnvOutputDir, got)
	}
	if got := os.Getenv(EnvWorkers); got != "2" {
		t.Errorf("existing variables must win, %s = %q", EnvWorkers, got)
	}

	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing .env: %v", err)
	}
}

func TestOutputPath(t *testing.T) {
	cfg := Default()
	cfg.OutputDir = "out"
	tests := []struct {
		i    int
		want string
	}{
		{0, filepath.Join("out", "dependencies.json")},
		{1, filepath.Join("out", "dependencies-1.json")},
		{2, filepath.Join("out", "dependencies-2.json")},
	}
	for _, tt := range tests {
		if got := cfg.OutputPath(tt.i); got != tt.want {
			t.Errorf("OutputPath(%d) = %s, want %s", tt.i, got, tt.want)
		}
	}
}
