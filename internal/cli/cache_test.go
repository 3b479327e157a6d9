package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depinventory/internal/config"
	"github.com/matzehuels/depinventory/pkg/cache"
)

func TestNewCacheDisabled(t *testing.T) {
	c := newCache(config.CacheConfig{Enabled: false}, log.Default())
	if _, ok := c.(cache.NullCache); !ok {
		t.Errorf("disabled cache = %T, want NullCache", c)
	}
}

func TestNewCacheEnabled(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "parse")
	c := newCache(config.CacheConfig{Enabled: true, Dir: dir}, log.Default())
	fc, ok := c.(*cache.FileCache)
	if !ok {
		t.Fatalf("enabled cache = %T, want *FileCache", c)
	}
	if fc.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", fc.Dir(), dir)
	}
}

func TestNewCacheUnusableDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	c := newCache(config.CacheConfig{Enabled: true, Dir: filepath.Join(blocker, "cache")}, newLogger(&buf, log.InfoLevel))
	if _, ok := c.(cache.NullCache); !ok {
		t.Errorf("unusable cache dir = %T, want NullCache", c)
	}
	if !strings.Contains(buf.String(), "parse cache disabled") {
		t.Errorf("expected a warning, got %q", buf.String())
	}
}

func TestCacheCommands(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	cacheRoot := filepath.Join(dir, "cache")
	if err := os.WriteFile("depinventory.yaml", []byte("cache:\n  dir: "+cacheRoot+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	fc, err := cache.NewFileCache(cacheRoot)
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b"} {
		if err := fc.Set(context.Background(), k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	var stdout, status bytes.Buffer
	redirectOutput(t, &status)

	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	root.SetOut(&stdout)
	root.SetArgs([]string{"cache", "path"})
	if err := root.Execute(); err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(stdout.String()) != cacheRoot {
		t.Errorf("cache path = %q, want %q", stdout.String(), cacheRoot)
	}

	root = c.RootCommand()
	root.SetArgs([]string{"cache", "clear"})
	if err := root.Execute(); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(status.String(), "Cleared 2 cached entries") {
		t.Errorf("cache clear output = %q", status.String())
	}
	if _, hit, _ := fc.Get(context.Background(), "a"); hit {
		t.Error("entry survived cache clear")
	}
}
