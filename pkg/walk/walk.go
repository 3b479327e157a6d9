package walk

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Jeffail/tunny"

	"github.com/matzehuels/depinventory/pkg/cache"
	"github.com/matzehuels/depinventory/pkg/errors"
	pkgio "github.com/matzehuels/depinventory/pkg/io"
	"github.com/matzehuels/depinventory/pkg/manifest"
	"github.com/matzehuels/depinventory/pkg/manifest/ecosystems"
	"github.com/matzehuels/depinventory/pkg/observability"
)

// DefaultMaxFileSize bounds how much of a single manifest is read.
const DefaultMaxFileSize int64 = 16 << 20

// DefaultSkipDirs are directory names never descended into.
var DefaultSkipDirs = []string{
	".git", ".hg", ".svn", ".bzr",
	"node_modules", "bower_components",
	"__pycache__", ".venv", "venv", ".tox", ".nox", ".mypy_cache", ".pytest_cache",
	".gradle", ".idea", ".terraform",
}

// Options configures a walk. The zero value is usable.
type Options struct {
	// Registry maps file names to parsers. Nil uses ecosystems.Default with
	// default options.
	Registry *manifest.Registry

	// Workers is the number of concurrent parsers. Values below 2 walk
	// sequentially.
	Workers int

	// SkipDirs names additional directories to skip, matched on base name.
	SkipDirs []string

	// MaxFileSize bounds each manifest read. Zero means DefaultMaxFileSize.
	MaxFileSize int64

	// Cache stores parse results. Nil disables caching.
	Cache cache.Cache

	// Keyer derives cache keys. Nil uses cache.DefaultKeyer.
	Keyer cache.Keyer

	// TTL is the lifetime of cached parse results. Zero means cache.DefaultTTL.
	TTL time.Duration
}

func (o *Options) setDefaults() {
	if o.Registry == nil {
		o.Registry = ecosystems.Default(ecosystems.Options{})
	}
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = DefaultMaxFileSize
	}
	if o.Cache == nil {
		o.Cache = cache.NewNullCache()
	}
	if o.Keyer == nil {
		o.Keyer = cache.NewDefaultKeyer()
	}
	if o.TTL == 0 {
		o.TTL = cache.DefaultTTL
	}
}

// FileResult describes one matched manifest.
type FileResult struct {
	Path    string // Slash-separated path relative to the walk root
	Parser  string // Registration ID that handled the file
	Entries int    // Number of entries contributed
	Skipped int    // Declarations skipped inside an otherwise parsed file
	Cached  bool   // Entries came from the parse cache
	Err     error  // Read or parse failure; the file contributed nothing
}

// Result is the outcome of a walk.
type Result struct {
	Entries  []manifest.Entry // All entries in traversal order
	Files    []FileResult     // Matched files in traversal order
	Failures int              // Files skipped because of Err
}

// Walk inventories root and writes the entries as a JSON array to
// outputFile. It returns the absolute path written.
//
// Per-file failures are reported through logger and never abort the walk.
// A canceled walk returns ctx.Err() and writes nothing.
func Walk(ctx context.Context, root, outputFile string, logger Logger, opts Options) (string, error) {
	res, err := Collect(ctx, root, logger, opts)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := pkgio.ExportJSON(res.Entries, outputFile)
	if err != nil {
		return "", err
	}
	logger.emit("wrote inventory", "path", path, "entries", len(res.Entries), "files", len(res.Files))
	return path, nil
}

// Collect inventories root without writing anything.
func Collect(ctx context.Context, root string, logger Logger, opts Options) (*Result, error) {
	opts.setDefaults()
	if err := errors.ValidateRoot(root); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Walk().OnWalkStart(ctx, root)

	res, err := collect(ctx, root, logger, opts)

	var files, entries int
	if res != nil {
		files, entries = len(res.Files), len(res.Entries)
	}
	observability.Walk().OnWalkComplete(ctx, root, files, entries, time.Since(start), err)
	return res, err
}

func collect(ctx context.Context, root string, logger Logger, opts Options) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "cannot access %s", root)
	}

	w := &walker{opts: opts, logger: logger, skip: skipSet(opts.SkipDirs)}
	var targets []target
	switch {
	case info.IsDir():
		targets, err = w.enumerate(ctx, root)
		if err != nil {
			return nil, err
		}
	case info.Mode().IsRegular():
		name := filepath.Base(root)
		if reg, ok := opts.Registry.Lookup(name); ok {
			targets = []target{{abs: root, rel: name, reg: reg}}
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s is neither a directory nor a regular file", root)
	}

	logger.emit("found manifests", "root", root, "files", len(targets))

	outcomes, err := w.parseAll(ctx, targets)
	if err != nil {
		return nil, err
	}

	res := &Result{Files: make([]FileResult, len(outcomes))}
	for i, o := range outcomes {
		res.Files[i] = o.file
		if o.file.Err != nil {
			res.Failures++
			continue
		}
		res.Entries = append(res.Entries, o.entries...)
	}
	return res, nil
}

func skipSet(extra []string) map[string]bool {
	set := make(map[string]bool, len(DefaultSkipDirs)+len(extra))
	for _, d := range DefaultSkipDirs {
		set[d] = true
	}
	for _, d := range extra {
		set[d] = true
	}
	return set
}

type walker struct {
	opts   Options
	logger Logger
	skip   map[string]bool
}

// parseAll parses every target and returns outcomes in target order.
func (w *walker) parseAll(ctx context.Context, targets []target) ([]outcome, error) {
	outcomes := make([]outcome, len(targets))

	if w.opts.Workers < 2 || len(targets) < 2 {
		for i, t := range targets {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			outcomes[i] = w.parseFile(ctx, t)
		}
		return outcomes, nil
	}

	pool := tunny.NewFunc(min(w.opts.Workers, len(targets)), func(payload any) any {
		job := payload.(parseJob)
		return w.parseFile(job.ctx, job.target)
	})
	defer pool.Close()

	var wg sync.WaitGroup
	for i, t := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := pool.ProcessCtx(ctx, parseJob{ctx: ctx, target: t})
			if err != nil {
				return
			}
			outcomes[i] = out.(outcome)
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

type parseJob struct {
	ctx    context.Context
	target target
}
