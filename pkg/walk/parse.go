package walk

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/depinventory/pkg/errors"
	pkgio "github.com/matzehuels/depinventory/pkg/io"
	"github.com/matzehuels/depinventory/pkg/manifest"
	"github.com/matzehuels/depinventory/pkg/observability"
)

const cacheKeyType = "parse"

var utf8BOM = []byte("\xef\xbb\xbf")

type outcome struct {
	file    FileResult
	entries []manifest.Entry
}

// parsed is what a manifest yields before paths and licenses are attached.
type parsed struct {
	entries []manifest.Entry
	skipped []error
	cached  bool
}

// parseFile reads and parses one manifest. It never returns an error: a
// failure is recorded on the outcome and logged.
func (w *walker) parseFile(ctx context.Context, t target) outcome {
	start := time.Now()
	o := outcome{file: FileResult{Path: t.rel, Parser: t.reg.ID}}

	p, err := w.entries(ctx, t)
	duration := time.Since(start)
	observability.Walk().OnFileParsed(ctx, t.rel, t.reg.ID, len(p.entries), duration, err)

	if err != nil {
		o.file.Err = err
		w.logger.emit("skipped manifest", "path", t.rel, "parser", t.reg.ID, "err", err)
		return o
	}
	for _, skipErr := range p.skipped {
		w.logger.emit("skipped declaration", "path", t.rel, "parser", t.reg.ID, "err", skipErr)
	}

	entries := w.license(t, p.entries)
	o.entries = make([]manifest.Entry, len(entries))
	for i, e := range entries {
		o.entries[i] = e.WithPath(t.rel)
	}
	o.file.Entries = len(entries)
	o.file.Skipped = len(p.skipped)
	o.file.Cached = p.cached
	w.logger.emit("parsed manifest", "path", t.rel, "parser", t.reg.ID, "entries", len(entries), "cached", p.cached)
	return o
}

func (w *walker) entries(ctx context.Context, t target) (parsed, error) {
	content, err := w.read(t.abs)
	if err != nil {
		return parsed{}, err
	}

	key := w.opts.Keyer.ParseKey(t.reg.ID, content)
	if data, hit, err := w.opts.Cache.Get(ctx, key); err == nil && hit {
		if entries, err := pkgio.ReadJSON(bytes.NewReader(data)); err == nil {
			observability.Cache().OnCacheHit(ctx, cacheKeyType)
			return parsed{entries: entries, cached: true}, nil
		}
		// Undecodable entries fall through to a fresh parse.
	}
	observability.Cache().OnCacheMiss(ctx, cacheKeyType)

	entries, err := parse(t, content)
	var partial *manifest.PartialError
	switch {
	case stderrors.As(err, &partial):
		// Partial results are not cached so their skipped declarations are
		// reported on every walk.
		return parsed{entries: entries, skipped: partial.Skipped}, nil
	case err != nil && !errors.Recoverable(err):
		return parsed{}, manifest.NewParseError(t.rel, t.reg.ID, err)
	case err != nil:
		return parsed{}, err
	}

	var buf bytes.Buffer
	if err := pkgio.WriteJSON(entries, &buf); err == nil {
		if err := w.opts.Cache.Set(ctx, key, buf.Bytes(), w.opts.TTL); err == nil {
			observability.Cache().OnCacheSet(ctx, cacheKeyType, buf.Len())
		}
	}
	return parsed{entries: entries}, nil
}

// license fills in missing licenses from the registration's license source.
// It runs after the parse cache since the source reads installed packages,
// which change independently of the manifest content.
func (w *walker) license(t target, entries []manifest.Entry) []manifest.Entry {
	if t.reg.Licenses == nil {
		return entries
	}
	dir := filepath.Dir(t.abs)
	for i, e := range entries {
		if e.License() != "" {
			continue
		}
		lic := t.reg.Licenses.License(dir, e)
		if lic == "" {
			continue
		}
		if licensed, err := e.WithLicense(lic); err == nil {
			entries[i] = licensed
		}
	}
	return entries
}

// parse runs the registered parser, turning a panic into a parse error so
// one pathological file cannot stop the walk.
func parse(t target, content []byte) (entries []manifest.Entry, err error) {
	defer func() {
		if r := recover(); r != nil {
			entries = nil
			err = manifest.NewParseError(t.rel, t.reg.ID, fmt.Errorf("parser panic: %v", r))
		}
	}()
	return t.reg.Parser.Parse(t.rel, content)
}

// read returns the manifest content without a leading UTF-8 byte order mark.
func (w *walker) read(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open manifest")
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, w.opts.MaxFileSize+1))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read manifest")
	}
	if int64(len(content)) > w.opts.MaxFileSize {
		return nil, errors.New(errors.ErrCodeIO, "manifest exceeds %d bytes", w.opts.MaxFileSize)
	}
	return bytes.TrimPrefix(content, utf8BOM), nil
}
