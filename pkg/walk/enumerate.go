package walk

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/matzehuels/depinventory/pkg/errors"
	"github.com/matzehuels/depinventory/pkg/manifest"
)

// target is a file matched by the registry.
type target struct {
	abs string
	rel string // slash-separated, relative to the root
	reg manifest.Registration
}

// enumerate lists the manifests under root in traversal order. An
// unreadable root is fatal; an unreadable subdirectory is logged and
// skipped.
func (w *walker) enumerate(ctx context.Context, root string) ([]target, error) {
	var out []target
	if err := w.visit(ctx, root, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (w *walker) visit(ctx context.Context, dir, rel string, out *[]target) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// os.ReadDir returns entries sorted by name.
	entries, err := os.ReadDir(dir)
	if err != nil {
		if rel == "" {
			return errors.Wrap(errors.ErrCodeIO, err, "read %s", dir)
		}
		w.logger.emit("skipped directory", "path", rel, "err", err)
		return nil
	}

	var subdirs []fs.DirEntry
	for _, e := range entries {
		switch {
		case e.IsDir():
			if !w.skip[e.Name()] {
				subdirs = append(subdirs, e)
			}
		case e.Type().IsRegular():
			w.match(dir, rel, e.Name(), out)
		case e.Type()&fs.ModeSymlink != 0:
			// Symlinked files are read; symlinked directories are not followed.
			if info, err := os.Stat(filepath.Join(dir, e.Name())); err == nil && info.Mode().IsRegular() {
				w.match(dir, rel, e.Name(), out)
			}
		}
	}

	for _, d := range subdirs {
		if err := w.visit(ctx, filepath.Join(dir, d.Name()), path.Join(rel, d.Name()), out); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) match(dir, rel, name string, out *[]target) {
	reg, ok := w.opts.Registry.Lookup(name)
	if !ok {
		return
	}
	*out = append(*out, target{
		abs: filepath.Join(dir, name),
		rel: path.Join(rel, name),
		reg: reg,
	})
}
