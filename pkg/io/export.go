package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/depinventory/pkg/errors"
	"github.com/matzehuels/depinventory/pkg/manifest"
)

// WriteJSON encodes entries as an indented JSON array and writes it to w.
// A nil or empty slice is written as [].
func WriteJSON(entries []manifest.Entry, w io.Writer) error {
	if entries == nil {
		entries = []manifest.Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON atomically writes entries to path and returns its absolute path.
// Missing parent directories are created. Failures are WRITE_ERROR coded.
func ExportJSON(entries []manifest.Entry, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeWrite, err, "resolve %s", path)
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeWrite, err, "create %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(abs)+".*.tmp")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeWrite, err, "create temp file in %s", dir)
	}
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := WriteJSON(entries, tmp); err != nil {
		return "", errors.Wrap(errors.ErrCodeWrite, err, "write %s", abs)
	}
	if err := tmp.Sync(); err != nil {
		return "", errors.Wrap(errors.ErrCodeWrite, err, "sync %s", abs)
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrap(errors.ErrCodeWrite, err, "close %s", abs)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeWrite, err, "chmod %s", abs)
	}
	if err := os.Rename(tmp.Name(), abs); err != nil {
		os.Remove(tmp.Name())
		committed = true
		return "", errors.Wrap(errors.ErrCodeWrite, err, "publish %s", abs)
	}
	committed = true
	return abs, nil
}
