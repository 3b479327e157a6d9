package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/depinventory/pkg/manifest"
)

// ReadJSON decodes an inventory from r.
//
// Each record is validated by [manifest.Entry.UnmarshalJSON]; the first
// invalid record aborts decoding with an error naming its index.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) ([]manifest.Entry, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	entries := make([]manifest.Entry, 0, len(raw))
	for i, rec := range raw {
		var e manifest.Entry
		if err := json.Unmarshal(rec, &e); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ImportJSON reads the inventory file at path.
func ImportJSON(path string) ([]manifest.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
