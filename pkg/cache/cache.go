// Package cache stores parsed manifests between runs.
//
// Parsing is a pure function of (parser, content), so results are keyed by
// the parser identifier and a SHA-256 of the file content. An unchanged
// manifest is never parsed twice, and any edit produces a new key. Licenses
// read from installed packages are not part of the parse and are not cached.
//
// Cache failures are never fatal: callers treat errors as misses.
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// DefaultTTL is how long a parse result stays valid.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the data stored under key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// ParseKey returns the key for the result of parser on content.
	ParseKey(parser string, content []byte) string
}

// DefaultKeyer produces keys of the form parse:<parser>:<sha256>.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ParseKey implements [Keyer].
func (DefaultKeyer) ParseKey(parser string, content []byte) string {
	return "parse:" + parser + ":" + Hash(content)
}

// DefaultDir returns the cache directory for appName following the XDG
// convention: $XDG_CACHE_HOME/<app>, or ~/.cache/<app>.
func DefaultDir(appName string) (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
