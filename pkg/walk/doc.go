// Package walk produces a dependency inventory for a directory tree.
//
// The walker enumerates files depth-first in lexicographic order, asks a
// [manifest.Registry] which parser owns each file, parses it, and
// concatenates the resulting entries in traversal order. A file that cannot
// be read or parsed is logged and skipped, and a declaration a parser could
// not read is logged while the rest of its file is kept. Only failing to
// write the final artifact is fatal.
//
// # Usage
//
//	path, err := walk.Walk(ctx, "./repo", "out/dependencies.json", walk.FromCharm(logger), walk.Options{
//	    Workers: runtime.NumCPU(),
//	})
//
// [Collect] runs the same walk without writing anything, for callers that
// want the entries in memory.
//
// # Determinism
//
// Within a directory, regular files are visited before subdirectories, each
// group sorted by name. With Workers > 1 files are parsed concurrently in a
// bounded pool, but results are placed by traversal index so the output is
// byte-for-byte identical to a sequential walk.
//
// # Caching
//
// Parse results are cached by parser identifier and content hash through
// [cache.Cache]. Cache errors are treated as misses. Licenses from a
// registration's [manifest.LicenseSource] are looked up after the cache, so
// installing or restoring packages is reflected on the next walk.
package walk
