// Package pkg provides the core libraries for depinventory.
//
// # Overview
//
// Depinventory turns a source tree into a flat list of the dependencies its
// manifests declare. The pkg directory is organized as follows:
//
//  1. [manifest] - The Entry record, the Parser interface and the locator registry
//  2. [manifest/ecosystems] - Per-ecosystem parsers and the default registry
//  3. [walk] - Directory traversal, per-file parsing and aggregation
//  4. [io] - JSON inventory reading and atomic writing
//  5. [cache], [observability], [errors], [buildinfo] - Supporting infrastructure
//
// # Architecture
//
// The data flow through a scan:
//
//	Directory tree
//	      ↓
//	 [walk] enumerates files (files before subdirectories, sorted)
//	      ↓
//	 [manifest.Registry] picks a parser by base name
//	      ↓
//	 [manifest.Parser] yields entries ([cache] short-circuits unchanged files)
//	      ↓
//	 [io.ExportJSON] writes the inventory once, atomically
//
// # Quick Start
//
//	import "github.com/matzehuels/depinventory/pkg/walk"
//
//	path, err := walk.Walk(ctx, "./repo", "dependencies.json", nil, walk.Options{})
//
// The result is a JSON array of {name, specifier, source, license, path}
// records, in traversal order, without deduplication.
package pkg
