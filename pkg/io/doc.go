// Package io reads and writes dependency inventories.
//
// # JSON Format
//
// An inventory is a JSON array with one object per declared dependency, in
// walk order:
//
//	[
//	  {
//	    "name": "simple-test-package",
//	    "specifier": "1.0.0",
//	    "source": "npm",
//	    "license": "ISC",
//	    "path": "web/package-lock.json"
//	  },
//	  {
//	    "name": "ubuntu",
//	    "specifier": "trusty",
//	    "source": "Dockerfile",
//	    "path": "Dockerfile"
//	  }
//	]
//
// name, specifier and source are always present and always strings.
// license and path are omitted when unknown. Entries are never deduplicated:
// a package declared in two manifests appears twice.
//
// # Export
//
// Use [ExportJSON] to publish an inventory file, or [WriteJSON] to write to
// any io.Writer:
//
//	abs, err := io.ExportJSON(entries, "out/dependencies.json")
//
// ExportJSON writes to a temporary file in the destination directory and
// renames it into place, so readers never observe a partial artifact and a
// failed run leaves any previous artifact untouched.
//
// # Import
//
// Use [ImportJSON] or [ReadJSON] to load an inventory. Every record passes
// through [manifest.NewEntry], so a record whose source is not a string is
// rejected.
package io
