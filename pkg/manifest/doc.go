// Package manifest defines the normalized dependency record and the locator
// that maps manifest file names to ecosystem parsers.
//
// # Entries
//
// An [Entry] is one declared dependency occurrence:
//
//   - Name: the package or image identifier as declared
//   - Specifier: the version constraint or tag, verbatim ("*" when absent)
//   - Source: the declaring ecosystem or mechanism ("npm", "pip", "Dockerfile")
//   - License: best-effort license identifier or URL, possibly empty
//   - Path: the declaring file, relative to the walk root
//
// Entries are only created through [NewEntry] and [NewEntryFrom], which
// enforce that every field is a flat string free of stray quote characters.
//
// # Parsers
//
// Each ecosystem implements [Parser]:
//
//	type Parser interface {
//	    Parse(path string, content []byte) ([]Entry, error)
//	}
//
// Parsers are pure with respect to the file system: the walker reads the
// file and hands over its content. Malformed content is reported as a
// [*ParseError] so the caller can skip the file and keep going.
//
// # Locator
//
// A [Registry] holds an ordered list of (pattern, parser) pairs. Patterns are
// [path.Match] globs applied to the base name and the first match wins:
//
//	reg := manifest.NewRegistry()
//	reg.Register("Gemfile", "Gemfile", ruby.Gemfile{})
//	reg.Register("csproj", "*.csproj", &dotnet.Project{})
//
//	if r, ok := reg.Lookup("App.csproj"); ok {
//	    entries, err := r.Parser.Parse(path, content)
//	}
//
// The production table lives in the ecosystems subpackage.
package manifest
