package manifest

import (
	"fmt"
	"path"

	"github.com/matzehuels/depinventory/pkg/errors"
)

// Parser turns the raw content of one manifest into entries.
type Parser interface {
	// Parse extracts the declared dependencies from content. The path is only
	// used for error messages and must not be opened by the parser.
	Parse(path string, content []byte) ([]Entry, error)
}

// ParserFunc adapts a plain function to the [Parser] interface.
type ParserFunc func(path string, content []byte) ([]Entry, error)

// Parse calls f(path, content).
func (f ParserFunc) Parse(path string, content []byte) ([]Entry, error) {
	return f(path, content)
}

// ParseError reports malformed content in a single manifest.
// It unwraps to a PARSE_ERROR coded error.
type ParseError struct {
	Path   string // File being parsed
	Parser string // Parser identifier (e.g., "Gemfile")
	Err    error  // Coded cause
}

// NewParseError creates a ParseError for path with the given cause.
func NewParseError(path, parser string, cause error) *ParseError {
	return &ParseError{
		Path:   path,
		Parser: parser,
		Err:    errors.Wrap(errors.ErrCodeParse, cause, "malformed %s", parser),
	}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, errors.UserMessage(e.Err))
}

// Unwrap returns the coded cause.
func (e *ParseError) Unwrap() error { return e.Err }

// PartialError lists declarations a parser skipped while keeping the rest
// of the file. A parser returns it together with the entries it extracted.
type PartialError struct {
	Path    string  // File being parsed
	Parser  string  // Parser identifier
	Skipped []error // One coded error per skipped declaration
}

// Error implements the error interface.
func (e *PartialError) Error() string {
	return fmt.Sprintf("%s: skipped %d declaration(s), first: %s", e.Path, len(e.Skipped), errors.UserMessage(e.Skipped[0]))
}

// Unwrap returns the skipped declarations.
func (e *PartialError) Unwrap() []error { return e.Skipped }

// LicenseSource resolves the license of an installed package from local
// state next to the manifest, such as a package cache or node_modules.
// It returns "" when the license is unknown.
//
// License sources run after parsing, so their results are never stored in
// the parse cache.
type LicenseSource interface {
	License(dir string, e Entry) string
}

// Registration binds a base-name pattern to a parser.
type Registration struct {
	ID       string // Parser identifier, also used as cache namespace
	Pattern  string // path.Match pattern applied to the base name
	Parser   Parser
	Licenses LicenseSource // Optional license lookup for unlicensed entries
}

// Registry is the manifest locator: an ordered table of patterns.
// The first registration whose pattern matches a base name wins.
//
// A Registry is not safe for concurrent registration, but Lookup may be
// called concurrently once the table is built.
type Registry struct {
	regs []Registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a pattern for parser id. It panics if the pattern is
// malformed, since registrations are static program configuration.
func (r *Registry) Register(id, pattern string, p Parser) {
	r.Add(Registration{ID: id, Pattern: pattern, Parser: p})
}

// Add appends a complete registration. It panics like [Registry.Register].
func (r *Registry) Add(reg Registration) {
	if err := errors.ValidateManifestPattern(reg.Pattern); err != nil {
		panic(err)
	}
	if _, err := path.Match(reg.Pattern, ""); err != nil {
		panic(fmt.Sprintf("manifest: bad pattern %q: %v", reg.Pattern, err))
	}
	if reg.Parser == nil {
		panic(fmt.Sprintf("manifest: nil parser for %q", reg.ID))
	}
	r.regs = append(r.regs, reg)
}

// Lookup returns the registration responsible for the base name.
func (r *Registry) Lookup(name string) (Registration, bool) {
	name = path.Base(name)
	for _, reg := range r.regs {
		if ok, _ := path.Match(reg.Pattern, name); ok {
			return reg, true
		}
	}
	return Registration{}, false
}

// Registrations returns a copy of the table in lookup order.
func (r *Registry) Registrations() []Registration {
	return append([]Registration(nil), r.regs...)
}

// Len returns the number of registered patterns.
func (r *Registry) Len() int { return len(r.regs) }

// Ecosystem groups the manifests of one packaging ecosystem.
type Ecosystem struct {
	Name      string         // Ecosystem name (e.g., "ruby")
	Manifests []Registration // Patterns in lookup order
}

// RegisterEcosystem registers every manifest of e in order.
func (r *Registry) RegisterEcosystem(e *Ecosystem) {
	for _, m := range e.Manifests {
		r.Add(m)
	}
}
