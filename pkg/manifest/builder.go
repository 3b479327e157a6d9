package manifest

import "github.com/matzehuels/depinventory/pkg/errors"

// Builder accumulates the entries of one manifest in emission order.
// Declarations rejected by [NewEntry] or reported with [Builder.Skip] are
// remembered, so one odd line never costs the rest of the file.
type Builder struct {
	entries []Entry
	skipped []error
}

// Add appends a validated entry built from string fields.
func (b *Builder) Add(name, specifier, source, license string) {
	e, err := NewEntry(name, specifier, source, license)
	if err != nil {
		b.skipped = append(b.skipped, err)
		return
	}
	b.entries = append(b.entries, e)
}

// AddFrom appends an entry built from loosely typed values.
func (b *Builder) AddFrom(name string, specifier, source, license any) {
	e, err := NewEntryFrom(name, specifier, source, license)
	if err != nil {
		b.skipped = append(b.skipped, err)
		return
	}
	b.entries = append(b.entries, e)
}

// Skip records a declaration the parser could not read.
func (b *Builder) Skip(format string, args ...any) {
	b.skipped = append(b.skipped, errors.New(errors.ErrCodeParse, format, args...))
}

// Result returns the accumulated entries. When declarations were skipped the
// error is a [*PartialError] and the entries are still valid.
func (b *Builder) Result(path, parser string) ([]Entry, error) {
	if len(b.skipped) == 0 {
		return b.entries, nil
	}
	return b.entries, &PartialError{Path: path, Parser: parser, Skipped: b.skipped}
}
