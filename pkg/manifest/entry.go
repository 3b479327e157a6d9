package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/depinventory/pkg/errors"
)

// AnyVersion is the specifier recorded for declarations without a constraint.
const AnyVersion = "*"

// quoteStripper removes quoting characters left over from source-text tokenization.
var quoteStripper = strings.NewReplacer(`"`, "", `'`, "", "`", "")

// Entry is one declared dependency occurrence.
//
// Entries are immutable values: fields are only set by [NewEntry] or
// [NewEntryFrom], and [Entry.WithPath] and [Entry.WithLicense] return
// modified copies.
type Entry struct {
	name      string
	specifier string
	source    string
	license   string
	path      string
}

// NewEntry creates a validated entry.
//
// Whitespace is trimmed from every field. Quote characters are removed from
// specifier and source, and an empty specifier becomes [AnyVersion]. Empty
// names or sources and control characters are rejected with an
// INVALID_ENTRY error.
func NewEntry(name, specifier, source, license string) (Entry, error) {
	name = strings.TrimSpace(name)
	specifier = strings.TrimSpace(quoteStripper.Replace(specifier))
	source = strings.TrimSpace(quoteStripper.Replace(source))
	license = strings.TrimSpace(license)

	if specifier == "" {
		specifier = AnyVersion
	}
	if err := errors.ValidatePackageName(name); err != nil {
		return Entry{}, err
	}
	if source == "" {
		return Entry{}, errors.New(errors.ErrCodeInvalidEntry, "source of %q cannot be empty", name)
	}
	for field, v := range map[string]string{"specifier": specifier, "source": source, "license": license} {
		if err := errors.ValidateField(field, v); err != nil {
			return Entry{}, err
		}
	}
	return Entry{name: name, specifier: specifier, source: source, license: license}, nil
}

// NewEntryFrom creates an entry from loosely typed manifest values, such as
// the result of decoding JSON, TOML or YAML into interface values.
//
// Non-string values are flattened with [Flatten] before validation, so a
// nested structure can never end up as a specifier, source or license.
func NewEntryFrom(name string, specifier, source, license any) (Entry, error) {
	spec, err := Flatten(specifier)
	if err != nil {
		return Entry{}, errors.Wrap(errors.ErrCodeInvalidEntry, err, "specifier of %q", name)
	}
	src, err := Flatten(source)
	if err != nil {
		return Entry{}, errors.Wrap(errors.ErrCodeInvalidEntry, err, "source of %q", name)
	}
	lic, err := Flatten(license)
	if err != nil {
		return Entry{}, errors.Wrap(errors.ErrCodeInvalidEntry, err, "license of %q", name)
	}
	return NewEntry(name, spec, src, lic)
}

// flattenKeys are consulted, in order, when flattening a mapping.
var flattenKeys = []string{"version", "type", "name", "url"}

// Flatten reduces a loosely typed value to a single string.
//
// Strings are returned unchanged, nil becomes "", numbers and booleans are
// formatted, mappings yield their first string-valued key among version,
// type, name and url, and lists yield their first element that flattens to a
// non-empty string. Any other shape is an error.
func Flatten(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool, int, int64, float64, json.Number:
		return fmt.Sprint(t), nil
	case map[string]any:
		for _, k := range flattenKeys {
			if s, ok := t[k].(string); ok {
				return s, nil
			}
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "", fmt.Errorf("cannot flatten mapping with keys %v", keys)
	case []any:
		for _, el := range t {
			if s, err := Flatten(el); err == nil && s != "" {
				return s, nil
			}
		}
		return "", nil
	case []string:
		for _, s := range t {
			if s != "" {
				return s, nil
			}
		}
		return "", nil
	default:
		return "", fmt.Errorf("cannot flatten %T", v)
	}
}

// Name returns the package or image identifier as declared.
func (e Entry) Name() string { return e.name }

// Specifier returns the verbatim version constraint or tag.
func (e Entry) Specifier() string { return e.specifier }

// Source returns the declaring ecosystem or mechanism.
func (e Entry) Source() string { return e.source }

// License returns the license identifier or URL, or "" when unknown.
func (e Entry) License() string { return e.license }

// Path returns the file the entry was discovered in, or "" when unset.
func (e Entry) Path() string { return e.path }

// WithPath returns a copy of e that records the declaring file.
func (e Entry) WithPath(path string) Entry {
	e.path = path
	return e
}

// WithLicense returns a copy of e carrying license. The license is
// validated like the other fields.
func (e Entry) WithLicense(license string) (Entry, error) {
	license = strings.TrimSpace(license)
	if err := errors.ValidateField("license", license); err != nil {
		return e, err
	}
	e.license = license
	return e, nil
}

// String returns a human-readable representation.
func (e Entry) String() string {
	return e.source + ":" + e.name + "@" + e.specifier
}

// record is the wire shape of an entry. Field order is part of the output
// format and must stay stable.
type record struct {
	Name      string `json:"name"`
	Specifier string `json:"specifier"`
	Source    string `json:"source"`
	License   string `json:"license,omitempty"`
	Path      string `json:"path,omitempty"`
}

// MarshalJSON implements json.Marshaler. Specifiers such as "<2" are
// written without HTML escaping.
func (e Entry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(record{
		Name:      e.name,
		Specifier: e.specifier,
		Source:    e.source,
		License:   e.license,
		Path:      e.path,
	})
	if err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON implements json.Unmarshaler. Decoded values pass through
// [NewEntry], so a non-string source is rejected.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidEntry, err, "decode entry")
	}
	entry, err := NewEntry(r.Name, r.Specifier, r.Source, r.License)
	if err != nil {
		return err
	}
	*e = entry.WithPath(r.Path)
	return nil
}
