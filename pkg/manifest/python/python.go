package python

import (
	"maps"
	"slices"

	"github.com/matzehuels/depinventory/pkg/manifest"
)

const sourcePip = "pip"

// Ecosystem describes the Python manifests.
var Ecosystem = &manifest.Ecosystem{
	Name: "python",
	Manifests: []manifest.Registration{
		{ID: "requirements.txt", Pattern: "requirements*.txt", Parser: Requirements{}},
		{ID: "requirements.txt", Pattern: "constraints*.txt", Parser: Requirements{}},
		{ID: "pyproject.toml", Pattern: "pyproject.toml", Parser: Pyproject{}},
		{ID: "Pipfile", Pattern: "Pipfile", Parser: Pipfile{}},
		{ID: "poetry.lock", Pattern: "poetry.lock", Parser: PoetryLock{}},
	},
}

// tableSpecifier reduces a Poetry or Pipfile dependency value to a specifier.
// Values are either a constraint string or a table such as
// {version = "^1.0", extras = [...]} or {git = "https://..."}; a list of
// tables (multiple-constraint dependencies) yields its first member.
func tableSpecifier(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		for _, k := range []string{"version", "git", "path", "url", "file"} {
			if s, ok := t[k].(string); ok {
				return s
			}
		}
	case []any:
		if len(t) > 0 {
			return tableSpecifier(t[0])
		}
	case []map[string]any:
		if len(t) > 0 {
			return tableSpecifier(t[0])
		}
	}
	return ""
}

// addTable adds every dependency of a name → value table in sorted order.
func addTable(b *manifest.Builder, deps map[string]any) {
	for _, name := range slices.Sorted(maps.Keys(deps)) {
		if name == "python" {
			continue
		}
		b.Add(name, tableSpecifier(deps[name]), sourcePip, "")
	}
}
