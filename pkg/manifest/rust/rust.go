// Package rust extracts crate dependencies from Cargo.toml.
package rust

import (
	"maps"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/depinventory/pkg/manifest"
)

const sourceCargo = "cargo"

// Ecosystem describes the Cargo manifests.
var Ecosystem = &manifest.Ecosystem{
	Name: "rust",
	Manifests: []manifest.Registration{
		{ID: "Cargo.toml", Pattern: "Cargo.toml", Parser: CargoToml{}},
	},
}

// CargoToml parses Cargo.toml files.
//
// Sections are read in the order dependencies, dev-dependencies,
// build-dependencies, workspace.dependencies, then target-specific tables in
// sorted target order. Crates are sorted by key within each section. A
// `package` rename reports the real crate name.
type CargoToml struct{}

type depTable map[string]any

type cargoFile struct {
	Dependencies      depTable `toml:"dependencies"`
	DevDependencies   depTable `toml:"dev-dependencies"`
	BuildDependencies depTable `toml:"build-dependencies"`
	Workspace         struct {
		Dependencies depTable `toml:"dependencies"`
	} `toml:"workspace"`
	Target map[string]struct {
		Dependencies      depTable `toml:"dependencies"`
		DevDependencies   depTable `toml:"dev-dependencies"`
		BuildDependencies depTable `toml:"build-dependencies"`
	} `toml:"target"`
}

func (CargoToml) Parse(path string, content []byte) ([]manifest.Entry, error) {
	var cargo cargoFile
	if err := toml.Unmarshal(content, &cargo); err != nil {
		return nil, manifest.NewParseError(path, "Cargo.toml", err)
	}

	var b manifest.Builder
	add(&b, cargo.Dependencies)
	add(&b, cargo.DevDependencies)
	add(&b, cargo.BuildDependencies)
	add(&b, cargo.Workspace.Dependencies)
	for _, target := range slices.Sorted(maps.Keys(cargo.Target)) {
		t := cargo.Target[target]
		add(&b, t.Dependencies)
		add(&b, t.DevDependencies)
		add(&b, t.BuildDependencies)
	}
	return b.Result(path, "Cargo.toml")
}

func add(b *manifest.Builder, deps depTable) {
	for _, key := range slices.Sorted(maps.Keys(deps)) {
		name, spec := crate(key, deps[key])
		b.Add(name, spec, sourceCargo, "")
	}
}

// crate reads a dependency value: a version string or a table with version,
// git, path, workspace or package keys.
func crate(key string, v any) (name, spec string) {
	name = key
	switch t := v.(type) {
	case string:
		return name, t
	case map[string]any:
		if pkg, ok := t["package"].(string); ok && pkg != "" {
			name = pkg
		}
		for _, k := range []string{"version", "git", "path"} {
			if s, ok := t[k].(string); ok {
				return name, s
			}
		}
		if ws, ok := t["workspace"].(bool); ok && ws {
			return name, "workspace"
		}
	}
	return name, ""
}
