package python

import (
	"maps"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/depinventory/pkg/manifest"
)

// Pyproject parses pyproject.toml files.
//
// PEP 621 dependencies are emitted first, followed by optional dependency
// groups in sorted order, then the Poetry tables.
type Pyproject struct{}

type pyprojectFile struct {
	Project struct {
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Dependencies    map[string]any `toml:"dependencies"`
			DevDependencies map[string]any `toml:"dev-dependencies"`
			Group           map[string]struct {
				Dependencies map[string]any `toml:"dependencies"`
			} `toml:"group"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

func (Pyproject) Parse(path string, content []byte) ([]manifest.Entry, error) {
	var f pyprojectFile
	if err := toml.Unmarshal(content, &f); err != nil {
		return nil, manifest.NewParseError(path, "pyproject.toml", err)
	}

	var b manifest.Builder
	addPEP508 := func(reqs []string) {
		for _, req := range reqs {
			if name, spec, ok := parseRequirement(req); ok {
				b.Add(name, spec, sourcePip, "")
			}
		}
	}

	addPEP508(f.Project.Dependencies)
	for _, group := range slices.Sorted(maps.Keys(f.Project.OptionalDependencies)) {
		addPEP508(f.Project.OptionalDependencies[group])
	}

	poetry := f.Tool.Poetry
	addTable(&b, poetry.Dependencies)
	addTable(&b, poetry.DevDependencies)
	for _, group := range slices.Sorted(maps.Keys(poetry.Group)) {
		addTable(&b, poetry.Group[group].Dependencies)
	}
	return b.Result(path, "pyproject.toml")
}
