package python

import (
	"github.com/BurntSushi/toml"

	"github.com/matzehuels/depinventory/pkg/manifest"
)

// Pipfile parses Pipenv Pipfiles.
type Pipfile struct{}

type pipfile struct {
	Packages    map[string]any `toml:"packages"`
	DevPackages map[string]any `toml:"dev-packages"`
}

func (Pipfile) Parse(path string, content []byte) ([]manifest.Entry, error) {
	var f pipfile
	if err := toml.Unmarshal(content, &f); err != nil {
		return nil, manifest.NewParseError(path, "Pipfile", err)
	}

	var b manifest.Builder
	addTable(&b, f.Packages)
	addTable(&b, f.DevPackages)
	return b.Result(path, "Pipfile")
}
