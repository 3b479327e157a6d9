package python

import (
	"github.com/BurntSushi/toml"

	"github.com/matzehuels/depinventory/pkg/manifest"
)

// PoetryLock parses poetry.lock files. Every locked package is reported with
// its pinned version, in lockfile order.
type PoetryLock struct{}

type lockFile struct {
	Packages []lockPackage `toml:"package"`
}

type lockPackage struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

func (PoetryLock) Parse(path string, content []byte) ([]manifest.Entry, error) {
	var lock lockFile
	if err := toml.Unmarshal(content, &lock); err != nil {
		return nil, manifest.NewParseError(path, "poetry.lock", err)
	}

	var b manifest.Builder
	for _, pkg := range lock.Packages {
		b.Add(pkg.Name, pkg.Version, sourcePip, "")
	}
	return b.Result(path, "poetry.lock")
}
