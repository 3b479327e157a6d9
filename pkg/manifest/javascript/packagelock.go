package javascript

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/depinventory/pkg/manifest"
	"github.com/matzehuels/depinventory/pkg/manifest/internal/jsonutil"
)

// PackageLock parses package-lock.json and npm-shrinkwrap.json files.
//
// Lockfile v2/v3 list installed packages under "packages", keyed by their
// node_modules path. Lockfile v1 nests them under "dependencies".
type PackageLock struct{}

type lockFile struct {
	LockfileVersion int             `json:"lockfileVersion"`
	Packages        jsonutil.Object `json:"packages"`
	Dependencies    jsonutil.Object `json:"dependencies"`
}

type lockPackage struct {
	Version      string          `json:"version"`
	License      json.RawMessage `json:"license"`
	Licenses     json.RawMessage `json:"licenses"`
	Link         bool            `json:"link"`
	Dependencies jsonutil.Object `json:"dependencies"`
}

const nodeModules = "node_modules/"

func (PackageLock) Parse(path string, content []byte) ([]manifest.Entry, error) {
	var lock lockFile
	if err := json.Unmarshal(content, &lock); err != nil {
		return nil, manifest.NewParseError(path, "package-lock.json", err)
	}

	var b manifest.Builder
	if len(lock.Packages) > 0 {
		for _, m := range lock.Packages {
			idx := strings.LastIndex(m.Key, nodeModules)
			if idx < 0 {
				continue // root project or workspace member
			}
			var pkg lockPackage
			if err := json.Unmarshal(m.Value, &pkg); err != nil {
				return nil, manifest.NewParseError(path, "package-lock.json", err)
			}
			if pkg.Link {
				continue
			}
			b.AddFrom(m.Key[idx+len(nodeModules):], pkg.Version, sourceNpm, pkg.license())
		}
		return b.Result(path, "package-lock.json")
	}

	if err := addV1(&b, lock.Dependencies); err != nil {
		return nil, manifest.NewParseError(path, "package-lock.json", err)
	}
	return b.Result(path, "package-lock.json")
}

// addV1 walks the nested v1 dependency tree depth-first in document order.
func addV1(b *manifest.Builder, deps jsonutil.Object) error {
	for _, m := range deps {
		var pkg lockPackage
		if err := json.Unmarshal(m.Value, &pkg); err != nil {
			return err
		}
		b.AddFrom(m.Key, pkg.Version, sourceNpm, pkg.license())
		if err := addV1(b, pkg.Dependencies); err != nil {
			return err
		}
	}
	return nil
}

// license returns the raw license value, preferring the modern field over
// the legacy "licenses" list.
func (p lockPackage) license() any {
	if len(p.License) > 0 {
		return jsonutil.Value(p.License)
	}
	if len(p.Licenses) > 0 {
		return jsonutil.Value(p.Licenses)
	}
	return nil
}
