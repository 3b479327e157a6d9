package javascript

import (
	"encoding/json"

	"github.com/matzehuels/depinventory/pkg/manifest"
	"github.com/matzehuels/depinventory/pkg/manifest/internal/jsonutil"
)

// PackageJSON parses package.json files.
type PackageJSON struct{}

type packageFile struct {
	Dependencies         jsonutil.Object `json:"dependencies"`
	DevDependencies      jsonutil.Object `json:"devDependencies"`
	PeerDependencies     jsonutil.Object `json:"peerDependencies"`
	OptionalDependencies jsonutil.Object `json:"optionalDependencies"`
}

func (PackageJSON) Parse(path string, content []byte) ([]manifest.Entry, error) {
	var pkg packageFile
	if err := json.Unmarshal(content, &pkg); err != nil {
		return nil, manifest.NewParseError(path, "package.json", err)
	}

	var b manifest.Builder
	for _, section := range []jsonutil.Object{
		pkg.Dependencies,
		pkg.DevDependencies,
		pkg.PeerDependencies,
		pkg.OptionalDependencies,
	} {
		for _, m := range section {
			b.AddFrom(m.Key, jsonutil.Value(m.Value), sourceNpm, nil)
		}
	}
	return b.Result(path, "package.json")
}
