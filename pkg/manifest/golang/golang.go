// Package golang extracts module requirements from go.mod files.
package golang

import (
	"golang.org/x/mod/modfile"

	"github.com/matzehuels/depinventory/pkg/manifest"
)

const sourceGo = "go"

// Ecosystem describes the Go module manifests.
var Ecosystem = &manifest.Ecosystem{
	Name: "go",
	Manifests: []manifest.Registration{
		{ID: "go.mod", Pattern: "go.mod", Parser: GoMod{}},
	},
}

// GoMod parses go.mod files. Every require directive is reported in file
// order, indirect ones included. A replace directive that points at another
// module version overrides the specifier; replacements with a local
// directory keep the required version.
type GoMod struct{}

func (GoMod) Parse(path string, content []byte) ([]manifest.Entry, error) {
	mod, err := modfile.Parse(path, content, nil)
	if err != nil {
		return nil, manifest.NewParseError(path, "go.mod", err)
	}

	replaced := make(map[string]string, len(mod.Replace))
	for _, r := range mod.Replace {
		if r.New.Version == "" {
			continue
		}
		replaced[r.Old.Path+"@"+r.Old.Version] = r.New.Version
		if r.Old.Version == "" {
			replaced[r.Old.Path] = r.New.Version
		}
	}

	var b manifest.Builder
	for _, req := range mod.Require {
		version := req.Mod.Version
		if v, ok := replaced[req.Mod.Path+"@"+version]; ok {
			version = v
		} else if v, ok := replaced[req.Mod.Path]; ok {
			version = v
		}
		b.Add(req.Mod.Path, version, sourceGo, "")
	}
	return b.Result(path, "go.mod")
}
