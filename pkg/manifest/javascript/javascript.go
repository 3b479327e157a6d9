package javascript

import "github.com/matzehuels/depinventory/pkg/manifest"

const (
	sourceNpm  = "npm"
	sourceYarn = "yarn"
)

// NewEcosystem describes the Node.js manifests. licenses may be nil.
func NewEcosystem(licenses manifest.LicenseSource) *manifest.Ecosystem {
	return &manifest.Ecosystem{
		Name: "javascript",
		Manifests: []manifest.Registration{
			{ID: "package.json", Pattern: "package.json", Parser: PackageJSON{}, Licenses: licenses},
			{ID: "package-lock.json", Pattern: "package-lock.json", Parser: PackageLock{}, Licenses: licenses},
			{ID: "package-lock.json", Pattern: "npm-shrinkwrap.json", Parser: PackageLock{}, Licenses: licenses},
			{ID: "yarn.lock", Pattern: "yarn.lock", Parser: YarnLock{}, Licenses: licenses},
		},
	}
}
