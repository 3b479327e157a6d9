// Package ecosystems assembles the default manifest locator.
//
// The walker only depends on [manifest.Registry]; supporting a new
// ecosystem means adding its [manifest.Ecosystem] here.
package ecosystems

import (
	"github.com/matzehuels/depinventory/pkg/manifest"
	"github.com/matzehuels/depinventory/pkg/manifest/docker"
	"github.com/matzehuels/depinventory/pkg/manifest/dotnet"
	"github.com/matzehuels/depinventory/pkg/manifest/golang"
	"github.com/matzehuels/depinventory/pkg/manifest/java"
	"github.com/matzehuels/depinventory/pkg/manifest/javascript"
	"github.com/matzehuels/depinventory/pkg/manifest/php"
	"github.com/matzehuels/depinventory/pkg/manifest/python"
	"github.com/matzehuels/depinventory/pkg/manifest/ruby"
	"github.com/matzehuels/depinventory/pkg/manifest/rust"
)

// Options configures the default registry.
type Options struct {
	// NuGetPackages lists NuGet global packages folders used for license
	// lookup. Nil uses [dotnet.DefaultPackageFolders]; an empty non-nil
	// slice disables the lookup.
	NuGetPackages []string
}

// All returns the supported ecosystems in lookup order.
func All(opts Options) []*manifest.Ecosystem {
	roots := opts.NuGetPackages
	if roots == nil {
		roots = dotnet.DefaultPackageFolders()
	}
	var nuget manifest.LicenseSource
	if len(roots) > 0 {
		nuget = dotnet.NewNuGetCache(roots, 0)
	}

	return []*manifest.Ecosystem{
		javascript.NewEcosystem(javascript.NewNodeModules(0)),
		ruby.Ecosystem,
		python.Ecosystem,
		php.Ecosystem,
		dotnet.NewEcosystem(nuget),
		docker.Ecosystem,
		golang.Ecosystem,
		rust.Ecosystem,
		java.Ecosystem,
	}
}

// Default builds the production manifest locator.
func Default(opts Options) *manifest.Registry {
	r := manifest.NewRegistry()
	for _, e := range All(opts) {
		r.RegisterEcosystem(e)
	}
	return r
}
