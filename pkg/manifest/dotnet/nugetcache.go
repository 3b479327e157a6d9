package dotnet

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matzehuels/depinventory/pkg/manifest"
)

// DefaultMemoSize bounds the number of memoized license lookups.
const DefaultMemoSize = 4096

// NuGetCache is a [manifest.LicenseSource] backed by NuGet global packages
// folders.
//
// A package restored by NuGet lives at
// <root>/<lower id>/<lower version>/<lower id>.nuspec. Roots are searched in
// order and the first nuspec found wins. Found licenses are memoized; misses
// are not, so a later restore is picked up. NuGetCache is safe for
// concurrent use.
type NuGetCache struct {
	roots []string
	memo  *lru.Cache[string, string]
}

// NewNuGetCache creates a license source over the given package folders.
// A non-positive memoSize uses [DefaultMemoSize].
func NewNuGetCache(roots []string, memoSize int) *NuGetCache {
	if memoSize <= 0 {
		memoSize = DefaultMemoSize
	}
	memo, err := lru.New[string, string](memoSize)
	if err != nil {
		panic(err) // only fails for non-positive sizes
	}
	return &NuGetCache{roots: roots, memo: memo}
}

// DefaultPackageFolders returns the global packages folder NuGet would use:
// $NUGET_PACKAGES when set, otherwise ~/.nuget/packages.
func DefaultPackageFolders() []string {
	if dir := os.Getenv("NUGET_PACKAGES"); dir != "" {
		return []string{dir}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(home, ".nuget", "packages")}
}

// License implements [manifest.LicenseSource]. The manifest directory is
// not used since the packages folders are global.
func (c *NuGetCache) License(_ string, e manifest.Entry) string {
	version, ok := pinnedVersion(e.Specifier())
	if !ok {
		return ""
	}
	return c.Lookup(e.Name(), version)
}

// Lookup returns the license of package id at version, or "" when the
// package is not restored. Identifiers that could escape the packages
// folder are rejected.
func (c *NuGetCache) Lookup(id, version string) string {
	id, version = strings.ToLower(id), strings.ToLower(version)
	if !safeSegment(id) || !safeSegment(version) {
		return ""
	}
	key := id + "/" + version
	if lic, ok := c.memo.Get(key); ok {
		return lic
	}

	for _, root := range c.roots {
		nuspec := filepath.Join(root, id, version, id+".nuspec")
		if lic, ok := readNuspecLicense(nuspec); ok {
			if lic != "" {
				c.memo.Add(key, lic)
			}
			return lic
		}
	}
	return ""
}

// safeSegment reports whether s can be used as a single path element.
func safeSegment(s string) bool {
	return s != "" && s != "." && !strings.Contains(s, "..") && !strings.ContainsAny(s, `/\:`)
}

// readNuspecLicense reports false when the nuspec is missing or unreadable.
func readNuspecLicense(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	var meta nuspecMetadata
	d := xml.NewDecoder(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	d.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) { return input, nil }
	if err := d.Decode(&meta); err != nil {
		return "", false
	}
	return meta.license(), true
}
