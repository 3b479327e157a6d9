package dotnet

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/matzehuels/depinventory/pkg/manifest"
)

const sourceNuget = "nuget"

// NewEcosystem describes the NuGet manifests. licenses may be nil.
func NewEcosystem(licenses manifest.LicenseSource) *manifest.Ecosystem {
	return &manifest.Ecosystem{
		Name: "dotnet",
		Manifests: []manifest.Registration{
			{ID: "csproj", Pattern: "*.csproj", Parser: Project{}, Licenses: licenses},
			{ID: "csproj", Pattern: "*.fsproj", Parser: Project{}, Licenses: licenses},
			{ID: "csproj", Pattern: "*.vbproj", Parser: Project{}, Licenses: licenses},
			{ID: "packages.config", Pattern: "packages.config", Parser: PackagesConfig{}, Licenses: licenses},
			{ID: "Directory.Packages.props", Pattern: "Directory.Packages.props", Parser: Project{}, Licenses: licenses},
			{ID: "nuspec", Pattern: "*.nuspec", Parser: Nuspec{}, Licenses: licenses},
		},
	}
}

var utf8BOM = []byte("\xef\xbb\xbf")

// eachElement streams content and calls fn for every start element whose
// local name is in names, in document order.
func eachElement(content []byte, names map[string]bool, fn func(d *xml.Decoder, se xml.StartElement) error) error {
	d := xml.NewDecoder(bytes.NewReader(bytes.TrimPrefix(content, utf8BOM)))
	d.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) { return input, nil }
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		se, ok := tok.(xml.StartElement)
		if !ok || !names[se.Name.Local] {
			continue
		}
		if err := fn(d, se); err != nil {
			return err
		}
	}
}

// pinnedVersion reduces an exact-version range such as "[1.2.3]" to the
// pinned version. Floating and open ranges have no single installed
// version and report false.
func pinnedVersion(version string) (string, bool) {
	v := strings.TrimSpace(version)
	if strings.HasPrefix(v, "[") && strings.HasSuffix(v, "]") && !strings.Contains(v, ",") {
		v = strings.TrimSpace(v[1 : len(v)-1])
	}
	if v == "" || v == manifest.AnyVersion || strings.ContainsAny(v, "[](),*$") {
		return "", false
	}
	return v, true
}
