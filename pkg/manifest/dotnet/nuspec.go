package dotnet

import (
	"encoding/xml"
	"strings"

	"github.com/matzehuels/depinventory/pkg/manifest"
)

// Nuspec parses the dependencies of a package specification, both flat and
// grouped by target framework.
type Nuspec struct{}

type nuspecDependency struct {
	ID      string `xml:"id,attr"`
	Version string `xml:"version,attr"`
}

func (Nuspec) Parse(path string, content []byte) ([]manifest.Entry, error) {
	var b manifest.Builder
	err := eachElement(content, map[string]bool{"dependency": true}, func(d *xml.Decoder, se xml.StartElement) error {
		var dep nuspecDependency
		if err := d.DecodeElement(&dep, &se); err != nil {
			return err
		}
		b.Add(dep.ID, dep.Version, sourceNuget, "")
		return nil
	})
	if err != nil {
		return nil, manifest.NewParseError(path, "nuspec", err)
	}
	return b.Result(path, "nuspec")
}

// nuspecMetadata is the license-related part of a nuspec.
type nuspecMetadata struct {
	Metadata struct {
		License struct {
			Type  string `xml:"type,attr"`
			Value string `xml:",chardata"`
		} `xml:"license"`
		LicenseURL string `xml:"licenseUrl"`
	} `xml:"metadata"`
}

// license returns the license expression, or the license URL when the
// package declares no expression.
func (m nuspecMetadata) license() string {
	lic := m.Metadata.License
	if v := strings.TrimSpace(lic.Value); v != "" && lic.Type != "file" {
		return v
	}
	return strings.TrimSpace(m.Metadata.LicenseURL)
}
