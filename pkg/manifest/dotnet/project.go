package dotnet

import (
	"encoding/xml"
	"strings"

	"github.com/matzehuels/depinventory/pkg/manifest"
)

// Project parses MSBuild project files and Directory.Packages.props.
//
// Both PackageReference and PackageVersion items are reported. The version
// is taken from the Version attribute, a VersionOverride attribute or a
// nested Version element, in that order.
type Project struct{}

type packageItem struct {
	Include         string `xml:"Include,attr"`
	Update          string `xml:"Update,attr"`
	Version         string `xml:"Version,attr"`
	VersionOverride string `xml:"VersionOverride,attr"`
	VersionElem     string `xml:"Version"`
}

var projectItems = map[string]bool{"PackageReference": true, "PackageVersion": true}

func (Project) Parse(path string, content []byte) ([]manifest.Entry, error) {
	var b manifest.Builder
	err := eachElement(content, projectItems, func(d *xml.Decoder, se xml.StartElement) error {
		var item packageItem
		if err := d.DecodeElement(&item, &se); err != nil {
			return err
		}
		name := item.Include
		if name == "" {
			name = item.Update
		}
		version := firstNonEmpty(item.Version, item.VersionOverride, strings.TrimSpace(item.VersionElem))
		b.Add(name, version, sourceNuget, "")
		return nil
	})
	if err != nil {
		return nil, manifest.NewParseError(path, "csproj", err)
	}
	return b.Result(path, "csproj")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
