package dotnet

import (
	"encoding/xml"

	"github.com/matzehuels/depinventory/pkg/manifest"
)

// PackagesConfig parses legacy packages.config files.
type PackagesConfig struct{}

type configPackage struct {
	ID      string `xml:"id,attr"`
	Version string `xml:"version,attr"`
}

func (PackagesConfig) Parse(path string, content []byte) ([]manifest.Entry, error) {
	var b manifest.Builder
	err := eachElement(content, map[string]bool{"package": true}, func(d *xml.Decoder, se xml.StartElement) error {
		var pkg configPackage
		if err := d.DecodeElement(&pkg, &se); err != nil {
			return err
		}
		b.Add(pkg.ID, pkg.Version, sourceNuget, "")
		return nil
	})
	if err != nil {
		return nil, manifest.NewParseError(path, "packages.config", err)
	}
	return b.Result(path, "packages.config")
}
