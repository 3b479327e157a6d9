package docker

import (
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/depinventory/pkg/manifest"
)

// Compose parses the image references of Compose services, in sorted
// service order. Services that only declare a build context are skipped,
// and images that still reference an unset variable are reported.
type Compose struct{}

type composeFile struct {
	Services map[string]composeService `yaml:"services"`
}

type composeService struct {
	Image string `yaml:"image"`
}

func (Compose) Parse(path string, content []byte) ([]manifest.Entry, error) {
	var f composeFile
	if err := yaml.Unmarshal(content, &f); err != nil {
		return nil, manifest.NewParseError(path, "docker-compose", err)
	}

	var b manifest.Builder
	for _, name := range slices.Sorted(maps.Keys(f.Services)) {
		ref := expand(f.Services[name].Image, nil)
		if ref == "" {
			continue
		}
		if strings.Contains(ref, "$") {
			b.Skip("service %s: unresolved variable in image %q", name, ref)
			continue
		}
		image, spec := splitImage(ref)
		b.Add(image, spec, sourceCompose, "")
	}
	return b.Result(path, "docker-compose")
}
