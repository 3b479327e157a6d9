package ruby

import "github.com/matzehuels/depinventory/pkg/manifest"

// Gemspec parses gem specifications for their declared dependencies.
type Gemspec struct{}

var gemspecMethods = map[string]bool{
	"add_dependency":             true,
	"add_runtime_dependency":     true,
	"add_development_dependency": true,
}

func (Gemspec) Parse(path string, content []byte) ([]manifest.Entry, error) {
	toks, err := tokenize(string(content))
	if err != nil {
		return nil, manifest.NewParseError(path, "gemspec", err)
	}

	var b manifest.Builder
	for _, stmt := range statements(toks) {
		for i := 1; i < len(stmt); i++ {
			t := stmt[i]
			if t.kind != tokIdent || !gemspecMethods[t.text] || stmt[i-1].kind != tokDot {
				continue
			}
			c := parseCall(stmt[i+1:])
			if name, ok := c.name(); ok {
				b.Add(name, c.constraints(), sourceRubygems, "")
			}
			break
		}
	}
	return b.Result(path, "gemspec")
}
