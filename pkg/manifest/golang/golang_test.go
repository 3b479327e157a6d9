package golang

import (
	"testing"

	"github.com/matzehuels/depinventory/pkg/errors"
)

func TestGoMod_Parse(t *testing.T) {
	content := `module example.com/app

go 1.22

require (
	github.com/spf13/cobra v1.8.0
	golang.org/x/mod v0.14.0 // indirect
	example.com/forked v1.0.0
	example.com/local v0.1.0
)

require gopkg.in/yaml.v3 v3.0.1

replace example.com/forked => example.com/fork v1.0.1-patched

replace example.com/local => ../local
`

	got, err := GoMod{}.Parse("go.mod", []byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []struct{ name, spec string }{
		{"github.com/spf13/cobra", "v1.8.0"},
		{"golang.org/x/mod", "v0.14.0"},
		{"example.com/forked", "v1.0.1-patched"},
		{"example.com/local", "v0.1.0"},
		{"gopkg.in/yaml.v3", "v3.0.1"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d: %v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Name() != w.name || got[i].Specifier() != w.spec || got[i].Source() != "go" {
			t.Errorf("entry %d = %v, want go:%s@%s", i, got[i], w.name, w.spec)
		}
	}
}

func TestGoMod_Malformed(t *testing.T) {
	_, err := GoMod{}.Parse("go.mod", []byte("module x\nrequire (\n\tgithub.com/a\n"))
	if !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("error = %v, want PARSE_ERROR", err)
	}
}
