package manifest

import (
	stderrors "errors"
	"testing"

	"github.com/matzehuels/depinventory/pkg/errors"
)

func nopParser(id string) Parser {
	return ParserFunc(func(path string, content []byte) ([]Entry, error) {
		e, err := NewEntry(id, "", "test", "")
		return []Entry{e}, err
	})
}

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry()
	reg.Register("Gemfile", "Gemfile", nopParser("Gemfile"))
	reg.Register("Gemfile.lock", "Gemfile.lock", nopParser("Gemfile.lock"))
	reg.Register("requirements.txt", "requirements*.txt", nopParser("requirements"))
	reg.Register("csproj", "*.csproj", nopParser("csproj"))
	reg.Register("catch-all", "*.txt", nopParser("txt"))

	tests := []struct {
		filename string
		wantID   string
		wantOK   bool
	}{
		{"Gemfile", "Gemfile", true},
		{"Gemfile.lock", "Gemfile.lock", true},
		{"gemfile", "", false},
		{"requirements.txt", "requirements.txt", true},
		{"requirements-dev.txt", "requirements.txt", true},
		{"notes.txt", "catch-all", true},
		{"App.csproj", "csproj", true},
		{"sub/dir/App.csproj", "csproj", true},
		{"package.json", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			reg, ok := reg.Lookup(tt.filename)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.filename, ok, tt.wantOK)
			}
			if reg.ID != tt.wantID {
				t.Errorf("Lookup(%q) = %q, want %q", tt.filename, reg.ID, tt.wantID)
			}
		})
	}
}

func TestRegistryFirstMatchWins(t *testing.T) {
	reg := NewRegistry()
	reg.Register("first", "*.txt", nopParser("first"))
	reg.Register("second", "requirements.txt", nopParser("second"))

	r, ok := reg.Lookup("requirements.txt")
	if !ok || r.ID != "first" {
		t.Errorf("Lookup = %q, want first registration", r.ID)
	}
}

func TestRegistryRegisterPanics(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		parser  Parser
	}{
		{"bad glob", "[", nopParser("x")},
		{"separator", "dir/Gemfile", nopParser("x")},
		{"nil parser", "Gemfile", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("Register did not panic")
				}
			}()
			NewRegistry().Register("x", tt.pattern, tt.parser)
		})
	}
}

func TestRegistrationsIsCopy(t *testing.T) {
	reg := NewRegistry()
	reg.Register("Gemfile", "Gemfile", nopParser("Gemfile"))

	regs := reg.Registrations()
	regs[0].ID = "changed"

	if reg.Registrations()[0].ID != "Gemfile" {
		t.Error("Registrations() exposed internal table")
	}
	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
}

func TestParseError(t *testing.T) {
	cause := stderrors.New("unexpected end of JSON input")
	err := NewParseError("web/package.json", "package.json", cause)

	if !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("ParseError should carry %s", errors.ErrCodeParse)
	}
	if !stderrors.Is(err, cause) {
		t.Error("ParseError should unwrap to its cause")
	}
	want := "web/package.json: malformed package.json: unexpected end of JSON input"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	var pe *ParseError
	if !stderrors.As(error(err), &pe) || pe.Parser != "package.json" {
		t.Error("errors.As should find *ParseError")
	}
}
