package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/depinventory/pkg/errors"
	"github.com/matzehuels/depinventory/pkg/manifest"
)

func mustEntry(t *testing.T, name, spec, source, license, path string) manifest.Entry {
	t.Helper()
	e, err := manifest.NewEntry(name, spec, source, license)
	if err != nil {
		t.Fatalf("NewEntry(%q): %v", name, err)
	}
	return e.WithPath(path)
}

func TestWriteJSON(t *testing.T) {
	entries := []manifest.Entry{
		mustEntry(t, "simple-test-package", "1.0.0", "npm", "ISC", "package-lock.json"),
		mustEntry(t, "ubuntu", "trusty", "Dockerfile", "", "Dockerfile"),
	}

	var buf bytes.Buffer
	if err := WriteJSON(entries, &buf); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	want := `[
  {
    "name": "simple-test-package",
    "specifier": "1.0.0",
    "source": "npm",
    "license": "ISC",
    "path": "package-lock.json"
  },
  {
    "name": "ubuntu",
    "specifier": "trusty",
    "source": "Dockerfile",
    "path": "Dockerfile"
  }
]
`
	if buf.String() != want {
		t.Errorf("WriteJSON output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(nil, &buf); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "[]\n" {
		t.Errorf("WriteJSON(nil) = %q, want %q", got, "[]\n")
	}
}

func TestWriteJSON_NoHTMLEscaping(t *testing.T) {
	var buf bytes.Buffer
	entries := []manifest.Entry{mustEntry(t, "pkg", ">=1.0,<2", "pip", "", "")}
	if err := WriteJSON(entries, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `">=1.0,<2"`) {
		t.Errorf("specifier was escaped: %s", buf.String())
	}
}

func TestExportImportJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out", "dependencies.json")

	entries := []manifest.Entry{
		mustEntry(t, "Microsoft.Azure.Cosmos", "3.35.4", "nuget", "https://aka.ms/netcoregaeula", "App.csproj"),
		mustEntry(t, "rubocop-ast", "", "rubygems", "", "Gemfile"),
	}

	abs, err := ExportJSON(entries, path)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}
	if !filepath.IsAbs(abs) {
		t.Errorf("ExportJSON returned relative path %q", abs)
	}

	got, err := ImportJSON(abs)
	if err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}
	if len(got) != len(entries) {
		t.Fatalf("got %d entries, want %d", len(got), len(entries))
	}
	for i := range entries {
		if got[i] != entries[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], entries[i])
		}
	}

	files, err := os.ReadDir(filepath.Dir(abs))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Errorf("expected only the artifact in the output dir, found %d files", len(files))
	}
}

func TestExportJSON_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deps.json")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ExportJSON(nil, path); err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]\n" {
		t.Errorf("artifact = %q, want []", data)
	}
}

func TestExportJSON_WriteError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := ExportJSON(nil, filepath.Join(blocker, "deps.json"))
	if err == nil {
		t.Fatal("expected error when parent is a file")
	}
	if !errors.Is(err, errors.ErrCodeWrite) {
		t.Errorf("error = %v, want WRITE_ERROR", err)
	}
}

func TestReadJSON_RejectsStructuredSource(t *testing.T) {
	input := `[{"name": "aasm", "specifier": "*", "source": {"git": "x"}}]`
	if _, err := ReadJSON(strings.NewReader(input)); err == nil {
		t.Error("expected error for object source")
	}
}

func TestReadJSON_Malformed(t *testing.T) {
	if _, err := ReadJSON(strings.NewReader(`{"name": "x"}`)); err == nil {
		t.Error("expected error for non-array input")
	}
}
