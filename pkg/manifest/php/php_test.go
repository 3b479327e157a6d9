package php

import (
	"testing"

	"github.com/matzehuels/depinventory/pkg/errors"
)

func TestComposerJSON_Parse(t *testing.T) {
	content := `{
  "name": "acme/app",
  "license": "proprietary",
  "require": {
    "php": ">=8.1",
    "ext-json": "*",
    "symfony/console": "^6.3",
    "guzzlehttp/guzzle": "^7.0"
  },
  "require-dev": {
    "phpunit/phpunit": "^10.0",
    "composer-runtime-api": "^2.0"
  }
}`

	got, err := ComposerJSON{}.Parse("composer.json", []byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []struct{ name, spec string }{
		{"symfony/console", "^6.3"},
		{"guzzlehttp/guzzle", "^7.0"},
		{"phpunit/phpunit", "^10.0"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d: %v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Name() != w.name || got[i].Specifier() != w.spec || got[i].Source() != "composer" {
			t.Errorf("entry %d = %v, want composer:%s@%s", i, got[i], w.name, w.spec)
		}
		if got[i].License() != "" {
			t.Errorf("entry %d license = %q, want empty", i, got[i].License())
		}
	}
}

func TestComposerLock_Parse(t *testing.T) {
	content := `{
  "content-hash": "abc",
  "packages": [
    {"name": "monolog/monolog", "version": "3.4.0", "license": ["MIT"]},
    {"name": "psr/log", "version": "3.0.0", "license": "MIT"},
    {"name": "acme/dual", "version": "1.0.0", "license": ["GPL-2.0-only", "MIT"]}
  ],
  "packages-dev": [
    {"name": "phpunit/phpunit", "version": "10.3.2", "license": ["BSD-3-Clause"]},
    {"name": "acme/unlicensed", "version": "0.1.0"}
  ]
}`

	got, err := ComposerLock{}.Parse("composer.lock", []byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []struct{ name, spec, license string }{
		{"monolog/monolog", "3.4.0", "MIT"},
		{"psr/log", "3.0.0", "MIT"},
		{"acme/dual", "1.0.0", "GPL-2.0-only"},
		{"phpunit/phpunit", "10.3.2", "BSD-3-Clause"},
		{"acme/unlicensed", "0.1.0", ""},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d: %v", len(got), len(want), got)
	}
	for i, w := range want {
		e := got[i]
		if e.Name() != w.name || e.Specifier() != w.spec || e.License() != w.license || e.Source() != "composer" {
			t.Errorf("entry %d = {%q %q %q %q}, want {%q %q composer %q}", i,
				e.Name(), e.Specifier(), e.Source(), e.License(), w.name, w.spec, w.license)
		}
	}
}

func TestComposer_Malformed(t *testing.T) {
	if _, err := (ComposerJSON{}).Parse("composer.json", []byte(`{"require": [}`)); !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("composer.json error = %v, want PARSE_ERROR", err)
	}
	if _, err := (ComposerLock{}).Parse("composer.lock", []byte(`{"packages": {}}`)); !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("composer.lock error = %v, want PARSE_ERROR", err)
	}
}

func TestIsPlatform(t *testing.T) {
	for name, want := range map[string]bool{
		"php":                 true,
		"ext-mbstring":        true,
		"lib-openssl":         true,
		"composer-plugin-api": true,
		"symfony/yaml":        false,
		"phpstan/phpstan":     false,
	} {
		if got := isPlatform(name); got != want {
			t.Errorf("isPlatform(%q) = %v, want %v", name, got, want)
		}
	}
}
