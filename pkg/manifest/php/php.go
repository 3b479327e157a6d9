// Package php extracts Composer dependency declarations from composer.json
// and composer.lock.
//
// Platform requirements (php, ext-*, lib-*, composer-plugin-api and
// composer-runtime-api) describe the runtime, not packages, and are skipped.
package php

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/depinventory/pkg/manifest"
	"github.com/matzehuels/depinventory/pkg/manifest/internal/jsonutil"
)

const sourceComposer = "composer"

// Ecosystem describes the Composer manifests.
var Ecosystem = &manifest.Ecosystem{
	Name: "php",
	Manifests: []manifest.Registration{
		{ID: "composer.json", Pattern: "composer.json", Parser: ComposerJSON{}},
		{ID: "composer.lock", Pattern: "composer.lock", Parser: ComposerLock{}},
	},
}

// ComposerJSON parses composer.json: require, then require-dev.
type ComposerJSON struct{}

type composerFile struct {
	Require    jsonutil.Object `json:"require"`
	RequireDev jsonutil.Object `json:"require-dev"`
}

func (ComposerJSON) Parse(path string, content []byte) ([]manifest.Entry, error) {
	var f composerFile
	if err := json.Unmarshal(content, &f); err != nil {
		return nil, manifest.NewParseError(path, "composer.json", err)
	}

	var b manifest.Builder
	for _, section := range []jsonutil.Object{f.Require, f.RequireDev} {
		for _, m := range section {
			if isPlatform(m.Key) {
				continue
			}
			b.AddFrom(m.Key, jsonutil.Value(m.Value), sourceComposer, nil)
		}
	}
	return b.Result(path, "composer.json")
}

// ComposerLock parses composer.lock: packages, then packages-dev. The
// license field is a list in practice; its first element is reported.
type ComposerLock struct{}

type composerLock struct {
	Packages    []lockPackage `json:"packages"`
	PackagesDev []lockPackage `json:"packages-dev"`
}

type lockPackage struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	License any    `json:"license"`
}

func (ComposerLock) Parse(path string, content []byte) ([]manifest.Entry, error) {
	var lock composerLock
	if err := json.Unmarshal(content, &lock); err != nil {
		return nil, manifest.NewParseError(path, "composer.lock", err)
	}

	var b manifest.Builder
	for _, pkgs := range [][]lockPackage{lock.Packages, lock.PackagesDev} {
		for _, pkg := range pkgs {
			if isPlatform(pkg.Name) {
				continue
			}
			b.AddFrom(pkg.Name, pkg.Version, sourceComposer, pkg.License)
		}
	}
	return b.Result(path, "composer.lock")
}

func isPlatform(name string) bool {
	switch name {
	case "php", "php-64bit", "hhvm", "composer", "composer-plugin-api", "composer-runtime-api":
		return true
	}
	return strings.HasPrefix(name, "ext-") || strings.HasPrefix(name, "lib-")
}
