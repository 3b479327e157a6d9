package ruby

import "github.com/matzehuels/depinventory/pkg/manifest"

const (
	sourceRubygems = "rubygems"
	sourceGit      = "git"
	sourcePath     = "path"
)

// Ecosystem describes the RubyGems manifests.
var Ecosystem = &manifest.Ecosystem{
	Name: "ruby",
	Manifests: []manifest.Registration{
		{ID: "Gemfile", Pattern: "Gemfile", Parser: Gemfile{}},
		{ID: "Gemfile", Pattern: "gems.rb", Parser: Gemfile{}},
		{ID: "Gemfile.lock", Pattern: "Gemfile.lock", Parser: GemfileLock{}},
		{ID: "Gemfile.lock", Pattern: "gems.locked", Parser: GemfileLock{}},
		{ID: "gemspec", Pattern: "*.gemspec", Parser: Gemspec{}},
	},
}
