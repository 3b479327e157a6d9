// Package ruby extracts RubyGems dependency declarations.
//
// # Manifests
//
//   - Gemfile / gems.rb: gem declarations with their constraints
//   - Gemfile.lock / gems.locked: pinned specs from the GEM, GIT and PATH sections
//   - *.gemspec: add_dependency, add_runtime_dependency and add_development_dependency
//
// Ruby manifests are programs, so they are read with a small tokenizer that
// understands string literals, percent literals, symbols, hash labels,
// comments and heredocs. Quoting never leaks into entry fields and hash
// arguments never become structured values.
//
// # Sources
//
// Gems pulled from a git repository report source "git", gems loaded from a
// local directory report "path", everything else reports "rubygems".
package ruby
