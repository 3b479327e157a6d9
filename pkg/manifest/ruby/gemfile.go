package ruby

import (
	"github.com/matzehuels/depinventory/pkg/manifest"
)

// Gemfile parses Bundler Gemfiles (and gems.rb).
//
// Each `gem` call yields one entry. Sources come from the call's own options
// or from an enclosing `git`, `github` or `path` block.
type Gemfile struct{}

func (Gemfile) Parse(path string, content []byte) ([]manifest.Entry, error) {
	toks, err := tokenize(string(content))
	if err != nil {
		return nil, manifest.NewParseError(path, "Gemfile", err)
	}

	var (
		b      manifest.Builder
		blocks []string // source of each open block, "" when inherited
	)
	for _, stmt := range statements(toks) {
		head := stmt[0]
		if head.kind == tokIdent && head.text == "end" {
			if len(blocks) > 0 {
				blocks = blocks[:len(blocks)-1]
			}
			continue
		}
		if opensBlock(stmt) {
			blocks = append(blocks, blockSource(head))
			continue
		}
		if head.kind != tokIdent || head.text != "gem" {
			continue
		}

		c := parseCall(stmt[1:])
		name, ok := c.name()
		if !ok {
			continue
		}
		b.Add(name, c.constraints(), gemSource(c, blocks), "")
	}
	return b.Result(path, "Gemfile")
}

// opensBlock reports whether the statement starts a do...end block or a
// conditional that is closed by a later `end`.
func opensBlock(stmt []token) bool {
	if last := stmt[len(stmt)-1]; last.kind == tokIdent && last.text == "end" {
		return false
	}
	if stmt[0].kind == tokIdent {
		switch stmt[0].text {
		case "if", "unless", "case", "while", "until", "begin", "def", "class", "module":
			return true
		}
	}
	for _, t := range stmt {
		if t.kind == tokIdent && t.text == "do" {
			return true
		}
	}
	return false
}

func blockSource(head token) string {
	if head.kind != tokIdent {
		return ""
	}
	switch head.text {
	case "git", "github", "gitlab", "bitbucket":
		return sourceGit
	case "path":
		return sourcePath
	}
	return ""
}

func gemSource(c call, blocks []string) string {
	if _, ok := c.option("git", "github", "gitlab", "bitbucket"); ok {
		return sourceGit
	}
	if _, ok := c.option("path"); ok {
		return sourcePath
	}
	for i := len(blocks) - 1; i >= 0; i-- {
		if blocks[i] != "" {
			return blocks[i]
		}
	}
	return sourceRubygems
}
