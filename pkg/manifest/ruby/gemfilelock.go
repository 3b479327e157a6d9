package ruby

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/depinventory/pkg/manifest"
)

// GemfileLock parses Bundler lockfiles (Gemfile.lock and gems.locked).
//
// Only the resolved specs of the GEM, GIT and PATH sections are reported.
// Their nested requirement lines describe edges, not installed gems.
type GemfileLock struct{}

func (GemfileLock) Parse(path string, content []byte) ([]manifest.Entry, error) {
	var (
		b       manifest.Builder
		source  string
		inSpecs bool
		lineNo  int
	)

	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		indent := len(line) - len(strings.TrimLeft(line, " "))
		if indent == 0 {
			inSpecs = false
			switch trimmed {
			case "GEM":
				source = sourceRubygems
			case "GIT":
				source = sourceGit
			case "PATH":
				source = sourcePath
			default:
				source = ""
			}
			continue
		}
		if source == "" {
			continue
		}

		switch indent {
		case 2:
			inSpecs = trimmed == "specs:"
		case 4:
			if !inSpecs {
				continue
			}
			name, version, err := lockSpec(trimmed)
			if err != nil {
				b.Skip("line %d: %v", lineNo, err)
				continue
			}
			b.Add(name, version, source, "")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, manifest.NewParseError(path, "Gemfile.lock", err)
	}
	return b.Result(path, "Gemfile.lock")
}

// lockSpec splits `name (version)` into its parts.
func lockSpec(spec string) (name, version string, err error) {
	name, rest, found := strings.Cut(spec, " ")
	if !found {
		return name, "", nil
	}
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "(") || !strings.HasSuffix(rest, ")") {
		return "", "", fmt.Errorf("malformed spec %q", spec)
	}
	return name, strings.TrimSpace(rest[1 : len(rest)-1]), nil
}
