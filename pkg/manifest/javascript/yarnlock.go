package javascript

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/depinventory/pkg/manifest"
)

// YarnLock parses yarn.lock files in both the classic (v1) format and the
// YAML-based berry format.
type YarnLock struct{}

type yarnBlock struct {
	name    string
	version string
	line    int
}

func (YarnLock) Parse(path string, content []byte) ([]manifest.Entry, error) {
	var (
		blocks []yarnBlock
		cur    *yarnBlock
	)

	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if line[0] != ' ' {
			if !strings.HasSuffix(trimmed, ":") {
				return nil, manifest.NewParseError(path, "yarn.lock",
					fmt.Errorf("line %d: expected block header, got %q", lineNo, trimmed))
			}
			cur = nil
			name, ok := yarnHeaderName(strings.TrimSuffix(trimmed, ":"))
			if !ok {
				continue
			}
			blocks = append(blocks, yarnBlock{name: name, line: lineNo})
			cur = &blocks[len(blocks)-1]
			continue
		}

		if cur == nil || cur.version != "" || !strings.HasPrefix(line, "  ") || strings.HasPrefix(line, "   ") {
			continue
		}
		if v, ok := yarnField(trimmed, "version"); ok {
			cur.version = v
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, manifest.NewParseError(path, "yarn.lock", err)
	}

	var b manifest.Builder
	for _, blk := range blocks {
		b.Add(blk.name, blk.version, sourceYarn, "")
	}
	return b.Result(path, "yarn.lock")
}

// yarnHeaderName extracts the package name from a block header such as
// `"@babel/core@^7.0.0", "@babel/core@^7.1.0"` or `lodash@npm:^4.17.21`.
// Workspace and metadata blocks report false.
func yarnHeaderName(header string) (string, bool) {
	first := strings.TrimSpace(strings.SplitN(header, ",", 2)[0])
	first = strings.Trim(first, `"`)
	if first == "__metadata" {
		return "", false
	}

	at := strings.LastIndex(first, "@")
	if at <= 0 {
		return first, first != ""
	}
	name, rng := first[:at], first[at+1:]
	if strings.HasPrefix(rng, "workspace:") || strings.HasPrefix(rng, "link:") {
		return "", false
	}
	return name, true
}

// yarnField reads `key "value"` (classic) or `key: value` (berry).
func yarnField(line, key string) (string, bool) {
	rest, ok := strings.CutPrefix(line, key)
	if !ok || rest == "" || (rest[0] != ' ' && rest[0] != ':') {
		return "", false
	}
	rest = strings.TrimPrefix(rest, ":")
	return strings.Trim(strings.TrimSpace(rest), `"`), true
}
