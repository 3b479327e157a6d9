package docker

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/matzehuels/depinventory/pkg/manifest"
)

// Dockerfile parses FROM instructions.
//
// Global ARG defaults declared before the first FROM are substituted into
// image references. FROM scratch and references to earlier build stages are
// not dependencies. A FROM that is malformed or still references an unset
// variable is skipped and reported, and the rest of the file is kept.
type Dockerfile struct{}

func (Dockerfile) Parse(path string, content []byte) ([]manifest.Entry, error) {
	var (
		b       manifest.Builder
		args    = map[string]string{}
		stages  = map[string]bool{}
		sawFrom bool
	)

	for _, inst := range instructions(string(content)) {
		keyword, rest := inst.text, ""
		if i := strings.IndexAny(inst.text, " \t"); i >= 0 {
			keyword, rest = inst.text[:i], strings.TrimSpace(inst.text[i+1:])
		}
		switch strings.ToUpper(keyword) {
		case "ARG":
			if !sawFrom {
				for _, decl := range strings.Fields(rest) {
					if k, v, ok := strings.Cut(decl, "="); ok {
						args[k] = strings.Trim(v, `"'`)
					}
				}
			}
		case "FROM":
			sawFrom = true
			image, stage, err := parseFrom(rest)
			if err != nil {
				b.Skip("line %d: %v", inst.line, err)
				continue
			}
			image = expand(image, args)
			skip := strings.EqualFold(image, "scratch") || stages[strings.ToLower(image)]
			if stage != "" {
				stages[strings.ToLower(stage)] = true
			}
			if skip {
				continue
			}
			if strings.Contains(image, "$") {
				b.Skip("line %d: unresolved variable in image %q", inst.line, image)
				continue
			}
			name, spec := splitImage(image)
			b.Add(name, spec, sourceDockerfile, "")
		}
	}
	return b.Result(path, "Dockerfile")
}

// parseFrom reads `[--platform=...] image [AS name]`.
func parseFrom(args string) (image, stage string, err error) {
	fields := strings.Fields(args)
	for len(fields) > 0 && strings.HasPrefix(fields[0], "--") {
		fields = fields[1:]
	}
	switch {
	case len(fields) == 1:
		return fields[0], "", nil
	case len(fields) == 3 && strings.EqualFold(fields[1], "AS"):
		return fields[0], fields[2], nil
	}
	return "", "", fmt.Errorf("malformed FROM %q", args)
}

type instruction struct {
	text string
	line int
}

var heredocRE = regexp.MustCompile(`<<(-?)["']?([A-Za-z_][A-Za-z0-9_]*)["']?`)

// instructions joins continuation lines and drops comments. A leading
// `# escape=` parser directive changes the continuation character. Heredoc
// bodies (RUN <<EOF ... EOF) belong to their instruction and are dropped.
func instructions(content string) []instruction {
	escape := byte('\\')
	var (
		out       []instruction
		cur       strings.Builder
		start     int
		directive = true
		heredocs  []string
	)
	for i, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(strings.TrimRight(raw, "\r"))
		if len(heredocs) > 0 {
			if line == heredocs[0] {
				heredocs = heredocs[1:]
			}
			continue
		}
		if strings.HasPrefix(line, "#") {
			if directive {
				if k, v, ok := strings.Cut(strings.TrimSpace(line[1:]), "="); ok && strings.EqualFold(strings.TrimSpace(k), "escape") {
					if v = strings.TrimSpace(v); len(v) == 1 {
						escape = v[0]
					}
				}
			}
			continue
		}
		directive = false
		if line == "" {
			continue
		}
		if cur.Len() == 0 {
			start = i + 1
		}
		if line[len(line)-1] == escape {
			cur.WriteString(line[:len(line)-1])
			cur.WriteByte(' ')
			continue
		}
		cur.WriteString(line)
		text := cur.String()
		out = append(out, instruction{text: text, line: start})
		cur.Reset()
		for _, m := range heredocRE.FindAllStringSubmatch(text, -1) {
			heredocs = append(heredocs, m[2])
		}
	}
	if cur.Len() > 0 {
		out = append(out, instruction{text: strings.TrimSpace(cur.String()), line: start})
	}
	return out
}
