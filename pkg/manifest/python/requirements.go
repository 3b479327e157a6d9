package python

import (
	"regexp"
	"strings"

	"github.com/matzehuels/depinventory/pkg/manifest"
)

var requirementRE = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)\s*(\[[^\]]*\])?\s*(.*)$`)

// Requirements parses pip requirements and constraints files. Lines that
// are not PEP 508 requirements, such as bare ${VAR} references, are skipped
// and reported.
type Requirements struct{}

func (Requirements) Parse(path string, content []byte) ([]manifest.Entry, error) {
	var b manifest.Builder
	for i, line := range logicalLines(string(content)) {
		line = stripComment(line)
		if skipRequirementLine(line) {
			continue
		}
		name, spec, ok := parseRequirement(line)
		if !ok {
			b.Skip("requirement %d: cannot parse %q", i+1, line)
			continue
		}
		b.Add(name, spec, sourcePip, "")
	}
	return b.Result(path, "requirements.txt")
}

// logicalLines joins backslash continuations.
func logicalLines(content string) []string {
	var (
		out []string
		cur strings.Builder
	)
	for _, raw := range strings.Split(content, "\n") {
		raw = strings.TrimRight(raw, "\r")
		if strings.HasSuffix(raw, `\`) {
			cur.WriteString(strings.TrimSuffix(raw, `\`))
			cur.WriteByte(' ')
			continue
		}
		cur.WriteString(raw)
		out = append(out, cur.String())
		cur.Reset()
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

// stripComment removes a # comment. A # inside a URL fragment (#egg=) is not
// a comment because it is not preceded by whitespace.
func stripComment(line string) string {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "#") {
		return ""
	}
	for i := 1; i < len(line); i++ {
		if line[i] == '#' && (line[i-1] == ' ' || line[i-1] == '\t') {
			return strings.TrimSpace(line[:i])
		}
	}
	return line
}

// skipRequirementLine reports lines that declare no named requirement:
// blank lines, pip options and bare URLs or local paths.
func skipRequirementLine(line string) bool {
	if line == "" || strings.HasPrefix(line, "-") {
		return true
	}
	switch line[0] {
	case '.', '/', '~':
		return true
	}
	scheme := strings.Index(line, "://")
	if scheme < 0 {
		return false
	}
	at := strings.IndexByte(line, '@')
	return at < 0 || at > scheme
}

// parseRequirement splits a PEP 508 requirement into name and specifier.
func parseRequirement(req string) (name, spec string, ok bool) {
	if i := strings.Index(req, " --"); i >= 0 {
		req = req[:i] // per-requirement options such as --hash
	}
	if i := strings.IndexByte(req, ';'); i >= 0 {
		req = req[:i]
	}
	m := requirementRE.FindStringSubmatch(strings.TrimSpace(req))
	if m == nil {
		return "", "", false
	}
	name, rest := m[1], strings.TrimSpace(m[3])
	if url, found := strings.CutPrefix(rest, "@"); found {
		return name, strings.TrimSpace(url), true
	}
	rest = strings.Join(strings.Fields(rest), "")
	rest = strings.TrimSuffix(strings.TrimPrefix(rest, "("), ")")
	return name, rest, true
}
