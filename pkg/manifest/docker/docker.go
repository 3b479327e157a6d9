// Package docker extracts base image references from Dockerfiles and
// Compose files.
//
// An image reference registry/name:tag@digest becomes an entry named
// registry/name whose specifier is the tag, the digest when only a digest is
// given, or "latest" when neither is present.
package docker

import (
	"strings"

	"github.com/matzehuels/depinventory/pkg/manifest"
)

const (
	sourceDockerfile = "Dockerfile"
	sourceCompose    = "docker-compose"

	defaultTag = "latest"
)

// Ecosystem describes the container manifests.
var Ecosystem = &manifest.Ecosystem{
	Name: "docker",
	Manifests: []manifest.Registration{
		{ID: "Dockerfile", Pattern: "Dockerfile", Parser: Dockerfile{}},
		{ID: "Dockerfile", Pattern: "Containerfile", Parser: Dockerfile{}},
		{ID: "Dockerfile", Pattern: "Dockerfile.*", Parser: Dockerfile{}},
		{ID: "Dockerfile", Pattern: "*.Dockerfile", Parser: Dockerfile{}},
		{ID: "docker-compose", Pattern: "docker-compose.yml", Parser: Compose{}},
		{ID: "docker-compose", Pattern: "docker-compose.yaml", Parser: Compose{}},
		{ID: "docker-compose", Pattern: "compose.yml", Parser: Compose{}},
		{ID: "docker-compose", Pattern: "compose.yaml", Parser: Compose{}},
	},
}

// splitImage splits an image reference into name and specifier.
// A colon before the last slash belongs to a registry port, not a tag.
func splitImage(ref string) (name, spec string) {
	ref, digest, _ := strings.Cut(ref, "@")
	name = ref
	slash := strings.LastIndex(ref, "/")
	if colon := strings.LastIndex(ref, ":"); colon > slash {
		name, spec = ref[:colon], ref[colon+1:]
	}
	switch {
	case spec != "":
	case digest != "":
		spec = digest
	default:
		spec = defaultTag
	}
	return name, spec
}

// expand substitutes $VAR, ${VAR}, ${VAR:-default} and ${VAR-default}.
// Unknown variables without a default are left as written.
func expand(s string, vars map[string]string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '$' || i+1 >= len(s) {
			sb.WriteByte(s[i])
			continue
		}
		if s[i+1] == '{' {
			end := strings.IndexByte(s[i:], '}')
			if end < 0 {
				sb.WriteString(s[i:])
				break
			}
			expr := s[i+2 : i+end]
			sb.WriteString(expandExpr(expr, vars, s[i:i+end+1]))
			i += end
			continue
		}
		j := i + 1
		for j < len(s) && isVarChar(s[j]) {
			j++
		}
		if j == i+1 {
			sb.WriteByte('$')
			continue
		}
		if v, ok := vars[s[i+1:j]]; ok {
			sb.WriteString(v)
		} else {
			sb.WriteString(s[i:j])
		}
		i = j - 1
	}
	return sb.String()
}

func expandExpr(expr string, vars map[string]string, literal string) string {
	if name, def, ok := strings.Cut(expr, ":-"); ok && isVarName(name) {
		if v := vars[name]; v != "" {
			return v
		}
		return def
	}
	if name, def, ok := strings.Cut(expr, "-"); ok && isVarName(name) {
		if v, set := vars[name]; set {
			return v
		}
		return def
	}
	if v, ok := vars[expr]; ok {
		return v
	}
	return literal
}

func isVarChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isVarName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isVarChar(s[i]) {
			return false
		}
	}
	return true
}
