// Package java extracts Maven dependencies from pom.xml files.
package java

import (
	"encoding/xml"
	"regexp"
	"strings"

	"github.com/matzehuels/depinventory/pkg/manifest"
)

const sourceMaven = "maven"

// Ecosystem describes the Maven manifests.
var Ecosystem = &manifest.Ecosystem{
	Name: "java",
	Manifests: []manifest.Registration{
		{ID: "pom.xml", Pattern: "pom.xml", Parser: POM{}},
	},
}

// POM parses pom.xml files.
//
// Entries are named groupId:artifactId. Dependencies are reported before
// dependencyManagement entries, each in document order, all scopes included.
// ${...} references are resolved against the project properties and the
// project and parent coordinates; unresolvable references stay verbatim.
type POM struct{}

type pomProject struct {
	GroupID              string          `xml:"groupId"`
	ArtifactID           string          `xml:"artifactId"`
	Version              string          `xml:"version"`
	Parent               pomParent       `xml:"parent"`
	Properties           pomProperties   `xml:"properties"`
	Dependencies         []pomDependency `xml:"dependencies>dependency"`
	DependencyManagement []pomDependency `xml:"dependencyManagement>dependencies>dependency"`
}

type pomParent struct {
	GroupID string `xml:"groupId"`
	Version string `xml:"version"`
}

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
}

// pomProperties collects the free-form children of <properties>.
type pomProperties map[string]string

func (p *pomProperties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	props := pomProperties{}
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var v string
			if err := d.DecodeElement(&v, &t); err != nil {
				return err
			}
			props[t.Name.Local] = strings.TrimSpace(v)
		case xml.EndElement:
			*p = props
			return nil
		}
	}
}

var propertyRE = regexp.MustCompile(`\$\{([^}]+)\}`)

func (POM) Parse(path string, content []byte) ([]manifest.Entry, error) {
	var pom pomProject
	if err := xml.Unmarshal(content, &pom); err != nil {
		return nil, manifest.NewParseError(path, "pom.xml", err)
	}

	resolve := pom.resolver()
	var b manifest.Builder
	for _, deps := range [][]pomDependency{pom.Dependencies, pom.DependencyManagement} {
		for _, dep := range deps {
			group := resolve(strings.TrimSpace(dep.GroupID))
			artifact := resolve(strings.TrimSpace(dep.ArtifactID))
			if group == "" || artifact == "" {
				continue
			}
			b.Add(group+":"+artifact, resolve(strings.TrimSpace(dep.Version)), sourceMaven, "")
		}
	}
	return b.Result(path, "pom.xml")
}

// resolver returns a function expanding ${...} references. Expansion is
// repeated a bounded number of times so properties may refer to each other.
func (p *pomProject) resolver() func(string) string {
	vars := map[string]string{}
	for k, v := range p.Properties {
		vars[k] = v
	}
	groupID := p.GroupID
	if groupID == "" {
		groupID = p.Parent.GroupID
	}
	version := p.Version
	if version == "" {
		version = p.Parent.Version
	}
	for k, v := range map[string]string{
		"project.groupId":        groupID,
		"project.artifactId":     p.ArtifactID,
		"project.version":        version,
		"project.parent.groupId": p.Parent.GroupID,
		"project.parent.version": p.Parent.Version,
		"pom.version":            version,
		"version":                version,
	} {
		if v != "" {
			vars[k] = strings.TrimSpace(v)
		}
	}

	return func(s string) string {
		for range 8 {
			if !strings.Contains(s, "${") {
				return s
			}
			next := propertyRE.ReplaceAllStringFunc(s, func(ref string) string {
				if v, ok := vars[ref[2:len(ref)-1]]; ok {
					return v
				}
				return ref
			})
			if next == s {
				return s
			}
			s = next
		}
		return s
	}
}
