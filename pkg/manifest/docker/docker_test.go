package docker

import (
	stderrors "errors"
	"testing"

	"github.com/matzehuels/depinventory/pkg/errors"
	"github.com/matzehuels/depinventory/pkg/manifest"
)

type want struct {
	name, spec string
}

func assertEntries(t *testing.T, got []manifest.Entry, source string, wants []want) {
	t.Helper()
	if len(got) != len(wants) {
		t.Fatalf("got %d entries, want %d: %v", len(got), len(wants), got)
	}
	for i, w := range wants {
		e := got[i]
		if e.Name() != w.name || e.Specifier() != w.spec || e.Source() != source || e.License() != "" {
			t.Errorf("entry %d = %v, want %s:%s@%s", i, e, source, w.name, w.spec)
		}
	}
}

func TestDockerfile_Ubuntu(t *testing.T) {
	got, err := Dockerfile{}.Parse("Dockerfile", []byte("FROM ubuntu:trusty\nRUN apt-get update\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	assertEntries(t, got, "Dockerfile", []want{{"ubuntu", "trusty"}})
}

func TestDockerfile_Parse(t *testing.T) {
	content := `# syntax=docker/dockerfile:1
ARG GO_VERSION=1.22
ARG BASE="alpine"
FROM --platform=$BUILDPLATFORM golang:${GO_VERSION}-alpine AS build
ARG IGNORED=stage-scoped
WORKDIR /src
RUN go build \
    -o /out/app ./cmd/app

FROM build AS test
RUN go test ./...

from ${BASE}:${ALPINE_TAG:-3.19}
COPY --from=build /out/app /app

FROM scratch
FROM registry.example.com:5000/team/tool
FROM nginx@sha256:0d17b565c37bcbd895e9d92315a05c1c3c9a29f762b011a10c54a66cd53c9b31
FROM node:20@sha256:abc
`

	got, err := Dockerfile{}.Parse("Dockerfile", []byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	assertEntries(t, got, "Dockerfile", []want{
		{"golang", "1.22-alpine"},
		{"alpine", "3.19"},
		{"registry.example.com:5000/team/tool", "latest"},
		{"nginx", "sha256:0d17b565c37bcbd895e9d92315a05c1c3c9a29f762b011a10c54a66cd53c9b31"},
		{"node", "20"},
	})
}

func TestDockerfile_EscapeDirective(t *testing.T) {
	content := "# escape=`\nFROM mcr.microsoft.com/windows/servercore:ltsc2022 `\n    AS base\n"
	got, err := Dockerfile{}.Parse("Dockerfile", []byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	assertEntries(t, got, "Dockerfile", []want{{"mcr.microsoft.com/windows/servercore", "ltsc2022"}})
}

func TestDockerfile_Malformed(t *testing.T) {
	_, err := Dockerfile{}.Parse("Dockerfile", []byte("FROM ubuntu AS\n"))
	if !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("error = %v, want PARSE_ERROR", err)
	}
}

func TestDockerfile_BadLinesKeepRest(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []want
	}{
		{
			name:    "trailing bare FROM",
			content: "FROM ubuntu:trusty AS base\nRUN apt-get update\nFROM\n",
			want:    []want{{"ubuntu", "trusty"}},
		},
		{
			name:    "arg without default",
			content: "ARG BASE\nFROM $BASE\nFROM alpine:3.19\n",
			want:    []want{{"alpine", "3.19"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Dockerfile{}.Parse("Dockerfile", []byte(tt.content))
			var partial *manifest.PartialError
			if !stderrors.As(err, &partial) || len(partial.Skipped) != 1 {
				t.Fatalf("error = %v, want one skipped declaration", err)
			}
			assertEntries(t, got, "Dockerfile", tt.want)
		})
	}
}

func TestDockerfile_HeredocBodies(t *testing.T) {
	content := `FROM debian:12
RUN <<EOF
#!/bin/sh
FROM evil:1
EOF
COPY <<-"CONF" /etc/app.conf
	FROM also-not-an-image
	CONF
FROM alpine:3.19
`
	got, err := Dockerfile{}.Parse("Dockerfile", []byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	assertEntries(t, got, "Dockerfile", []want{{"debian", "12"}, {"alpine", "3.19"}})
}

func TestCompose_Parse(t *testing.T) {
	content := `version: "3.9"
services:
  web:
    build: .
    ports:
      - "8080:80"
  db:
    image: postgres:16
  cache:
    image: "redis"
  proxy:
    image: ${PROXY_IMAGE:-traefik:v2.10}
`

	got, err := Compose{}.Parse("docker-compose.yml", []byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	assertEntries(t, got, "docker-compose", []want{
		{"redis", "latest"},
		{"postgres", "16"},
		{"traefik", "v2.10"},
	})
}

func TestCompose_Malformed(t *testing.T) {
	_, err := Compose{}.Parse("compose.yaml", []byte("services:\n  web: [unclosed\n"))
	if !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("error = %v, want PARSE_ERROR", err)
	}
}

func TestSplitImage(t *testing.T) {
	tests := []struct {
		ref, name, spec string
	}{
		{"ubuntu:trusty", "ubuntu", "trusty"},
		{"ubuntu", "ubuntu", "latest"},
		{"localhost:5000/app", "localhost:5000/app", "latest"},
		{"localhost:5000/app:1.2", "localhost:5000/app", "1.2"},
		{"ghcr.io/org/img@sha256:ff", "ghcr.io/org/img", "sha256:ff"},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			name, spec := splitImage(tt.ref)
			if name != tt.name || spec != tt.spec {
				t.Errorf("splitImage(%q) = %q, %q; want %q, %q", tt.ref, name, spec, tt.name, tt.spec)
			}
		})
	}
}

func TestExpand(t *testing.T) {
	vars := map[string]string{"A": "x", "EMPTY": ""}
	tests := []struct {
		in, want string
	}{
		{"$A", "x"},
		{"${A}-y", "x-y"},
		{"${B:-def}", "def"},
		{"${EMPTY:-def}", "def"},
		{"${EMPTY-def}", ""},
		{"${UNKNOWN}", "${UNKNOWN}"},
		{"$UNKNOWN", "$UNKNOWN"},
		{"cost$", "cost$"},
	}
	for _, tt := range tests {
		if got := expand(tt.in, vars); got != tt.want {
			t.Errorf("expand(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
