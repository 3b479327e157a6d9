// Package python extracts pip-installable dependency declarations.
//
// # Manifests
//
//   - requirements*.txt / constraints*.txt: one requirement per logical line
//   - pyproject.toml: PEP 621 project dependencies and Poetry tables
//   - Pipfile: packages and dev-packages
//   - poetry.lock: pinned packages
//
// Every entry reports source "pip". Environment markers and extras are not
// part of the specifier; direct references (`name @ url`) keep the URL.
package python
