package javascript

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matzehuels/depinventory/pkg/manifest"
)

// DefaultMemoSize bounds the number of memoized installed-package licenses.
const DefaultMemoSize = 4096

// NodeModules is a [manifest.LicenseSource] that reads the license field of
// packages installed in the node_modules directory next to a manifest.
//
// Found licenses are memoized by package.json path; misses are not, so a
// later install is picked up. NodeModules is safe for concurrent use.
type NodeModules struct {
	memo *lru.Cache[string, string]
}

// NewNodeModules creates a node_modules license source. A non-positive
// memoSize uses [DefaultMemoSize].
func NewNodeModules(memoSize int) *NodeModules {
	if memoSize <= 0 {
		memoSize = DefaultMemoSize
	}
	memo, err := lru.New[string, string](memoSize)
	if err != nil {
		panic(err) // only fails for non-positive sizes
	}
	return &NodeModules{memo: memo}
}

// License implements [manifest.LicenseSource].
func (n *NodeModules) License(dir string, e manifest.Entry) string {
	if !validPackageName(e.Name()) {
		return ""
	}
	path := filepath.Join(dir, "node_modules", filepath.FromSlash(e.Name()), "package.json")
	if lic, ok := n.memo.Get(path); ok {
		return lic
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var pkg lockPackage
	if err := json.Unmarshal(bytes.TrimPrefix(data, utf8BOM), &pkg); err != nil {
		return ""
	}
	lic, err := manifest.Flatten(pkg.license())
	if err != nil || lic == "" {
		return ""
	}
	n.memo.Add(path, lic)
	return lic
}

var utf8BOM = []byte("\xef\xbb\xbf")

// validPackageName accepts "name" and "@scope/name", the only shapes that
// map to a directory inside node_modules.
func validPackageName(name string) bool {
	segments := strings.Split(name, "/")
	switch {
	case len(segments) == 2 && strings.HasPrefix(segments[0], "@"):
	case len(segments) == 1:
	default:
		return false
	}
	for _, s := range segments {
		if s == "" || s == "." || strings.Contains(s, "..") || strings.ContainsAny(s, `\:`) {
			return false
		}
	}
	return true
}
