package docs

import (
	"path"
	"path/filepath"
	"strings"
)

const markdownExt = ".md"

// DefaultExcluded lists file names that are never indexed, wherever they sit
// in the tree.
var DefaultExcluded = []string{
	"README.md",
	"LICENCE.md",
	"index.md",
	"overview.md",
	"ma.md",
	"ca.md",
}

// Filter decides which paths are eligible for indexing. Matching is exact:
// the extension must be ".md" and the base name must not be excluded.
type Filter struct {
	excluded map[string]bool
}

func NewFilter(excluded []string) Filter {
	f := Filter{excluded: make(map[string]bool, len(excluded))}
	for _, name := range excluded {
		if name = strings.TrimSpace(name); name != "" {
			f.excluded[name] = true
		}
	}
	return f
}

func (f Filter) Eligible(p string) bool {
	p = cleanPath(p)
	if path.Ext(p) != markdownExt {
		return false
	}
	return !f.excluded[path.Base(p)]
}

func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	return path.Clean(filepath.ToSlash(p))
}
