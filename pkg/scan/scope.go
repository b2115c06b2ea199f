// Package scan expands include/exclude glob patterns into candidate file paths.
package scan

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Scope decides which root-relative paths fall under a set of include patterns
// minus a set of exclude patterns. Matching uses doublestar semantics, where
// wildcards also match dot files.
type Scope struct {
	Include []string
	Exclude []string
}

// NewScope validates the patterns and returns a Scope.
func NewScope(include, exclude []string) (Scope, error) {
	for _, p := range include {
		if !doublestar.ValidatePattern(toPattern(p)) {
			return Scope{}, fmt.Errorf("invalid include pattern %q: %w", p, doublestar.ErrBadPattern)
		}
	}
	return Scope{Include: include, Exclude: exclude}, nil
}

// Includes reports whether the file path matches an include pattern and no exclude pattern.
func (s Scope) Includes(rel string) bool {
	rel = normalize(rel)
	if rel == "" {
		return false
	}
	return anyMatch(s.Include, rel) && !s.Excludes(rel)
}

// Excludes reports whether the file path matches an exclude pattern.
func (s Scope) Excludes(rel string) bool {
	return anyMatch(s.Exclude, normalize(rel))
}

// PrunesDir reports whether every path below dir is excluded, which holds when an
// exclude pattern of the form `<dir-pattern>/**` matches the directory itself.
func (s Scope) PrunesDir(dir string) bool {
	dir = normalize(dir)
	if dir == "" {
		return false
	}
	for _, p := range s.Exclude {
		p = toPattern(p)
		prefix, ok := strings.CutSuffix(p, "/**")
		if !ok {
			continue
		}
		if matched, _ := doublestar.Match(prefix, dir); matched {
			return true
		}
	}
	return false
}

func anyMatch(patterns []string, rel string) bool {
	for _, p := range patterns {
		// Malformed exclude patterns cannot match; include patterns were validated.
		if matched, err := doublestar.Match(toPattern(p), rel); err == nil && matched {
			return true
		}
	}
	return false
}

func toPattern(p string) string {
	p = filepath.ToSlash(p)
	return strings.TrimPrefix(p, "./")
}

func normalize(rel string) string {
	rel = path.Clean(filepath.ToSlash(rel))
	if rel == "." {
		return ""
	}
	return strings.TrimPrefix(rel, "./")
}
