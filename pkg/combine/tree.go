// File: pkg/combine/tree.go
package combine

import (
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/samber/lo"
)

const (
	treeHeader     = "Directory Tree:"
	treeBranch     = "├── "
	treeLastBranch = "└── "
	treeVertical   = "│   "
	treeSpace      = "    "
)

// GenerateTree renders paths as a box-drawing directory tree. Directories shared by
// several paths are printed once. The result depends only on the set of paths,
// not on their order; an empty set renders as "".
func GenerateTree(paths []string) string {
	sorted := sortedTreePaths(paths)
	if len(sorted) == 0 {
		return ""
	}

	split := make([][]string, len(sorted))
	for i, p := range sorted {
		split[i] = strings.Split(p, "/")
	}

	lines := []string{treeHeader, "."}
	emitted := make(map[string]bool)

	for i, parts := range split {
		var prefix strings.Builder
		for depth, name := range parts {
			key := strings.Join(parts[:depth+1], "/")
			isDir := depth < len(parts)-1
			last := !hasNextSibling(split, i, depth)

			if isDir && emitted[key] {
				prefix.WriteString(continuation(last))
				continue
			}

			connector := treeBranch
			if last {
				connector = treeLastBranch
			}
			lines = append(lines, prefix.String()+connector+name)
			emitted[key] = true

			if isDir {
				prefix.WriteString(continuation(last))
			}
		}
	}

	return strings.Join(lines, "\n") + "\n"
}

// hasNextSibling reports whether a later path shares the parent of split[i] at depth
// but continues with a different segment there. Sorted paths with a common prefix
// are contiguous, so the scan stops at the first path outside the parent.
func hasNextSibling(split [][]string, i, depth int) bool {
	parts := split[i]
	for k := i + 1; k < len(split); k++ {
		next := split[k]
		if len(next) <= depth || !slices.Equal(next[:depth], parts[:depth]) {
			return false
		}
		if next[depth] != parts[depth] {
			return true
		}
	}
	return false
}

func continuation(last bool) string {
	if last {
		return treeSpace
	}
	return treeVertical
}

// sortedTreePaths normalizes, de-duplicates and sorts a copy of paths.
func sortedTreePaths(paths []string) []string {
	normalized := lo.FilterMap(paths, func(p string, _ int) (string, bool) {
		p = strings.TrimLeft(path.Clean(filepath.ToSlash(p)), "/")
		return p, p != "" && p != "."
	})
	normalized = lo.Uniq(normalized)
	sort.Strings(normalized)
	return normalized
}
