// Package ignore implements gitignore-style path filtering.
package ignore

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// IgnorePattern encapsulates a compiled regular expression pattern,
// a negation flag, and metadata about the pattern's origin.
type IgnorePattern struct {
	Pattern *regexp.Regexp // Compiled regular expression for the pattern.
	Negate  bool           // Indicates if the pattern is a negation (starts with '!').
	DirOnly bool           // Pattern ended with '/' and only matches directories.
	LineNo  int            // Position of the pattern in its source (1-based).
	Line    string         // Original pattern line.
}

// GitIgnore represents an ordered collection of ignore patterns.
// Later patterns take precedence over earlier ones.
type GitIgnore struct {
	patterns []*IgnorePattern
	logger   *zap.Logger
}

// NewGitIgnore initializes an empty GitIgnore instance.
func NewGitIgnore(logger *zap.Logger) *GitIgnore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GitIgnore{
		patterns: []*IgnorePattern{},
		logger:   logger,
	}
}

// NewFilter builds a filter from the contents of a .gitignore-equivalent source
// (may be empty) followed by extra exclude patterns.
func NewFilter(gitignoreSource string, extraExcludes []string, logger *zap.Logger) *GitIgnore {
	gi := NewGitIgnore(logger)
	if gitignoreSource != "" {
		gi.CompileIgnoreLines(strings.Split(gitignoreSource, "\n")...)
	}
	gi.CompileIgnoreLines(extraExcludes...)
	gi.logger.Debug("Built path filter", zap.Int("totalPatterns", len(gi.patterns)))
	return gi
}

// CompileIgnoreLines compiles a set of ignore pattern lines and appends them.
// Lines that are blank, comments or malformed are skipped.
func (gi *GitIgnore) CompileIgnoreLines(lines ...string) {
	base := len(gi.patterns)
	for i, line := range lines {
		if ip := parsePatternLine(line, base+i+1, gi.logger); ip != nil {
			gi.patterns = append(gi.patterns, ip)
		}
	}
}

// Len returns the number of compiled patterns.
func (gi *GitIgnore) Len() int {
	return len(gi.patterns)
}

// IsExcluded reports whether path is excluded. A trailing '/' marks the path as a directory.
func (gi *GitIgnore) IsExcluded(path string) bool {
	matches, _ := gi.MatchesPathWithPattern(path)
	return matches
}

// MatchesPath is an alias of IsExcluded.
func (gi *GitIgnore) MatchesPath(path string) bool {
	return gi.IsExcluded(path)
}

// MatchesPathWithPattern checks whether path is excluded and returns the deciding pattern.
// Parent directories are evaluated first: once a directory is excluded nothing below it
// can be re-included.
func (gi *GitIgnore) MatchesPathWithPattern(p string) (bool, *IgnorePattern) {
	normalized, isDir := normalizePath(p)
	if normalized == "" {
		return false, nil
	}

	segments := strings.Split(normalized, "/")
	for i := 1; i < len(segments); i++ {
		if matched, pattern := gi.match(strings.Join(segments[:i], "/"), true); matched {
			return true, pattern
		}
	}
	return gi.match(normalized, isDir)
}

func (gi *GitIgnore) match(p string, isDir bool) (bool, *IgnorePattern) {
	matched := false
	var decidedBy *IgnorePattern
	for _, pattern := range gi.patterns {
		if pattern.DirOnly && !isDir {
			continue
		}
		if pattern.Pattern.MatchString(p) {
			matched = !pattern.Negate
			decidedBy = pattern
		}
	}
	return matched, decidedBy
}

// normalizePath converts the path to a clean, slash-separated, root-relative form.
func normalizePath(p string) (string, bool) {
	p = filepath.ToSlash(p)
	isDir := strings.HasSuffix(p, "/")
	p = strings.TrimLeft(path.Clean("/"+p), "/")
	return p, isDir
}
