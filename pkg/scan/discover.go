// File: pkg/scan/discover.go
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Discoverer expands include patterns into root-relative file paths, applying
// exclude patterns at expansion time. Directories are never returned.
type Discoverer interface {
	Discover(ctx context.Context, include, exclude []string) ([]string, error)
}

// Walker discovers files by walking a root directory.
type Walker struct {
	root   string
	logger *zap.Logger
}

// NewWalker returns a Walker rooted at root.
func NewWalker(root string, logger *zap.Logger) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{root: root, logger: logger}
}

// Discover walks the root and returns the sorted, slash-separated relative paths of
// all non-directory entries in scope. Hidden files are eligible.
func (w *Walker) Discover(ctx context.Context, include, exclude []string) ([]string, error) {
	scope, err := NewScope(include, exclude)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(w.root)
	if err != nil {
		return nil, fmt.Errorf("failed to access scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %s is not a directory", w.root)
	}

	var files []string
	err = filepath.WalkDir(w.root, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if p == w.root {
				return err
			}
			w.logger.Warn("Error accessing path during discovery", zap.String("path", p), zap.Error(err))
			return nil
		}

		relPath, err := filepath.Rel(w.root, p)
		if err != nil {
			return fmt.Errorf("failed to relativize %s: %w", p, err)
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if relPath != "." && scope.PrunesDir(relPath) {
				w.logger.Debug("Skipping excluded directory", zap.String("directory", relPath))
				return filepath.SkipDir
			}
			return nil
		}

		// Symlinks to directories are not files.
		if d.Type()&fs.ModeSymlink != 0 {
			if target, statErr := os.Stat(p); statErr == nil && target.IsDir() {
				return nil
			}
		}

		if scope.Includes(relPath) {
			files = append(files, relPath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", w.root, err)
	}

	files = lo.Uniq(files)
	sort.Strings(files)
	w.logger.Debug("Discovered candidate files", zap.Int("count", len(files)))
	return files, nil
}
