// File: pkg/combine/filesystem.go
package combine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileSystem is the narrow set of filesystem operations the pipeline needs.
type FileSystem interface {
	ReadText(path string) (string, error)
	WriteText(path, content string) error
	Exists(path string) bool
	// IsRegularFile returns false for directories and missing paths; other stat
	// errors are returned.
	IsRegularFile(path string) (bool, error)
}

// OSFileSystem implements FileSystem on the local disk.
type OSFileSystem struct{}

// ReadText reads the whole file.
func (OSFileSystem) ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteText replaces path with content atomically: readers see either the old
// or the new file, never a partial write. Missing parent directories are created.
func (OSFileSystem) WriteText(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, TempFilePattern(filepath.Base(path)))
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// No-op once the rename succeeded.
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// Exists reports whether path exists.
func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsRegularFile reports whether path is a regular file, following symlinks.
func (OSFileSystem) IsRegularFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// TempFilePattern is the os.CreateTemp pattern used while writing base.
// The '*' is replaced by a random string.
func TempFilePattern(base string) string {
	return base + ".*.tmp"
}
