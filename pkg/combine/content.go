// File: pkg/combine/content.go
package combine

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// Serializer turns an ordered list of root-relative paths into annotated text blocks.
type Serializer struct {
	fs            FileSystem
	root          string
	maxFileSizeKB int
	logger        *zap.Logger
}

// NewSerializer creates a Serializer reading paths relative to root.
// maxFileSizeKB <= 0 disables the size limit.
func NewSerializer(fs FileSystem, root string, maxFileSizeKB int, logger *zap.Logger) *Serializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Serializer{fs: fs, root: root, maxFileSizeKB: maxFileSizeKB, logger: logger}
}

// GenerateContent emits one block per readable regular file, in the given order.
// Paths that are not regular files are skipped without being read; read failures
// are logged as warnings and skipped.
func (s *Serializer) GenerateContent(paths []string) string {
	var b strings.Builder
	rule := strings.Repeat("=", SeparatorWidth)

	for _, p := range paths {
		full := s.resolve(p)

		regular, err := s.fs.IsRegularFile(full)
		if err != nil {
			s.logger.Warn("Could not read file", zap.String("file", p), zap.Error(err))
			continue
		}
		if !regular {
			s.logger.Debug("Skipping non-regular path", zap.String("file", p))
			continue
		}

		content, err := s.readFile(full)
		if err != nil {
			s.logger.Warn("Could not read file", zap.String("file", p), zap.Error(err))
			continue
		}

		b.WriteString("\n")
		b.WriteString(rule)
		b.WriteString("\n")
		b.WriteString("FILE: ")
		b.WriteString(p)
		b.WriteString("\n")
		b.WriteString(rule)
		b.WriteString("\n\n")
		b.WriteString(content)
		b.WriteString("\n")
	}

	return b.String()
}

func (s *Serializer) readFile(path string) (string, error) {
	content, err := s.fs.ReadText(path)
	if err != nil {
		return "", err
	}
	if limit := int64(s.maxFileSizeKB) * 1024; limit > 0 && int64(len(content)) > limit {
		return "", fmt.Errorf("file size %s exceeds limit of %s",
			humanize.IBytes(uint64(len(content))), humanize.IBytes(uint64(limit)))
	}
	if isBinaryContent(content) {
		return "", ErrBinaryContent
	}
	return content, nil
}

func (s *Serializer) resolve(p string) string {
	native := filepath.FromSlash(p)
	if filepath.IsAbs(native) {
		return native
	}
	return filepath.Join(s.root, native)
}
