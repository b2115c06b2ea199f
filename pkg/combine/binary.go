// File: pkg/combine/binary.go
package combine

import (
	"errors"
	"strings"
)

// ErrBinaryContent is returned for files that do not look like text.
var ErrBinaryContent = errors.New("content is not valid text")

// sniffLen is how many leading bytes are inspected for binary content.
const sniffLen = 512

// isBinaryContent reports whether the leading bytes contain a NUL byte,
// which does not occur in text files.
func isBinaryContent(content string) bool {
	if len(content) > sniffLen {
		content = content[:sniffLen]
	}
	return strings.IndexByte(content, 0) >= 0
}
