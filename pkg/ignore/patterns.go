// File: pkg/ignore/patterns.go
package ignore

import (
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var (
	errTrailingEscape    = errors.New("trailing backslash")
	errUnterminatedClass = errors.New("unterminated character class")
)

// parsePatternLine compiles a single gitignore line into an IgnorePattern.
// It returns nil for blank lines, comments and lines that cannot be compiled.
func parsePatternLine(line string, lineNo int, logger *zap.Logger) *IgnorePattern {
	trimmed := trimTrailingSpace(strings.TrimLeft(line, " \t"))
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil
	}

	negate := false
	if strings.HasPrefix(trimmed, "!") {
		negate = true
		trimmed = trimmed[1:]
	}
	if strings.HasPrefix(trimmed, `\#`) || strings.HasPrefix(trimmed, `\!`) {
		trimmed = trimmed[1:]
	}

	dirOnly := strings.HasSuffix(trimmed, "/")
	trimmed = strings.TrimRight(trimmed, "/")

	// A slash anywhere but the end anchors the pattern to the root.
	anchored := strings.Contains(trimmed, "/")
	trimmed = strings.TrimLeft(trimmed, "/")
	if trimmed == "" {
		return nil
	}

	body, err := globToRegex(trimmed)
	if err == nil {
		prefix := "^(?:.*/)?"
		if anchored {
			prefix = "^"
		}
		var compiled *regexp.Regexp
		compiled, err = regexp.Compile(prefix + body + "$")
		if err == nil {
			return &IgnorePattern{
				Pattern: compiled,
				Negate:  negate,
				DirOnly: dirOnly,
				LineNo:  lineNo,
				Line:    line,
			}
		}
	}

	logger.Debug("Treating malformed ignore pattern as non-matching",
		zap.String("pattern", line),
		zap.Int("lineNo", lineNo),
		zap.Error(err))
	return nil
}

// trimTrailingSpace drops trailing whitespace that is not escaped with a backslash.
func trimTrailingSpace(line string) string {
	line = strings.TrimRight(line, "\r\n")
	for strings.HasSuffix(line, " ") || strings.HasSuffix(line, "\t") {
		if strings.HasSuffix(line[:len(line)-1], `\`) {
			return line[:len(line)-2] + line[len(line)-1:]
		}
		line = line[:len(line)-1]
	}
	return line
}

// globToRegex converts a slash-separated glob into a regular expression body.
// `**` as a whole segment matches across directory boundaries.
func globToRegex(pattern string) (string, error) {
	var b strings.Builder
	segments := strings.Split(pattern, "/")
	for i, segment := range segments {
		last := i == len(segments)-1
		if segment == "**" {
			if last {
				b.WriteString(".*")
			} else {
				b.WriteString("(?:.*/)?")
			}
			continue
		}

		expr, err := segmentToRegex(segment)
		if err != nil {
			return "", err
		}
		b.WriteString(expr)
		if !last {
			b.WriteString("/")
		}
	}
	return b.String(), nil
}

// segmentToRegex converts one path segment; wildcards never cross a '/'.
func segmentToRegex(segment string) (string, error) {
	var b strings.Builder
	runes := []rune(segment)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case '*':
			for i+1 < len(runes) && runes[i+1] == '*' {
				i++
			}
			b.WriteString("[^/]*")
		case '?':
			b.WriteString("[^/]")
		case '\\':
			if i+1 == len(runes) {
				return "", errTrailingEscape
			}
			i++
			b.WriteString(regexp.QuoteMeta(string(runes[i])))
		case '[':
			end := classEnd(runes, i)
			if end < 0 {
				return "", errUnterminatedClass
			}
			b.WriteString(classToRegex(runes[i+1 : end]))
			i = end
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String(), nil
}

// classEnd returns the index of the ']' closing the class opened at start, or -1.
func classEnd(runes []rune, start int) int {
	j := start + 1
	if j < len(runes) && (runes[j] == '!' || runes[j] == '^') {
		j++
	}
	if j < len(runes) && runes[j] == ']' {
		j++
	}
	for j < len(runes) && runes[j] != ']' {
		if runes[j] == '\\' {
			j++
		}
		j++
	}
	if j >= len(runes) {
		return -1
	}
	return j
}

func classToRegex(body []rune) string {
	var b strings.Builder
	b.WriteString("[")
	if len(body) > 0 && (body[0] == '!' || body[0] == '^') {
		b.WriteString("^/")
		body = body[1:]
	}
	for i := 0; i < len(body); i++ {
		r := body[i]
		if r == '\\' && i+1 < len(body) {
			i++
			r = body[i]
		}
		switch r {
		case '\\', '[', ']', '^':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	b.WriteString("]")
	return b.String()
}
