package selector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// DefaultPrompt is shown by fzf.
const DefaultPrompt = "> Select files with TAB/Shift-TAB. Press Enter to confirm. "

// fzf exit codes that mean "nothing selected" rather than failure.
const (
	fzfNoMatch     = 1
	fzfInterrupted = 130
)

// FzfSelector runs fzf in multi-select mode. Candidates are fed on stdin and the
// selection is read from stdout; fzf draws its UI on the terminal directly.
type FzfSelector struct {
	Path   string
	Prompt string
	Stderr io.Writer
}

func (s *FzfSelector) Select(ctx context.Context, candidates []string) ([]string, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	prompt := s.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}
	path := s.Path
	if path == "" {
		path = "fzf"
	}

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, path, "--multi", "--prompt", prompt)
	cmd.Stdin = strings.NewReader(strings.Join(candidates, "\n") + "\n")
	cmd.Stdout = &stdout
	cmd.Stderr = s.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			switch exitErr.ExitCode() {
			case fzfNoMatch, fzfInterrupted:
				return nil, nil
			}
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("fzf failed: %w", err)
	}

	return parseLines(stdout.String()), nil
}

func parseLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
