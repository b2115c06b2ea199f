// Package selector lets the user pick a subset of candidate files interactively.
package selector

import (
	"context"
	"os"
	"os/exec"

	"go.uber.org/zap"
	"golang.org/x/term"
)

// Selector returns the candidates the user picked. An empty result with a nil
// error means the user made no selection.
type Selector interface {
	Select(ctx context.Context, candidates []string) ([]string, error)
}

// New returns an fzf-backed selector when fzf is on PATH and the built-in fuzzy
// prompt otherwise.
func New(logger *zap.Logger) Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path, err := exec.LookPath("fzf"); err == nil {
		logger.Debug("Using fzf for selection", zap.String("path", path))
		return &FzfSelector{Path: path, Stderr: os.Stderr}
	}

	logger.Debug("fzf not found, using built-in prompt")
	return &PromptSelector{
		In:  os.Stdin,
		Out: os.Stderr,
		IsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}
