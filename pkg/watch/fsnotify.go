// File: pkg/watch/fsnotify.go
package watch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"repotext/pkg/scan"
)

// IgnoredDirs are never watched, whatever the configured scope.
var IgnoredDirs = []string{".git", "node_modules"}

// FSNotifySource watches a directory tree with fsnotify and emits events for
// files inside the scope. Directories created later are watched as they appear.
type FSNotifySource struct {
	root    string
	scope   scan.Scope
	watcher *fsnotify.Watcher
	events  chan Event
	done    chan struct{}
	logger  *zap.Logger

	closeOnce sync.Once
	closeErr  error
	wg        sync.WaitGroup
}

// NewFSNotifySource starts watching root. It fails when the root itself cannot be
// watched; subdirectories that cannot be watched are logged and skipped.
func NewFSNotifySource(root string, scope scan.Scope, logger *zap.Logger) (*FSNotifySource, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	s := &FSNotifySource{
		root:    root,
		scope:   scope,
		watcher: fw,
		events:  make(chan Event, 64),
		done:    make(chan struct{}),
		logger:  logger,
	}

	if err := fw.Add(root); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", root, err)
	}
	if err := s.addTree(root); err != nil {
		logger.Warn("Some directories are not watched",
			zap.Int("failures", len(multierr.Errors(err))),
			zap.Error(err))
	}

	s.wg.Add(1)
	go s.loop()
	return s, nil
}

// Events returns the event stream.
func (s *FSNotifySource) Events() <-chan Event {
	return s.events
}

// Close stops watching and closes the event stream.
func (s *FSNotifySource) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.closeErr = s.watcher.Close()
		s.wg.Wait()
	})
	return s.closeErr
}

// addTree watches every directory below dir that is in scope. Failures are
// collected and returned together.
func (s *FSNotifySource) addTree(dir string) error {
	var errs error
	walkErr := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			errs = multierr.Append(errs, err)
			return nil
		}
		if !d.IsDir() || p == s.root {
			return nil
		}
		rel, ok := s.relative(p)
		if !ok || s.skipDir(rel) {
			return filepath.SkipDir
		}
		if err := s.watcher.Add(p); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("watch %s: %w", rel, err))
		}
		return nil
	})
	return multierr.Append(errs, walkErr)
}

func (s *FSNotifySource) loop() {
	defer s.wg.Done()
	defer close(s.events)

	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			s.translate(ev)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.emit(Event{Op: OpError, Err: err})
		}
	}
}

func (s *FSNotifySource) translate(ev fsnotify.Event) {
	rel, ok := s.relative(ev.Name)
	if !ok || inIgnoredDir(rel) {
		return
	}

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if s.skipDir(rel) {
				return
			}
			if err := s.addTree(ev.Name); err != nil && !errors.Is(err, fsnotify.ErrClosed) {
				s.logger.Warn("Failed to watch new directory", zap.String("directory", rel), zap.Error(err))
			}
			// Files written before the watch was in place would otherwise go unnoticed.
			s.emit(Event{Op: OpAdd, Path: rel})
			return
		}
	}

	var op Op
	switch {
	case ev.Has(fsnotify.Create):
		op = OpAdd
	case ev.Has(fsnotify.Write):
		op = OpChange
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		op = OpRemove
	default:
		return
	}

	// A removed directory no longer matches file patterns but its files are gone too.
	if op != OpRemove && !s.scope.Includes(rel) {
		return
	}
	if op == OpRemove && s.scope.Excludes(rel) {
		return
	}
	s.emit(Event{Op: op, Path: rel})
}

func (s *FSNotifySource) emit(ev Event) {
	select {
	case s.events <- ev:
	case <-s.done:
	}
}

func (s *FSNotifySource) relative(p string) (string, bool) {
	rel, err := filepath.Rel(s.root, p)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (s *FSNotifySource) skipDir(rel string) bool {
	return inIgnoredDir(rel) || s.scope.PrunesDir(rel)
}

// inIgnoredDir reports whether any segment of rel is one of IgnoredDirs.
func inIgnoredDir(rel string) bool {
	for _, segment := range strings.Split(rel, "/") {
		for _, dir := range IgnoredDirs {
			if segment == dir {
				return true
			}
		}
	}
	return false
}
