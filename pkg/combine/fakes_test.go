package combine

import (
	"context"
	"errors"
	"io/fs"

	"repotext/pkg/config"
)

// fakeFS is an in-memory FileSystem recording reads and writes.
type fakeFS struct {
	files    map[string]string
	dirs     map[string]bool
	readErrs map[string]error
	statErrs map[string]error
	reads    []string
	written  map[string]string
}

func newFakeFS(files map[string]string) *fakeFS {
	return &fakeFS{
		files:    files,
		dirs:     map[string]bool{},
		readErrs: map[string]error{},
		statErrs: map[string]error{},
		written:  map[string]string{},
	}
}

func (f *fakeFS) ReadText(path string) (string, error) {
	f.reads = append(f.reads, path)
	if err, ok := f.readErrs[path]; ok {
		return "", err
	}
	content, ok := f.files[path]
	if !ok {
		return "", fs.ErrNotExist
	}
	return content, nil
}

func (f *fakeFS) WriteText(path, content string) error {
	f.written[path] = content
	return nil
}

func (f *fakeFS) Exists(path string) bool {
	_, ok := f.files[path]
	return ok || f.dirs[path]
}

func (f *fakeFS) IsRegularFile(path string) (bool, error) {
	if err, ok := f.statErrs[path]; ok {
		return false, err
	}
	if f.dirs[path] {
		return false, nil
	}
	_, ok := f.files[path]
	return ok || f.readErrs[path] != nil, nil
}

// fakeDiscoverer returns a fixed list and records the patterns it was asked for.
type fakeDiscoverer struct {
	files   []string
	err     error
	include []string
	exclude []string
	calls   int
}

func (d *fakeDiscoverer) Discover(_ context.Context, include, exclude []string) ([]string, error) {
	d.calls++
	d.include = include
	d.exclude = exclude
	return d.files, d.err
}

// staticConfig is a ConfigProvider returning a fixed value or error.
type staticConfig struct {
	cfg config.Config
	err error
}

func (s staticConfig) Load(string) (config.Config, error) {
	if s.err != nil {
		return config.Config{}, s.err
	}
	return s.cfg, nil
}

var errPermission = errors.New("permission denied")
