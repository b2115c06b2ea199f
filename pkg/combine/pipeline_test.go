package combine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"repotext/pkg/config"
)

func writeRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func testConfig(output string, tree bool, exclude ...string) config.Config {
	return config.Config{
		Include: []string{"**/*"},
		Exclude: exclude,
		Output:  config.OutputConfig{Path: output},
		Watch:   config.WatchConfig{DebounceMs: 300},
		Tree:    config.TreeConfig{Enabled: tree},
	}
}

func TestPipeline_EndToEnd(t *testing.T) {
	root := writeRepo(t, map[string]string{"a.txt": "A", "b/c.txt": "C"})
	p := NewPipeline(Deps{
		Root:   root,
		Config: staticConfig{cfg: testConfig("out.txt", true)},
		Logger: zaptest.NewLogger(t),
	})

	expected := "Directory Tree:\n.\n├── a.txt\n└── b\n    └── c.txt\n" +
		"\n" +
		block("a.txt", "A") +
		block("b/c.txt", "C")

	// The second run sees the artifact of the first one on disk and must skip it.
	for i := 0; i < 2; i++ {
		outputPath, err := p.Run(context.Background(), Options{})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "out.txt"), outputPath)

		data, err := os.ReadFile(outputPath)
		require.NoError(t, err)
		assert.Equal(t, expected, string(data))
	}

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"a.txt", "b", "out.txt"}, names)
}

func TestPipeline_AppliesGitignoreAndExcludes(t *testing.T) {
	root := writeRepo(t, map[string]string{
		".gitignore":        "*.log\ndist/\n",
		"main.go":           "package main",
		"debug.log":         "noise",
		"dist/bundle.js":    "bundle",
		"vendor/lib/lib.go": "package lib",
	})
	p := NewPipeline(Deps{
		Root:   root,
		Config: staticConfig{cfg: testConfig("out.txt", false, "vendor/**")},
		Logger: zaptest.NewLogger(t),
	})

	outputPath, err := p.Run(context.Background(), Options{})
	require.NoError(t, err)

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, block(".gitignore", "*.log\ndist/\n")+block("main.go", "package main"), string(data))
}

func TestPipeline_GlobalIgnoreFile(t *testing.T) {
	root := writeRepo(t, map[string]string{"keep.go": "k", "gen.pb.go": "g"})
	global := filepath.Join(t.TempDir(), "global-ignore")
	require.NoError(t, os.WriteFile(global, []byte("*.pb.go\n"), 0o644))

	p := NewPipeline(Deps{
		Root:             root,
		Config:           staticConfig{cfg: testConfig("out.txt", false)},
		GlobalIgnoreFile: global,
	})

	outputPath, err := p.Run(context.Background(), Options{})
	require.NoError(t, err)

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, block("keep.go", "k"), string(data))
}

func TestPipeline_ExplicitFilesAreFilteredAndSorted(t *testing.T) {
	fsys := newFakeFS(map[string]string{"b.txt": "B", "a.txt": "A", "secret.env": "S"})
	discoverer := &fakeDiscoverer{}
	p := NewPipeline(Deps{
		Config:     staticConfig{cfg: testConfig("out.txt", false, "*.env")},
		Discoverer: discoverer,
		FS:         fsys,
		Logger:     zaptest.NewLogger(t),
	})

	outputPath, err := p.Run(context.Background(), Options{Files: []string{"b.txt", "./a.txt", "secret.env"}})
	require.NoError(t, err)

	assert.Equal(t, "out.txt", outputPath)
	assert.Equal(t, 0, discoverer.calls)
	assert.Equal(t, block("a.txt", "A")+block("b.txt", "B"), fsys.written["out.txt"])
}

func TestPipeline_TreeFromOptions(t *testing.T) {
	fsys := newFakeFS(map[string]string{"a.txt": "A"})
	p := NewPipeline(Deps{
		Config:     staticConfig{cfg: testConfig("out.txt", false)},
		Discoverer: &fakeDiscoverer{files: []string{"a.txt"}},
		FS:         fsys,
	})

	_, err := p.Run(context.Background(), Options{IncludeTree: true, Output: "custom.txt"})
	require.NoError(t, err)

	assert.Equal(t, "Directory Tree:\n.\n└── a.txt\n\n"+block("a.txt", "A"), fsys.written["custom.txt"])
	assert.NotContains(t, fsys.written, "out.txt")
}

func TestPipeline_PassesExclusionsToDiscovery(t *testing.T) {
	discoverer := &fakeDiscoverer{}
	p := NewPipeline(Deps{
		Config:     staticConfig{cfg: testConfig("dump/out.txt", false, "node_modules/**")},
		Discoverer: discoverer,
		FS:         newFakeFS(nil),
	})

	_, err := p.Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"**/*"}, discoverer.include)
	assert.Equal(t, []string{"node_modules/**", "dump/out.txt", "dump/out.txt.*.tmp"}, discoverer.exclude)
}

func TestPipeline_Plan(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(t.TempDir(), "elsewhere.txt")
	p := NewPipeline(Deps{Root: root, Config: staticConfig{cfg: testConfig("out.txt", false)}})

	plan, err := p.Plan(Options{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "out.txt"), plan.OutputPath)
	assert.Equal(t, "out.txt", plan.OutputRel)
	assert.Contains(t, plan.Exclude, "out.txt")

	plan, err = p.Plan(Options{Output: outside})
	require.NoError(t, err)
	assert.Equal(t, outside, plan.OutputPath)
	assert.Empty(t, plan.OutputRel)
	assert.Empty(t, plan.Exclude)
}

func TestPipeline_PropagatesFailures(t *testing.T) {
	errBoom := errors.New("boom")

	t.Run("config", func(t *testing.T) {
		p := NewPipeline(Deps{Config: staticConfig{err: errBoom}, FS: newFakeFS(nil)})
		_, err := p.Run(context.Background(), Options{})
		assert.ErrorIs(t, err, errBoom)
	})

	t.Run("discovery", func(t *testing.T) {
		fsys := newFakeFS(nil)
		p := NewPipeline(Deps{
			Config:     staticConfig{cfg: testConfig("out.txt", false)},
			Discoverer: &fakeDiscoverer{err: errBoom},
			FS:         fsys,
		})
		_, err := p.Run(context.Background(), Options{})
		assert.ErrorIs(t, err, errBoom)
		assert.Empty(t, fsys.written)
	})

	t.Run("ignore source", func(t *testing.T) {
		fsys := newFakeFS(map[string]string{".gitignore": ""})
		fsys.readErrs[".gitignore"] = errPermission
		p := NewPipeline(Deps{
			Config:     staticConfig{cfg: testConfig("out.txt", false)},
			Discoverer: &fakeDiscoverer{},
			FS:         fsys,
		})
		_, err := p.Run(context.Background(), Options{})
		assert.ErrorIs(t, err, errPermission)
	})
}

func TestPipeline_Candidates(t *testing.T) {
	fsys := newFakeFS(map[string]string{".gitignore": "*.log\n"})
	p := NewPipeline(Deps{
		Config:     staticConfig{cfg: testConfig("out.txt", false)},
		Discoverer: &fakeDiscoverer{files: []string{"b.go", "a.go", "x.log", "out.txt"}},
		FS:         fsys,
	})

	files, err := p.Candidates(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "b.go"}, files)
}
