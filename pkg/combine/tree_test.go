package combine

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateTree(t *testing.T) {
	tests := []struct {
		name     string
		paths    []string
		expected string
	}{
		{
			name:     "empty",
			paths:    nil,
			expected: "",
		},
		{
			name:     "single file",
			paths:    []string{"file.txt"},
			expected: "Directory Tree:\n.\n└── file.txt\n",
		},
		{
			name:     "files in root",
			paths:    []string{"a.txt", "b.txt"},
			expected: "Directory Tree:\n.\n├── a.txt\n└── b.txt\n",
		},
		{
			name: "nested directories are merged",
			paths: []string{
				"src/index.ts",
				"src/types.ts",
				"src/classes/A.ts",
				"src/classes/B.ts",
				"package.json",
			},
			expected: "Directory Tree:\n.\n" +
				"├── package.json\n" +
				"└── src\n" +
				"    ├── classes\n" +
				"    │   ├── A.ts\n" +
				"    │   └── B.ts\n" +
				"    ├── index.ts\n" +
				"    └── types.ts\n",
		},
		{
			name: "deep nesting and multiple branches",
			paths: []string{
				"src/a/deep/path/file1.ts",
				"src/a/deep/path/file2.ts",
				"src/b/other/file3.ts",
				"src/b/file4.ts",
				"root.txt",
			},
			expected: "Directory Tree:\n.\n" +
				"├── root.txt\n" +
				"└── src\n" +
				"    ├── a\n" +
				"    │   └── deep\n" +
				"    │       └── path\n" +
				"    │           ├── file1.ts\n" +
				"    │           └── file2.ts\n" +
				"    └── b\n" +
				"        ├── file4.ts\n" +
				"        └── other\n" +
				"            └── file3.ts\n",
		},
		{
			name:     "normalizes and de-duplicates",
			paths:    []string{"./a.txt", "a.txt", "b/c.txt"},
			expected: "Directory Tree:\n.\n├── a.txt\n└── b\n    └── c.txt\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GenerateTree(tt.paths))
		})
	}
}

func TestGenerateTree_IndependentOfInputOrder(t *testing.T) {
	paths := []string{
		"cmd/root.go",
		"cmd/version.go",
		"go.mod",
		"main.go",
		"pkg/combine/tree.go",
		"pkg/combine/content.go",
		"pkg/ignore/ignore.go",
		"pkg/watch/watcher.go",
		".gitignore",
	}
	expected := GenerateTree(paths)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 20; i++ {
		shuffled := append([]string(nil), paths...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, expected, GenerateTree(shuffled))
	}
}

func TestGenerateTree_DirectoriesAppearOnce(t *testing.T) {
	out := GenerateTree([]string{"src/index.ts", "src/types.ts", "src/classes/A.ts", "src/classes/B.ts", "package.json"})

	assert.Equal(t, 1, strings.Count(out, "── src\n"))
	assert.Equal(t, 1, strings.Count(out, "── classes\n"))
}

func TestGenerateTree_DoesNotMutateInput(t *testing.T) {
	paths := []string{"b.txt", "a.txt"}
	GenerateTree(paths)

	assert.Equal(t, []string{"b.txt", "a.txt"}, paths)
}
