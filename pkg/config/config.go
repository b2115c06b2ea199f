// Package config resolves the aggregation settings for a single run.
package config

// DefaultFileNames lists the config files looked up in the scan root, in order.
var DefaultFileNames = []string{"repo-to-text.json", "repo-to-text.yaml", "repo-to-text.yml"}

// Config is the resolved configuration for one pipeline run. It is built fresh for
// every run and passed by value.
type Config struct {
	Include []string
	Exclude []string
	Output  OutputConfig
	Watch   WatchConfig
	Tree    TreeConfig
}

// OutputConfig controls where and how the artifact is written.
type OutputConfig struct {
	Path          string
	MaxFileSizeKB int // Files larger than this are skipped; 0 disables the limit.
}

// WatchConfig controls the change watcher.
type WatchConfig struct {
	DebounceMs int
}

// TreeConfig controls the directory tree section.
type TreeConfig struct {
	Enabled bool
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Include: []string{"**/*"},
		Exclude: []string{
			"node_modules/**",
			".git/**",
			"package-lock.json",
			"yarn.lock",
			"pnpm-lock.yaml",
			"bun.lockb",
		},
		Output: OutputConfig{Path: "repo-contents.txt"},
		Watch:  WatchConfig{DebounceMs: 300},
	}
}

// fileConfig mirrors the on-disk format. Pointer fields distinguish an absent key
// from a zero value so that nested groups can be merged key by key.
type fileConfig struct {
	Include []string `json:"include" yaml:"include"`
	Exclude []string `json:"exclude" yaml:"exclude"`
	Output  *struct {
		Path          *string `json:"path" yaml:"path"`
		MaxFileSizeKB *int    `json:"maxFileSizeKB" yaml:"maxFileSizeKB"`
	} `json:"output" yaml:"output"`
	Watch *struct {
		DebounceMs *int `json:"debounceMs" yaml:"debounceMs"`
	} `json:"watch" yaml:"watch"`
	Tree *struct {
		Enabled *bool `json:"enabled" yaml:"enabled"`
	} `json:"tree" yaml:"tree"`
}
