// File: pkg/config/loader.go
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Loader reads and merges user configuration over the defaults.
type Loader struct {
	root   string
	strict bool
	logger *zap.Logger
}

// NewLoader creates a loader that resolves default config files relative to root.
// In strict mode invalid config content is returned as an error instead of
// falling back to defaults.
func NewLoader(root string, strict bool, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{root: root, strict: strict, logger: logger}
}

// Load resolves the configuration. An explicit path is tried first; when it does not
// exist the default file names in the root are tried. Without any config file the
// defaults are returned.
func (l *Loader) Load(explicitPath string) (Config, error) {
	path := l.locate(explicitPath)
	if path == "" {
		return Default(), nil
	}

	cfg, err := l.LoadFile(path)
	if err != nil {
		if l.strict {
			return Config{}, err
		}
		l.logger.Warn("Invalid config file, falling back to defaults",
			zap.String("file", path),
			zap.Error(err))
		return Default(), nil
	}
	l.logger.Debug("Loaded config file", zap.String("file", path))
	return cfg, nil
}

// LoadFile parses one config file and merges it over the defaults.
func (l *Loader) LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&fc); err != nil {
			return Config{}, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}
	return merge(Default(), fc)
}

func (l *Loader) locate(explicitPath string) string {
	if explicitPath != "" {
		if fileExists(explicitPath) {
			return explicitPath
		}
		l.logger.Warn("Config file not found, trying defaults", zap.String("file", explicitPath))
	}
	for _, name := range DefaultFileNames {
		candidate := filepath.Join(l.root, name)
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

// merge applies user settings over base: include replaces, exclude is appended
// (union, base first) and nested groups are merged key by key.
func merge(base Config, fc fileConfig) (Config, error) {
	out := base
	out.Include = append([]string(nil), base.Include...)
	out.Exclude = append([]string(nil), base.Exclude...)

	if fc.Include != nil {
		out.Include = append([]string(nil), fc.Include...)
	}
	if len(fc.Exclude) > 0 {
		out.Exclude = lo.Uniq(append(out.Exclude, fc.Exclude...))
	}

	if fc.Output != nil {
		if fc.Output.Path != nil {
			out.Output.Path = *fc.Output.Path
		}
		if fc.Output.MaxFileSizeKB != nil {
			out.Output.MaxFileSizeKB = *fc.Output.MaxFileSizeKB
		}
	}
	if fc.Watch != nil && fc.Watch.DebounceMs != nil {
		out.Watch.DebounceMs = *fc.Watch.DebounceMs
	}
	if fc.Tree != nil && fc.Tree.Enabled != nil {
		out.Tree.Enabled = *fc.Tree.Enabled
	}

	return out, out.validate()
}

var errEmptyOutputPath = errors.New("output.path must not be empty")

func (c Config) validate() error {
	if c.Output.Path == "" {
		return errEmptyOutputPath
	}
	if c.Watch.DebounceMs < 0 {
		return fmt.Errorf("watch.debounceMs must not be negative, got %d", c.Watch.DebounceMs)
	}
	if c.Output.MaxFileSizeKB < 0 {
		return fmt.Errorf("output.maxFileSizeKB must not be negative, got %d", c.Output.MaxFileSizeKB)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
