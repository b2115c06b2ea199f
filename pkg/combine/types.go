package combine

import "repotext/pkg/config"

// Options holds the per-invocation settings for a pipeline run.
type Options struct {
	ConfigPath  string   // Explicit config file; empty uses the default lookup.
	Output      string   // Overrides the configured output path when set.
	IncludeTree bool     // Forces the directory tree section on.
	Files       []string // Explicit candidate list (e.g. interactive selection); nil means discover.
}

// Plan is the resolved input of a single run.
type Plan struct {
	Config     config.Config
	OutputPath string   // Path the artifact is written to.
	OutputRel  string   // Artifact path relative to the scan root; empty when outside it.
	Exclude    []string // Configured excludes plus the artifact itself.
}

// SeparatorWidth is the width of the rule lines framing each file header.
const SeparatorWidth = 80
