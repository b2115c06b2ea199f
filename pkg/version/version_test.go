package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFillFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}

	got := fillFromBuildInfo(Info{Version: "dev", GitCommit: "none", BuildTime: "unknown"}, bi)
	assert.Equal(t, "v0.3.0", got.Version)
	assert.Equal(t, "0123456", got.GitCommit)
	assert.Equal(t, "2026-01-02T03:04:05Z", got.BuildTime)
}

func TestFillFromBuildInfo_KeepsLdflags(t *testing.T) {
	bi := &debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "fff"}},
	}

	got := fillFromBuildInfo(Info{Version: "1.2.3", GitCommit: "abc", BuildTime: "now"}, bi)
	assert.Equal(t, Info{Version: "1.2.3", GitCommit: "abc", BuildTime: "now"}, got)
}

func TestInfoString(t *testing.T) {
	i := Info{Version: "1.2.3", GitCommit: "abc", BuildTime: "t", GoVersion: "go1.23.1", Platform: "linux/amd64"}
	assert.Equal(t, "repotext version 1.2.3 (commit: abc) built at t with go1.23.1 on linux/amd64", i.String())
}
