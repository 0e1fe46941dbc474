package version

import (
	"runtime/debug"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func withBuildInfo(t *testing.T, info *debug.BuildInfo) {
	t.Helper()
	prev := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, info != nil }
	t.Cleanup(func() { readBuildInfo = prev })
}

func withVars(t *testing.T, version, commit, built string) {
	t.Helper()
	pv, pc, pb := Version, GitCommit, BuildTime
	Version, GitCommit, BuildTime = version, commit, built
	t.Cleanup(func() { Version, GitCommit, BuildTime = pv, pc, pb })
}

func TestLdflagsWin(t *testing.T) {
	withVars(t, "v1.2.3", "0123456789abcdef", "2025-01-02T03:04:05Z")
	withBuildInfo(t, nil)

	assert.Equal(t, "v1.2.3", GetVersion())
	assert.Equal(t, "v1.2.3 (0123456)", GetShortVersion())
	assert.True(t, IsRelease())

	info := GetBuildInfo()
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), info.BuildTime)
	assert.Equal(t, "unknown", info.Templ)
}

func TestFallsBackToVCS(t *testing.T) {
	withVars(t, "dev", "unknown", "unknown")
	withBuildInfo(t, &debug.BuildInfo{
		Main: debug.Module{Version: "(devel)"},
		Deps: []*debug.Module{{Path: "github.com/a-h/templ", Version: "v0.3.906"}},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abcdef0123456789"},
			{Key: "vcs.modified", Value: "true"},
		},
	})

	assert.Equal(t, "dev-abcdef0", GetVersion())
	assert.Equal(t, "abcdef0123456789", GetGitCommit())
	assert.Equal(t, "dev-abcdef0", GetShortVersion())
	assert.False(t, IsRelease())

	info := GetBuildInfo()
	assert.Equal(t, "v0.3.906", info.Templ)
	assert.True(t, info.Dirty)

	detailed := GetDetailedVersion()
	assert.Contains(t, detailed, "Commit: abcdef0123456789 (dirty)")
	assert.Contains(t, detailed, "templ: v0.3.906")
	assert.NotContains(t, detailed, "Built:")
}

func TestNoBuildInfo(t *testing.T) {
	withVars(t, "dev", "unknown", "unknown")
	withBuildInfo(t, nil)

	assert.Equal(t, "dev", GetVersion())
	assert.Equal(t, "unknown", GetGitCommit())
	assert.Equal(t, "dev", GetShortVersion())
	assert.True(t, strings.HasPrefix(GetDetailedVersion(), "Version: dev\n"))
}

func TestParseISOTime(t *testing.T) {
	assert.True(t, parseISOTime("unknown").IsZero())
	assert.True(t, parseISOTime("yesterday").IsZero())
	assert.Equal(t, 2024, parseISOTime("2024-06-01 10:00:00").Year())
	assert.Equal(t, 2024, parseISOTime("2024-06-01T10:00:00").Year())
}
