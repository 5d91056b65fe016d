package main

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

// setBuildVars swaps the ldflags variables and the build info reader for
// the duration of a test
func setBuildVars(t *testing.T, version, commit, date string, settings []debug.BuildSetting) {
	t.Helper()
	origVersion, origCommit, origDate, origRead := Version, GitCommit, BuildDate, readBuildInfo
	t.Cleanup(func() {
		Version, GitCommit, BuildDate, readBuildInfo = origVersion, origCommit, origDate, origRead
	})

	Version, GitCommit, BuildDate = version, commit, date
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		if settings == nil {
			return nil, false
		}
		return &debug.BuildInfo{Settings: settings}, true
	}
}

func TestBuildVersionString(t *testing.T) {
	vcs := []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.time", Value: "2026-10-01T08:00:00Z"},
	}

	tests := []struct {
		name     string
		version  string
		commit   string
		date     string
		settings []debug.BuildSetting
		want     string
	}{
		{
			name:    "ldflags only",
			version: "v0.3.0",
			commit:  "abc1234",
			date:    "2026-10-17T12:00:00Z",
			want:    "v0.3.0, commit: abc1234, built: 2026-10-17T12:00:00Z",
		},
		{
			name: "no metadata and no build info",
			want: "dev",
		},
		{
			name:     "vcs fallback truncates revision",
			version:  "v0.3.0",
			settings: vcs,
			want:     "v0.3.0, commit: 0123456, built: 2026-10-01T08:00:00Z",
		},
		{
			name:     "ldflags win over vcs",
			commit:   "feedbee",
			settings: vcs,
			want:     "dev, commit: feedbee, built: 2026-10-01T08:00:00Z",
		},
		{
			name:     "short revision kept whole",
			settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc"}},
			want:     "dev, commit: abc",
		},
		{
			name:     "build info without vcs stamps",
			version:  "v1.0.0",
			settings: []debug.BuildSetting{{Key: "GOOS", Value: "linux"}},
			want:     "v1.0.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBuildVars(t, tt.version, tt.commit, tt.date, tt.settings)
			assert.Equal(t, tt.want, buildVersionString())
		})
	}
}

func TestVCSSetting(t *testing.T) {
	setBuildVars(t, "", "", "", []debug.BuildSetting{{Key: "vcs.modified", Value: "true"}})

	assert.Equal(t, "true", vcsSetting("vcs.modified"))
	assert.Empty(t, vcsSetting("vcs.revision"))
}
