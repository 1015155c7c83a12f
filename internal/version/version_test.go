// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

// withVersionVars restores the package variables after a test.
func withVersionVars(t *testing.T, version, commit, date string) {
	t.Helper()
	oldVersion, oldCommit, oldDate, oldRead := Version, GitCommit, BuildDate, readBuildInfo
	Version, GitCommit, BuildDate = version, commit, date
	t.Cleanup(func() {
		Version, GitCommit, BuildDate, readBuildInfo = oldVersion, oldCommit, oldDate, oldRead
	})
}

func TestFillFromBuildInfo(t *testing.T) {
	withVersionVars(t, "0.0.0-development", "unknown", "unknown")
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			Main: debug.Module{Version: "v1.2.3"},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef0123"},
				{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			},
		}, true
	}

	fillFromBuildInfo()
	assert.Equal(t, "v1.2.3", Version)
	assert.Equal(t, "0123456789ab", GitCommit)
	assert.Equal(t, "2026-01-02T03:04:05Z", BuildDate)
}

func TestFillFromBuildInfo_LdflagsWin(t *testing.T) {
	withVersionVars(t, "2.0.0", "abc", "yesterday")
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			Main:     debug.Module{Version: "v1.2.3"},
			Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ffff"}},
		}, true
	}

	fillFromBuildInfo()
	assert.Equal(t, "2.0.0", Version)
	assert.Equal(t, "abc", GitCommit)
	assert.Equal(t, "yesterday", BuildDate)
}

func TestFillFromBuildInfo_DevelIgnored(t *testing.T) {
	withVersionVars(t, "0.0.0-development", "unknown", "unknown")
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true
	}

	fillFromBuildInfo()
	assert.Equal(t, "0.0.0-development", Version)
}

func TestInfo(t *testing.T) {
	withVersionVars(t, "1.0.0", "abc123", "today")
	assert.Contains(t, Info(), "pdf2email 1.0.0 (commit: abc123, built: today")
	assert.Equal(t, "1.0.0", Short())
	assert.Equal(t, "1.0.0", Full()["version"])
}
