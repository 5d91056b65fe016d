package main

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/vidnavigator/vidnav/internal/cmd"
)

func main() {
	cmd.SetVersion(buildVersionString())
	cmd.Execute()
}

const shortHashLength = 7

// buildVersionString joins the release version with commit and build date,
// falling back to the VCS stamps embedded by the Go toolchain.
func buildVersionString() string {
	parts := []string{"dev"}
	if Version != "" {
		parts[0] = Version
	}

	commit := GitCommit
	if commit == "" {
		commit = vcsSetting("vcs.revision")
		if len(commit) > shortHashLength {
			commit = commit[:shortHashLength]
		}
	}
	if commit != "" {
		parts = append(parts, fmt.Sprintf("commit: %s", commit))
	}

	built := BuildDate
	if built == "" {
		built = vcsSetting("vcs.time")
	}
	if built != "" {
		parts = append(parts, fmt.Sprintf("built: %s", built))
	}

	return strings.Join(parts, ", ")
}

// readBuildInfo is replaced in tests
var readBuildInfo = debug.ReadBuildInfo

func vcsSetting(key string) string {
	info, ok := readBuildInfo()
	if !ok {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}
	return ""
}
