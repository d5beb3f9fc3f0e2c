package lvmfx

import (
	"fmt"
	"runtime/debug"
	"strconv"
)

// Set at build time via `-ldflags "-X 'github.com/avfxteam/lvmfx/src.Version=X'"`
var Version string

func getBuildSettingOrDefault(bi *debug.BuildInfo, key string, defaultValue string) string {
	for _, bs := range bi.Settings {
		if bs.Key == key {
			return bs.Value
		}
	}

	return defaultValue
}

// VersionString renders a one-line "name vX.Y (revision, built at T)" banner
// for cmd/ tools, pulling VCS metadata from the Go module build info when
// available.
func VersionString() string {
	var buildInfo, _ = debug.ReadBuildInfo()

	var buildTimeStr = getBuildSettingOrDefault(buildInfo, "vcs.time", "UNKNOWN")

	var (
		buildCommit               = getBuildSettingOrDefault(buildInfo, "vcs.revision", "UNKNOWN")
		buildDirtyStr             = getBuildSettingOrDefault(buildInfo, "vcs.modified", "false")
		buildDirty, buildDirtyErr = strconv.ParseBool(buildDirtyStr)
	)

	if buildDirty {
		buildCommit += "-dirty"
	} else if buildDirtyErr != nil {
		buildCommit += "-unknown"
	}

	var version = Version
	if version == "" {
		version = "devel"
	}

	return fmt.Sprintf("lvmfx %s (revision %s, built at %s)", version, buildCommit, buildTimeStr)
}
