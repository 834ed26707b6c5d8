package version //nolint:revive // package name intentionally matches build-info convention

import (
	"fmt"
	"runtime/debug"
)

//nolint:gochecknoglobals //version information is set at build time
var (
	Repository string
	Version    string
	Commit     string
	Date       string
)

// String describes the build. Values missing from the linker flags are filled from
// the module build info where Go recorded it.
func String() string {
	version, commit, date := Version, Commit, Date

	if info, ok := debug.ReadBuildInfo(); ok {
		if version == "" && info.Main.Version != "" {
			version = info.Main.Version
		}
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				if commit == "" {
					commit = setting.Value
				}
			case "vcs.time":
				if date == "" {
					date = setting.Value
				}
			}
		}
	}

	if version == "" {
		version = "devel"
	}

	out := version
	if Repository != "" {
		out = Repository + " " + out
	}
	if commit != "" {
		out += fmt.Sprintf(" (commit %s", commit)
		if date != "" {
			out += ", built " + date
		}
		out += ")"
	}
	return out
}
