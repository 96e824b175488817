// Package misc provides program identity helpers.
package misc

import (
	"runtime/debug"
)

const appName = "fea"

// GetAppName returns short program name used for logs, reports and help.
func GetAppName() string {
	return appName
}

// GetVersion returns module version recorded in build info.
func GetVersion() string {
	if bi, ok := debug.ReadBuildInfo(); ok && len(bi.Main.Version) > 0 {
		return bi.Main.Version
	}
	return "(devel)"
}

// GetGitHash returns VCS revision recorded in build info.
func GetGitHash() string {
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
