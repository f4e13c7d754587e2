// Package version provides version information for docformat.
// These variables are set via ldflags during the build process.
package version

import (
	"runtime"
	"runtime/debug"
)

// Version is the current version of the binary.
// Set via -ldflags "-X github.com/docformat-toolkit/docformat/pkg/version.Version=..."
var Version = "dev"

// BuildDate is the date when the binary was built.
// Set via -ldflags "-X github.com/docformat-toolkit/docformat/pkg/version.BuildDate=..."
var BuildDate = "unknown"

// GitCommit is the git commit hash used to build the binary.
// Set via -ldflags "-X github.com/docformat-toolkit/docformat/pkg/version.GitCommit=..."
var GitCommit = "unknown"

// String returns a formatted version string.
func String() string {
	return Version
}

// FullString returns a detailed version string including build info.
func FullString() string {
	if Version == "dev" {
		return "docformat development version"
	}
	return "docformat " + Version
}

// Info returns all version information as a map. The commit falls back to
// the VCS revision recorded by the Go toolchain when not set via ldflags.
func Info() map[string]string {
	commit := GitCommit
	if commit == "unknown" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" && s.Value != "" {
					commit = s.Value
				}
			}
		}
	}
	return map[string]string{
		"version":   Version,
		"buildDate": BuildDate,
		"gitCommit": commit,
		"goVersion": runtime.Version(),
	}
}
