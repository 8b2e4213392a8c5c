package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// Version information, set at build time via ldflags
	Version   = "dev"     // Release tag (e.g., "v0.2.0")
	GitCommit = "unknown" // Git commit hash
	BuildTime = "unknown" // Build timestamp
)

// String returns the version string for the css-shrink binary
func String() string {
	if Version != "dev" {
		return Version
	}

	// go install'ed binaries carry the module version in build info
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			return info.Main.Version
		}
	}

	return "dev"
}

// FullString returns the version followed by a short commit hash when known
func FullString() string {
	v := String()
	if GitCommit == "unknown" || GitCommit == "" {
		return v
	}
	commit := GitCommit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("%s (commit: %s)", v, commit)
}

// Info returns build details for the version command
func Info() map[string]string {
	return map[string]string{
		"version":   String(),
		"gitCommit": GitCommit,
		"buildTime": BuildTime,
		"goVersion": runtime.Version(),
	}
}
