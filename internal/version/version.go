// Package version holds build information for nbcheck
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set via ldflags, e.g.
// -X github.com/nebula-lang/nbcheck/internal/version.Version=1.2.0
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info holds version information for a binary
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Current returns the version information of the running binary. When the
// commit was not injected at link time, the VCS revision recorded by the Go
// toolchain is used.
func Current() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}

	if info.Commit == "unknown" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			info = info.withBuildSettings(bi.Settings)
		}
	}
	return info
}

func (v Info) withBuildSettings(settings []debug.BuildSetting) Info {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			v.Commit = s.Value
		case "vcs.time":
			if v.BuildDate == "unknown" {
				v.BuildDate = s.Value
			}
		}
	}
	return v
}

// Short returns the version with an abbreviated commit, e.g. "1.2.0 (3f2a9c1)".
func (v Info) Short() string {
	commit := v.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if commit == "" || commit == "unknown" {
		return v.Version
	}
	return fmt.Sprintf("%s (%s)", v.Version, commit)
}
