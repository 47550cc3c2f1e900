// Package version reports build metadata for the contractgen binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at build time via -ldflags "-X github.com/teranos/contractgen/version.Version=...".
var (
	Version    = "dev"
	CommitHash = ""
	BuildTime  = ""
)

// Info is the build metadata printed by `contractgen version`.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get merges ldflags values with the VCS stamps the Go toolchain embeds,
// so `go install` builds still report a commit.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    CommitHash,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// Short returns the abbreviated commit, or "unknown".
func (i Info) Short() string {
	switch {
	case i.Commit == "":
		return "unknown"
	case len(i.Commit) > 7:
		return i.Commit[:7]
	default:
		return i.Commit
	}
}

func (i Info) String() string {
	commit := i.Short()
	if i.Modified {
		commit += "-dirty"
	}
	if i.BuildTime == "" {
		return fmt.Sprintf("contractgen %s (commit %s)", i.Version, commit)
	}
	return fmt.Sprintf("contractgen %s (commit %s, built %s)", i.Version, commit, i.BuildTime)
}
