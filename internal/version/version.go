package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// AppName is the binary name.
const AppName = "hotslash"

// Set with -ldflags "-X github.com/keshon/hotslash/internal/version.Version=...".
var (
	Version   = ""
	Commit    = ""
	BuildDate = ""
)

// Info is the resolved build information.
type Info struct {
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
}

// Get resolves build information, falling back to what the Go toolchain
// embedded when ldflags were not set.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		if info.Version == "" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = s.Value
				}
			case "vcs.time":
				if info.BuildDate == "" {
					info.BuildDate = s.Value
				}
			}
		}
	}
	if info.Version == "" || info.Version == "(devel)" {
		info.Version = "dev"
	}
	return info
}

func (i Info) String() string {
	commit := i.Commit
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if commit == "" {
		commit = "unknown"
	}
	return fmt.Sprintf("%s %s (commit %s, built %s, %s)", AppName, i.Version, commit, orUnknown(i.BuildDate), i.GoVersion)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
