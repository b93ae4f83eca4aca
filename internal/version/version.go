// Package version reports build metadata. Release builds set the variables
// below with -ldflags -X; other builds fall back to the VCS stamp the Go
// toolchain embeds.
package version

import (
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// Info is the build metadata printed by "wcagtint version --json".
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	Date      string `json:"date,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Read collects the build metadata, preferring ldflags values.
func Read() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = strings.TrimPrefix(bi.Main.Version, "v")
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "" {
				info.Date = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// String renders Info on one line.
func (i Info) String() string {
	var b strings.Builder
	b.WriteString("wcagtint ")
	b.WriteString(i.Version)
	b.WriteString(" (")
	if i.Commit != "" {
		b.WriteString("commit ")
		b.WriteString(abbrev(i.Commit))
		if i.Modified {
			b.WriteString("+dirty")
		}
		b.WriteString(", ")
	}
	if i.Date != "" {
		b.WriteString("built ")
		b.WriteString(i.Date)
		b.WriteString(", ")
	}
	b.WriteString(i.GoVersion)
	b.WriteString(" ")
	b.WriteString(i.Platform)
	b.WriteString(")")
	return b.String()
}

// String is Read().String().
func String() string { return Read().String() }

// Short is the bare version number.
func Short() string { return Read().Version }

func abbrev(commit string) string {
	const n = 8
	if len(commit) > n {
		return commit[:n]
	}
	return commit
}
