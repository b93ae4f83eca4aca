// Package protocol decides whether an external plugin speaks a protocol the
// host understands, and which transport it wants.
package protocol

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmylchreest/wcagtint/pkg/plugin"
)

const (
	ProtocolVersion      = plugin.ProtocolVersion
	MinCompatibleVersion = plugin.MinCompatibleVersion
)

// Version is a MAJOR.MINOR.PATCH triple.
type Version struct {
	Major, Minor, Patch int
}

// Parse reads a MAJOR.MINOR.PATCH string. A leading "v" is tolerated.
func Parse(s string) (Version, error) {
	fields := strings.Split(strings.TrimPrefix(s, "v"), ".")
	if len(fields) != 3 {
		return Version{}, fmt.Errorf("invalid version format %q: want MAJOR.MINOR.PATCH", s)
	}
	var n [3]int
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil || v < 0 {
			return Version{}, fmt.Errorf("invalid version component %q in %q", f, s)
		}
		n[i] = v
	}
	return Version{Major: n[0], Minor: n[1], Patch: n[2]}, nil
}

func (v Version) String() string {
	return strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor) + "." + strconv.Itoa(v.Patch)
}

// Compare orders versions the usual way, returning -1, 0 or +1.
func (v Version) Compare(o Version) int {
	if c := cmp.Compare(v.Major, o.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Minor, o.Minor); c != 0 {
		return c
	}
	return cmp.Compare(v.Patch, o.Patch)
}

func mustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic("protocol: bad built-in version: " + err.Error())
	}
	return v
}

// GetCurrentVersion is the host's protocol version.
func GetCurrentVersion() Version {
	return mustParse(ProtocolVersion)
}

// IsCompatible reports whether a plugin announcing version s may be loaded.
// The major number has to equal the host's and the version may not predate
// MinCompatibleVersion; newer minor and patch releases are accepted.
func IsCompatible(s string) (bool, error) {
	got, err := Parse(s)
	if err != nil {
		return false, fmt.Errorf("failed to parse plugin protocol version: %w", err)
	}

	host := GetCurrentVersion()
	if got.Major != host.Major {
		return false, fmt.Errorf("incompatible major version: plugin speaks %s, host needs %d.x.x", got, host.Major)
	}
	if floor := mustParse(MinCompatibleVersion); got.Compare(floor) < 0 {
		return false, fmt.Errorf("plugin protocol %s is too old, need at least %s", got, floor)
	}
	return true, nil
}
