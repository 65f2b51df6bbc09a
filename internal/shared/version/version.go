// Package version carries build metadata injected with -ldflags.
package version

import "strings"

// Set at build time:
//
//	-ldflags "-X github.com/rewardsboard/eventcast/internal/shared/version.Current=v1.2.3"
var (
	Current   = "dev"
	Commit    = "unknown"
	BuildTime = ""
)

// Normalize ensures version string has "v" prefix.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3"
func Normalize(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return ""
	}
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// Info is the payload of GET /version.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time,omitempty"`
}

func Get() Info {
	return Info{
		Version:   Normalize(Current),
		Commit:    Commit,
		BuildTime: BuildTime,
	}
}
