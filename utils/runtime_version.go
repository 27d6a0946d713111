package utils

import (
	"golang.org/x/mod/semver"
	"runtime"
	"strings"
)

// DefaultMinGoVersion is the oldest toolchain sandkit is supported on.
const DefaultMinGoVersion = "go1.21"

// CheckGoVersion reports whether the running toolchain is Go 1 and at least minimum.
func CheckGoVersion(minimum string) bool {
	return goVersionAtLeast(runtime.Version(), minimum)
}

func goVersionAtLeast(current string, minimum string) bool {
	currentSemver := toSemver(current)
	minimumSemver := toSemver(minimum)
	if !semver.IsValid(currentSemver) || !semver.IsValid(minimumSemver) {
		return false
	}
	if semver.Major(currentSemver) != "v1" {
		return false
	}
	return semver.Compare(currentSemver, minimumSemver) >= 0
}

// toSemver turns "go1.22.3" or "go1.23rc1" into a full semver string.
func toSemver(version string) string {
	version = strings.TrimSpace(version)
	version = strings.TrimPrefix(version, "go")
	if i := strings.IndexAny(version, " -"); i >= 0 {
		version = version[:i]
	}

	core, prerelease := version, ""
	for _, tag := range []string{"rc", "beta", "alpha"} {
		if i := strings.Index(version, tag); i > 0 {
			core, prerelease = version[:i], "-"+version[i:]
			break
		}
	}
	for strings.Count(core, ".") < 2 {
		core += ".0"
	}
	return "v" + core + prerelease
}
