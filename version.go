// Package codeplay carries the build version shared by the CLI and the
// backend client.
package codeplay

import (
	_ "embed"
	"regexp"
	"strings"
)

var semverRE = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(?:-[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*)?(?:\+[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*)?$`)

//go:embed VERSION
var embeddedVersion string

// Version returns the codeplay version in SemVer form, without a leading v.
func Version() string {
	return strings.TrimSpace(embeddedVersion)
}

// VersionTag returns Version with a leading v, as release tags carry it.
func VersionTag() string {
	return "v" + Version()
}

// UserAgent identifies codeplay to the backend.
func UserAgent() string {
	return "codeplay/" + Version()
}

// IsSemver reports whether v matches SemVer 2.0.0.
func IsSemver(v string) bool {
	return semverRE.MatchString(strings.TrimSpace(v))
}
