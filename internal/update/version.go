package update

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// NormalizeTag extracts the version from a "<version><sep><build>" release
// tag by cutting at the first separator. Tags without a separator are
// returned unchanged. An empty sep means "-".
func NormalizeTag(tag, sep string) string {
	if sep == "" {
		sep = "-"
	}
	version, _, _ := strings.Cut(tag, sep)
	return version
}

// IsNewer reports whether latest is a newer version than installed.
// Versions that are not semver-like are compared for inequality only.
func IsNewer(installed, latest string) bool {
	installedVer, errInstalled := semver.NewVersion(installed)
	latestVer, errLatest := semver.NewVersion(latest)
	if errInstalled != nil || errLatest != nil {
		return NormalizeVersion(installed) != NormalizeVersion(latest)
	}
	return latestVer.GreaterThan(installedVer)
}

// NormalizeVersion removes the 'v' prefix if present
func NormalizeVersion(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), "v")
}
