// Package version compares CLI versions and checks them against the semver
// constraints templates declare in their manifest.
package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// IsDevBuild reports whether v is an unversioned development build.
// Development builds satisfy every constraint.
func IsDevBuild(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == "dev"
}

// CompareVersions compares two version strings using semver.
// Returns -1 if a < b, 0 if equal, 1 if a > b.
// Handles "v" prefix tolerance (strips leading "v" before parsing).
func CompareVersions(a, b string) (int, error) {
	av, err := parseSemver(a)
	if err != nil {
		return 0, fmt.Errorf("parsing version %q: %w", a, err)
	}
	bv, err := parseSemver(b)
	if err != nil {
		return 0, fmt.Errorf("parsing version %q: %w", b, err)
	}
	return av.Compare(bv), nil
}

// Satisfies reports whether current meets constraint (e.g. ">= 0.2.0, < 1").
// An empty constraint and a development build always satisfy.
func Satisfies(constraint, current string) (bool, error) {
	if strings.TrimSpace(constraint) == "" || IsDevBuild(current) {
		return true, nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("parsing constraint %q: %w", constraint, err)
	}
	v, err := parseSemver(current)
	if err != nil {
		return false, fmt.Errorf("parsing version %q: %w", current, err)
	}
	return c.Check(v), nil
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	return semver.NewVersion(version)
}
