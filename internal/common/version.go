package common

import (
	"fmt"

	"github.com/hashicorp/go-version"
)

// VersionLessThan returns true if the image version represented by the
// first argument is semantically older than the second.
//
// Missing components are assumed to be 0, so 1.19 < 1.19.1. Used for
// resolving version conditions in build manifests, where both sides
// come from user input, so malformed versions are errors rather than
// panics.
func VersionLessThan(a, b string) (bool, error) {
	aV, err := version.NewVersion(a)
	if err != nil {
		return false, fmt.Errorf("cannot parse version %q: %w", a, err)
	}
	bV, err := version.NewVersion(b)
	if err != nil {
		return false, fmt.Errorf("cannot parse version %q: %w", b, err)
	}

	return aV.LessThan(bV), nil
}

func VersionGreaterThanOrEqual(a, b string) (bool, error) {
	lt, err := VersionLessThan(a, b)
	if err != nil {
		return false, err
	}
	return !lt, nil
}
