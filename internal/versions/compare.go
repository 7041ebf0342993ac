package versions

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// ErrInvalidVersion is returned for a version string that is not semver
var ErrInvalidVersion = errors.New("invalid version")

// Parse parses a semantic version, with or without a leading "v".
func Parse(version string) (*semver.Version, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidVersion, version, err)
	}
	return v, nil
}

// Satisfies reports whether current is at least required. Both must be
// semantic versions; there is no fallback ordering for other strings.
func Satisfies(current, required string) (bool, error) {
	req, err := Parse(required)
	if err != nil {
		return false, fmt.Errorf("required version: %w", err)
	}
	cur, err := Parse(current)
	if err != nil {
		return false, fmt.Errorf("current version: %w", err)
	}
	return !req.GreaterThan(cur), nil
}
