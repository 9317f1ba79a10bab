package avrocheck

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Avro specification revisions whose schema rules this package implements.
const (
	MinSpecVersion = "1.8.0"
	MaxSpecVersion = "1.12.0"
)

// SupportedRange returns the oldest and newest Avro specification revisions supported.
func SupportedRange() (min, max string) {
	return MinSpecVersion, MaxSpecVersion
}

var (
	supportedSpec = semver.MustParse(MinSpecVersion)
	newestSpec    = semver.MustParse(MaxSpecVersion)
	// Avro 1.12 lets a union default match any branch, not only the first.
	anyBranchDefaultSpec = semver.MustParse("1.12.0")
)

func parseSpecVersion(v string) (*semver.Version, error) {
	parsed, err := semver.StrictNewVersion(strings.TrimSpace(v))
	if err != nil {
		return nil, fmt.Errorf("invalid specification version %q: %w", v, err)
	}
	return parsed, nil
}

// IsSupportedSpecVersion reports whether v is within the supported specification range.
func IsSupportedSpecVersion(v string) (bool, error) {
	parsed, err := parseSpecVersion(v)
	if err != nil {
		return false, err
	}
	return !parsed.LessThan(supportedSpec) && !parsed.GreaterThan(newestSpec), nil
}

// OptionsForSpecVersion returns the Validate options matching the rules of the given
// Avro specification revision. An empty version selects the defaults.
func OptionsForSpecVersion(v string) ([]ValidateOption, error) {
	if strings.TrimSpace(v) == "" {
		return nil, nil
	}
	parsed, err := parseSpecVersion(v)
	if err != nil {
		return nil, err
	}
	if parsed.LessThan(supportedSpec) || parsed.GreaterThan(newestSpec) {
		return nil, fmt.Errorf("unsupported Avro specification version %q (supported %s-%s)", v, MinSpecVersion, MaxSpecVersion)
	}
	var opts []ValidateOption
	if !parsed.LessThan(anyBranchDefaultSpec) {
		opts = append(opts, WithUnionDefaultAnyBranch())
	}
	return opts, nil
}
