// Package semver implements the semantic-version value type used for release
// bookkeeping: parsing, ordering, and the next-version bump rules, including
// prerelease channels (alpha/beta/rc) with per-channel counters.
package semver

import (
	"fmt"
	"regexp"
	"strconv"
)

// ReleaseType is the severity classification of a change: major, minor or patch.
type ReleaseType string

const (
	Major ReleaseType = "major"
	Minor ReleaseType = "minor"
	Patch ReleaseType = "patch"
)

// severity maps release types to their rank. Higher wins when a batch of
// changes carries mixed types.
var severity = map[ReleaseType]int{
	Patch: 1,
	Minor: 2,
	Major: 3,
}

// ParseReleaseType validates a release type string.
func ParseReleaseType(s string) (ReleaseType, error) {
	t := ReleaseType(s)
	if _, ok := severity[t]; !ok {
		return "", fmt.Errorf("invalid release type %q (expected major, minor or patch)", s)
	}
	return t, nil
}

// Highest returns the most significant release type in types.
// Returns the zero value if types is empty.
func Highest(types []ReleaseType) ReleaseType {
	var best ReleaseType
	for _, t := range types {
		if severity[t] > severity[best] {
			best = t
		}
	}
	return best
}

// Channel is a prerelease track. Channels are ordered alpha < beta < rc, and
// any prerelease sorts below the stable release of the same version triple.
type Channel string

const (
	Alpha Channel = "alpha"
	Beta  Channel = "beta"
	RC    Channel = "rc"
)

var channelRank = map[Channel]int{
	Alpha: 1,
	Beta:  2,
	RC:    3,
}

// ParseChannel validates a prerelease channel string.
func ParseChannel(s string) (Channel, error) {
	c := Channel(s)
	if _, ok := channelRank[c]; !ok {
		return "", fmt.Errorf("invalid prerelease channel %q (expected alpha, beta or rc)", s)
	}
	return c, nil
}

// HighestChannel returns the most advanced channel in channels, using the
// alpha < beta < rc order. Returns the zero value if channels is empty.
func HighestChannel(channels []Channel) Channel {
	var best Channel
	for _, c := range channels {
		if channelRank[c] > channelRank[best] {
			best = c
		}
	}
	return best
}

// Prerelease is a (channel, counter) tag attached to a version triple.
// The counter is 1-based and monotonically increases per same-channel bump.
type Prerelease struct {
	Channel Channel
	Number  int
}

// Version is an immutable semantic version. Pre is nil for stable versions.
// Transformations return a new value; a Version is never mutated in place.
type Version struct {
	Major int
	Minor int
	Patch int
	Pre   *Prerelease
}

// versionPattern accepts both the canonical rendering ("1.2.3-alpha.1") and the
// legacy compact rendering ("1.2.3alpha1") found in old release files.
var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)(?:[-.]?(alpha|beta|rc)\.?(\d+))?$`)

// Parse parses a version string. It accepts stable versions ("1.2.3") and
// prereleases in either the hyphen-dot form ("1.2.3-alpha.1") or the legacy
// compact form ("1.2.3alpha1").
func Parse(s string) (Version, error) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return Version{}, fmt.Errorf("invalid version %q", s)
	}

	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	patch, _ := strconv.Atoi(m[3])

	v := Version{Major: major, Minor: minor, Patch: patch}
	if m[4] != "" {
		n, _ := strconv.Atoi(m[5])
		v.Pre = &Prerelease{Channel: Channel(m[4]), Number: n}
	}
	return v, nil
}

// MustParse is Parse that panics on error. Intended for literals in tests.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String renders the version. Prereleases use the canonical hyphen-dot form,
// e.g. "1.1.0-alpha.1".
func (v Version) String() string {
	if v.Pre == nil {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	return fmt.Sprintf("%d.%d.%d-%s.%d", v.Major, v.Minor, v.Patch, v.Pre.Channel, v.Pre.Number)
}

// IsStable reports whether the version has no prerelease tag.
func (v Version) IsStable() bool {
	return v.Pre == nil
}

// Stable returns the stable release of the same version triple.
func (v Version) Stable() Version {
	return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch}
}

// Compare returns -1, 0 or 1 ordering a against b. A stable version sorts
// above any prerelease of the same triple; prereleases of the same triple
// order by (channel rank, counter).
func Compare(a, b Version) int {
	if c := cmpInt(a.Major, b.Major); c != 0 {
		return c
	}
	if c := cmpInt(a.Minor, b.Minor); c != 0 {
		return c
	}
	if c := cmpInt(a.Patch, b.Patch); c != 0 {
		return c
	}

	switch {
	case a.Pre == nil && b.Pre == nil:
		return 0
	case a.Pre == nil:
		return 1
	case b.Pre == nil:
		return -1
	}

	if c := cmpInt(channelRank[a.Pre.Channel], channelRank[b.Pre.Channel]); c != 0 {
		return c
	}
	return cmpInt(a.Pre.Number, b.Pre.Number)
}

// Less reports whether a sorts strictly before b.
func Less(a, b Version) bool {
	return Compare(a, b) < 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Bump computes the next version for the given release type. A non-empty
// channel requests a prerelease on that channel; an empty channel requests a
// stable release.
//
// Examples:
//
//	MustParse("1.0.0").Bump(Minor, "")            // 1.1.0
//	MustParse("2.0.0-alpha.1").Bump(Major, "")    // 2.0.0
//	MustParse("1.0.0").Bump(Minor, Alpha)         // 1.1.0-alpha.1
//	MustParse("2.0.0-alpha.1").Bump(Major, Beta)  // 2.0.0-beta.1
func (v Version) Bump(t ReleaseType, ch Channel) Version {
	if ch != "" {
		return v.bumpPrerelease(t, ch)
	}
	return v.bumpStable(t)
}

// bumpStable computes the next stable version. A prerelease is promoted to
// the stable release of its own triple, except when the requested severity
// exceeds what the prerelease was heading toward: a prerelease of x.y.0 was
// heading toward a minor (or major, if y is also 0) release, so a bigger
// request falls through to plain stable arithmetic. This yields the occasional
// extra bump (2.1.1-alpha.1 + minor -> 2.2.0); that behavior is deliberate and
// pinned by tests.
func (v Version) bumpStable(t ReleaseType) Version {
	switch t {
	case Major:
		if v.Pre != nil && v.Minor == 0 && v.Patch == 0 {
			return v.Stable()
		}
		return Version{Major: v.Major + 1}
	case Minor:
		if v.Pre != nil && v.Patch == 0 {
			return v.Stable()
		}
		return Version{Major: v.Major, Minor: v.Minor + 1}
	default:
		if v.Pre != nil {
			return v.Stable()
		}
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	}
}

// bumpPrerelease computes the next prerelease on channel ch. Staying on the
// same channel increments the counter at the same triple; switching channels
// resets the counter to 1. If keeping the current triple would produce a
// version that does not exceed v, the triple advances via the stable bump
// rules instead.
func (v Version) bumpPrerelease(t ReleaseType, ch Channel) Version {
	n := 1
	if v.Pre != nil {
		n = v.Pre.Number
		if n < 1 {
			n = 1
		}
		n++
	}

	candidate := Version{
		Major: v.Major, Minor: v.Minor, Patch: v.Patch,
		Pre: &Prerelease{Channel: ch, Number: n},
	}
	triple := v.Stable()
	if Less(candidate, v) {
		triple = v.bumpStable(t)
	}

	if v.Pre == nil || ch != v.Pre.Channel {
		n = 1
	}

	return Version{
		Major: triple.Major, Minor: triple.Minor, Patch: triple.Patch,
		Pre: &Prerelease{Channel: ch, Number: n},
	}
}
