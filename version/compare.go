package version

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Semver is a parsed release version. Build metadata is ignored.
type Semver struct {
	Major, Minor, Patch int

	// Pre is the pre-release part, as in "rc.1". Empty for releases.
	Pre string
}

// Parse reads versions like "0.3.0", "v0.3.0" and "0.4.0-rc.1+abc".
func Parse(s string) (Semver, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	s, _, _ = strings.Cut(s, "+")
	core, pre, _ := strings.Cut(s, "-")

	var v Semver
	if _, err := fmt.Sscanf(core, "%d.%d.%d", &v.Major, &v.Minor, &v.Patch); err != nil {
		return Semver{}, fmt.Errorf("parse version %q: %w", s, err)
	}
	v.Pre = pre
	return v, nil
}

// Compare returns 1 if v is newer than o, -1 if older and 0 if equal.
// A pre-release is older than its release.
func (v Semver) Compare(o Semver) int {
	for _, pair := range []lo.Tuple2[int, int]{
		{A: v.Major, B: o.Major},
		{A: v.Minor, B: o.Minor},
		{A: v.Patch, B: o.Patch},
	} {
		if pair.A != pair.B {
			return lo.Ternary(pair.A > pair.B, 1, -1)
		}
	}

	switch {
	case v.Pre == o.Pre:
		return 0
	case v.Pre == "":
		return 1
	case o.Pre == "":
		return -1
	default:
		return strings.Compare(v.Pre, o.Pre)
	}
}

func (v Semver) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Pre != "" {
		s += "-" + v.Pre
	}
	return s
}

// Compare parses and compares two version strings.
func Compare(a, b string) (int, error) {
	av, err := Parse(a)
	if err != nil {
		return 0, err
	}

	bv, err := Parse(b)
	if err != nil {
		return 0, err
	}

	return av.Compare(bv), nil
}
