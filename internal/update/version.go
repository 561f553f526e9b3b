package update

import (
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CompareVersions compares two version strings and returns:
// -1 if v1 < v2
//
//	0 if v1 == v2
//	1 if v1 > v2
func CompareVersions(v1, v2 string) int {
	v1 = strings.TrimPrefix(v1, "v")
	v2 = strings.TrimPrefix(v2, "v")

	sv1, err1 := semver.NewVersion(v1)
	sv2, err2 := semver.NewVersion(v2)
	if err1 == nil && err2 == nil {
		return sv1.Compare(sv2)
	}

	// Dotted fallback for tags semver rejects (e.g. 2024.01.01.1)
	p1 := strings.Split(v1, ".")
	p2 := strings.Split(v2, ".")

	for i := 0; i < len(p1) && i < len(p2); i++ {
		s1 := p1[i]
		s2 := p2[i]

		if s1 == s2 {
			continue
		}

		// A part without a suffix is the stable one and sorts higher.
		h1 := strings.Contains(s1, "-")
		h2 := strings.Contains(s2, "-")
		if h1 || h2 {
			if h1 != h2 {
				if h1 {
					return -1
				}
				return 1
			}
			if s1 > s2 {
				return 1
			}
			return -1
		}

		n1, e1 := strconv.Atoi(s1)
		n2, e2 := strconv.Atoi(s2)
		if e1 == nil && e2 == nil {
			if n1 > n2 {
				return 1
			}
			return -1
		}

		if s1 > s2 {
			return 1
		}
		return -1
	}

	switch {
	case len(p1) == len(p2):
		return 0
	case len(p1) > len(p2):
		// 1.0.0.1 > 1.0.0 unless the extra part is a suffix
		if strings.Contains(p1[len(p2)], "-") {
			return -1
		}
		return 1
	default:
		if strings.Contains(p2[len(p1)], "-") {
			return 1
		}
		return -1
	}
}

// IsNewer reports whether candidate is strictly newer than current.
func IsNewer(current, candidate string) bool {
	return candidate != "" && CompareVersions(current, candidate) < 0
}
