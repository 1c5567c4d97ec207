package intent

import (
	"regexp"
	"strconv"
)

var (
	bareYearPattern = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
	betweenPattern  = regexp.MustCompile(`\bbetween\s+(19\d{2}|20\d{2})\s+(?:and|to)\s+(19\d{2}|20\d{2})\b`)
	afterPattern    = regexp.MustCompile(`\b(after|since)\s+(19\d{2}|20\d{2})\b`)
	beforePattern   = regexp.MustCompile(`\b(before|until)\s+(19\d{2}|20\d{2})\b`)
)

// extractYears resolves inclusive year bounds from lowercase text.
//
// Phrasings are tried in order: "between A and/to B", "after/since Y", "before/until Y",
// then a single bare year as an exact match. Two or more bare years without a connecting
// phrase are ambiguous and set nothing.
func extractYears(t string) (from, to *int) {
	if m := betweenPattern.FindStringSubmatch(t); m != nil {
		a, b := atoi(m[1]), atoi(m[2])
		if a > b {
			a, b = b, a
		}
		return intPtr(a), intPtr(b)
	}

	if m := afterPattern.FindStringSubmatch(t); m != nil {
		y := atoi(m[2])
		if m[1] == "after" {
			y++
		}
		return intPtr(y), nil
	}

	if m := beforePattern.FindStringSubmatch(t); m != nil {
		y := atoi(m[2])
		if m[1] == "before" {
			y--
		}
		return nil, intPtr(y)
	}

	years := bareYearPattern.FindAllString(t, -1)
	if len(years) == 1 {
		y := atoi(years[0])
		return intPtr(y), intPtr(y)
	}
	return nil, nil
}

// atoi is only called on strings already matched as four digits.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
