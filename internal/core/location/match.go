package location

import "strings"

// Match reports whether two place strings refer to overlapping places.
// They match when equal, or when any lower-cased segment of one appears
// among the segments of the other, so "France" matches "Paris, France".
// Distinct places sharing a segment name also match; callers rely on that.
func Match(a, b string) bool {
	if a == b {
		return true
	}
	keys := segmentKeys(a)
	if len(keys) == 0 {
		return false
	}
	for _, seg := range Segments(b) {
		if _, ok := keys[strings.ToLower(seg)]; ok {
			return true
		}
	}
	return false
}

// MatchAny reports whether any of candidates matches any of selected.
func MatchAny(candidates, selected []string) bool {
	for _, want := range selected {
		for _, have := range candidates {
			if Match(have, want) {
				return true
			}
		}
	}
	return false
}

func segmentKeys(s string) map[string]struct{} {
	segs := Segments(s)
	keys := make(map[string]struct{}, len(segs))
	for _, seg := range segs {
		keys[strings.ToLower(seg)] = struct{}{}
	}
	return keys
}
