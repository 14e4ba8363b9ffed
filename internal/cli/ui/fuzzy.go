package ui

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// DefaultMaxDistance is the largest edit distance FindSimilar accepts
const DefaultMaxDistance = 2

// FindSimilar returns the candidates within maxDistance edits of target,
// closest first. Matching ignores case. A non-positive maxDistance uses
// DefaultMaxDistance.
func FindSimilar(target string, candidates []string, maxDistance int) []string {
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}

	type match struct {
		value    string
		distance int
	}
	var matches []match
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(strings.ToLower(target), strings.ToLower(c))
		if d <= maxDistance {
			matches = append(matches, match{c, d})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].distance != matches[j].distance {
			return matches[i].distance < matches[j].distance
		}
		return matches[i].value < matches[j].value
	})

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.value
	}
	return out
}
