package spec

import "github.com/lithammer/fuzzysearch/fuzzy"

// Suggest returns the closest registered name to an unrecognized command or
// environment name, for use in "unknown command \foo, did you mean \bar?"
// diagnostics (spec.md §7). It returns ("", false) when the spec has no
// names close enough to be a plausible suggestion.
func (s CommandSpec) Suggest(name string) (string, bool) {
	if len(s.items) == 0 {
		return "", false
	}
	// Rank every registered name by edit distance, breaking ties by name so
	// the suggestion does not depend on map iteration order.
	best, bestDist := "", -1
	for _, cand := range s.Names() {
		d := fuzzy.LevenshteinDistance(name, cand)
		if bestDist < 0 || d < bestDist || (d == bestDist && cand < best) {
			best, bestDist = cand, d
		}
	}
	// A distance beyond this is almost always an unrelated word rather than
	// a typo; suppressing it keeps the suggestion useful instead of noisy.
	const maxUsefulDistance = 4
	if bestDist > maxUsefulDistance {
		return "", false
	}
	return best, true
}
