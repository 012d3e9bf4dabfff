// Package match implements the fuzzy matching engine: edit distance,
// per-field similarity scoring, and multi-field ranking. All functions
// are pure and safe for concurrent use.
package match

// Distance returns the Levenshtein edit distance between a and b: the
// minimum number of single-character insertions, deletions, and
// substitutions needed to turn one string into the other. Distances
// are measured in runes.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	// Single conditional swap so the rolling row is sized to the
	// shorter string. The distance is symmetric.
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	curr := make([]int, len(rb)+1)

	for i, ca := range ra {
		curr[0] = i + 1
		for j, cb := range rb {
			insertion := prev[j+1] + 1
			deletion := curr[j] + 1
			substitution := prev[j]
			if ca != cb {
				substitution++
			}
			curr[j+1] = min(insertion, deletion, substitution)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}
