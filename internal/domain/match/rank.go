package match

import "sort"

// descriptionWeight discounts description-only matches so they can
// never outrank a direct name match on the same text.
const descriptionWeight = 0.7

// Entry is one candidate in a ranking pass: a primary name field and
// an optional description (empty when absent).
type Entry struct {
	Name        string
	Description string
}

// Rank scores entries against query and returns the indices of the
// matching entries ordered by descending aggregate score. The
// aggregate is max(nameScore, descriptionScore * 0.7); entries whose
// aggregate is zero are excluded. Ties keep their input order, so
// output is deterministic for identical inputs.
func Rank(query string, entries []Entry, threshold float64) []int {
	type scored struct {
		index int
		total float64
	}

	ranked := make([]scored, 0, len(entries))
	for i, e := range entries {
		nameScore := Score(query, e.Name, threshold)
		descScore := Score(query, e.Description, threshold)

		total := nameScore
		if weighted := descScore * descriptionWeight; weighted > total {
			total = weighted
		}
		if total == 0 {
			continue
		}
		ranked = append(ranked, scored{index: i, total: total})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].total > ranked[j].total
	})

	out := make([]int, len(ranked))
	for i, s := range ranked {
		out[i] = s.index
	}
	return out
}
