package availability

import (
	"slices"
)

// SelectTopK returns the k highest-scoring slots in descending score order.
// Equal scores keep their input order. The input is not modified and the
// result is never nil.
func SelectTopK(slots []ScoredSlot, k int) []ScoredSlot {
	if k <= 0 || len(slots) == 0 {
		return []ScoredSlot{}
	}

	sorted := slices.Clone(slots)
	slices.SortStableFunc(sorted, func(a, b ScoredSlot) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	if len(sorted) > k {
		sorted = sorted[:k]
	}
	return sorted
}
