package bandit

import "sort"

// Rank orders candidate indices by score descending, ties broken by original
// retrieval position, and returns at most topN of them. Candidates sharing
// one arm carry the same sampled score, so within a category this preserves
// retrieval order while independent arm draws reorder across categories.
func Rank(scores []float64, topN int) []int {
	indices := make([]int, len(scores))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return scores[indices[a]] > scores[indices[b]]
	})
	if topN > 0 && len(indices) > topN {
		indices = indices[:topN]
	}
	return indices
}

// ExplorationRate reports the annealed exploration proxy for an arm: it
// starts at 0.3 and shrinks inversely with interactions past fifty, floored
// at 0.1.
func ExplorationRate(interactions int64) float64 {
	n := interactions
	if n < 50 {
		n = 50
	}
	rate := 0.3 * 50 / float64(n)
	if rate < 0.1 {
		rate = 0.1
	}
	return rate
}
