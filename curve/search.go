package curve

import "sort"

// searchTenor returns the index of the first tenor >= t, or len(tenors).
func searchTenor(tenors []float64, t float64) int {
	return sort.SearchFloat64s(tenors, t)
}

// findBracket returns i such that tenors[i] <= t <= tenors[i+1].
// Tenors outside the range map to the nearest boundary pair.
func findBracket(tenors []float64, t float64) int {
	if len(tenors) < 2 {
		panic("findBracket: need at least 2 tenors")
	}
	idx := searchTenor(tenors, t)
	if idx <= 0 {
		return 0
	}
	if idx >= len(tenors) {
		return len(tenors) - 2
	}
	return idx - 1
}

// findExact returns the index of t in tenors when present.
func findExact(tenors []float64, t float64) (int, bool) {
	idx := searchTenor(tenors, t)
	if idx < len(tenors) && tenors[idx] == t {
		return idx, true
	}
	return -1, false
}
