package sampling

import (
	"math"
	"sort"
)

// NearestStrikes selects a band of strikes centred on the one nearest to spot.
//
// The strikes are reduced to a sorted set; the nearest strike is the first minimum of
// |strike - spot|, so ties go to the lower strike. The band is the window
// [idx-n/2, idx+n/2) clamped to the slice, which yields a short band near
// either end of the chain. The input slice is not modified.
func NearestStrikes(strikes []int64, spot float64, n int) []int64 {
	if len(strikes) == 0 || n <= 0 {
		return nil
	}

	sorted := make([]int64, 0, len(strikes))
	seen := make(map[int64]struct{}, len(strikes))
	for _, strike := range strikes {
		if _, ok := seen[strike]; ok {
			continue
		}
		seen[strike] = struct{}{}
		sorted = append(sorted, strike)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	idx := 0
	best := math.Inf(1)
	for i, strike := range sorted {
		if d := math.Abs(float64(strike) - spot); d < best {
			best = d
			idx = i
		}
	}

	half := n / 2
	lo := idx - half
	if lo < 0 {
		lo = 0
	}
	hi := idx + half
	if hi > len(sorted) {
		hi = len(sorted)
	}

	return sorted[lo:hi]
}
