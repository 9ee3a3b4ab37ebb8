package ratings

import (
	"math"
	"sort"
)

// Cohort ranking. Rank 1 is the best value; k tied values starting at
// rank r each receive the averaged rank r + (k-1)/2, so ties never create
// a discontinuity. Percentile = (n - avgRank + 0.5) / n * 100, rounded to
// one decimal. Order of inputs never affects the assignment.

func roundPercentile(p float64) float64 {
	return math.Round(p*10) / 10
}

func percentileFromRank(avgRank float64, n int) float64 {
	return roundPercentile((float64(n) - avgRank + 0.5) / float64(n) * 100)
}

// better reports whether a outranks b under the pool's direction.
func better(a, b float64, higherIsBetter bool) bool {
	if higherIsBetter {
		return a > b
	}
	return a < b
}

// PercentileAgainst ranks a single value against an external reference
// distribution: the value is inserted into the pool, so n = len(ref) + 1.
// The reference must be supplied pre-sorted ascending by the collaborator
// that built it; the direction flag decides which tail is "better".
func PercentileAgainst(ref []float64, value float64, higherIsBetter bool) (float64, error) {
	if len(ref) == 0 {
		return 0, ErrEmptyReference
	}
	betterCount, equalCount := 0, 1 // the value itself
	for _, v := range ref {
		switch {
		case better(v, value, higherIsBetter):
			betterCount++
		case v == value:
			equalCount++
		}
	}
	n := len(ref) + 1
	avgRank := float64(betterCount+1) + float64(equalCount-1)/2
	return percentileFromRank(avgRank, n), nil
}

// RankPool assigns each value a percentile relative to the rest of the
// pool, with averaged ranks for ties. The returned slice is positionally
// aligned with the input.
func RankPool(values []float64, higherIsBetter bool) []float64 {
	n := len(values)
	if n == 0 {
		return nil
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	// avgRank for a value v: ranks of all entries equal to v, averaged.
	// With an ascending sort, entries better than v are counted from the
	// appropriate tail.
	percentiles := make([]float64, n)
	for i, v := range values {
		lo := sort.SearchFloat64s(sorted, v)
		hi := lo
		for hi < n && sorted[hi] == v {
			hi++
		}
		equal := hi - lo
		var betterCount int
		if higherIsBetter {
			betterCount = n - hi
		} else {
			betterCount = lo
		}
		avgRank := float64(betterCount+1) + float64(equal-1)/2
		percentiles[i] = percentileFromRank(avgRank, n)
	}
	return percentiles
}

// ValueAtPercentile maps a percentile back onto the reference
// distribution's value scale by linear interpolation between the two
// bracketing order statistics at fractional position p/100 * (len-1).
// Used when a component percentile must be expressed as an MLB-equivalent
// rate rather than a rating.
func ValueAtPercentile(ref []float64, percentile float64) (float64, error) {
	if len(ref) == 0 {
		return 0, ErrEmptyReference
	}
	if percentile <= 0 {
		return ref[0], nil
	}
	if percentile >= 100 {
		return ref[len(ref)-1], nil
	}
	pos := percentile / 100 * float64(len(ref)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return ref[lo], nil
	}
	frac := pos - float64(lo)
	return ref[lo] + (ref[hi]-ref[lo])*frac, nil
}
