package ratings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankPool_TiesShareAveragedRank(t *testing.T) {
	// k tied values starting at rank r each get r + (k-1)/2.
	values := []float64{5.0, 3.0, 3.0, 1.0}
	pcts := RankPool(values, true)

	assert.Equal(t, pcts[1], pcts[2], "tied values must receive identical percentiles")

	// 5.0 is rank 1 of 4: (4 - 1 + 0.5) / 4 * 100 = 87.5
	assert.Equal(t, 87.5, pcts[0])
	// The 3.0s occupy ranks 2 and 3, averaged to 2.5: (4 - 2.5 + 0.5) / 4 * 100 = 50.0
	assert.Equal(t, 50.0, pcts[1])
	// 1.0 is rank 4: (4 - 4 + 0.5) / 4 * 100 = 12.5
	assert.Equal(t, 12.5, pcts[3])
}

func TestRankPool_ThreeWayTieBlock(t *testing.T) {
	// Three values tied starting at rank 5 each take rank 6.
	values := []float64{10, 9, 8, 7, 6, 6, 6, 5, 4}
	pcts := RankPool(values, true)

	n := float64(len(values))
	want := roundPercentile((n - 6 + 0.5) / n * 100)
	assert.Equal(t, want, pcts[4])
	assert.Equal(t, want, pcts[5])
	assert.Equal(t, want, pcts[6])
}

func TestRankPool_OrderIndependence(t *testing.T) {
	values := []float64{4.31, 3.02, 3.02, 5.77, 2.48, 3.9, 3.02}
	pcts := RankPool(values, false)

	reversed := make([]float64, len(values))
	for i, v := range values {
		reversed[len(values)-1-i] = v
	}
	reversedPcts := RankPool(reversed, false)

	for i := range values {
		assert.Equal(t, pcts[i], reversedPcts[len(values)-1-i],
			"percentile for value %v must not depend on input order", values[i])
	}
}

func TestRankPool_LowerIsBetter(t *testing.T) {
	pcts := RankPool([]float64{3.00, 4.50}, false)
	assert.Greater(t, pcts[0], pcts[1])
}

func TestPercentileAgainst_ReferencePool(t *testing.T) {
	// Reference pool of 100 ascending FIP values spanning 3.00-5.00.
	ref := make([]float64, 100)
	for i := range ref {
		ref[i] = 3.00 + float64(i)*(2.00/99.0)
	}

	a, err := PercentileAgainst(ref, 3.00, false)
	require.NoError(t, err)
	b, err := PercentileAgainst(ref, 3.00, false)
	require.NoError(t, err)
	c, err := PercentileAgainst(ref, 3.50, false)
	require.NoError(t, err)

	// The tied 3.00 pitchers get the same percentile, strictly better
	// than the 3.50 pitcher (lower FIP = better).
	assert.Equal(t, a, b)
	assert.Greater(t, a, c)

	// n = 101 with the player inserted; 3.00 ties the best reference
	// value: avgRank 1.5 -> (101 - 1.5 + 0.5) / 101 * 100.
	assert.Equal(t, 99.0, a)
}

func TestPercentileAgainst_HigherIsBetter(t *testing.T) {
	ref := []float64{0.300, 0.310, 0.320, 0.330, 0.340}

	top, err := PercentileAgainst(ref, 0.400, true)
	require.NoError(t, err)
	bottom, err := PercentileAgainst(ref, 0.250, true)
	require.NoError(t, err)

	assert.Greater(t, top, bottom)
	// Best of 6: (6 - 1 + 0.5) / 6 * 100 = 91.7
	assert.Equal(t, 91.7, top)
	// Worst of 6: (6 - 6 + 0.5) / 6 * 100 = 8.3
	assert.Equal(t, 8.3, bottom)
}

func TestPercentileAgainst_EmptyReference(t *testing.T) {
	_, err := PercentileAgainst(nil, 4.0, false)
	assert.ErrorIs(t, err, ErrEmptyReference)
}

func TestPercentileBounds(t *testing.T) {
	ref := []float64{1, 2, 3}
	for _, v := range []float64{-100, 0, 2, 999} {
		p, err := PercentileAgainst(ref, v, true)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 100.0)
	}
}

func TestValueAtPercentile(t *testing.T) {
	ref := []float64{1, 2, 3, 4, 5}

	v, err := ValueAtPercentile(ref, 50)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, v, 1e-12)

	// Fractional position interpolates between bracketing order statistics.
	v, err = ValueAtPercentile(ref, 62.5)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, v, 1e-12)

	v, err = ValueAtPercentile(ref, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	v, err = ValueAtPercentile(ref, 100)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)
}

func TestValueAtPercentile_Empty(t *testing.T) {
	_, err := ValueAtPercentile(nil, 50)
	assert.ErrorIs(t, err, ErrEmptyReference)
}
