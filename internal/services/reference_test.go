package services

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbltools/true-rating/internal/ratings"
)

func TestBuildPitcherReference_FiltersAndSorts(t *testing.T) {
	cal := ratings.DefaultCalibration()

	rows := []ReferenceRow{
		// An ace and a back-end arm stay; the rest fall outside the pool
		// filters (innings floor, peak-age window).
		{PlayerID: 1, Age: 27, IP: 180, K: 200, BB: 40, HR: 15},
		{PlayerID: 2, Age: 28, IP: 150, K: 120, BB: 55, HR: 22},
		{PlayerID: 3, Age: 26, IP: 20, K: 25, BB: 5, HR: 1},
		{PlayerID: 4, Age: 38, IP: 160, K: 140, BB: 45, HR: 18},
		{PlayerID: 5, Age: 21, IP: 160, K: 150, BB: 50, HR: 14},
	}

	ref := BuildPitcherReference(rows, cal)

	assert.Len(t, ref.Values, 2)
	assert.False(t, ref.HigherIsBetter)
	assert.True(t, sort.Float64sAreSorted(ref.Values))
	// The ace carries the lower FIP.
	assert.Less(t, ref.Values[0], ref.Values[1])

	// Component distributions are sorted like Values: the ace's k9 (10.0)
	// arrives first in row order but must come out last.
	for _, name := range []string{"k9", "bb9", "hr9"} {
		require.Len(t, ref.Components[name], 2)
		assert.True(t, sort.Float64sAreSorted(ref.Components[name]), name)
	}
	assert.Equal(t, []float64{7.2, 10.0}, ref.Components["k9"])
}

func TestBuildPitcherReference_UnknownAgeKept(t *testing.T) {
	// A zero age means the birth year was never imported; the row stays in
	// the pool rather than being silently dropped.
	cal := ratings.DefaultCalibration()
	rows := []ReferenceRow{{PlayerID: 1, Age: 0, IP: 180, K: 170, BB: 45, HR: 16}}

	ref := BuildPitcherReference(rows, cal)
	assert.Len(t, ref.Values, 1)
}

func TestBuildBatterReference_FiltersAndSorts(t *testing.T) {
	cal := ratings.DefaultCalibration()

	rows := []ReferenceRow{
		{PlayerID: 1, Age: 27, PA: 600, K: 110, BB: 70, HR: 30, H: 160, Doubles: 32, Triples: 3},
		{PlayerID: 2, Age: 29, PA: 550, K: 130, BB: 40, HR: 12, H: 130, Doubles: 22, Triples: 2},
		// Below the PA floor, then past the peak-age window.
		{PlayerID: 3, Age: 26, PA: 80, K: 20, BB: 6, HR: 2, H: 18},
		{PlayerID: 4, Age: 40, PA: 600, K: 100, BB: 60, HR: 20, H: 150},
	}

	ref := BuildBatterReference(rows, cal)

	assert.Len(t, ref.Values, 2)
	assert.True(t, ref.HigherIsBetter)
	assert.True(t, sort.Float64sAreSorted(ref.Values))

	for _, name := range []string{"bb_pct", "k_pct", "hr_pct", "non_hr_hit_pct"} {
		require.Len(t, ref.Components[name], 2)
		assert.True(t, sort.Float64sAreSorted(ref.Components[name]), name)
	}
}

func TestSummarize(t *testing.T) {
	values := make([]float64, 10)
	for i := range values {
		values[i] = float64(i + 1)
	}
	ref := &ratings.Reference{Values: values, HigherIsBetter: false}

	summary := Summarize(ref, "pitcher", 2020)

	assert.Equal(t, "pitcher", summary.Role)
	assert.Equal(t, 2020, summary.Season)
	assert.Equal(t, 10, summary.Count)
	assert.InDelta(t, 5.5, summary.Mean, 1e-9)
	assert.Greater(t, summary.StdDev, 0.0)
	assert.LessOrEqual(t, summary.P10, summary.P25)
	assert.LessOrEqual(t, summary.P25, summary.P50)
	assert.LessOrEqual(t, summary.P50, summary.P75)
	assert.LessOrEqual(t, summary.P75, summary.P90)
}

func TestSummarize_EmptyReference(t *testing.T) {
	summary := Summarize(&ratings.Reference{}, "batter", 2020)
	assert.Equal(t, 0, summary.Count)
	assert.Equal(t, 0.0, summary.Mean)
}

func TestReferenceKey(t *testing.T) {
	key := ReferenceKey{Role: "pitcher", Season: 2020, CalibrationVersion: "2021.1"}
	assert.Equal(t, "reference:pitcher:2020:2021.1", key.String())
}

func TestRunCacheKey(t *testing.T) {
	assert.Equal(t, "rating_run:abc-123", RunCacheKey("abc-123"))
}

func TestPlayerRatingCacheKey(t *testing.T) {
	assert.Equal(t, "player_rating:42:2020:2021.1", PlayerRatingCacheKey(42, 2020, "2021.1"))

	// Ratings are season-dependent (age, recency weights, reference pool),
	// so two seasons must never share a cache entry.
	assert.NotEqual(t,
		PlayerRatingCacheKey(42, 2019, "2021.1"),
		PlayerRatingCacheKey(42, 2020, "2021.1"))
}

func TestBuildPitcherReference_Empty(t *testing.T) {
	ref := BuildPitcherReference(nil, ratings.DefaultCalibration())
	require.NotNil(t, ref)
	assert.Empty(t, ref.Values)
}
