package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbltools/true-rating/internal/ratings"
)

func TestPoolRank_PerRoleDirections(t *testing.T) {
	results := []*ratings.RatingResult{
		{PlayerID: 1, Role: ratings.RolePitcher, RankedComposite: 3.20},
		{PlayerID: 2, Role: ratings.RolePitcher, RankedComposite: 4.60},
		{PlayerID: 3, Role: ratings.RoleBatter, RankedComposite: 0.360},
		{PlayerID: 4, Role: ratings.RoleBatter, RankedComposite: 0.305},
	}

	percentiles := poolRank(results)
	require.Len(t, percentiles, 4)

	// Lower FIP outranks within the pitcher pool; higher wOBA outranks
	// within the batter pool. Roles never rank against each other.
	assert.Greater(t, percentiles[1], percentiles[2])
	assert.Greater(t, percentiles[3], percentiles[4])
	assert.Equal(t, percentiles[1], percentiles[3])

	for _, p := range percentiles {
		assert.Greater(t, p, 0.0)
		assert.Less(t, p, 100.0)
	}
}

func TestPoolRank_Empty(t *testing.T) {
	assert.Empty(t, poolRank(nil))
}
