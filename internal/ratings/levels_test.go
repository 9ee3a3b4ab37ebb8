package ratings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelTranslator_CumulativeTotals(t *testing.T) {
	// Per-transition deltas accumulate: Double-A's correction equals
	// AA→AAA plus AAA→MLB.
	translator, err := NewLevelTranslator(map[Level]LevelAdjustment{
		LevelAAA:    {K9: 0.30},
		LevelAA:     {K9: 0.03},
		LevelA:      {K9: -0.11},
		LevelRookie: {K9: 0.23},
	})
	require.NoError(t, err)

	k9 := 8.00
	aa := translator.TranslatePitching(PitchingRates{K9: &k9}, LevelAA)
	require.NotNil(t, aa.K9)
	assert.InDelta(t, 8.33, *aa.K9, 1e-9)

	rookie := translator.TranslatePitching(PitchingRates{K9: &k9}, LevelRookie)
	assert.InDelta(t, 8.45, *rookie.K9, 1e-9)
}

func TestLevelTranslator_FromTotals_AppliedOnce(t *testing.T) {
	// Totals are already cumulative: a Double-A rate gets the Double-A
	// total exactly once, never the Triple-A entry on top.
	translator := NewLevelTranslatorFromTotals(map[Level]LevelAdjustment{
		LevelAAA: {K9: 0.10},
		LevelAA:  {K9: 0.02},
	})

	k9 := 8.00
	out := translator.TranslatePitching(PitchingRates{K9: &k9}, LevelAA)
	require.NotNil(t, out.K9)
	assert.InDelta(t, 8.02, *out.K9, 1e-9)
}

func TestLevelTranslator_MLBNoOp(t *testing.T) {
	cal := DefaultCalibration()
	translator, err := NewLevelTranslator(cal.LevelTransitions)
	require.NoError(t, err)

	k9, bb9, hr9 := 8.5, 2.9, 1.1
	out := translator.TranslatePitching(PitchingRates{K9: &k9, BB9: &bb9, HR9: &hr9}, LevelMLB)
	assert.Equal(t, 8.5, *out.K9)
	assert.Equal(t, 2.9, *out.BB9)
	assert.Equal(t, 1.1, *out.HR9)
}

func TestLevelTranslator_UnknownLevelPanics(t *testing.T) {
	cal := DefaultCalibration()
	translator, err := NewLevelTranslator(cal.LevelTransitions)
	require.NoError(t, err)

	k9 := 8.0
	assert.Panics(t, func() {
		translator.TranslatePitching(PitchingRates{K9: &k9}, Level("independent"))
	})
}

func TestLevelTranslator_MissingRatesStayMissing(t *testing.T) {
	cal := DefaultCalibration()
	translator, err := NewLevelTranslator(cal.LevelTransitions)
	require.NoError(t, err)

	out := translator.TranslatePitching(PitchingRates{}, LevelAAA)
	assert.Nil(t, out.K9)
	assert.Nil(t, out.BB9)
	assert.Nil(t, out.HR9)
}

func TestLevelTranslator_MissingTransition(t *testing.T) {
	_, err := NewLevelTranslator(map[Level]LevelAdjustment{
		LevelAAA: {K9: 0.30},
	})
	assert.Error(t, err)
}

func TestLevelTranslator_Batting(t *testing.T) {
	translator := NewLevelTranslatorFromTotals(map[Level]LevelAdjustment{
		LevelAAA: {BBPct: -0.40, KPct: 0.60},
	})

	bb, k := 9.0, 21.0
	out := translator.TranslateBatting(BattingRates{BBPct: &bb, KPct: &k}, LevelAAA)
	assert.InDelta(t, 8.60, *out.BBPct, 1e-9)
	assert.InDelta(t, 21.60, *out.KPct, 1e-9)
	assert.Nil(t, out.HRPct)
}
