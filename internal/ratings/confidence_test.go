package ratings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfidenceFactor_PeakAgeFullSample(t *testing.T) {
	cal := DefaultCalibration()
	c := ConfidenceFactor(ConfidenceInput{
		Age:          24,
		HighestLevel: LevelAAA,
		WeightedExp:  200,
	}, cal)
	assert.Equal(t, 1.0, c)
}

func TestConfidenceFactor_PenaltiesMultiply(t *testing.T) {
	cal := DefaultCalibration()
	scout, perf := 3.2, 4.5 // 1.3 gap -> 0.8 factor
	c := ConfidenceFactor(ConfidenceInput{
		Age:            24,  // 1.0
		HighestLevel:   LevelAA, // 0.95
		WeightedExp:    100, // 0.9
		ScoutComposite: &scout,
		PerfComposite:  &perf,
	}, cal)
	assert.InDelta(t, 1.0*0.95*0.9*0.8, c, 1e-9)
}

func TestConfidenceFactor_Floor(t *testing.T) {
	cal := DefaultCalibration()
	scout, perf := 3.0, 6.0
	c := ConfidenceFactor(ConfidenceInput{
		Age:            18,
		HighestLevel:   LevelRookie,
		WeightedExp:    10,
		ScoutComposite: &scout,
		PerfComposite:  &perf,
	}, cal)
	// 0.90 * 0.70 * 0.65 * 0.70 is below the floor.
	assert.Equal(t, cal.Confidence.Floor, c)
}

func TestConfidenceFactor_SingleSourceNoDisagreementPenalty(t *testing.T) {
	cal := DefaultCalibration()
	scout := 3.2
	withGapSignal := ConfidenceFactor(ConfidenceInput{
		Age:            24,
		HighestLevel:   LevelAAA,
		WeightedExp:    200,
		ScoutComposite: &scout,
		PerfComposite:  nil,
	}, cal)
	assert.Equal(t, 1.0, withGapSignal)
}

func TestConfidenceFactor_UnknownLevelPanics(t *testing.T) {
	cal := DefaultCalibration()
	assert.Panics(t, func() {
		ConfidenceFactor(ConfidenceInput{Age: 24, HighestLevel: Level("winter"), WeightedExp: 100}, cal)
	})
}

func TestRegress(t *testing.T) {
	assert.InDelta(t, 4.04, Regress(4.0, 0.8, 4.2), 1e-12)
	// Full confidence leaves the raw value untouched.
	assert.Equal(t, 3.1, Regress(3.1, 1.0, 4.2))
	// Zero confidence would collapse to the average outcome.
	assert.Equal(t, 4.2, Regress(3.1, 0.0, 4.2))
}
