package ratings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport(age int, current, potential float64) *ScoutingReport {
	return &ScoutingReport{
		PlayerID:       1,
		Age:            age,
		CurrentStars:   current,
		PotentialStars: potential,
		Source:         SourcePrimary,
		CapturedAt:     time.Date(2020, 11, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestExpectedPitchingRates(t *testing.T) {
	cal := DefaultCalibration()
	rates := ExpectedPitchingRates(PitchingGrades{Stuff: 50, Control: 50, HRAvoid: 50}, cal)

	require.NotNil(t, rates.K9)
	assert.InDelta(t, 2.07+0.074*50, *rates.K9, 1e-9)
	assert.InDelta(t, 5.22-0.052*50, *rates.BB9, 1e-9)
	assert.InDelta(t, 2.08-0.024*50, *rates.HR9, 1e-9)
}

func TestExpectedPitchingRates_HR9Floor(t *testing.T) {
	cal := DefaultCalibration()
	// An 80-grade HR avoider projects near zero, never negative.
	rates := ExpectedPitchingRates(PitchingGrades{Stuff: 50, Control: 50, HRAvoid: 90}, cal)
	assert.GreaterOrEqual(t, *rates.HR9, 0.0)
}

func TestExpectedBattingRates(t *testing.T) {
	cal := DefaultCalibration()
	rates := ExpectedBattingRates(BattingGrades{Power: 60, Eye: 55, AvoidK: 50, Contact: 45}, cal)

	assert.InDelta(t, 2.50+0.120*55, *rates.BBPct, 1e-9)
	assert.InDelta(t, 35.0-0.260*50, *rates.KPct, 1e-9)
	assert.InDelta(t, 0.20+0.062*60, *rates.HRPct, 1e-9)
	assert.InDelta(t, 10.0+0.220*45, *rates.NonHRHitPct, 1e-9)
}

func TestScoutWeight_NoReport(t *testing.T) {
	cal := DefaultCalibration()
	assert.Equal(t, 0.0, ScoutWeight(nil, 120, cal))
}

func TestScoutWeight_NoExperienceIsMaxWeight(t *testing.T) {
	cal := DefaultCalibration()
	w := ScoutWeight(testReport(19, 1.5, 5.0), 0, cal)
	assert.Equal(t, cal.Blend.MaxWeight, w)
	assert.Equal(t, 1.0, w)
}

func TestScoutWeight_MonotonicInExperience(t *testing.T) {
	cal := DefaultCalibration()
	report := testReport(21, 2.0, 4.5)

	prev := ScoutWeight(report, 0, cal)
	for _, exp := range []float64{1, 10, 50, 100, 250, 500, 1000, 5000} {
		w := ScoutWeight(report, exp, cal)
		assert.LessOrEqual(t, w, prev, "weight must not increase with experience (exp=%v)", exp)
		prev = w
	}
}

func TestScoutWeight_CappedForRawProspects(t *testing.T) {
	cal := DefaultCalibration()
	// Young, huge star gap, tiny sample: capped, not 1.0.
	w := ScoutWeight(testReport(17, 0.5, 5.0), 5, cal)
	assert.Equal(t, cal.Blend.Cap, w)
}

func TestScoutWeight_EstablishedVeteranLeansOnStats(t *testing.T) {
	cal := DefaultCalibration()
	veteran := ScoutWeight(testReport(29, 4.0, 4.0), 800, cal)
	prospect := ScoutWeight(testReport(20, 1.5, 4.5), 40, cal)
	assert.Less(t, veteran, prospect)
	assert.Less(t, veteran, cal.Blend.Base+0.05)
}

func TestBlendPitching(t *testing.T) {
	scout := PitchingRates{K9: fptr(8.0), BB9: fptr(3.0), HR9: fptr(1.0)}
	perf := PitchingRates{K9: fptr(6.0), BB9: fptr(4.0), HR9: fptr(1.4)}

	out := BlendPitching(&scout, &perf, 0.75)
	assert.InDelta(t, 0.75*8.0+0.25*6.0, *out.K9, 1e-12)
	assert.InDelta(t, 0.75*3.0+0.25*4.0, *out.BB9, 1e-12)
	assert.InDelta(t, 0.75*1.0+0.25*1.4, *out.HR9, 1e-12)
}

func TestBlendPitching_MissingSideDegradesGracefully(t *testing.T) {
	scout := PitchingRates{K9: fptr(8.0), BB9: fptr(3.0), HR9: fptr(1.0)}

	// No performance data: scouting carries each component fully,
	// whatever the nominal weight.
	out := BlendPitching(&scout, nil, 0.6)
	assert.Equal(t, 8.0, *out.K9)
	assert.Equal(t, 3.0, *out.BB9)
	assert.Equal(t, 1.0, *out.HR9)

	perf := PitchingRates{K9: fptr(6.5), BB9: fptr(3.5), HR9: fptr(1.2)}
	out = BlendPitching(nil, &perf, 0.6)
	assert.Equal(t, 6.5, *out.K9)

	assert.Nil(t, BlendPitching(nil, nil, 0.5).K9)
}

func TestBlendBatting(t *testing.T) {
	scout := BattingRates{BBPct: fptr(9.0), KPct: fptr(20.0), HRPct: fptr(4.0), NonHRHitPct: fptr(21.0)}
	perf := BattingRates{BBPct: fptr(7.0), KPct: fptr(24.0), HRPct: fptr(2.0), NonHRHitPct: fptr(19.0)}

	out := BlendBatting(&scout, &perf, 0.5)
	assert.InDelta(t, 8.0, *out.BBPct, 1e-12)
	assert.InDelta(t, 22.0, *out.KPct, 1e-12)
	assert.InDelta(t, 3.0, *out.HRPct, 1e-12)
	assert.InDelta(t, 20.0, *out.NonHRHitPct, 1e-12)
}

func TestGradeCurve_RoundTrip(t *testing.T) {
	cal := DefaultCalibration()
	for _, grade := range []float64{20, 35, 50, 65, 80} {
		rate := cal.PitchingCurves.K9.Rate(grade)
		assert.InDelta(t, grade, cal.PitchingCurves.K9.Grade(rate), 1e-9)
	}
}

func TestGradeCurve_Clamped(t *testing.T) {
	curve := GradeCurve{Intercept: 2.07, Slope: 0.074}
	assert.Equal(t, 80.0, curve.Grade(100))
	assert.Equal(t, 20.0, curve.Grade(0))
}
