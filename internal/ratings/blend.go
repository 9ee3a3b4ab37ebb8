package ratings

// Scouting blend: combine grade-derived expected rates with aggregated
// performance rates. The scouting side contributes w, the performance
// side (1-w). The weight formula is one versioned calibration; earlier
// tunings (age-bonus-only, flat 70/30) are superseded by this snapshot.

// ExpectedPitchingRates maps potential grades onto expected MLB rates via
// the calibration's fixed grade curves.
func ExpectedPitchingRates(g PitchingGrades, cal *Calibration) PitchingRates {
	k9 := cal.PitchingCurves.K9.Rate(g.Stuff)
	bb9 := cal.PitchingCurves.BB9.Rate(g.Control)
	hr9 := cal.PitchingCurves.HR9.Rate(g.HRAvoid)
	if hr9 < 0 {
		hr9 = 0
	}
	return PitchingRates{K9: &k9, BB9: &bb9, HR9: &hr9}
}

// ExpectedBattingRates maps potential grades onto expected MLB rates.
func ExpectedBattingRates(g BattingGrades, cal *Calibration) BattingRates {
	bb := cal.BattingCurves.BBPct.Rate(g.Eye)
	k := cal.BattingCurves.KPct.Rate(g.AvoidK)
	hr := cal.BattingCurves.HRPct.Rate(g.Power)
	if hr < 0 {
		hr = 0
	}
	hits := cal.BattingCurves.NonHRHitPct.Rate(g.Contact)
	return BattingRates{BBPct: &bb, KPct: &k, HRPct: &hr, NonHRHitPct: &hits}
}

// ScoutWeight computes the blend weight w for the scouting side.
//
// With no scouting report the weight is zero; with no performance
// evidence at all the weight is the configured maximum, so the projection
// equals the scouting-derived rate exactly. Otherwise the weight rises
// with the star gap (development remaining) and youth, falls as
// level-weighted experience accumulates, and is capped. Monotonically
// non-increasing in experience.
func ScoutWeight(report *ScoutingReport, weightedExp float64, cal *Calibration) float64 {
	if report == nil {
		return 0
	}
	if weightedExp <= 0 {
		return cal.Blend.MaxWeight
	}
	p := cal.Blend

	w := p.Base
	if p.GapScale > 0 {
		w += report.StarGap() / p.GapScale * p.GapCoef
	}
	w += p.ExpAnchor / (p.ExpAnchor + weightedExp) * p.ExpCoef
	if report.Age < p.PeakAge {
		w += float64(p.PeakAge-report.Age) * p.AgeCoef
	}

	if w > p.Cap {
		return p.Cap
	}
	if w < 0 {
		return 0
	}
	return w
}

func blendRate(scout, perf *float64, w float64) *float64 {
	switch {
	case scout == nil && perf == nil:
		return nil
	case scout == nil:
		return perf
	case perf == nil:
		return scout
	}
	v := w**scout + (1-w)**perf
	return &v
}

// BlendPitching combines scouting-expected and performance-derived rates
// per component. A component missing on one side degrades gracefully to
// the other side at full weight.
func BlendPitching(scout, perf *PitchingRates, w float64) PitchingRates {
	var s, p PitchingRates
	if scout != nil {
		s = *scout
	}
	if perf != nil {
		p = *perf
	}
	return PitchingRates{
		K9:  blendRate(s.K9, p.K9, w),
		BB9: blendRate(s.BB9, p.BB9, w),
		HR9: blendRate(s.HR9, p.HR9, w),
	}
}

// BlendBatting combines scouting-expected and performance-derived batting
// rates per component.
func BlendBatting(scout, perf *BattingRates, w float64) BattingRates {
	var s, p BattingRates
	if scout != nil {
		s = *scout
	}
	if perf != nil {
		p = *perf
	}
	return BattingRates{
		BBPct:       blendRate(s.BBPct, p.BBPct, w),
		KPct:        blendRate(s.KPct, p.KPct, w),
		HRPct:       blendRate(s.HRPct, p.HRPct, w),
		NonHRHitPct: blendRate(s.NonHRHitPct, p.NonHRHitPct, w),
	}
}
