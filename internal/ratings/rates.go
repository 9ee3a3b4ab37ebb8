package ratings

// Rate derivation from counting stats. A zero denominator always yields a
// nil rate ("no data"), never zero: downstream weighting must exclude the
// component instead of treating a non-existent sample as replacement level.

func per9(count int, ip float64) *float64 {
	if ip <= 0 {
		return nil
	}
	rate := float64(count) / ip * 9
	return &rate
}

func pctOfPA(count, pa int) *float64 {
	if pa <= 0 {
		return nil
	}
	rate := float64(count) / float64(pa) * 100
	return &rate
}

// PitchingRatesFromSeason derives k9/bb9/hr9 from one season line.
func PitchingRatesFromSeason(s SeasonLine) PitchingRates {
	return PitchingRates{
		K9:  per9(s.K, s.IP),
		BB9: per9(s.BB, s.IP),
		HR9: per9(s.HR, s.IP),
	}
}

// BattingRatesFromSeason derives the percentage rates from one season line.
// NonHRHitPct is the non-home-run hit rate later distributed into singles,
// doubles and triples by the configured hit split.
func BattingRatesFromSeason(s SeasonLine) BattingRates {
	return BattingRates{
		BBPct:       pctOfPA(s.BB, s.PA),
		KPct:        pctOfPA(s.K, s.PA),
		HRPct:       pctOfPA(s.HR, s.PA),
		NonHRHitPct: pctOfPA(s.H-s.HR, s.PA),
	}
}

// FIP computes the fielding-independent composite from a complete rate
// triple. Returns nil if any component is missing.
func FIP(r PitchingRates, constant float64) *float64 {
	if r.K9 == nil || r.BB9 == nil || r.HR9 == nil {
		return nil
	}
	fip := (13**r.HR9+3**r.BB9-2**r.K9)/9 + constant
	return &fip
}

// WOBA computes the weighted-on-base-average composite from a complete
// rate set. The non-HR hit rate is distributed into single/double/triple
// shares; grades may be nil, in which case the fixed split applies.
// Returns nil if any component is missing.
func WOBA(r BattingRates, weights WOBAWeights, split HitSplit, grades *BattingGrades) *float64 {
	if r.BBPct == nil || r.HRPct == nil || r.NonHRHitPct == nil {
		return nil
	}
	single, double, triple := split.Shares(grades)

	bb := *r.BBPct / 100
	hr := *r.HRPct / 100
	hits := *r.NonHRHitPct / 100

	woba := weights.Walk*bb +
		weights.Single*hits*single +
		weights.Double*hits*double +
		weights.Triple*hits*triple +
		weights.HomeRun*hr
	return &woba
}
