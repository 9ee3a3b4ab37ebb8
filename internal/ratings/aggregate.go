package ratings

// Temporal aggregation: collapse multiple seasons of already-translated
// rates into one estimate per player. Each season's weight is its recency
// weight times the sample size behind it; components missing for a season
// contribute nothing to that component's average.
//
// Inputs MUST already be level-translated — raw rates are never compared
// across levels.

type weightedMean struct {
	sum    float64
	weight float64
}

func (m *weightedMean) add(rate *float64, weight float64) {
	if rate == nil || weight <= 0 {
		return
	}
	m.sum += *rate * weight
	m.weight += weight
}

func (m *weightedMean) value() *float64 {
	if m.weight <= 0 {
		return nil
	}
	v := m.sum / m.weight
	return &v
}

// AggregatePitching combines translated season rates into one weighted
// rate set plus the level-weighted innings behind it. The level-weighted
// experience determines how much the performance side deserves relative
// to scouting; it is not part of the rate average itself.
// Returns ErrNoPerformanceData when no season carries any weight.
func AggregatePitching(seasons []SeasonRates, currentYear int, cal *Calibration) (PitchingRates, float64, error) {
	var k9, bb9, hr9 weightedMean
	var weightedExp float64

	for _, s := range seasons {
		if s.Pitching == nil || s.IP <= 0 {
			continue
		}
		w := cal.YearWeights.Weight(s.Year, currentYear) * s.IP
		k9.add(s.Pitching.K9, w)
		bb9.add(s.Pitching.BB9, w)
		hr9.add(s.Pitching.HR9, w)
		weightedExp += reliability(s.Level, cal) * s.IP
	}

	rates := PitchingRates{K9: k9.value(), BB9: bb9.value(), HR9: hr9.value()}
	if rates.K9 == nil && rates.BB9 == nil && rates.HR9 == nil {
		return PitchingRates{}, 0, ErrNoPerformanceData
	}
	return rates, weightedExp, nil
}

// AggregateBatting combines translated season rates into one weighted rate
// set plus the level-weighted plate appearances behind it.
func AggregateBatting(seasons []SeasonRates, currentYear int, cal *Calibration) (BattingRates, float64, error) {
	var bb, k, hr, hits weightedMean
	var weightedExp float64

	for _, s := range seasons {
		if s.Batting == nil || s.PA <= 0 {
			continue
		}
		w := cal.YearWeights.Weight(s.Year, currentYear) * float64(s.PA)
		bb.add(s.Batting.BBPct, w)
		k.add(s.Batting.KPct, w)
		hr.add(s.Batting.HRPct, w)
		hits.add(s.Batting.NonHRHitPct, w)
		weightedExp += reliability(s.Level, cal) * float64(s.PA)
	}

	rates := BattingRates{BBPct: bb.value(), KPct: k.value(), HRPct: hr.value(), NonHRHitPct: hits.value()}
	if rates.BBPct == nil && rates.KPct == nil && rates.HRPct == nil && rates.NonHRHitPct == nil {
		return BattingRates{}, 0, ErrNoPerformanceData
	}
	return rates, weightedExp, nil
}

func reliability(level Level, cal *Calibration) float64 {
	r, ok := cal.LevelReliability[level]
	if !ok {
		panic("ratings: no level reliability for level " + string(level))
	}
	return r
}
