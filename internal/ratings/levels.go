package ratings

import "fmt"

// LevelTranslator applies additive corrections that estimate a minor
// league rate's major-league-equivalent value. The correction for a level
// is the cumulative sum of the adjustment for every transition between
// that level and the majors, applied exactly once. Translating an MLB
// rate is a no-op.
//
// The tables are empirically calibrated constants, not runtime-computed
// values; recalibration swaps the table.
type LevelTranslator struct {
	totals map[Level]LevelAdjustment
}

// NewLevelTranslator builds a translator from per-transition deltas
// (the delta for moving from each minor level to the next level up),
// accumulating them into per-level totals.
func NewLevelTranslator(transitions map[Level]LevelAdjustment) (*LevelTranslator, error) {
	for _, level := range MinorLevels {
		if _, ok := transitions[level]; !ok {
			return nil, fmt.Errorf("missing level transition for %q", level)
		}
	}
	totals := make(map[Level]LevelAdjustment, len(MinorLevels)+1)
	totals[LevelMLB] = LevelAdjustment{}
	// Walk down from AAA so each level inherits everything above it.
	running := LevelAdjustment{}
	for i := len(MinorLevels) - 1; i >= 0; i-- {
		level := MinorLevels[i]
		running = running.add(transitions[level])
		totals[level] = running
	}
	return &LevelTranslator{totals: totals}, nil
}

// NewLevelTranslatorFromTotals builds a translator from already-cumulative
// per-level totals. Used when a recalibration supplies MLB-equivalent
// corrections directly.
func NewLevelTranslatorFromTotals(totals map[Level]LevelAdjustment) *LevelTranslator {
	t := make(map[Level]LevelAdjustment, len(totals)+1)
	for level, adj := range totals {
		mustLevelOrder(level)
		t[level] = adj
	}
	t[LevelMLB] = LevelAdjustment{}
	return &LevelTranslator{totals: t}
}

// adjustment returns the cumulative correction for a level. An
// unrecognized level is a programming error: silently defaulting would
// corrupt the level-adjustment math, so it fails loudly.
func (lt *LevelTranslator) adjustment(level Level) LevelAdjustment {
	adj, ok := lt.totals[level]
	if !ok {
		panic(fmt.Sprintf("ratings: no level adjustment for level %q", level))
	}
	return adj
}

func addRate(rate *float64, delta float64) *float64 {
	if rate == nil {
		return nil
	}
	v := *rate + delta
	return &v
}

// TranslatePitching returns the MLB-equivalent pitching rates for a rate
// triple observed at the given level. Missing components stay missing.
func (lt *LevelTranslator) TranslatePitching(r PitchingRates, level Level) PitchingRates {
	adj := lt.adjustment(level)
	return PitchingRates{
		K9:  addRate(r.K9, adj.K9),
		BB9: addRate(r.BB9, adj.BB9),
		HR9: addRate(r.HR9, adj.HR9),
	}
}

// TranslateBatting returns the MLB-equivalent batting rates for rates
// observed at the given level.
func (lt *LevelTranslator) TranslateBatting(r BattingRates, level Level) BattingRates {
	adj := lt.adjustment(level)
	return BattingRates{
		BBPct:       addRate(r.BBPct, adj.BBPct),
		KPct:        addRate(r.KPct, adj.KPct),
		HRPct:       addRate(r.HRPct, adj.HRPct),
		NonHRHitPct: addRate(r.NonHRHitPct, adj.NonHRHitPct),
	}
}
