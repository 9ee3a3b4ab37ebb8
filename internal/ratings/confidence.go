package ratings

import "math"

// ConfidenceInput carries the signals the confidence factor is keyed on.
// ScoutComposite/PerfComposite are the single-source composite estimates
// (scouting-only and performance-only); a large gap between them lowers
// confidence.
type ConfidenceInput struct {
	Age            int
	HighestLevel   Level
	WeightedExp    float64
	ScoutComposite *float64
	PerfComposite  *float64
}

// ConfidenceFactor computes c in [floor, 1] as the product of independent
// penalty multipliers: age bucket, highest competition level reached,
// sample-size bucket, and scouting/performance disagreement.
func ConfidenceFactor(in ConfidenceInput, cal *Calibration) float64 {
	p := cal.Confidence

	c := ageFactor(in.Age, p)
	if f, ok := p.LevelFactors[in.HighestLevel]; ok {
		c *= f
	} else {
		panic("ratings: no confidence level factor for level " + string(in.HighestLevel))
	}
	c *= sampleFactor(in.WeightedExp, p)
	c *= gapFactor(in.ScoutComposite, in.PerfComposite, p)

	if c < p.Floor {
		return p.Floor
	}
	if c > 1.0 {
		return 1.0
	}
	return c
}

func ageFactor(age int, p ConfidenceParams) float64 {
	for _, b := range p.AgeBuckets {
		if age <= b.MaxAge {
			return b.Factor
		}
	}
	return p.AgeFallback
}

func sampleFactor(exp float64, p ConfidenceParams) float64 {
	for _, b := range p.Samples {
		if exp >= b.MinExp {
			return b.Factor
		}
	}
	// Bucket lists always terminate at MinExp 0; reaching here means a
	// negative experience figure, which is a caller bug.
	panic("ratings: negative weighted experience")
}

func gapFactor(scout, perf *float64, p ConfidenceParams) float64 {
	if scout == nil || perf == nil {
		// Only one source available: no disagreement signal.
		return 1.0
	}
	gap := math.Abs(*scout - *perf)
	for _, b := range p.Gaps {
		if gap < b.MaxGap {
			return b.Factor
		}
	}
	return p.GapFallback
}

// Regress pulls the raw composite toward the fixed average-outcome
// constant in proportion to the missing confidence. The regressed value
// feeds ranking ONLY; the raw projection is retained separately and the
// two must never be conflated.
func Regress(raw, confidence, averageOutcome float64) float64 {
	return confidence*raw + (1-confidence)*averageOutcome
}
