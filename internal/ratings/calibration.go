package ratings

import "fmt"

// GradeCurve maps a 20-80 scouting grade to an expected MLB rate via a
// fixed linear fit, and back again for display.
type GradeCurve struct {
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
}

// Rate converts a grade into its expected MLB rate.
func (c GradeCurve) Rate(grade float64) float64 {
	return c.Intercept + c.Slope*grade
}

// Grade inverts the curve, clamping the result to the 20-80 scale.
func (c GradeCurve) Grade(rate float64) float64 {
	grade := (rate - c.Intercept) / c.Slope
	if grade < 20 {
		return 20
	}
	if grade > 80 {
		return 80
	}
	return grade
}

// PitchingCurves holds the grade-to-rate fits for the three pitcher axes.
type PitchingCurves struct {
	K9  GradeCurve `json:"k9"`
	BB9 GradeCurve `json:"bb9"`
	HR9 GradeCurve `json:"hr9"`
}

// BattingCurves holds the grade-to-rate fits for the hitter axes. All
// rates are percentages of plate appearances.
type BattingCurves struct {
	BBPct       GradeCurve `json:"bb_pct"`
	KPct        GradeCurve `json:"k_pct"`
	HRPct       GradeCurve `json:"hr_pct"`
	NonHRHitPct GradeCurve `json:"non_hr_hit_pct"`
}

// WOBAWeights is the fixed linear-weights table for the wOBA composite.
type WOBAWeights struct {
	Walk    float64 `json:"walk"`
	Single  float64 `json:"single"`
	Double  float64 `json:"double"`
	Triple  float64 `json:"triple"`
	HomeRun float64 `json:"home_run"`
}

// SplitMode selects how non-HR hits are distributed into singles, doubles
// and triples.
type SplitMode string

const (
	// SplitFixed is the legacy fixed 65/27/8 distribution.
	SplitFixed SplitMode = "fixed"
	// SplitGraded drives the extra-base shares from gap power and speed.
	SplitGraded SplitMode = "graded"
)

// HitSplit configures the non-HR hit distribution. The graded mode
// replaced the fixed split; both remain selectable for recalibration.
type HitSplit struct {
	Mode            SplitMode `json:"mode"`
	Single          float64   `json:"single"`
	Double          float64   `json:"double"`
	Triple          float64   `json:"triple"`
	DoubleBase      float64   `json:"double_base"`
	DoubleGapCoef   float64   `json:"double_gap_coef"`
	TripleBase      float64   `json:"triple_base"`
	TripleSpeedCoef float64   `json:"triple_speed_coef"`
}

// Shares returns the (single, double, triple) shares of non-HR hits.
// Falls back to the fixed split when no grades are available.
func (hs HitSplit) Shares(grades *BattingGrades) (single, double, triple float64) {
	if hs.Mode == SplitFixed || grades == nil {
		return hs.Single, hs.Double, hs.Triple
	}
	double = hs.DoubleBase + hs.DoubleGapCoef*grades.Gap
	triple = hs.TripleBase + hs.TripleSpeedCoef*grades.Speed
	return 1 - double - triple, double, triple
}

// LevelAdjustment is the additive rate correction for one level (or one
// level transition). Zero-valued components apply no correction.
type LevelAdjustment struct {
	K9          float64 `json:"k9"`
	BB9         float64 `json:"bb9"`
	HR9         float64 `json:"hr9"`
	BBPct       float64 `json:"bb_pct"`
	KPct        float64 `json:"k_pct"`
	HRPct       float64 `json:"hr_pct"`
	NonHRHitPct float64 `json:"non_hr_hit_pct"`
}

func (a LevelAdjustment) add(b LevelAdjustment) LevelAdjustment {
	return LevelAdjustment{
		K9:          a.K9 + b.K9,
		BB9:         a.BB9 + b.BB9,
		HR9:         a.HR9 + b.HR9,
		BBPct:       a.BBPct + b.BBPct,
		KPct:        a.KPct + b.KPct,
		HRPct:       a.HRPct + b.HRPct,
		NonHRHitPct: a.NonHRHitPct + b.NonHRHitPct,
	}
}

// YearWeights is the fixed recency lookup: the most recent season gets
// the highest weight, the prior season the next, anything older the flat
// fallback. A lookup table, not a decay function.
type YearWeights struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	Older    float64 `json:"older"`
}

// Weight returns the recency weight for a season relative to currentYear.
func (w YearWeights) Weight(seasonYear, currentYear int) float64 {
	switch currentYear - seasonYear {
	case 0:
		return w.Current
	case 1:
		return w.Previous
	default:
		return w.Older
	}
}

// BlendParams configures the scouting-vs-performance blend weight. The
// formula is a documented, swappable calibration; it has been re-tuned
// repeatedly and must stay monotonically decreasing in experience.
type BlendParams struct {
	Base      float64 `json:"base"`
	GapCoef   float64 `json:"gap_coef"`
	GapScale  float64 `json:"gap_scale"`
	ExpCoef   float64 `json:"exp_coef"`
	ExpAnchor float64 `json:"exp_anchor"`
	AgeCoef   float64 `json:"age_coef"`
	PeakAge   int     `json:"peak_age"`
	Cap       float64 `json:"cap"`
	// MaxWeight applies when no performance data exists at all.
	MaxWeight float64 `json:"max_weight"`
}

// ageBucket maps ages up to and including MaxAge to a confidence factor.
type ageBucket struct {
	MaxAge int     `json:"max_age"`
	Factor float64 `json:"factor"`
}

// sampleBucket maps weighted experience at or above MinExp to a factor.
type sampleBucket struct {
	MinExp float64 `json:"min_exp"`
	Factor float64 `json:"factor"`
}

// gapBucket maps scouting/performance disagreement below MaxGap to a factor.
type gapBucket struct {
	MaxGap float64 `json:"max_gap"`
	Factor float64 `json:"factor"`
}

// ConfidenceParams configures the pre-ranking confidence factor: a product
// of independent penalty multipliers, floored.
type ConfidenceParams struct {
	Floor        float64           `json:"floor"`
	AgeBuckets   []ageBucket       `json:"age_buckets"`
	AgeFallback  float64           `json:"age_fallback"`
	LevelFactors map[Level]float64 `json:"level_factors"`
	Samples      []sampleBucket    `json:"samples"`
	Gaps         []gapBucket       `json:"gaps"`
	GapFallback  float64           `json:"gap_fallback"`
}

// AverageOutcome is the fixed regression target for each composite.
type AverageOutcome struct {
	FIP  float64 `json:"fip"`
	WOBA float64 `json:"woba"`
}

// RatingThreshold maps percentiles at or above Percentile to Rating.
type RatingThreshold struct {
	Percentile float64 `json:"percentile"`
	Rating     float64 `json:"rating"`
}

// EstablishmentThresholds define when MLB experience makes a player
// "established" rather than a prospect. Computed once at ingestion.
type EstablishmentThresholds struct {
	Innings          float64 `json:"innings"`
	PlateAppearances int     `json:"plate_appearances"`
}

// ReferencePoolParams filter the established-player pool used as the
// percentile baseline.
type ReferencePoolParams struct {
	MinInnings          float64 `json:"min_innings"`
	MinPlateAppearances int     `json:"min_plate_appearances"`
	PeakAgeMin          int     `json:"peak_age_min"`
	PeakAgeMax          int     `json:"peak_age_max"`
}

// Calibration is one versioned snapshot of every tunable table in the
// rating pipeline. Nothing in the engine reads ambient state; parameter
// sweeps construct alternative calibrations and run them side by side.
type Calibration struct {
	Version string `json:"version"`

	FIPConstant    float64        `json:"fip_constant"`
	WOBAWeights    WOBAWeights    `json:"woba_weights"`
	HitSplit       HitSplit       `json:"hit_split"`
	PitchingCurves PitchingCurves `json:"pitching_curves"`
	BattingCurves  BattingCurves  `json:"batting_curves"`

	// LevelTransitions holds the additive delta for moving from each minor
	// level to the next level up. Per-level totals are the cumulative sum
	// of every transition between that level and MLB.
	LevelTransitions map[Level]LevelAdjustment `json:"level_transitions"`

	YearWeights      YearWeights       `json:"year_weights"`
	LevelReliability map[Level]float64 `json:"level_reliability"`

	Blend      BlendParams      `json:"blend"`
	Confidence ConfidenceParams `json:"confidence"`
	Average    AverageOutcome   `json:"average_outcome"`

	RatingFloor      float64           `json:"rating_floor"`
	RatingThresholds []RatingThreshold `json:"rating_thresholds"`

	Establishment EstablishmentThresholds `json:"establishment"`
	ReferencePool ReferencePoolParams     `json:"reference_pool"`
}

// DefaultCalibration returns the canonical calibration snapshot. Earlier
// tunings (flat level tables, age-only blend weights, the fixed hit split)
// are superseded; recalibration swaps this table, not the code.
func DefaultCalibration() *Calibration {
	return &Calibration{
		Version: "2021.1",

		FIPConstant: 3.47,
		WOBAWeights: WOBAWeights{
			Walk:    0.69,
			Single:  0.89,
			Double:  1.27,
			Triple:  1.62,
			HomeRun: 2.10,
		},
		HitSplit: HitSplit{
			Mode:            SplitGraded,
			Single:          0.65,
			Double:          0.27,
			Triple:          0.08,
			DoubleBase:      0.15,
			DoubleGapCoef:   0.0024,
			TripleBase:      0.025,
			TripleSpeedCoef: 0.0011,
		},
		PitchingCurves: PitchingCurves{
			K9:  GradeCurve{Intercept: 2.07, Slope: 0.074},
			BB9: GradeCurve{Intercept: 5.22, Slope: -0.052},
			HR9: GradeCurve{Intercept: 2.08, Slope: -0.024},
		},
		BattingCurves: BattingCurves{
			BBPct:       GradeCurve{Intercept: 2.50, Slope: 0.120},
			KPct:        GradeCurve{Intercept: 35.0, Slope: -0.260},
			HRPct:       GradeCurve{Intercept: 0.20, Slope: 0.062},
			NonHRHitPct: GradeCurve{Intercept: 10.0, Slope: 0.220},
		},

		LevelTransitions: map[Level]LevelAdjustment{
			LevelAAA:    {K9: 0.30, BB9: -0.42, HR9: 0.14, BBPct: -0.40, KPct: 0.60, HRPct: 0.35, NonHRHitPct: -0.90},
			LevelAA:     {K9: 0.03, BB9: -0.05, HR9: -0.08, BBPct: -0.20, KPct: 0.50, HRPct: 0.15, NonHRHitPct: -0.60},
			LevelA:      {K9: -0.11, BB9: -0.12, HR9: 0.01, BBPct: -0.25, KPct: 0.70, HRPct: 0.10, NonHRHitPct: -0.70},
			LevelRookie: {K9: 0.23, BB9: 0.01, HR9: -0.01, BBPct: -0.15, KPct: 0.80, HRPct: 0.05, NonHRHitPct: -0.80},
		},

		YearWeights: YearWeights{Current: 1.0, Previous: 0.6, Older: 0.3},
		LevelReliability: map[Level]float64{
			LevelMLB:    1.00,
			LevelAAA:    0.90,
			LevelAA:     0.75,
			LevelA:      0.55,
			LevelRookie: 0.35,
		},

		Blend: BlendParams{
			Base:      0.65,
			GapCoef:   0.15,
			GapScale:  4.0,
			ExpCoef:   0.15,
			ExpAnchor: 50,
			AgeCoef:   0.01,
			PeakAge:   24,
			Cap:       0.95,
			MaxWeight: 1.0,
		},

		Confidence: ConfidenceParams{
			Floor: 0.35,
			AgeBuckets: []ageBucket{
				{MaxAge: 20, Factor: 0.90},
				{MaxAge: 26, Factor: 1.00},
				{MaxAge: 29, Factor: 0.95},
			},
			AgeFallback: 0.85,
			LevelFactors: map[Level]float64{
				LevelMLB:    1.00,
				LevelAAA:    1.00,
				LevelAA:     0.95,
				LevelA:      0.85,
				LevelRookie: 0.70,
			},
			Samples: []sampleBucket{
				{MinExp: 150, Factor: 1.00},
				{MinExp: 75, Factor: 0.90},
				{MinExp: 30, Factor: 0.80},
				{MinExp: 0, Factor: 0.65},
			},
			Gaps: []gapBucket{
				{MaxGap: 0.50, Factor: 1.00},
				{MaxGap: 1.00, Factor: 0.90},
				{MaxGap: 2.00, Factor: 0.80},
			},
			GapFallback: 0.70,
		},

		Average: AverageOutcome{FIP: 4.20, WOBA: 0.320},

		RatingFloor: 0.5,
		RatingThresholds: []RatingThreshold{
			{Percentile: 98.0, Rating: 5.0},
			{Percentile: 95.0, Rating: 4.5},
			{Percentile: 90.0, Rating: 4.0},
			{Percentile: 80.0, Rating: 3.5},
			{Percentile: 65.0, Rating: 3.0},
			{Percentile: 45.0, Rating: 2.5},
			{Percentile: 25.0, Rating: 2.0},
			{Percentile: 10.0, Rating: 1.5},
			{Percentile: 3.0, Rating: 1.0},
		},

		Establishment: EstablishmentThresholds{Innings: 50, PlateAppearances: 200},
		ReferencePool: ReferencePoolParams{
			MinInnings:          50,
			MinPlateAppearances: 200,
			PeakAgeMin:          24,
			PeakAgeMax:          32,
		},
	}
}

// Validate checks the calibration for malformed tables. A bad calibration
// is a deployment error; it must fail construction, not corrupt math later.
func (c *Calibration) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("calibration missing version tag")
	}
	for _, level := range MinorLevels {
		if _, ok := c.LevelTransitions[level]; !ok {
			return fmt.Errorf("calibration %s: missing level transition for %q", c.Version, level)
		}
		if _, ok := c.LevelReliability[level]; !ok {
			return fmt.Errorf("calibration %s: missing level reliability for %q", c.Version, level)
		}
	}
	if _, ok := c.LevelReliability[LevelMLB]; !ok {
		return fmt.Errorf("calibration %s: missing level reliability for %q", c.Version, LevelMLB)
	}
	if len(c.RatingThresholds) == 0 {
		return fmt.Errorf("calibration %s: empty rating threshold table", c.Version)
	}
	for i := 1; i < len(c.RatingThresholds); i++ {
		prev, cur := c.RatingThresholds[i-1], c.RatingThresholds[i]
		if cur.Percentile >= prev.Percentile {
			return fmt.Errorf("calibration %s: rating thresholds must descend by percentile (%v then %v)",
				c.Version, prev.Percentile, cur.Percentile)
		}
		if cur.Rating > prev.Rating {
			return fmt.Errorf("calibration %s: rating thresholds must be non-increasing (%v then %v)",
				c.Version, prev.Rating, cur.Rating)
		}
	}
	if c.Blend.Cap <= 0 || c.Blend.Cap > c.Blend.MaxWeight || c.Blend.MaxWeight > 1.0 {
		return fmt.Errorf("calibration %s: blend cap/max weight out of range", c.Version)
	}
	if c.Confidence.Floor <= 0 || c.Confidence.Floor > 1.0 {
		return fmt.Errorf("calibration %s: confidence floor out of range", c.Version)
	}
	if c.YearWeights.Current <= 0 {
		return fmt.Errorf("calibration %s: current-year weight must be positive", c.Version)
	}
	return nil
}
