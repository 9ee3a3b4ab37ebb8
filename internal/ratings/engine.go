package ratings

import "fmt"

// Engine runs the full rating pipeline: rate snapshots, level translation,
// temporal aggregation, scouting blend, confidence regression, ranking and
// the final half-star mapping. It is stateless and pure: everything enters
// through the constructor-supplied calibration and the per-call inputs, so
// parameter sweeps can run engines with different calibrations side by side.
type Engine struct {
	cal        *Calibration
	translator *LevelTranslator
}

// NewEngine validates the calibration and builds the level translator.
func NewEngine(cal *Calibration) (*Engine, error) {
	if err := cal.Validate(); err != nil {
		return nil, fmt.Errorf("invalid calibration: %w", err)
	}
	translator, err := NewLevelTranslator(cal.LevelTransitions)
	if err != nil {
		return nil, fmt.Errorf("invalid calibration: %w", err)
	}
	return &Engine{cal: cal, translator: translator}, nil
}

// Calibration returns the engine's calibration snapshot.
func (e *Engine) Calibration() *Calibration {
	return e.cal
}

// PitcherInput is everything the pipeline needs for one pitcher.
type PitcherInput struct {
	PlayerID      uint
	Age           int
	Scouting      *ScoutingReport
	Seasons       []SeasonLine
	CurrentYear   int
	CurrentRating *float64
}

// BatterInput is everything the pipeline needs for one hitter.
type BatterInput struct {
	PlayerID      uint
	Age           int
	Scouting      *ScoutingReport
	Seasons       []SeasonLine
	CurrentYear   int
	CurrentRating *float64
}

// projection is the pre-ranking output shared by both roles: the blended
// rates, the raw composite, and the regressed composite used for ranking.
type projection struct {
	status     PlayerStatus
	blend      BlendedProjection
	raw        float64
	regressed  float64
	confidence float64
	components map[string]ComponentRating
}

// PitcherStatus classifies a pitcher from MLB innings. Computed once here
// and carried on the result; call sites never re-derive it.
func (e *Engine) PitcherStatus(seasons []SeasonLine) PlayerStatus {
	var mlbIP float64
	for _, s := range seasons {
		if s.Level == LevelMLB {
			mlbIP += s.IP
		}
	}
	if mlbIP >= e.cal.Establishment.Innings {
		return StatusEstablished
	}
	return StatusProspect
}

// BatterStatus classifies a hitter from MLB plate appearances.
func (e *Engine) BatterStatus(seasons []SeasonLine) PlayerStatus {
	var mlbPA int
	for _, s := range seasons {
		if s.Level == LevelMLB {
			mlbPA += s.PA
		}
	}
	if mlbPA >= e.cal.Establishment.PlateAppearances {
		return StatusEstablished
	}
	return StatusProspect
}

func highestLevel(seasons []SeasonRates) Level {
	highest := LevelRookie
	for _, s := range seasons {
		if s.Level.Higher(highest) {
			highest = s.Level
		}
	}
	return highest
}

func (e *Engine) projectPitcher(in PitcherInput) (*projection, error) {
	// Snapshot and translate before any aggregation: raw minor league
	// rates are never compared across levels.
	translated := make([]SeasonRates, 0, len(in.Seasons))
	for _, s := range in.Seasons {
		if s.IP <= 0 {
			continue
		}
		rates := e.translator.TranslatePitching(PitchingRatesFromSeason(s), s.Level)
		translated = append(translated, SeasonRates{
			Year:     s.Year,
			Level:    s.Level,
			IP:       s.IP,
			Pitching: &rates,
		})
	}

	var perf *PitchingRates
	var weightedExp float64
	if len(translated) > 0 {
		agg, exp, err := AggregatePitching(translated, in.CurrentYear, e.cal)
		if err == nil {
			perf = &agg
			weightedExp = exp
		}
	}

	var scout *PitchingRates
	scouting := in.Scouting
	if scouting != nil && scouting.Pitching != nil {
		expected := ExpectedPitchingRates(*scouting.Pitching, e.cal)
		scout = &expected
	} else {
		scouting = nil
	}

	if scout == nil && perf == nil {
		return nil, ErrInsufficientData
	}

	w := ScoutWeight(scouting, weightedExp, e.cal)
	blended := BlendPitching(scout, perf, w)
	raw := FIP(blended, e.cal.FIPConstant)
	if raw == nil {
		return nil, ErrInsufficientData
	}

	var scoutFIP, perfFIP *float64
	if scout != nil {
		scoutFIP = FIP(*scout, e.cal.FIPConstant)
	}
	if perf != nil {
		perfFIP = FIP(*perf, e.cal.FIPConstant)
	}

	age := in.Age
	if age == 0 && scouting != nil {
		age = scouting.Age
	}
	confidence := ConfidenceFactor(ConfidenceInput{
		Age:            age,
		HighestLevel:   highestLevel(translated),
		WeightedExp:    weightedExp,
		ScoutComposite: scoutFIP,
		PerfComposite:  perfFIP,
	}, e.cal)

	return &projection{
		status: e.PitcherStatus(in.Seasons),
		blend: BlendedProjection{
			ScoutWeight:        w,
			WeightedExperience: weightedExp,
			Pitching:           &blended,
		},
		raw:        *raw,
		regressed:  Regress(*raw, confidence, e.cal.Average.FIP),
		confidence: confidence,
		components: map[string]ComponentRating{
			"k9":  {Rate: *blended.K9, Grade: e.cal.PitchingCurves.K9.Grade(*blended.K9)},
			"bb9": {Rate: *blended.BB9, Grade: e.cal.PitchingCurves.BB9.Grade(*blended.BB9)},
			"hr9": {Rate: *blended.HR9, Grade: e.cal.PitchingCurves.HR9.Grade(*blended.HR9)},
		},
	}, nil
}

func (e *Engine) projectBatter(in BatterInput) (*projection, error) {
	translated := make([]SeasonRates, 0, len(in.Seasons))
	for _, s := range in.Seasons {
		if s.PA <= 0 {
			continue
		}
		rates := e.translator.TranslateBatting(BattingRatesFromSeason(s), s.Level)
		translated = append(translated, SeasonRates{
			Year:    s.Year,
			Level:   s.Level,
			PA:      s.PA,
			Batting: &rates,
		})
	}

	var perf *BattingRates
	var weightedExp float64
	if len(translated) > 0 {
		agg, exp, err := AggregateBatting(translated, in.CurrentYear, e.cal)
		if err == nil {
			perf = &agg
			weightedExp = exp
		}
	}

	var scout *BattingRates
	var grades *BattingGrades
	scouting := in.Scouting
	if scouting != nil && scouting.Batting != nil {
		expected := ExpectedBattingRates(*scouting.Batting, e.cal)
		scout = &expected
		grades = scouting.Batting
	} else {
		scouting = nil
	}

	if scout == nil && perf == nil {
		return nil, ErrInsufficientData
	}

	w := ScoutWeight(scouting, weightedExp, e.cal)
	blended := BlendBatting(scout, perf, w)
	raw := WOBA(blended, e.cal.WOBAWeights, e.cal.HitSplit, grades)
	if raw == nil {
		return nil, ErrInsufficientData
	}

	var scoutWOBA, perfWOBA *float64
	if scout != nil {
		scoutWOBA = WOBA(*scout, e.cal.WOBAWeights, e.cal.HitSplit, grades)
	}
	if perf != nil {
		perfWOBA = WOBA(*perf, e.cal.WOBAWeights, e.cal.HitSplit, grades)
	}

	age := in.Age
	if age == 0 && scouting != nil {
		age = scouting.Age
	}
	confidence := ConfidenceFactor(ConfidenceInput{
		Age:            age,
		HighestLevel:   highestLevel(translated),
		WeightedExp:    weightedExp,
		ScoutComposite: scoutWOBA,
		PerfComposite:  perfWOBA,
	}, e.cal)

	return &projection{
		status: e.BatterStatus(in.Seasons),
		blend: BlendedProjection{
			ScoutWeight:        w,
			WeightedExperience: weightedExp,
			Batting:            &blended,
		},
		raw:        *raw,
		regressed:  Regress(*raw, confidence, e.cal.Average.WOBA),
		confidence: confidence,
		components: map[string]ComponentRating{
			"bb_pct":         {Rate: *blended.BBPct, Grade: e.cal.BattingCurves.BBPct.Grade(*blended.BBPct)},
			"k_pct":          {Rate: *blended.KPct, Grade: e.cal.BattingCurves.KPct.Grade(*blended.KPct)},
			"hr_pct":         {Rate: *blended.HRPct, Grade: e.cal.BattingCurves.HRPct.Grade(*blended.HRPct)},
			"non_hr_hit_pct": {Rate: *blended.NonHRHitPct, Grade: e.cal.BattingCurves.NonHRHitPct.Grade(*blended.NonHRHitPct)},
		},
	}, nil
}

// componentDirections marks which components improve upward. Anything not
// listed improves downward (bb9, hr9, k_pct).
var componentDirections = map[string]bool{
	"k9":             true,
	"bb_pct":         true,
	"hr_pct":         true,
	"non_hr_hit_pct": true,
}

func (e *Engine) finalize(proj *projection, playerID uint, role Role, currentRating *float64, ref *Reference) (*RatingResult, error) {
	percentile, err := PercentileAgainst(ref.Values, proj.regressed, ref.HigherIsBetter)
	if err != nil {
		return nil, err
	}

	// Component percentiles when the reference carries per-component
	// distributions.
	for name, comp := range proj.components {
		dist, ok := ref.Components[name]
		if !ok || len(dist) == 0 {
			continue
		}
		p, err := PercentileAgainst(dist, comp.Rate, componentDirections[name])
		if err != nil {
			continue
		}
		comp.Percentile = &p
		proj.components[name] = comp
	}

	return &RatingResult{
		PlayerID:           playerID,
		Role:               role,
		Status:             proj.status,
		Rating:             MapRating(percentile, e.cal.RatingThresholds, e.cal.RatingFloor),
		Percentile:         percentile,
		RawComposite:       proj.raw,
		RankedComposite:    proj.regressed,
		Confidence:         proj.confidence,
		ScoutWeight:        proj.blend.ScoutWeight,
		WeightedExperience: proj.blend.WeightedExperience,
		Components:         proj.components,
		CurrentRating:      currentRating,
	}, nil
}

// RatePitcher produces a pitcher's RatingResult against a reference
// distribution of established MLB FIP values (sorted ascending,
// lower-is-better).
func (e *Engine) RatePitcher(in PitcherInput, ref *Reference) (*RatingResult, error) {
	if ref == nil || len(ref.Values) == 0 {
		return nil, ErrEmptyReference
	}
	proj, err := e.projectPitcher(in)
	if err != nil {
		return nil, err
	}
	return e.finalize(proj, in.PlayerID, RolePitcher, in.CurrentRating, ref)
}

// RateBatter produces a hitter's RatingResult against a reference
// distribution of established MLB wOBA values (sorted ascending,
// higher-is-better).
func (e *Engine) RateBatter(in BatterInput, ref *Reference) (*RatingResult, error) {
	if ref == nil || len(ref.Values) == 0 {
		return nil, ErrEmptyReference
	}
	proj, err := e.projectBatter(in)
	if err != nil {
		return nil, err
	}
	return e.finalize(proj, in.PlayerID, RoleBatter, in.CurrentRating, ref)
}

// PoolEntry reports one pool member's outcome in a pool-relative ranking.
type PoolEntry struct {
	Result *RatingResult
	Err    error
}

// RatePitcherPool ranks a pool of pitchers against each other: every
// projection is computed independently (order-insensitive), then one
// shared rank pass assigns percentiles within the pool. Players whose
// projection fails (insufficient data) are reported with their error and
// excluded from the pool size rather than given a placeholder.
func (e *Engine) RatePitcherPool(ins []PitcherInput) []PoolEntry {
	entries := make([]PoolEntry, len(ins))
	projections := make([]*projection, len(ins))
	values := make([]float64, 0, len(ins))
	idx := make([]int, 0, len(ins))

	for i, in := range ins {
		proj, err := e.projectPitcher(in)
		if err != nil {
			entries[i] = PoolEntry{Err: err}
			continue
		}
		projections[i] = proj
		values = append(values, proj.regressed)
		idx = append(idx, i)
	}

	percentiles := RankPool(values, false) // FIP: lower is better
	for j, i := range idx {
		proj := projections[i]
		entries[i] = PoolEntry{Result: &RatingResult{
			PlayerID:           ins[i].PlayerID,
			Role:               RolePitcher,
			Status:             proj.status,
			Rating:             MapRating(percentiles[j], e.cal.RatingThresholds, e.cal.RatingFloor),
			Percentile:         percentiles[j],
			RawComposite:       proj.raw,
			RankedComposite:    proj.regressed,
			Confidence:         proj.confidence,
			ScoutWeight:        proj.blend.ScoutWeight,
			WeightedExperience: proj.blend.WeightedExperience,
			Components:         proj.components,
			CurrentRating:      ins[i].CurrentRating,
		}}
	}
	return entries
}

// RateBatterPool ranks a pool of hitters against each other.
func (e *Engine) RateBatterPool(ins []BatterInput) []PoolEntry {
	entries := make([]PoolEntry, len(ins))
	projections := make([]*projection, len(ins))
	values := make([]float64, 0, len(ins))
	idx := make([]int, 0, len(ins))

	for i, in := range ins {
		proj, err := e.projectBatter(in)
		if err != nil {
			entries[i] = PoolEntry{Err: err}
			continue
		}
		projections[i] = proj
		values = append(values, proj.regressed)
		idx = append(idx, i)
	}

	percentiles := RankPool(values, true) // wOBA: higher is better
	for j, i := range idx {
		proj := projections[i]
		entries[i] = PoolEntry{Result: &RatingResult{
			PlayerID:           ins[i].PlayerID,
			Role:               RoleBatter,
			Status:             proj.status,
			Rating:             MapRating(percentiles[j], e.cal.RatingThresholds, e.cal.RatingFloor),
			Percentile:         percentiles[j],
			RawComposite:       proj.raw,
			RankedComposite:    proj.regressed,
			Confidence:         proj.confidence,
			ScoutWeight:        proj.blend.ScoutWeight,
			WeightedExperience: proj.blend.WeightedExperience,
			Components:         proj.components,
			CurrentRating:      ins[i].CurrentRating,
		}}
	}
	return entries
}
