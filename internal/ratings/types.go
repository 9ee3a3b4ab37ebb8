package ratings

import (
	"fmt"
	"time"
)

// Level represents a tier of competition. Four minor league tiers feed
// into the majors; all rate translation is expressed relative to MLB.
type Level string

const (
	LevelRookie Level = "r"
	LevelA      Level = "a"
	LevelAA     Level = "aa"
	LevelAAA    Level = "aaa"
	LevelMLB    Level = "mlb"
)

// levelOrder positions each level below the majors. Used to accumulate
// per-transition adjustments into per-level totals.
var levelOrder = map[Level]int{
	LevelRookie: 0,
	LevelA:      1,
	LevelAA:     2,
	LevelAAA:    3,
	LevelMLB:    4,
}

// MinorLevels lists the four minor league tiers in ascending order.
var MinorLevels = []Level{LevelRookie, LevelA, LevelAA, LevelAAA}

// ParseLevel converts an external level identifier into a Level.
func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case LevelRookie, LevelA, LevelAA, LevelAAA, LevelMLB:
		return Level(s), nil
	}
	return "", fmt.Errorf("unrecognized level %q", s)
}

// Higher reports whether l is a higher tier of competition than other.
func (l Level) Higher(other Level) bool {
	return mustLevelOrder(l) > mustLevelOrder(other)
}

func mustLevelOrder(l Level) int {
	order, ok := levelOrder[l]
	if !ok {
		panic(fmt.Sprintf("ratings: unrecognized level %q", l))
	}
	return order
}

// PlayerStatus classifies a player as an established major leaguer or a
// prospect. It is computed once at ingestion from MLB experience and never
// re-derived downstream.
type PlayerStatus string

const (
	StatusProspect    PlayerStatus = "prospect"
	StatusEstablished PlayerStatus = "established"
)

// Role identifies which rating pipeline applies to a player.
type Role string

const (
	RolePitcher Role = "pitcher"
	RoleBatter  Role = "batter"
)

// SourceTag identifies where a scouting report came from.
type SourceTag string

const (
	SourcePrimary  SourceTag = "primary"
	SourceFallback SourceTag = "fallback"
)

// PitchingGrades holds a pitcher's potential grades on the 20-80 scale.
type PitchingGrades struct {
	Stuff   float64 `json:"stuff"`
	Control float64 `json:"control"`
	HRAvoid float64 `json:"hr_avoid"`
}

// BattingGrades holds a hitter's potential grades on the 20-80 scale.
type BattingGrades struct {
	Power   float64 `json:"power"`
	Eye     float64 `json:"eye"`
	AvoidK  float64 `json:"avoid_k"`
	Contact float64 `json:"contact"`
	Gap     float64 `json:"gap"`
	Speed   float64 `json:"speed"`
}

// ScoutingReport is one captured scouting evaluation of a player.
// Reports are immutable once captured; multiple reports per player are
// disambiguated by capture date.
type ScoutingReport struct {
	PlayerID       uint            `json:"player_id"`
	Age            int             `json:"age"`
	Pitching       *PitchingGrades `json:"pitching,omitempty"`
	Batting        *BattingGrades  `json:"batting,omitempty"`
	CurrentStars   float64         `json:"current_stars"`
	PotentialStars float64         `json:"potential_stars"`
	Source         SourceTag       `json:"source"`
	CapturedAt     time.Time       `json:"captured_at"`
}

// StarGap is the distance between a player's potential and current star
// grades; larger gaps indicate more development remaining.
func (r *ScoutingReport) StarGap() float64 {
	gap := r.PotentialStars - r.CurrentStars
	if gap < 0 {
		return 0
	}
	return gap
}

// SeasonLine is one player-year-level record of counting stats. It is an
// immutable historical fact; rates are always derived, never stored.
type SeasonLine struct {
	Year    int     `json:"year"`
	Level   Level   `json:"level"`
	IP      float64 `json:"ip"`
	PA      int     `json:"pa"`
	K       int     `json:"k"`
	BB      int     `json:"bb"`
	HR      int     `json:"hr"`
	H       int     `json:"h"`
	Doubles int     `json:"doubles"`
	Triples int     `json:"triples"`
}

// PitchingRates holds per-9-inning rates. A nil component means the rate
// could not be computed (zero innings) and must be treated as missing,
// never as zero.
type PitchingRates struct {
	K9  *float64 `json:"k9"`
	BB9 *float64 `json:"bb9"`
	HR9 *float64 `json:"hr9"`
}

// BattingRates holds per-plate-appearance percentage rates (0-100 scale).
// A nil component means no data.
type BattingRates struct {
	BBPct       *float64 `json:"bb_pct"`
	KPct        *float64 `json:"k_pct"`
	HRPct       *float64 `json:"hr_pct"`
	NonHRHitPct *float64 `json:"non_hr_hit_pct"`
}

// SeasonRates pairs the derived rates for one season with the experience
// behind them. Rates may already be level-translated depending on where
// in the pipeline the value sits.
type SeasonRates struct {
	Year     int
	Level    Level
	IP       float64
	PA       int
	Pitching *PitchingRates
	Batting  *BattingRates
}

// BlendedProjection is a player's combined scouting+performance estimate,
// tagged with the blend weight used and the level-weighted experience
// behind the performance side.
type BlendedProjection struct {
	ScoutWeight        float64        `json:"scout_weight"`
	WeightedExperience float64        `json:"weighted_experience"`
	Pitching           *PitchingRates `json:"pitching,omitempty"`
	Batting            *BattingRates  `json:"batting,omitempty"`
}

// ComponentRating is the per-component breakdown of a rating: the blended
// MLB-equivalent rate, its 20-80 display grade, and (when a component
// reference distribution was supplied) its percentile.
type ComponentRating struct {
	Rate       float64  `json:"rate"`
	Grade      float64  `json:"grade"`
	Percentile *float64 `json:"percentile,omitempty"`
}

// RatingResult is the final output of one rating computation. Produced
// fresh on every invocation, never mutated.
type RatingResult struct {
	PlayerID           uint                       `json:"player_id"`
	Role               Role                       `json:"role"`
	Status             PlayerStatus               `json:"status"`
	Rating             float64                    `json:"rating"`
	Percentile         float64                    `json:"percentile"`
	RawComposite       float64                    `json:"raw_composite"`
	RankedComposite    float64                    `json:"ranked_composite"`
	Confidence         float64                    `json:"confidence"`
	ScoutWeight        float64                    `json:"scout_weight"`
	WeightedExperience float64                    `json:"weighted_experience"`
	Components         map[string]ComponentRating `json:"components"`
	CurrentRating      *float64                   `json:"current_rating,omitempty"`
}

// Reference is a pre-built, already-sorted distribution of established
// major league composite values used as the percentile baseline. The
// engine has no knowledge of how it was fetched or filtered.
type Reference struct {
	Values         []float64            `json:"values"`
	HigherIsBetter bool                 `json:"higher_is_better"`
	Components     map[string][]float64 `json:"components,omitempty"`
}
