package models

import (
	"time"

	"github.com/wbltools/true-rating/internal/ratings"
)

// Player is the roster identity record. Status is classified once at
// ingestion from MLB experience and persisted; rating code reads it, it
// never re-derives it.
type Player struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ExternalID string    `json:"external_id" gorm:"uniqueIndex;not null"`
	Name       string    `json:"name" gorm:"not null"`
	Role       string    `json:"role" gorm:"not null;index"` // pitcher | batter
	BirthYear  int       `json:"birth_year"`
	Status     string    `json:"status" gorm:"index"` // prospect | established
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AgeIn returns the player's age in the given season year.
func (p *Player) AgeIn(year int) int {
	if p.BirthYear == 0 {
		return 0
	}
	return year - p.BirthYear
}

// ScoutingRecord is one captured scouting evaluation. Immutable once
// captured; re-scouting inserts a new row with a later capture date.
type ScoutingRecord struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PlayerID   uint      `json:"player_id" gorm:"index:idx_scouting_player_date,unique;not null"`
	CapturedAt time.Time `json:"captured_at" gorm:"index:idx_scouting_player_date,unique;not null"`
	Source     string    `json:"source" gorm:"not null"` // primary | fallback
	Age        int       `json:"age"`

	// Pitching grades (20-80), null for position players.
	Stuff   *float64 `json:"stuff"`
	Control *float64 `json:"control"`
	HRAvoid *float64 `json:"hr_avoid"`

	// Batting grades (20-80), null for pitchers.
	Power   *float64 `json:"power"`
	Eye     *float64 `json:"eye"`
	AvoidK  *float64 `json:"avoid_k"`
	Contact *float64 `json:"contact"`
	Gap     *float64 `json:"gap"`
	Speed   *float64 `json:"speed"`

	CurrentStars   float64 `json:"current_stars"`
	PotentialStars float64 `json:"potential_stars"`

	CreatedAt time.Time `json:"created_at"`
}

// ToReport converts the stored record into the engine's scouting report.
func (r *ScoutingRecord) ToReport() *ratings.ScoutingReport {
	report := &ratings.ScoutingReport{
		PlayerID:       r.PlayerID,
		Age:            r.Age,
		CurrentStars:   r.CurrentStars,
		PotentialStars: r.PotentialStars,
		Source:         ratings.SourceTag(r.Source),
		CapturedAt:     r.CapturedAt,
	}
	if r.Stuff != nil && r.Control != nil && r.HRAvoid != nil {
		report.Pitching = &ratings.PitchingGrades{
			Stuff:   *r.Stuff,
			Control: *r.Control,
			HRAvoid: *r.HRAvoid,
		}
	}
	if r.Power != nil && r.Eye != nil && r.AvoidK != nil && r.Contact != nil {
		batting := &ratings.BattingGrades{
			Power:   *r.Power,
			Eye:     *r.Eye,
			AvoidK:  *r.AvoidK,
			Contact: *r.Contact,
		}
		if r.Gap != nil {
			batting.Gap = *r.Gap
		}
		if r.Speed != nil {
			batting.Speed = *r.Speed
		}
		report.Batting = batting
	}
	return report
}

// PerformanceSeason is one player-year-level line of counting stats. An
// immutable historical fact; rates are always derived at read time.
type PerformanceSeason struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	PlayerID uint   `json:"player_id" gorm:"index:idx_perf_player_year_level,unique;not null"`
	Year     int    `json:"year" gorm:"index:idx_perf_player_year_level,unique;not null"`
	Level    string `json:"level" gorm:"index:idx_perf_player_year_level,unique;not null"`

	IP      float64 `json:"ip"`
	PA      int     `json:"pa"`
	K       int     `json:"k"`
	BB      int     `json:"bb"`
	HR      int     `json:"hr"`
	H       int     `json:"h"`
	Doubles int     `json:"doubles"`
	Triples int     `json:"triples"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToSeasonLine converts the stored season into the engine's input form.
// The level string is validated at ingestion, so a bad value here is a
// data corruption bug and surfaces as an error.
func (s *PerformanceSeason) ToSeasonLine() (ratings.SeasonLine, error) {
	level, err := ratings.ParseLevel(s.Level)
	if err != nil {
		return ratings.SeasonLine{}, err
	}
	return ratings.SeasonLine{
		Year:    s.Year,
		Level:   level,
		IP:      s.IP,
		PA:      s.PA,
		K:       s.K,
		BB:      s.BB,
		HR:      s.HR,
		H:       s.H,
		Doubles: s.Doubles,
		Triples: s.Triples,
	}, nil
}
