package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
	"gorm.io/gorm"

	"github.com/wbltools/true-rating/internal/ratings"
)

// ReferenceRow is one established player's career MLB totals, the raw
// material for the percentile baseline.
type ReferenceRow struct {
	PlayerID uint    `json:"player_id"`
	Age      int     `json:"age"`
	IP       float64 `json:"ip"`
	PA       int     `json:"pa"`
	K        int     `json:"k"`
	BB       int     `json:"bb"`
	HR       int     `json:"hr"`
	H        int     `json:"h"`
	Doubles  int     `json:"doubles"`
	Triples  int     `json:"triples"`
}

// ReferenceSummary describes a built reference distribution for the API.
type ReferenceSummary struct {
	Role   string  `json:"role"`
	Season int     `json:"season"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	P10    float64 `json:"p10"`
	P25    float64 `json:"p25"`
	P50    float64 `json:"p50"`
	P75    float64 `json:"p75"`
	P90    float64 `json:"p90"`
}

// ReferenceService builds and caches the established-MLB reference
// distributions that prospect projections are ranked against.
type ReferenceService struct {
	db       *gorm.DB
	cache    *CacheService
	cal      *ratings.Calibration
	cacheTTL time.Duration
	logger   *logrus.Logger
}

func NewReferenceService(db *gorm.DB, cache *CacheService, cal *ratings.Calibration, cacheTTL time.Duration, logger *logrus.Logger) *ReferenceService {
	return &ReferenceService{
		db:       db,
		cache:    cache,
		cal:      cal,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// BuildPitcherReference converts established-pitcher career rows into the
// sorted FIP baseline. Pure: callers own fetching and caching.
func BuildPitcherReference(rows []ReferenceRow, cal *ratings.Calibration) *ratings.Reference {
	values := make([]float64, 0, len(rows))
	components := map[string][]float64{
		"k9":  make([]float64, 0, len(rows)),
		"bb9": make([]float64, 0, len(rows)),
		"hr9": make([]float64, 0, len(rows)),
	}

	for _, row := range rows {
		if row.IP < cal.ReferencePool.MinInnings {
			continue
		}
		if row.Age != 0 && (row.Age < cal.ReferencePool.PeakAgeMin || row.Age > cal.ReferencePool.PeakAgeMax) {
			continue
		}
		rates := ratings.PitchingRatesFromSeason(ratings.SeasonLine{
			Level: ratings.LevelMLB,
			IP:    row.IP,
			K:     row.K,
			BB:    row.BB,
			HR:    row.HR,
		})
		fip := ratings.FIP(rates, cal.FIPConstant)
		if fip == nil {
			continue
		}
		values = append(values, *fip)
		components["k9"] = append(components["k9"], *rates.K9)
		components["bb9"] = append(components["bb9"], *rates.BB9)
		components["hr9"] = append(components["hr9"], *rates.HR9)
	}

	sort.Float64s(values)
	sortComponents(components)
	return &ratings.Reference{Values: values, HigherIsBetter: false, Components: components}
}

// BuildBatterReference converts established-hitter career rows into the
// sorted wOBA baseline. Reference composites always use the fixed hit
// split: career totals carry no scouting grades to drive the graded one.
func BuildBatterReference(rows []ReferenceRow, cal *ratings.Calibration) *ratings.Reference {
	values := make([]float64, 0, len(rows))
	components := map[string][]float64{
		"bb_pct":         make([]float64, 0, len(rows)),
		"k_pct":          make([]float64, 0, len(rows)),
		"hr_pct":         make([]float64, 0, len(rows)),
		"non_hr_hit_pct": make([]float64, 0, len(rows)),
	}

	for _, row := range rows {
		if row.PA < cal.ReferencePool.MinPlateAppearances {
			continue
		}
		if row.Age != 0 && (row.Age < cal.ReferencePool.PeakAgeMin || row.Age > cal.ReferencePool.PeakAgeMax) {
			continue
		}
		rates := ratings.BattingRatesFromSeason(ratings.SeasonLine{
			Level:   ratings.LevelMLB,
			PA:      row.PA,
			K:       row.K,
			BB:      row.BB,
			HR:      row.HR,
			H:       row.H,
			Doubles: row.Doubles,
			Triples: row.Triples,
		})
		woba := ratings.WOBA(rates, cal.WOBAWeights, cal.HitSplit, nil)
		if woba == nil {
			continue
		}
		values = append(values, *woba)
		components["bb_pct"] = append(components["bb_pct"], *rates.BBPct)
		components["k_pct"] = append(components["k_pct"], *rates.KPct)
		components["hr_pct"] = append(components["hr_pct"], *rates.HRPct)
		components["non_hr_hit_pct"] = append(components["non_hr_hit_pct"], *rates.NonHRHitPct)
	}

	sort.Float64s(values)
	sortComponents(components)
	return &ratings.Reference{Values: values, HigherIsBetter: true, Components: components}
}

// sortComponents sorts every per-component distribution; Reference
// promises pre-sorted slices and interpolation relies on it.
func sortComponents(components map[string][]float64) {
	for _, dist := range components {
		sort.Float64s(dist)
	}
}

// Summarize computes the distribution summary served by the API.
func Summarize(ref *ratings.Reference, role string, season int) ReferenceSummary {
	summary := ReferenceSummary{Role: role, Season: season, Count: len(ref.Values)}
	if len(ref.Values) == 0 {
		return summary
	}
	summary.Mean = stat.Mean(ref.Values, nil)
	summary.StdDev = stat.StdDev(ref.Values, nil)
	summary.P10 = stat.Quantile(0.10, stat.Empirical, ref.Values, nil)
	summary.P25 = stat.Quantile(0.25, stat.Empirical, ref.Values, nil)
	summary.P50 = stat.Quantile(0.50, stat.Empirical, ref.Values, nil)
	summary.P75 = stat.Quantile(0.75, stat.Empirical, ref.Values, nil)
	summary.P90 = stat.Quantile(0.90, stat.Empirical, ref.Values, nil)
	return summary
}

// GetReference returns the cached distribution for the role and season,
// building it from the database on a miss.
func (s *ReferenceService) GetReference(ctx context.Context, role ratings.Role, season int) (*ratings.Reference, error) {
	key := ReferenceKey{Role: string(role), Season: season, CalibrationVersion: s.cal.Version}

	var cached ratings.Reference
	if err := s.cache.Get(ctx, key.String(), &cached); err == nil {
		return &cached, nil
	} else if err != ErrCacheMiss {
		s.logger.WithError(err).Warn("Reference cache read failed, rebuilding from database")
	}

	ref, err := s.buildFromDB(ctx, role, season)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key.String(), ref, s.cacheTTL); err != nil {
		s.logger.WithError(err).Warn("Failed to cache reference distribution")
	}

	s.logger.WithFields(logrus.Fields{
		"role":   role,
		"season": season,
		"count":  len(ref.Values),
	}).Info("Built reference distribution")

	return ref, nil
}

// Invalidate drops the cached distributions for a season after an import.
func (s *ReferenceService) Invalidate(ctx context.Context, season int) error {
	keys := []string{
		ReferenceKey{Role: string(ratings.RolePitcher), Season: season, CalibrationVersion: s.cal.Version}.String(),
		ReferenceKey{Role: string(ratings.RoleBatter), Season: season, CalibrationVersion: s.cal.Version}.String(),
	}
	return s.cache.Delete(ctx, keys...)
}

func (s *ReferenceService) buildFromDB(ctx context.Context, role ratings.Role, season int) (*ratings.Reference, error) {
	rows, err := s.fetchRows(ctx, role, season)
	if err != nil {
		return nil, err
	}

	switch role {
	case ratings.RolePitcher:
		return BuildPitcherReference(rows, s.cal), nil
	case ratings.RoleBatter:
		return BuildBatterReference(rows, s.cal), nil
	}
	return nil, ErrUnknownRole
}

func (s *ReferenceService) fetchRows(ctx context.Context, role ratings.Role, season int) ([]ReferenceRow, error) {
	var rows []ReferenceRow
	err := s.db.WithContext(ctx).
		Table("performance_seasons").
		Select(`performance_seasons.player_id,
			? - players.birth_year AS age,
			SUM(performance_seasons.ip) AS ip,
			SUM(performance_seasons.pa) AS pa,
			SUM(performance_seasons.k) AS k,
			SUM(performance_seasons.bb) AS bb,
			SUM(performance_seasons.hr) AS hr,
			SUM(performance_seasons.h) AS h,
			SUM(performance_seasons.doubles) AS doubles,
			SUM(performance_seasons.triples) AS triples`, season).
		Joins("JOIN players ON players.id = performance_seasons.player_id").
		Where("players.role = ?", string(role)).
		Where("players.status = ?", string(ratings.StatusEstablished)).
		Where("performance_seasons.level = ?", string(ratings.LevelMLB)).
		Where("performance_seasons.year <= ?", season).
		Group("performance_seasons.player_id, players.birth_year").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reference pool: %w", err)
	}
	return rows, nil
}
