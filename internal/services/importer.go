package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wbltools/true-rating/internal/models"
	"github.com/wbltools/true-rating/internal/providers"
	"github.com/wbltools/true-rating/internal/ratings"
)

// ImportService pulls rosters, season stats and scouting reports from the
// stats feed into storage, reclassifies player status from accumulated MLB
// experience, and drops the stale reference distributions.
type ImportService struct {
	db     *gorm.DB
	feed   *providers.StatsFeedProvider
	refs   *ReferenceService
	engine *ratings.Engine
	logger *logrus.Logger
}

func NewImportService(db *gorm.DB, feed *providers.StatsFeedProvider, refs *ReferenceService, engine *ratings.Engine, logger *logrus.Logger) *ImportService {
	return &ImportService{
		db:     db,
		feed:   feed,
		refs:   refs,
		engine: engine,
		logger: logger,
	}
}

// ImportSeason runs a full import for one season year.
func (s *ImportService) ImportSeason(ctx context.Context, year int) error {
	start := time.Now()

	if err := s.importPlayers(ctx); err != nil {
		return err
	}
	if err := s.importSeasons(ctx, year); err != nil {
		return err
	}
	if err := s.importScouting(ctx, year); err != nil {
		return err
	}
	if err := s.reclassifyStatus(ctx); err != nil {
		return err
	}

	if err := s.refs.Invalidate(ctx, year); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate reference cache after import")
	}

	s.logger.WithFields(logrus.Fields{
		"season":   year,
		"duration": time.Since(start).String(),
	}).Info("Season import finished")

	return nil
}

func (s *ImportService) importPlayers(ctx context.Context) error {
	feedPlayers, err := s.feed.GetPlayers(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch players: %w", err)
	}

	for _, fp := range feedPlayers {
		if fp.Role != string(ratings.RolePitcher) && fp.Role != string(ratings.RoleBatter) {
			s.logger.WithFields(logrus.Fields{
				"external_id": fp.ExternalID,
				"role":        fp.Role,
			}).Warn("Skipping player with unrecognized role")
			continue
		}
		player := models.Player{
			ExternalID: fp.ExternalID,
			Name:       fp.Name,
			Role:       fp.Role,
			BirthYear:  fp.BirthYear,
			Status:     string(ratings.StatusProspect),
		}
		err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "role", "birth_year", "updated_at"}),
		}).Create(&player).Error
		if err != nil {
			return fmt.Errorf("failed to upsert player %s: %w", fp.ExternalID, err)
		}
	}

	s.logger.WithField("players", len(feedPlayers)).Info("Imported players")
	return nil
}

func (s *ImportService) importSeasons(ctx context.Context, year int) error {
	feedSeasons, err := s.feed.GetSeasons(ctx, year)
	if err != nil {
		return fmt.Errorf("failed to fetch seasons: %w", err)
	}

	byExternalID, err := s.playerIDIndex(ctx)
	if err != nil {
		return err
	}

	imported := 0
	for _, fs := range feedSeasons {
		playerID, ok := byExternalID[fs.PlayerExternalID]
		if !ok {
			s.logger.WithField("external_id", fs.PlayerExternalID).Warn("Season references unknown player, skipping")
			continue
		}
		if _, err := ratings.ParseLevel(fs.Level); err != nil {
			s.logger.WithFields(logrus.Fields{
				"external_id": fs.PlayerExternalID,
				"level":       fs.Level,
			}).Warn("Season has unrecognized level, skipping")
			continue
		}

		season := models.PerformanceSeason{
			PlayerID: playerID,
			Year:     fs.Year,
			Level:    fs.Level,
			IP:       fs.IP,
			PA:       fs.PA,
			K:        fs.K,
			BB:       fs.BB,
			HR:       fs.HR,
			H:        fs.H,
			Doubles:  fs.Doubles,
			Triples:  fs.Triples,
		}
		err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "player_id"}, {Name: "year"}, {Name: "level"}},
			DoUpdates: clause.AssignmentColumns([]string{"ip", "pa", "k", "bb", "hr", "h", "doubles", "triples", "updated_at"}),
		}).Create(&season).Error
		if err != nil {
			return fmt.Errorf("failed to upsert season for %s: %w", fs.PlayerExternalID, err)
		}
		imported++
	}

	s.logger.WithFields(logrus.Fields{
		"season":   year,
		"imported": imported,
	}).Info("Imported performance seasons")
	return nil
}

func (s *ImportService) importScouting(ctx context.Context, year int) error {
	reports, err := s.feed.GetScoutingReports(ctx, year)
	if err != nil {
		return fmt.Errorf("failed to fetch scouting reports: %w", err)
	}

	byExternalID, err := s.playerIDIndex(ctx)
	if err != nil {
		return err
	}

	imported := 0
	for _, fr := range reports {
		playerID, ok := byExternalID[fr.PlayerExternalID]
		if !ok {
			s.logger.WithField("external_id", fr.PlayerExternalID).Warn("Scouting report references unknown player, skipping")
			continue
		}

		record := models.ScoutingRecord{
			PlayerID:       playerID,
			CapturedAt:     fr.CapturedAt,
			Source:         fr.Source,
			Age:            fr.Age,
			Stuff:          fr.Stuff,
			Control:        fr.Control,
			HRAvoid:        fr.HRAvoid,
			Power:          fr.Power,
			Eye:            fr.Eye,
			AvoidK:         fr.AvoidK,
			Contact:        fr.Contact,
			Gap:            fr.Gap,
			Speed:          fr.Speed,
			CurrentStars:   fr.CurrentStars,
			PotentialStars: fr.PotentialStars,
		}
		// Reports are immutable once captured: conflicts on the same
		// capture date are re-deliveries, not updates.
		err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "player_id"}, {Name: "captured_at"}},
			DoNothing: true,
		}).Create(&record).Error
		if err != nil {
			return fmt.Errorf("failed to insert scouting report for %s: %w", fr.PlayerExternalID, err)
		}
		imported++
	}

	s.logger.WithFields(logrus.Fields{
		"season":   year,
		"imported": imported,
	}).Info("Imported scouting reports")
	return nil
}

// reclassifyStatus promotes players to established once their career MLB
// experience crosses the threshold. Status never demotes.
func (s *ImportService) reclassifyStatus(ctx context.Context) error {
	var players []models.Player
	if err := s.db.WithContext(ctx).
		Where("status = ?", string(ratings.StatusProspect)).
		Find(&players).Error; err != nil {
		return fmt.Errorf("failed to load prospects: %w", err)
	}

	promoted := 0
	for _, player := range players {
		var rows []models.PerformanceSeason
		if err := s.db.WithContext(ctx).
			Where("player_id = ? AND level = ?", player.ID, string(ratings.LevelMLB)).
			Find(&rows).Error; err != nil {
			return fmt.Errorf("failed to load MLB seasons for player %d: %w", player.ID, err)
		}
		if len(rows) == 0 {
			continue
		}

		seasons := make([]ratings.SeasonLine, 0, len(rows))
		for _, row := range rows {
			line, err := row.ToSeasonLine()
			if err != nil {
				return err
			}
			seasons = append(seasons, line)
		}

		var status ratings.PlayerStatus
		switch ratings.Role(player.Role) {
		case ratings.RolePitcher:
			status = s.engine.PitcherStatus(seasons)
		case ratings.RoleBatter:
			status = s.engine.BatterStatus(seasons)
		default:
			continue
		}

		if status == ratings.StatusEstablished {
			if err := s.db.WithContext(ctx).Model(&models.Player{}).
				Where("id = ?", player.ID).
				Update("status", string(status)).Error; err != nil {
				return fmt.Errorf("failed to promote player %d: %w", player.ID, err)
			}
			promoted++
		}
	}

	if promoted > 0 {
		s.logger.WithField("promoted", promoted).Info("Promoted players to established")
	}
	return nil
}

func (s *ImportService) playerIDIndex(ctx context.Context) (map[string]uint, error) {
	var players []models.Player
	if err := s.db.WithContext(ctx).Select("id", "external_id").Find(&players).Error; err != nil {
		return nil, fmt.Errorf("failed to index players: %w", err)
	}
	index := make(map[string]uint, len(players))
	for _, p := range players {
		index[p.ExternalID] = p.ID
	}
	return index, nil
}
