package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/wbltools/true-rating/internal/models"
	"github.com/wbltools/true-rating/internal/ratings"
	"github.com/wbltools/true-rating/internal/websocket"
	"github.com/wbltools/true-rating/pkg/logger"
)

// RunStatus tracks a batch rating run through its lifecycle.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
)

// RatingRun is the cached record of one batch rating run.
type RatingRun struct {
	ID          string                  `json:"id"`
	Status      RunStatus               `json:"status"`
	Season      int                     `json:"season"`
	Total       int                     `json:"total"`
	Completed   int                     `json:"completed"`
	Failed      int                     `json:"failed"`
	StartedAt   time.Time               `json:"started_at"`
	FinishedAt  *time.Time              `json:"finished_at,omitempty"`
	Results     []*ratings.RatingResult `json:"results"`
	FailureByID map[uint]string         `json:"failure_by_id,omitempty"`

	// PoolPercentileByID ranks the run's players against each other, per
	// role, on top of the baseline percentile each result already carries.
	PoolPercentileByID map[uint]float64 `json:"pool_percentile_by_id,omitempty"`
}

// RunProgress is the message broadcast to run subscribers after each player.
type RunProgress struct {
	RunID     string `json:"run_id"`
	Type      string `json:"type"`
	PlayerID  uint   `json:"player_id,omitempty"`
	Completed int    `json:"completed"`
	Failed    int    `json:"failed"`
	Total     int    `json:"total"`
}

// RatingService orchestrates the rating pipeline over stored players: it
// loads inputs, fetches the reference baseline, runs the engine, and
// caches results.
type RatingService struct {
	db      *gorm.DB
	cache   *CacheService
	refs    *ReferenceService
	engine  *ratings.Engine
	hub     *websocket.Hub
	workers int
	runTTL  time.Duration
	logger  *logrus.Logger
}

func NewRatingService(db *gorm.DB, cache *CacheService, refs *ReferenceService, engine *ratings.Engine, hub *websocket.Hub, workers int, runTTL time.Duration, log *logrus.Logger) *RatingService {
	if workers < 1 {
		workers = 1
	}
	return &RatingService{
		db:      db,
		cache:   cache,
		refs:    refs,
		engine:  engine,
		hub:     hub,
		workers: workers,
		runTTL:  runTTL,
		logger:  log,
	}
}

// playerInputs is everything loaded from storage for one player.
type playerInputs struct {
	player   models.Player
	scouting *ratings.ScoutingReport
	seasons  []ratings.SeasonLine
}

func (s *RatingService) loadPlayer(ctx context.Context, playerID uint) (*playerInputs, error) {
	var player models.Player
	if err := s.db.WithContext(ctx).First(&player, playerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to load player: %w", err)
	}

	// Latest scouting record wins; older captures stay for history.
	var record models.ScoutingRecord
	var scouting *ratings.ScoutingReport
	err := s.db.WithContext(ctx).
		Where("player_id = ?", playerID).
		Order("captured_at DESC").
		First(&record).Error
	if err == nil {
		scouting = record.ToReport()
	} else if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to load scouting record: %w", err)
	}

	var rows []models.PerformanceSeason
	if err := s.db.WithContext(ctx).
		Where("player_id = ?", playerID).
		Order("year ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load performance seasons: %w", err)
	}

	seasons := make([]ratings.SeasonLine, 0, len(rows))
	for _, row := range rows {
		line, err := row.ToSeasonLine()
		if err != nil {
			return nil, fmt.Errorf("player %d season %d: %w", playerID, row.Year, err)
		}
		seasons = append(seasons, line)
	}

	return &playerInputs{player: player, scouting: scouting, seasons: seasons}, nil
}

func (s *RatingService) rate(ctx context.Context, in *playerInputs, season int) (*ratings.RatingResult, error) {
	role := ratings.Role(in.player.Role)
	ref, err := s.refs.GetReference(ctx, role, season)
	if err != nil {
		return nil, err
	}

	age := in.player.AgeIn(season)
	switch role {
	case ratings.RolePitcher:
		return s.engine.RatePitcher(ratings.PitcherInput{
			PlayerID:    in.player.ID,
			Age:         age,
			Scouting:    in.scouting,
			Seasons:     in.seasons,
			CurrentYear: season,
		}, ref)
	case ratings.RoleBatter:
		return s.engine.RateBatter(ratings.BatterInput{
			PlayerID:    in.player.ID,
			Age:         age,
			Scouting:    in.scouting,
			Seasons:     in.seasons,
			CurrentYear: season,
		}, ref)
	}
	return nil, ErrUnknownRole
}

// RatePlayer computes one player's current rating against the established
// MLB baseline for the season.
func (s *RatingService) RatePlayer(ctx context.Context, playerID uint, season int) (*ratings.RatingResult, error) {
	key := PlayerRatingCacheKey(playerID, season, s.engine.Calibration().Version)

	var cached ratings.RatingResult
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	in, err := s.loadPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	result, err := s.rate(ctx, in, season)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, result, s.runTTL); err != nil {
		s.logger.WithError(err).Warn("Failed to cache player rating")
	}

	logger.WithPlayerContext(playerID, in.player.Role).WithFields(logrus.Fields{
		"rating":     result.Rating,
		"percentile": result.Percentile,
		"confidence": result.Confidence,
	}).Info("Rated player")

	return result, nil
}

// StartBatchRun rates a set of players concurrently and returns the run ID
// immediately. Progress is broadcast to run subscribers; the finished run
// is cached for polling.
func (s *RatingService) StartBatchRun(playerIDs []uint, season int) string {
	runID := uuid.New().String()
	run := &RatingRun{
		ID:        runID,
		Status:    RunRunning,
		Season:    season,
		Total:     len(playerIDs),
		StartedAt: time.Now().UTC(),
	}

	// Detached from the request context: the run outlives the HTTP call.
	ctx := context.Background()
	if err := s.cache.Set(ctx, RunCacheKey(runID), run, s.runTTL); err != nil {
		s.logger.WithError(err).Warn("Failed to cache initial run state")
	}

	go s.executeRun(ctx, run, playerIDs)
	return runID
}

func (s *RatingService) executeRun(ctx context.Context, run *RatingRun, playerIDs []uint) {
	log := logger.WithRunContext(run.ID, run.Season)
	log.WithFields(logrus.Fields{
		"players": len(playerIDs),
		"workers": s.workers,
	}).Info("Starting batch rating run")

	type outcome struct {
		playerID uint
		result   *ratings.RatingResult
		err      error
	}

	jobs := make(chan uint)
	outcomes := make(chan outcome)

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for playerID := range jobs {
				in, err := s.loadPlayer(ctx, playerID)
				if err != nil {
					outcomes <- outcome{playerID: playerID, err: err}
					continue
				}
				result, err := s.rate(ctx, in, run.Season)
				outcomes <- outcome{playerID: playerID, result: result, err: err}
			}
		}()
	}

	go func() {
		for _, id := range playerIDs {
			jobs <- id
		}
		close(jobs)
		wg.Wait()
		close(outcomes)
	}()

	run.Results = make([]*ratings.RatingResult, 0, len(playerIDs))
	run.FailureByID = make(map[uint]string)

	for out := range outcomes {
		if out.err != nil {
			run.Failed++
			run.FailureByID[out.playerID] = out.err.Error()
			log.WithField("player_id", out.playerID).WithError(out.err).Warn("Player rating failed")
		} else {
			run.Completed++
			run.Results = append(run.Results, out.result)
		}

		s.hub.BroadcastToRun(run.ID, RunProgress{
			RunID:     run.ID,
			Type:      "progress",
			PlayerID:  out.playerID,
			Completed: run.Completed,
			Failed:    run.Failed,
			Total:     run.Total,
		})
	}

	run.PoolPercentileByID = poolRank(run.Results)

	now := time.Now().UTC()
	run.Status = RunCompleted
	run.FinishedAt = &now

	if err := s.cache.SetWithRetry(ctx, RunCacheKey(run.ID), run, s.runTTL, 3); err != nil {
		log.WithError(err).Error("Failed to cache finished run")
	}

	s.hub.BroadcastToRun(run.ID, RunProgress{
		RunID:     run.ID,
		Type:      "completed",
		Completed: run.Completed,
		Failed:    run.Failed,
		Total:     run.Total,
	})

	log.WithFields(logrus.Fields{
		"completed": run.Completed,
		"failed":    run.Failed,
		"duration":  time.Since(run.StartedAt).String(),
	}).Info("Batch rating run finished")
}

// poolRank runs one shared rank pass per role over the run's regressed
// composites, so the run reports how its players stack up against each
// other as well as against the established baseline.
func poolRank(results []*ratings.RatingResult) map[uint]float64 {
	byRole := map[ratings.Role][]*ratings.RatingResult{}
	for _, r := range results {
		byRole[r.Role] = append(byRole[r.Role], r)
	}

	percentiles := make(map[uint]float64, len(results))
	for role, members := range byRole {
		values := make([]float64, len(members))
		for i, r := range members {
			values[i] = r.RankedComposite
		}
		ranked := ratings.RankPool(values, role == ratings.RoleBatter)
		for i, r := range members {
			percentiles[r.PlayerID] = ranked[i]
		}
	}
	return percentiles
}

// GetRun returns the cached state of a batch run.
func (s *RatingService) GetRun(ctx context.Context, runID string) (*RatingRun, error) {
	var run RatingRun
	if err := s.cache.Get(ctx, RunCacheKey(runID), &run); err != nil {
		if err == ErrCacheMiss {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	return &run, nil
}

// ReferenceSummary builds the distribution summary for the API.
func (s *RatingService) ReferenceSummary(ctx context.Context, role ratings.Role, season int) (*ReferenceSummary, error) {
	ref, err := s.refs.GetReference(ctx, role, season)
	if err != nil {
		return nil, err
	}
	summary := Summarize(ref, string(role), season)
	return &summary, nil
}
