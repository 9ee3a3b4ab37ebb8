package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Refresher schedules the recurring season import. The current season is
// derived from the clock at each tick, so a scheduler started in one year
// keeps importing the right season across the rollover.
type Refresher struct {
	importer *ImportService
	cron     *cron.Cron
	schedule string
	logger   *logrus.Logger
}

func NewRefresher(importer *ImportService, schedule string, logger *logrus.Logger) *Refresher {
	return &Refresher{
		importer: importer,
		cron:     cron.New(),
		schedule: schedule,
		logger:   logger,
	}
}

// Start registers the import job and starts the scheduler.
func (r *Refresher) Start() error {
	_, err := r.cron.AddFunc(r.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		season := time.Now().UTC().Year()
		if err := r.importer.ImportSeason(ctx, season); err != nil {
			r.logger.WithError(err).WithField("season", season).Error("Scheduled import failed")
		}
	})
	if err != nil {
		return err
	}

	r.cron.Start()
	r.logger.WithField("schedule", r.schedule).Info("Import scheduler started")
	return nil
}

// Stop halts the scheduler, waiting for a running job to finish.
func (r *Refresher) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("Import scheduler stopped")
}

// RunOnce triggers an immediate import outside the schedule.
func (r *Refresher) RunOnce(ctx context.Context, season int) error {
	return r.importer.ImportSeason(ctx, season)
}
