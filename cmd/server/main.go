package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/wbltools/true-rating/internal/api"
	"github.com/wbltools/true-rating/internal/providers"
	"github.com/wbltools/true-rating/internal/ratings"
	"github.com/wbltools/true-rating/internal/services"
	"github.com/wbltools/true-rating/internal/websocket"
	"github.com/wbltools/true-rating/pkg/config"
	"github.com/wbltools/true-rating/pkg/database"
	"github.com/wbltools/true-rating/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.InitLogger("", cfg.IsDevelopment())

	// Calibration is a versioned snapshot; the engine refuses malformed
	// tables at startup rather than producing corrupt ratings later.
	cal := ratings.DefaultCalibration()
	if cfg.CalibrationVersion != "" && cfg.CalibrationVersion != cal.Version {
		log.Fatalf("Calibration version %s requested but only %s is available", cfg.CalibrationVersion, cal.Version)
	}
	engine, err := ratings.NewEngine(cal)
	if err != nil {
		log.Fatalf("Failed to build rating engine: %v", err)
	}
	cfg.CalibrationVersion = cal.Version

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize services
	cacheService := services.NewCacheService(redisClient)
	hub := websocket.NewHub(log)
	go hub.Run()

	referenceService := services.NewReferenceService(
		db.DB, cacheService, cal,
		time.Duration(cfg.ReferenceCacheTTL)*time.Second, log,
	)
	ratingService := services.NewRatingService(
		db.DB, cacheService, referenceService, engine, hub,
		cfg.RatingWorkers, time.Duration(cfg.RunResultCacheTTL)*time.Second, log,
	)

	feed := providers.NewStatsFeedProvider(
		cfg.StatsFeedURL, cfg.StatsFeedAPIKey,
		cfg.StatsFeedTimeout, cfg.CircuitBreakerThreshold, log,
	)
	importService := services.NewImportService(db.DB, feed, referenceService, engine, log)

	var refresher *services.Refresher
	if cfg.EnableBackgroundJobs {
		refresher = services.NewRefresher(importService, cfg.ImportSchedule, log)
		if err := refresher.Start(); err != nil {
			log.Fatalf("Failed to start import scheduler: %v", err)
		}
		defer refresher.Stop()

		if !cfg.SkipInitialImport {
			go func() {
				importCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
				defer cancel()
				if err := refresher.RunOnce(importCtx, time.Now().UTC().Year()); err != nil {
					log.WithError(err).Error("Initial import failed")
				}
			}()
		}
	}

	router := api.SetupRouter(cfg, ratingService, feed, hub)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"port":        cfg.Port,
			"env":         cfg.Env,
			"calibration": cal.Version,
			"workers":     cfg.RatingWorkers,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
