package api

import (
	"github.com/gin-gonic/gin"

	"github.com/wbltools/true-rating/internal/api/handlers"
	"github.com/wbltools/true-rating/internal/api/middleware"
	"github.com/wbltools/true-rating/internal/providers"
	"github.com/wbltools/true-rating/internal/services"
	"github.com/wbltools/true-rating/internal/websocket"
	"github.com/wbltools/true-rating/pkg/config"
)

// SetupRouter wires the HTTP surface: health probes, the rating API, and
// the run-progress WebSocket endpoint.
func SetupRouter(cfg *config.Config, ratingService *services.RatingService, feed *providers.StatsFeedProvider, hub *websocket.Hub) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.CorsOrigins))

	healthHandler := handlers.NewHealthHandler(feed, cfg.CalibrationVersion)
	ratingHandler := handlers.NewRatingHandler(ratingService)

	router.GET("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/players/:id/rating", ratingHandler.GetPlayerRating)
		v1.POST("/ratings/batch", ratingHandler.StartBatchRun)
		v1.GET("/ratings/runs/:id", ratingHandler.GetRun)
		v1.GET("/reference/:role/summary", ratingHandler.GetReferenceSummary)
	}

	// WebSocket at root level, not under /api/v1
	router.GET("/ws/runs/:run_id", hub.HandleWebSocket)

	return router
}
