package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wbltools/true-rating/internal/providers"
)

type HealthHandler struct {
	feed    *providers.StatsFeedProvider
	version string
}

func NewHealthHandler(feed *providers.StatsFeedProvider, calibrationVersion string) *HealthHandler {
	return &HealthHandler{
		feed:    feed,
		version: calibrationVersion,
	}
}

// GetHealth returns basic health status - always returns 200 if server is running
func (h *HealthHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"service":     "true-rating",
		"calibration": h.version,
	})
}

// GetReady reports readiness including the upstream feed breaker state.
func (h *HealthHandler) GetReady(c *gin.Context) {
	resp := gin.H{
		"status":      "ready",
		"calibration": h.version,
	}
	if h.feed != nil {
		resp["stats_feed_breaker"] = h.feed.State().String()
	}
	c.JSON(http.StatusOK, resp)
}
