package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wbltools/true-rating/internal/ratings"
	"github.com/wbltools/true-rating/internal/services"
)

type RatingHandler struct {
	ratingService *services.RatingService
}

func NewRatingHandler(ratingService *services.RatingService) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
	}
}

func currentSeason(c *gin.Context) (int, bool) {
	seasonStr := c.Query("season")
	if seasonStr == "" {
		return time.Now().UTC().Year(), true
	}
	season, err := strconv.Atoi(seasonStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid season"})
		return 0, false
	}
	return season, true
}

// GetPlayerRating returns one player's rating against the established
// MLB baseline.
func (h *RatingHandler) GetPlayerRating(c *gin.Context) {
	playerID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid player ID"})
		return
	}

	season, ok := currentSeason(c)
	if !ok {
		return
	}

	result, err := h.ratingService.RatePlayer(c.Request.Context(), uint(playerID), season)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPlayerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
		case errors.Is(err, ratings.ErrInsufficientData):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Player has no scouting or performance data"})
		case errors.Is(err, ratings.ErrEmptyReference):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Reference distribution is empty"})
		default:
			c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rate player"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

type batchRequest struct {
	PlayerIDs []uint `json:"player_ids" binding:"required,min=1"`
	Season    int    `json:"season"`
}

// StartBatchRun kicks off an asynchronous batch rating run.
func (h *RatingHandler) StartBatchRun(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Season == 0 {
		req.Season = time.Now().UTC().Year()
	}

	runID := h.ratingService.StartBatchRun(req.PlayerIDs, req.Season)
	c.JSON(http.StatusAccepted, gin.H{
		"run_id": runID,
		"status": string(services.RunRunning),
		"total":  len(req.PlayerIDs),
	})
}

// GetRun returns the state of a batch rating run.
func (h *RatingHandler) GetRun(c *gin.Context) {
	run, err := h.ratingService.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
			return
		}
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load run"})
		return
	}
	c.JSON(http.StatusOK, run)
}

// GetReferenceSummary returns distribution statistics for a role's
// established MLB baseline.
func (h *RatingHandler) GetReferenceSummary(c *gin.Context) {
	role, err := parseRole(c.Param("role"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	season, ok := currentSeason(c)
	if !ok {
		return
	}

	summary, err := h.ratingService.ReferenceSummary(c.Request.Context(), role, season)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build reference summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func parseRole(s string) (ratings.Role, error) {
	switch ratings.Role(s) {
	case ratings.RolePitcher, ratings.RoleBatter:
		return ratings.Role(s), nil
	}
	return "", services.ErrUnknownRole
}
