package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewHealthHandler(nil, "2021.1")
	router := gin.New()
	router.GET("/health", handler.GetHealth)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "true-rating", body["service"])
	assert.Equal(t, "2021.1", body["calibration"])
}

func TestGetReady_NoFeedConfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewHealthHandler(nil, "2021.1")
	router := gin.New()
	router.GET("/ready", handler.GetReady)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ready", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
	assert.NotContains(t, body, "stats_feed_breaker")
}

func TestParseRole(t *testing.T) {
	_, err := parseRole("pitcher")
	assert.NoError(t, err)

	_, err = parseRole("batter")
	assert.NoError(t, err)

	_, err = parseRole("catcher")
	assert.Error(t, err)
}
