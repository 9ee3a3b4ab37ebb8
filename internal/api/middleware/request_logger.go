package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wbltools/true-rating/pkg/logger"
)

// RequestLogger tags every request with an ID and logs its outcome.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		log := logger.WithRequestContext(requestID, c.Request.Method, c.Request.URL.Path).
			WithField("status", c.Writer.Status()).
			WithField("duration_ms", time.Since(start).Milliseconds())

		if len(c.Errors) > 0 {
			log.WithField("errors", c.Errors.String()).Error("Request failed")
		} else if c.Writer.Status() >= 500 {
			log.Error("Request failed")
		} else {
			log.Info("Request completed")
		}
	}
}

// CORS echoes the request origin when it is in the configured allow list.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
