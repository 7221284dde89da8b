// Package middleware holds the gin middleware chain: request logging,
// metrics and panic recovery.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/claimlens/claimlens/internal/infrastructure/monitoring/logging"
	"github.com/claimlens/claimlens/internal/infrastructure/monitoring/prometheus"
)

// RequestLogger emits one structured line per request and feeds the HTTP
// metrics.  metrics may be nil.
func RequestLogger(logger logging.Logger, metrics *prometheus.AppMetrics) gin.HandlerFunc {
	logger = logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		if metrics != nil {
			metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(elapsed.Seconds())
		}

		fields := []logging.Field{
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.Int("status", status),
			logging.Duration("elapsed", elapsed),
			logging.String("client_ip", c.ClientIP()),
		}
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request failed", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("request rejected", fields...)
		default:
			logger.Info("request served", fields...)
		}
	}
}

// Recovery converts panics into 500 responses instead of dropped
// connections.
func Recovery(logger logging.Logger) gin.HandlerFunc {
	logger = logger.Named("http")
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("handler panic",
					logging.String("path", c.Request.URL.Path),
					logging.Any("panic", r))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    "COMMON_001",
					"message": "internal server error",
				})
			}
		}()
		c.Next()
	}
}
