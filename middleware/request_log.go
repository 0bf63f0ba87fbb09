package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/sloka-backend/apperr"
	"github.com/vnkhanh/sloka-backend/logger"
	"github.com/vnkhanh/sloka-backend/metrics"
	"github.com/vnkhanh/sloka-backend/observability"
)

// RequestLogger logs one line per request and records request metrics
// under the matched route template.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)
		metrics.ObserveRequest(c.Request.Method, route, status, elapsed)

		kv := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", elapsed.Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("request", kv...)
		case status >= http.StatusBadRequest:
			log.Warn("request", kv...)
		default:
			log.Debug("request", kv...)
		}
	}
}

// Recovery turns a panic into a 500 carrying a correlation id.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		errorID := apperr.NewID("ERR")
		err, ok := recovered.(error)
		if !ok {
			err = apperr.New(apperr.Internal, "panic", nil)
		}
		log.Error("panic recovered", "error_id", errorID, "panic", recovered, "path", c.Request.URL.Path)
		observability.CaptureErr(err, errorID)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":    "An unexpected error occurred. Please try again later.",
			"error_id": errorID,
		})
	})
}
