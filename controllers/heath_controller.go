package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/sloka-backend/config"
)

// GET /
func (ctl *Controller) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Sloka course platform API",
		"version": ctl.Cfg.Release,
	})
}

// GET /api/health
func (ctl *Controller) HealthCheck(c *gin.Context) {
	response := gin.H{
		"status":      "ok",
		"timestamp":   time.Now().Unix(),
		"environment": ctl.Cfg.Environment,
		"version":     ctl.Cfg.Release,
		"db":          "ok",
		"config": gin.H{
			"blob_provider":     ctl.Cfg.BlobProvider,
			"blob_configured":   ctl.Cfg.BlobToken != "" || ctl.Cfg.SupabaseKey != "",
			"sentry_configured": ctl.Cfg.SentryDSN != "",
		},
	}
	if ctl.WSStats != nil {
		course, global := ctl.WSStats()
		response["websocket"] = gin.H{"course_clients": course, "admin_clients": global}
	}

	if err := config.PingDB(c.Request.Context(), ctl.DB, 2*time.Second); err != nil {
		ctl.Log.Warn("health check database ping failed", "error", err)
		response["db"] = "error: cannot connect to DB"
		response["status"] = "degraded"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}
	c.JSON(http.StatusOK, response)
}
