package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/sloka-backend/apperr"
	"github.com/vnkhanh/sloka-backend/config"
	"github.com/vnkhanh/sloka-backend/logger"
	"github.com/vnkhanh/sloka-backend/observability"
	"github.com/vnkhanh/sloka-backend/services"
	"gorm.io/gorm"
)

// Notifier is told about every write to a course tree.
type Notifier interface {
	PublishCourseChanged(courseID uint, action string)
}

type Controller struct {
	Cfg       *config.Config
	DB        *gorm.DB
	Log       *logger.Logger
	Auth      *services.AuthService
	Creds     *services.CredentialStore
	Courses   *services.CourseStore
	Documents *services.DocumentService
	PDFs      *services.PDFFetcher
	Notify    Notifier
	// WSStats reports connected websocket clients for the health check.
	WSStats func() (course, global int)
}

func (ctl *Controller) respondError(c *gin.Context, err error) {
	ae := apperr.As(err)
	body := gin.H{"error": ae.Message}
	if ae.ID != "" {
		body["error_id"] = ae.ID
		ctl.Log.Error("request failed",
			"error_id", ae.ID,
			"kind", string(ae.Kind),
			"route", c.FullPath(),
			"error", err,
		)
		observability.CaptureErr(err, ae.ID)
	}
	c.AbortWithStatusJSON(apperr.Status(ae.Kind), body)
}

func (ctl *Controller) notify(courseID uint, action string) {
	if ctl.Notify != nil && courseID != 0 {
		ctl.Notify.PublishCourseChanged(courseID, action)
	}
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// pagination reads skip/limit query params, defaulting limit to 100.
func pagination(c *gin.Context) (skip, limit int, ok bool) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "skip must be a non-negative integer"})
		return 0, 0, false
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultPageLimit)))
	if err != nil || limit < 1 || limit > 1000 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 1000"})
		return 0, 0, false
	}
	return skip, limit, true
}

func bindError(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}
