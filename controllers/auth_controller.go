package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/sloka-backend/models"
)

const sessionCookie = "session_id"

type credentialsInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/student/register
func (ctl *Controller) RegisterStudent(c *gin.Context) {
	var input credentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, "Email and password are required")
		return
	}

	student, err := ctl.Auth.RegisterStudent(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, student)
}

// POST /api/auth/student/login
func (ctl *Controller) StudentLogin(c *gin.Context) {
	ctl.login(c, models.KindStudent)
}

// POST /api/auth/admin/login
func (ctl *Controller) AdminLogin(c *gin.Context) {
	ctl.login(c, models.KindAdmin)
}

func (ctl *Controller) login(c *gin.Context, kind models.PrincipalKind) {
	var input credentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, "Email and password are required")
		return
	}

	res, err := ctl.Auth.Login(c.Request.Context(), kind, input.Email, input.Password)
	if err != nil {
		ctl.respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(sessionCookie, res.SessionID, int(res.ExpiresIn.Seconds()), "/", "", ctl.Cfg.IsProduction(), true)
	c.JSON(http.StatusOK, res)
}

// POST /api/auth/logout
func (ctl *Controller) Logout(c *gin.Context) {
	if sid, err := c.Cookie(sessionCookie); err == nil {
		if ctl.Auth.Logout(sid) {
			ctl.Log.Info("session closed", "session_id", sid)
		}
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", ctl.Cfg.IsProduction(), true)
	c.SetCookie("access_token", "", -1, "/", "", ctl.Cfg.IsProduction(), true)
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// GET /api/admin/sessions
func (ctl *Controller) SessionCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"active_sessions": ctl.Auth.Sessions().Size()})
}

// POST /api/admin/sessions/clear
func (ctl *Controller) ClearSessions(c *gin.Context) {
	n := ctl.Auth.Sessions().Clear()
	ctl.Log.Info("session registry cleared", "cleared", n)
	c.JSON(http.StatusOK, gin.H{"cleared": n})
}
