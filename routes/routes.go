package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/sloka-backend/config"
	"github.com/vnkhanh/sloka-backend/controllers"
	"github.com/vnkhanh/sloka-backend/logger"
	"github.com/vnkhanh/sloka-backend/metrics"
	"github.com/vnkhanh/sloka-backend/middleware"
	"github.com/vnkhanh/sloka-backend/models"
	"github.com/vnkhanh/sloka-backend/services"
	"github.com/vnkhanh/sloka-backend/ws"
	"gorm.io/gorm"
)

// App is the wired HTTP application plus the pieces main needs for
// startup and shutdown.
type App struct {
	Engine   *gin.Engine
	Auth     *services.AuthService
	Sessions *services.SessionRegistry
	Hub      *ws.Hub
}

func NewApp(cfg *config.Config, db *gorm.DB, log *logger.Logger, blobs services.BlobStore) *App {
	sessions := services.NewSessionRegistry()
	creds := services.NewCredentialStore(db, services.WithQueryTimeout(cfg.DBTimeout))
	courses := services.NewCourseStore(db, services.WithQueryTimeout(cfg.DBTimeout))
	auth := services.NewAuthService(
		creds,
		services.NewPasswordHasher(cfg.BcryptCost),
		services.NewTokenService(cfg.SecretKey, cfg.AccessTokenTTL),
		sessions,
		log.With("component", "auth"),
	)
	hub := ws.NewHub(log.With("component", "ws"))

	ctl := &controllers.Controller{
		Cfg:       cfg,
		DB:        db,
		Log:       log,
		Auth:      auth,
		Creds:     creds,
		Courses:   courses,
		Documents: services.NewDocumentService(courses, blobs, cfg.UpstreamTimeout, cfg.MaxUploadBytes, log.With("component", "documents")),
		PDFs:      services.NewPDFFetcher(cfg.UpstreamTimeout, log.With("component", "pdf_proxy")),
		Notify:    hub,
		WSStats:   hub.Counts,
	}

	r := gin.New()
	r.MaxMultipartMemory = 32 << 20
	r.Use(middleware.Recovery(log), middleware.RequestLogger(log))
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Auth-Token"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-PDF-Page-Count"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORSOrigins) == 0 {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	}
	r.Use(cors.New(corsCfg))

	SetupRouter(r, ctl, auth, ws.NewHandler(hub, auth, services.NewCourseAccess(courses, creds), cfg.CORSOrigins))
	return &App{Engine: r, Auth: auth, Sessions: sessions, Hub: hub}
}

func SetupRouter(r *gin.Engine, ctl *controllers.Controller, authn middleware.Authenticator, wsh *ws.Handler) *gin.Engine {
	r.GET("/", ctl.Root)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	api.GET("/health", ctl.HealthCheck)
	api.GET("/courses", ctl.ListCourses)
	api.GET("/courses/:id", ctl.GetCourse)
	api.GET("/pdf-proxy", ctl.PDFProxy)

	auth := api.Group("/auth")
	{
		auth.POST("/student/register", ctl.RegisterStudent)
		auth.POST("/student/login", ctl.StudentLogin)
		auth.POST("/admin/login", ctl.AdminLogin)
		auth.POST("/logout", ctl.Logout)
	}

	student := api.Group("/student")
	{
		student.Use(middleware.RequireKind(authn, models.KindStudent))
		student.GET("/courses", ctl.StudentCourses)
		student.GET("/profile", ctl.StudentProfile)
	}

	admin := api.Group("/admin")
	{
		admin.Use(middleware.RequireKind(authn, models.KindAdmin))

		admin.GET("/students", ctl.ListStudents)

		admin.GET("/courses", ctl.AdminListCourses)
		admin.POST("/courses", ctl.CreateCourse)
		admin.GET("/courses/:id", ctl.AdminGetCourse)
		admin.PUT("/courses/:id", ctl.UpdateCourse)
		admin.DELETE("/courses/:id", ctl.ArchiveCourse)

		admin.GET("/courses/:id/students", ctl.CourseStudents)
		admin.GET("/courses/:id/students/export", ctl.ExportRoster)
		admin.POST("/enroll", ctl.Enroll)
		admin.DELETE("/enroll", ctl.Unenroll)

		admin.POST("/courses/:id/sections", ctl.CreateSection)
		admin.GET("/courses/:id/sections", ctl.ListSections)
		admin.PUT("/sections/:id", ctl.UpdateSection)
		admin.DELETE("/sections/:id", ctl.PurgeSection)

		admin.POST("/sections/:id/documents", ctl.UploadDocument)
		admin.DELETE("/documents/:id", ctl.DeleteDocument)

		admin.GET("/sessions", ctl.SessionCount)
		admin.POST("/sessions/clear", ctl.ClearSessions)
	}

	r.GET("/ws/admin", wsh.HandleAdminWebSocket)
	r.GET("/ws/courses/:id", wsh.HandleCourseWebSocket)

	return r
}
