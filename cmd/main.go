package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/sloka-backend/config"
	"github.com/vnkhanh/sloka-backend/logger"
	"github.com/vnkhanh/sloka-backend/metrics"
	"github.com/vnkhanh/sloka-backend/observability"
	"github.com/vnkhanh/sloka-backend/routes"
	"github.com/vnkhanh/sloka-backend/services"
	"github.com/vnkhanh/sloka-backend/utils"
)

func newBlobStore(cfg *config.Config) services.BlobStore {
	if cfg.BlobProvider == "supabase" {
		return utils.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket)
	}
	return utils.NewVercelBlobStore(cfg.BlobBaseURL, cfg.BlobToken, cfg.UpstreamTimeout)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	flushSentry, err := observability.InitSentry(cfg.SentryDSN, cfg.Environment, cfg.Release)
	if err != nil {
		log.Warn("sentry disabled", "error", err)
	}
	defer flushSentry()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg, log)
	if err != nil {
		log.Fatal("database init failed", "error", err)
	}

	app := routes.NewApp(cfg, db, log, newBlobStore(cfg))
	metrics.RegisterSessionGauge(app.Sessions.Size)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if created, err := app.Auth.EnsureBootstrapAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Error("bootstrap admin failed", "error", err)
	} else if created {
		log.Warn("bootstrap admin created from ADMIN_EMAIL, change its password", "email", cfg.AdminEmail)
	}

	cleanup, err := utils.StartCleanupJob(cfg.SessionPruneSpec, app.Sessions, cfg.AccessTokenTTL, log)
	if err != nil {
		log.Fatal("session cleanup job", "error", err, "spec", cfg.SessionPruneSpec)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("server running", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", "error", err)
	}
	<-cleanup.Stop().Done()

	log.Info("clearing active sessions", "count", app.Sessions.Size())
	app.Sessions.Clear()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("shutdown complete")
}
