package config

import (
	"context"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/vnkhanh/sloka-backend/logger"
	"github.com/vnkhanh/sloka-backend/metrics"
	"github.com/vnkhanh/sloka-backend/migrations"
)

// InitDB connects to Postgres, configures the pool and applies migrations.
func InitDB(cfg *Config, log *logger.Logger) (*gorm.DB, error) {
	db, err := OpenDB(cfg.DatabaseURL, cfg.IsProduction())
	if err != nil {
		return nil, err
	}
	if err := Migrate(db, log); err != nil {
		return nil, err
	}
	log.Info("postgreSQL connected & migrated successfully")
	return db, nil
}

func OpenDB(dsn string, production bool) (*gorm.DB, error) {
	level := gormLogger.Info
	if production {
		level = gormLogger.Warn
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB from gorm: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	return db, nil
}

func Migrate(db *gorm.DB, log *logger.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{log: log.With("component", "goose")})
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.Up(sqlDB, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// PingDB reports database reachability within timeout and records the latency.
func PingDB(ctx context.Context, db *gorm.DB, timeout time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	t0 := time.Now()
	if err := sqlDB.PingContext(ctx); err != nil {
		return err
	}
	metrics.ObserveDBPing(time.Since(t0))
	return nil
}

type gooseLogger struct {
	log *logger.Logger
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.log.Info(fmt.Sprintf(format, v...))
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.log.Fatal(fmt.Sprintf(format, v...))
}
