//go:build integration

package testutil

import (
	"context"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vnkhanh/sloka-backend/config"
	"github.com/vnkhanh/sloka-backend/logger"
	"gorm.io/gorm"
)

// NewPostgresDB starts a throwaway postgres container and applies the goose
// migrations to it. The container is terminated when t finishes.
func NewPostgresDB(t testing.TB) *gorm.DB {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, err := postgres.RunContainer(ctx,
		tc.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("sloka"),
		postgres.WithUsername("sloka"),
		postgres.WithPassword("sloka"),
		tc.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(time.Minute)),
	)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = pg.Terminate(ctx)
	})

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres dsn: %v", err)
	}
	db, err := config.OpenDB(dsn, true)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if err := config.Migrate(db, logger.Nop()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
