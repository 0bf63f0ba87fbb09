package config

import (
	"testing"
	"time"
)

func TestLoadDefaultsAndEnvironmentFallback(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PROD_DATABASE_URL", "postgres://prod/db")
	t.Setenv("DEV_DATABASE_URL", "postgres://dev/db")
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("BLOB_READ_WRITE_TOKEN", "")
	t.Setenv("PROD_BLOB_READ_WRITE_TOKEN", "prod-token")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "")
	t.Setenv("BLOB_PROVIDER", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DatabaseURL != "postgres://prod/db" {
		t.Fatalf("expected prod database url, got %q", cfg.DatabaseURL)
	}
	if cfg.BlobToken != "prod-token" {
		t.Fatalf("expected prod blob token, got %q", cfg.BlobToken)
	}
	if cfg.AccessTokenTTL != 30*time.Minute {
		t.Fatalf("expected 30m default ttl, got %v", cfg.AccessTokenTTL)
	}
	if !cfg.IsProduction() {
		t.Fatalf("expected production")
	}
}

func TestLoadRequiresSecretKey(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://x/db")
	t.Setenv("SECRET_KEY", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without SECRET_KEY")
	}
}

func TestLoadRejectsBadTTL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://x/db")
	t.Setenv("SECRET_KEY", "k")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "soon")
	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}
