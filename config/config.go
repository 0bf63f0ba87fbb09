package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string // development|production
	Port        string
	DatabaseURL string

	SecretKey        string
	AccessTokenTTL   time.Duration
	BcryptCost       int
	AdminEmail       string
	AdminPassword    string
	SessionPruneSpec string
	CORSOrigins      []string
	LogLevel         string
	SentryDSN        string
	Release          string
	UpstreamTimeout  time.Duration
	DBTimeout        time.Duration
	MaxUploadBytes   int64

	BlobProvider   string // vercel|supabase
	BlobToken      string
	BlobBaseURL    string
	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := strings.ToLower(getenv("ENVIRONMENT", "development"))

	cfg := &Config{
		Environment:      env,
		Port:             getenv("PORT", "8000"),
		DatabaseURL:      byEnvironment(env, "DATABASE_URL"),
		SecretKey:        os.Getenv("SECRET_KEY"),
		AdminEmail:       getenv("ADMIN_EMAIL", "admin@spiritual.com"),
		AdminPassword:    getenv("ADMIN_PASSWORD", "admin123"),
		SessionPruneSpec: getenv("SESSION_PRUNE_SPEC", "@every 10m"),
		CORSOrigins:      splitList(getenv("CORS_ORIGINS", "http://localhost:5173")),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		Release:          getenv("RELEASE", "1.0.0"),
		BlobProvider:     strings.ToLower(getenv("BLOB_PROVIDER", "vercel")),
		BlobToken:        byEnvironment(env, "BLOB_READ_WRITE_TOKEN"),
		BlobBaseURL:      getenv("BLOB_BASE_URL", "https://blob.vercel-storage.com"),
		SupabaseURL:      os.Getenv("SUPABASE_URL"),
		SupabaseKey:      os.Getenv("SUPABASE_KEY"),
		SupabaseBucket:   getenv("SUPABASE_BUCKET", "uploads"),
	}

	ttl, err := getInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)
	if err != nil {
		return nil, err
	}
	cfg.AccessTokenTTL = time.Duration(ttl) * time.Minute

	if cfg.BcryptCost, err = getInt("BCRYPT_COST", 10); err != nil {
		return nil, err
	}

	timeout, err := getInt("UPSTREAM_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	cfg.UpstreamTimeout = time.Duration(timeout) * time.Second

	dbTimeout, err := getInt("DB_TIMEOUT_SECONDS", 5)
	if err != nil {
		return nil, err
	}
	cfg.DBTimeout = time.Duration(dbTimeout) * time.Second

	maxMB, err := getInt("MAX_UPLOAD_MB", 50)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes = int64(maxMB) << 20

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY is not set")
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	switch c.BlobProvider {
	case "vercel", "supabase":
	default:
		return fmt.Errorf("BLOB_PROVIDER %q is not supported", c.BlobProvider)
	}
	return nil
}

// byEnvironment returns KEY, falling back to PROD_KEY or DEV_KEY.
func byEnvironment(env, key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if env == "production" || env == "prod" {
		return os.Getenv("PROD_" + key)
	}
	return os.Getenv("DEV_" + key)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func splitList(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
