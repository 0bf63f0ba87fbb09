// Command createadmin adds an admin account without going through the API.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/vnkhanh/sloka-backend/config"
	"github.com/vnkhanh/sloka-backend/logger"
	"github.com/vnkhanh/sloka-backend/services"
)

func main() {
	var (
		email       = pflag.String("email", "", "admin email (required)")
		password    = pflag.String("password", "", "admin password (required)")
		databaseURL = pflag.String("database-url", os.Getenv("DATABASE_URL"), "postgres DSN")
		bcryptCost  = pflag.Int("bcrypt-cost", 10, "bcrypt cost factor")
		migrate     = pflag.Bool("migrate", true, "apply pending migrations first")
	)
	pflag.Parse()

	if *email == "" || *password == "" || *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "usage: createadmin --email EMAIL --password PASSWORD [--database-url DSN]")
		pflag.PrintDefaults()
		os.Exit(2)
	}

	log, err := logger.New("development", "info")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := config.OpenDB(*databaseURL, true)
	if err != nil {
		log.Fatal("connect", "error", err)
	}
	if *migrate {
		if err := config.Migrate(db, log); err != nil {
			log.Fatal("migrate", "error", err)
		}
	}

	auth := services.NewAuthService(
		services.NewCredentialStore(db),
		services.NewPasswordHasher(*bcryptCost),
		// tokens are never issued here
		services.NewTokenService("unused", time.Minute),
		services.NewSessionRegistry(),
		log,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	admin, err := auth.CreateAdmin(ctx, *email, *password)
	if err != nil {
		log.Fatal("create admin", "error", err)
	}
	log.Info("admin created", "id", admin.ID, "email", admin.Email)
}
