package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"eventpro/internal/account"
	"eventpro/internal/booking"
	"eventpro/internal/demo"
	"eventpro/pkg/config"
	"eventpro/pkg/db"
	"eventpro/pkg/logging"
)

func main() {
	var (
		file       = pflag.StringP("file", "f", "", "YAML fixtures file (defaults to the built-in demo bookings)")
		skipAdmin  = pflag.Bool("skip-admin", false, "do not create the ADMIN_EMAIL account")
		migrations = pflag.String("migrations", "", "apply migrations from this source first (e.g. file://migrations)")
	)
	pflag.Parse()

	cfg := config.Load()
	log := logging.New(os.Stderr, cfg.AppEnv, cfg.LogLevel)
	ctx := context.Background()

	fixtures, err := loadFixtures(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fixtures: %v\n", err)
		os.Exit(1)
	}

	if *migrations != "" {
		if _, err := db.MigrateConfig(*migrations, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "migrate failed: %v\n", err)
			os.Exit(1)
		}
	}

	pool, err := db.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "db open failed: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if !*skipAdmin {
		accounts := account.NewService(account.NewPostgresRepository(pool), cfg.Admin.BcryptCost, log)
		if _, err := accounts.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			fmt.Fprintf(os.Stderr, "seed admin failed: %v\n", err)
			os.Exit(1)
		}
	}

	n, err := demo.Apply(ctx, booking.NewPostgresStore(pool), fixtures, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed failed after %d bookings: %v\n", n, err)
		os.Exit(1)
	}
	fmt.Printf("seeded %d bookings\n", n)
}

func loadFixtures(path string) (demo.Fixtures, error) {
	if path == "" {
		return demo.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return demo.Fixtures{}, err
	}
	defer f.Close()
	return demo.Load(f)
}
