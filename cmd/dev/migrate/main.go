package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"eventpro/pkg/config"
	"eventpro/pkg/db"
)

func main() {
	cfg := config.Load()

	source := pflag.StringP("source", "s", cfg.MigrationsPath, "migration source URL (defaults to MIGRATIONS_PATH, then file://migrations)")
	skipPing := pflag.Bool("skip-ping", false, "do not open the runtime pool after migrating")
	pflag.Parse()

	if *source == "" {
		*source = "file://migrations"
	}

	// DIRECT_URL wins over DATABASE_URL here so migrations bypass a pooler.
	version, err := db.MigrateConfig(*source, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "migrate failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("bookings schema at version %d\n", version)

	if *skipPing {
		return
	}
	pool, err := db.Open(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "runtime db open failed: %v\n", err)
		os.Exit(1)
	}
	pool.Close()
}
