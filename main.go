package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"lg/weight-tracker-api/internal/config"
	"lg/weight-tracker-api/internal/exercise"
	"lg/weight-tracker-api/internal/realtime"
	"lg/weight-tracker-api/internal/service"
	"lg/weight-tracker-api/internal/store"
)

func main() {
	log.SetPrefix("lg/weight-tracker-api: ")
	log.SetFlags(log.LstdFlags)

	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET must be set")
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := store.Open(ctx, cfg.DBDriver, cfg.DBURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to open %s store: %v\n", cfg.DBDriver, err)
		os.Exit(1)
	}
	defer db.Close()
	fmt.Printf("%s store ready!\n", cfg.DBDriver)

	tracker := service.New(db,
		service.WithMETs(exercise.DefaultTable.With(cfg.METs)),
		service.WithGlobalItems(cfg.AllowGlobalItems),
	)

	if cfg.SeedCSV != "" {
		if err := seedCatalog(ctx, tracker, cfg.SeedCSV); err != nil {
			fmt.Fprintf(os.Stderr, "Error seeding food catalog: %v\n", err)
			os.Exit(1)
		}
	}

	h := newHandler(tracker, realtime.NewHub(), cfg.JWTSecret, cfg.TokenTTL, cfg.AllowedOrigins)

	router := gin.Default()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid trusted proxies: %v\n", err)
		os.Exit(1)
	}
	h.registerRoutes(router)

	log.Printf("listening on %s", cfg.Addr)
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}

// seedCatalog fills an empty catalog from the CSV at path.
func seedCatalog(ctx context.Context, tracker *service.Tracker, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = tracker.SeedCatalog(ctx, f)
	return err
}
