package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	appcatalog "github.com/mamo-store/backend/internal/application/catalog"
	"github.com/mamo-store/backend/internal/infrastructure/config"
	"github.com/mamo-store/backend/internal/infrastructure/logger"
	"github.com/mamo-store/backend/internal/infrastructure/persistence"
)

func main() {
	seed := flag.Bool("seed", true, "seed the starter catalog after migrating")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize logger:", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	log.Info("Running migrations", zap.String("driver", cfg.Database.Driver))
	if err := db.Migrate(); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}
	log.Info("Migrations applied")

	if *seed {
		svc := appcatalog.NewProductService(persistence.NewGormProductRepository(db.DB), log)
		if err := svc.EnsureSeeded(context.Background()); err != nil {
			log.Fatal("Seeding failed", zap.Error(err))
		}
		log.Info("Catalog seeded")
	}
}
