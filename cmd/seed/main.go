package main

import (
	"context"
	"flag"

	"auralink/config"
	"auralink/internal/database"
	"auralink/internal/repository"
	"auralink/internal/seed"
	"auralink/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	descriptions := flag.Bool("descriptions", false, "rewrite every event description from title keywords")
	skipSeed := flag.Bool("skip-seed", false, "do not create the organizer, categories and events")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.L.Fatal("Failed to load config", zap.Error(err))
	}
	logger.SetLevel(cfg.LogLevel)
	log := logger.WithComponent("seed")

	ctx := context.Background()
	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	seeder := seed.New(
		repository.NewUserRepository(pool),
		repository.NewCategoryRepository(pool),
		repository.NewEventRepository(pool),
	)

	if !*skipSeed {
		if _, err := seeder.Run(ctx); err != nil {
			log.Fatal("Seeding failed", zap.Error(err))
		}
	}
	if *descriptions {
		if _, err := seeder.RewriteDescriptions(ctx); err != nil {
			log.Fatal("Rewriting descriptions failed", zap.Error(err))
		}
	}
}
