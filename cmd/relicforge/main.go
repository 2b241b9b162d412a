package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/vbonduro/relicforge/internal/config"
	"github.com/vbonduro/relicforge/internal/db"
	"github.com/vbonduro/relicforge/internal/engine"
	"github.com/vbonduro/relicforge/internal/logging"
	"github.com/vbonduro/relicforge/internal/random"
	"github.com/vbonduro/relicforge/internal/web"
)

func main() {
	// A missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	rules := engine.Rules{
		BaseFee:    cfg.ExploreBaseFee,
		UpgradeFee: cfg.UpgradeFeePerItem,
		FeePercent: cfg.TradeFeePercent,
		Cooldown:   cfg.ExploreCooldown,
		MaxSupply:  cfg.MaxSupply,
	}
	eng := engine.New(database, random.SystemSource{}, rules, logger)

	server := web.NewServer(eng, cfg.AdminAccount, logger)
	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}
