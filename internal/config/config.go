package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings and the economy parameters, all sourced from
// the environment.
type Config struct {
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`
	DBPath     string `env:"DB_PATH" envDefault:"/data/relicforge.db"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile    string `env:"LOG_FILE"`

	ExploreBaseFee    int64         `env:"EXPLORE_BASE_FEE" envDefault:"10"`
	UpgradeFeePerItem int64         `env:"UPGRADE_FEE_PER_ITEM" envDefault:"25"`
	TradeFeePercent   int64         `env:"TRADE_FEE_PERCENT" envDefault:"5"`
	ExploreCooldown   time.Duration `env:"EXPLORE_COOLDOWN" envDefault:"1m"`
	MaxSupply         int64         `env:"MAX_SUPPLY" envDefault:"10000"`

	// AdminAccount receives platform fee withdrawals.
	AdminAccount string `env:"ADMIN_ACCOUNT" envDefault:"admin"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.TradeFeePercent < 0 || cfg.TradeFeePercent > 100 {
		return nil, fmt.Errorf("TRADE_FEE_PERCENT must be in [0,100], got %d", cfg.TradeFeePercent)
	}
	if cfg.MaxSupply <= 0 {
		return nil, fmt.Errorf("MAX_SUPPLY must be positive, got %d", cfg.MaxSupply)
	}
	if cfg.ExploreBaseFee < 0 || cfg.UpgradeFeePerItem < 0 {
		return nil, fmt.Errorf("fees must be non-negative")
	}

	return cfg, nil
}
