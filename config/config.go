package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pinkpay/offramp-engine/store"
)

type Config struct {
	Port                string
	DatabaseURL         string
	JWTSecret           string
	RateRefreshInterval time.Duration
	SettlementDelay     time.Duration
	RateAPIURL          string
	RateAPIKey          string
	AllowedOrigins      []string
}

// LoadConfig reads the environment, with .env applied first when present.
func LoadConfig() (*Config, error) {
	godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("RATE_REFRESH_INTERVAL", "30s")
	viper.SetDefault("SETTLEMENT_DELAY", "2s")
	viper.SetDefault("JWT_SECRET", "dev-secret-change-me")
	viper.SetDefault("ALLOWED_ORIGINS", "*")

	return &Config{
		Port:                viper.GetString("PORT"),
		DatabaseURL:         viper.GetString("DATABASE_URL"),
		JWTSecret:           viper.GetString("JWT_SECRET"),
		RateRefreshInterval: viper.GetDuration("RATE_REFRESH_INTERVAL"),
		SettlementDelay:     viper.GetDuration("SETTLEMENT_DELAY"),
		RateAPIURL:          viper.GetString("RATE_API_URL"),
		RateAPIKey:          viper.GetString("RATE_API_KEY"),
		AllowedOrigins:      viper.GetStringSlice("ALLOWED_ORIGINS"),
	}, nil
}

// InitDB opens the postgres connection backing the persistence store and
// runs its migration.
func InitDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := store.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}
