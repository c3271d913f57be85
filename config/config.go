package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisLockDB   int    `mapstructure:"REDIS_LOCK_DB"`
	RedisEventDB  int    `mapstructure:"REDIS_EVENT_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Rental rules.
	MaimaiMaxRentals   int            `mapstructure:"MAIMAI_MAX_RENTALS"`
	TwoPlayerSurcharge int64          `mapstructure:"TWO_PLAYER_SURCHARGE"`
	RentalCaps         map[string]int `mapstructure:"RENTAL_CAPS"`

	// Availability cache.
	AvailabilityCacheTTLSeconds int `mapstructure:"AVAILABILITY_CACHE_TTL_SECONDS"`
	AvailabilityCacheSize       int `mapstructure:"AVAILABILITY_CACHE_SIZE"`

	// Reservation lock.
	ReservationLockTTLSeconds int `mapstructure:"RESERVATION_LOCK_TTL_SECONDS"`

	// Schedule reconciliation.
	ReconcileCron string `mapstructure:"RECONCILE_CRON"`
	ReconcileDays int    `mapstructure:"RECONCILE_DAYS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_LOCK_DB", 0)
	viper.SetDefault("REDIS_EVENT_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "arcadehub")
	viper.SetDefault("MAIMAI_MAX_RENTALS", 3)
	viper.SetDefault("TWO_PLAYER_SURCHARGE", 10000)
	viper.SetDefault("AVAILABILITY_CACHE_TTL_SECONDS", 30)
	viper.SetDefault("AVAILABILITY_CACHE_SIZE", 1024)
	viper.SetDefault("RESERVATION_LOCK_TTL_SECONDS", 10)
	viper.SetDefault("RECONCILE_CRON", "0 5 * * *")
	viper.SetDefault("RECONCILE_DAYS", 7)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
