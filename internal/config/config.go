// Package config loads service configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every tunable of the service. Empty DatabaseURL, RedisAddr
// and ProductServiceURL select the in-memory fallbacks.
type Config struct {
	Port              string `envconfig:"PORT" default:"8081"`
	LogLevel          string `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL       string `envconfig:"DATABASE_URL" default:""`
	MigrationsDir     string `envconfig:"MIGRATIONS_DIR" default:"migrations"`
	RedisAddr         string `envconfig:"REDIS_ADDR" default:""`
	RedisPassword     string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB           int    `envconfig:"REDIS_DB" default:"0"`
	ProductServiceURL string `envconfig:"PRODUCT_SERVICE_URL" default:""`
}

// Load reads the optional .env file and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
