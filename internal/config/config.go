// Package config assembles runtime configuration from environment variables.
// A .env file is honored via godotenv autoload in the entrypoints.
package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	// Addr is the listen address of the HTTP server, e.g. ":8080".
	Addr string

	// DatabaseURL is the postgres connection string. When empty it is
	// assembled from the POSTGRES_USER/POSTGRES_PASSWORD/PG_HOST/PG_PORT/
	// PG_DATABASE variables.
	DatabaseURL string

	// UploadsDir is the local directory post images are written to.
	UploadsDir string

	RedisAddr     string
	RedisDB       int
	ActivityQueue string
}

// Load reads the configuration from the environment, applying defaults for
// anything unset.
func Load() *Config {
	return &Config{
		Addr:          ":" + GetEnv("PORT", "8080"),
		DatabaseURL:   databaseURL(),
		UploadsDir:    GetEnv("UPLOADS_DIR", "uploads"),
		RedisAddr:     GetEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:       GetEnvInt("REDIS_DB", 0),
		ActivityQueue: GetEnv("ACTIVITY_QUEUE_NAME", "social_activity"),
	}
}

func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		GetEnv("POSTGRES_USER", "postgres"),
		GetEnv("POSTGRES_PASSWORD", ""),
		GetEnv("PG_HOST", "localhost"),
		GetEnv("PG_PORT", "5432"),
		GetEnv("PG_DATABASE", "social"),
	)
}

// GetEnv reads an environment variable or returns a default value.
func GetEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// GetEnvInt parses an environment variable as integer, else a default value.
func GetEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
