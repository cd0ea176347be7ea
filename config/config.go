package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL            string
	JWTSecret              string
	JWTExpiration          time.Duration
	ServerPort             string
	BootstrapAdminEmail    string
	BootstrapAdminPassword string
}

func Load() *Config {
	// Optional .env for local development; env vars win.
	_ = godotenv.Load()

	return &Config{
		DatabaseURL:            getEnv("DATABASE_URL", "postgresql://postgres@localhost:5432/timetracker"),
		JWTSecret:              getEnv("JWT_SECRET", "change-me-in-production"),
		JWTExpiration:          24 * time.Hour,
		ServerPort:             getEnv("SERVER_PORT", "8080"),
		BootstrapAdminEmail:    getEnv("BOOTSTRAP_ADMIN_EMAIL", "admin@change.me"),
		BootstrapAdminPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", "ChangeMeNow!123"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
