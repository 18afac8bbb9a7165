package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Port              string
	JWTSecret         string
	AdminPasswordHash string
	Database          DatabaseConfig
	JTL               JTLConfig
}

// DatabaseConfig holds local database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// JTLConfig holds the connection settings for the external JTL ERP (MSSQL)
type JTLConfig struct {
	Host         string
	Port         int
	Database     string
	Username     string
	Password     string
	SyncInterval int // in minutes, 0 disables the background loop
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:              getEnv("PORT", "3001"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "simplecrm"),
		},
		JTL: JTLConfig{
			Host:         os.Getenv("JTL_HOST"),
			Port:         getEnvInt("JTL_PORT", 1433),
			Database:     getEnv("JTL_DATABASE", "eazybusiness"),
			Username:     getEnv("JTL_USERNAME", "sa"),
			Password:     os.Getenv("JTL_PASSWORD"),
			SyncInterval: getEnvInt("JTL_SYNC_INTERVAL", 0),
		},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
