package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Mongo  MongoConfig
	Server ServerConfig
	Auth   AuthConfig
	Search SearchConfig
}

// MongoConfig holds document store connection settings.
type MongoConfig struct {
	URI      string
	Database string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string
}

// AuthConfig holds settings for validating tokens issued by the external
// auth service.
type AuthConfig struct {
	JWTSecret string
}

// SearchConfig holds tunable search defaults.
type SearchConfig struct {
	DefaultRadiusKm float64
	DefaultLimit    int
}

// Load loads configuration from environment variables, reading a .env
// file first if one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "petmarketplace"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "default-secret-key-change-in-production"),
		},
		Search: SearchConfig{
			DefaultRadiusKm: getEnvAsFloat("SEARCH_DEFAULT_RADIUS_KM", 10),
			DefaultLimit:    getEnvAsInt("SEARCH_DEFAULT_LIMIT", 12),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
