package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port          string
	DataDir       string
	UploadDir     string
	SessionSecret string
	Env           string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		Port:          os.Getenv("PORT"),
		DataDir:       os.Getenv("DATA_DIR"),
		UploadDir:     os.Getenv("UPLOAD_DIR"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		Env:           os.Getenv("APP_ENV"),
	}

	if config.Port == "" {
		config.Port = "5000"
	}
	if config.DataDir == "" {
		config.DataDir = "data"
	}
	if config.UploadDir == "" {
		config.UploadDir = "uploads"
	}
	if config.SessionSecret == "" {
		config.SessionSecret = "study-sphere-secret-key"
	}
	if config.Env == "" {
		config.Env = "development"
	}

	return config, nil
}

// IsProduction reports whether the app runs with production settings
// (secure session cookies, gin release mode).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
