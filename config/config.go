package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server Settings
	AppPort     string
	HOST        string
	DatabaseURL string
	SQLitePath  string

	// JWT Settings
	JWTSecret     string
	JWTExpiration string

	// Content bot settings
	BotPort          string
	BotAdminPassword string
	BotDBPath        string
	GatewayURL       string
}

func LoadConfig() *Config {
	// .env is optional; real deployments inject environment variables directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		AppPort:     getEnv("PORT", "5000"),
		HOST:        getEnv("HOST", "0.0.0.0"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  getEnv("SQLITE_PATH", "boutique.db"),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTExpiration: getEnv("JWT_EXPIRES_IN", "72h"),

		BotPort:          getEnv("BOT_PORT", "5001"),
		BotAdminPassword: getEnv("BOT_ADMIN_PASSWORD", "1234"),
		BotDBPath:        getEnv("BOT_DB_PATH", "contentbot.db"),
		GatewayURL:       os.Getenv("GATEWAY_URL"),
	}

	return config
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
