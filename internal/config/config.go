package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Analyzer AnalyzerConfig
	Session  SessionConfig
	SMTP     SMTPConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	StaticDir          string
	RedisURL           string
}

type AnalyzerConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

type SessionConfig struct {
	JWTSecret              string
	TTLMinutes             int
	NotificationTTLSeconds int
	NotificationsTopic     string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			StaticDir:          getEnv("STATIC_DIR", "./web"),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Analyzer: AnalyzerConfig{
			BaseURL:        getEnv("ANALYZER_BASE_URL", "http://localhost:8000"),
			TimeoutSeconds: getEnvAsInt("ANALYZER_TIMEOUT_SECONDS", 30),
		},
		Session: SessionConfig{
			JWTSecret:              getEnv("SESSION_JWT_SECRET", "dev-only-secret"),
			TTLMinutes:             getEnvAsInt("SESSION_TTL_MINUTES", 60),
			NotificationTTLSeconds: getEnvAsInt("NOTIFICATION_TTL_SECONDS", 5),
			NotificationsTopic:     getEnv("SESSION_NOTIFICATIONS_TOPIC", "SESSION_NOTIFICATIONS"),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Contract Review"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
