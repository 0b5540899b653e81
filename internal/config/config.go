package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/farmstand/backend/pkg/database"
	"github.com/farmstand/backend/pkg/logger"
)

// Config holds the full application configuration.
type Config struct {
	ServiceName   string
	Environment   string
	LogLevel      string
	Port          string
	Database      database.Config
	RedisAddr     string
	RedisPassword string
	KafkaEnabled  bool
	KafkaBrokers  []string
	JWTSecret     string
	JWTTTL        time.Duration
	TaxRate       float64
}

// Load reads the configuration from the environment. A .env file is
// loaded when present; real environment variables win over it.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		logger.Logger.Debug().Msg("Loaded .env file")
	}

	return &Config{
		ServiceName: getEnv("OTEL_SERVICE_NAME", "farmstand-backend"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Port:        getEnv("PORT", "8080"),
		Database: database.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "farmstand"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		KafkaEnabled:  getEnvBool("KAFKA_ENABLED", false),
		KafkaBrokers:  strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		JWTSecret:     getEnv("JWT_SECRET", "farmstand-dev-secret"),
		JWTTTL:        getEnvDuration("JWT_TTL", 12*time.Hour),
		TaxRate:       getEnvFloat("TAX_RATE", 0.0825),
	}
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
