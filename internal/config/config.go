package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries the environment-driven settings shared across the
// service: collaborator base URLs, the per-call request timeout and
// infrastructure endpoints. Defaults match the platform's local
// docker-compose layout.
type Config struct {
	Port                   string
	DriverServiceURL       string
	NotificationServiceURL string
	PaymentServiceURL      string
	RequestTimeout         time.Duration
	RedisURL               string
}

func Load() Config {
	return Config{
		Port:                   getEnv("PORT", "8080"),
		DriverServiceURL:       getEnv("DRIVER_SERVICE_URL", "http://localhost:8000"),
		NotificationServiceURL: getEnv("NOTIFICATION_SERVICE_URL", "http://localhost:8002"),
		PaymentServiceURL:      getEnv("PAYMENT_SERVICE_URL", "http://localhost:8003"),
		RequestTimeout:         time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 5)) * time.Second,
		RedisURL:               os.Getenv("REDIS_URL"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
