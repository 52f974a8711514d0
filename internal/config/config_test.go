package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DRIVER_SERVICE_URL", "NOTIFICATION_SERVICE_URL", "PAYMENT_SERVICE_URL", "REQUEST_TIMEOUT_SECONDS", "REDIS_URL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:8000", cfg.DriverServiceURL)
	assert.Equal(t, "http://localhost:8002", cfg.NotificationServiceURL)
	assert.Equal(t, "http://localhost:8003", cfg.PaymentServiceURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DRIVER_SERVICE_URL", "http://drivers:9000")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "2")

	cfg := Load()
	assert.Equal(t, "http://drivers:9000", cfg.DriverServiceURL)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
}

func TestLoadBadTimeoutFallsBack(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "zero")

	cfg := Load()
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
}
