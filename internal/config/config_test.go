package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "sushi")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "sushiwave")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_PORT", "")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "")

	cfg := LoadConfig()

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "4000", cfg.AppPort, "should fall back to default port")
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
}

func TestDurationEnv(t *testing.T) {
	t.Run("Unset", func(t *testing.T) {
		t.Setenv("TTL_TEST", "")
		assert.Equal(t, time.Duration(15), durationEnv("TTL_TEST", 15))
	})

	t.Run("Valid", func(t *testing.T) {
		t.Setenv("TTL_TEST", "30")
		assert.Equal(t, time.Duration(30), durationEnv("TTL_TEST", 15))
	})

	t.Run("Garbage", func(t *testing.T) {
		t.Setenv("TTL_TEST", "not-a-number")
		assert.Equal(t, time.Duration(15), durationEnv("TTL_TEST", 15))
	})
}
