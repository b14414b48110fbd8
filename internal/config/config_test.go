package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "APP_ENV", "SESSION_TTL", "SHOP_NAME", "METRICS_ENABLED", "RUN_MIGRATIONS", "LOW_STOCK_LIMIT"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "2M Market", cfg.ShopName)
	assert.False(t, cfg.MetricsEnabled)
	assert.True(t, cfg.RunMigrations)
	assert.Equal(t, 10, cfg.LowStockLimit)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("METRICS_ENABLED", "true")
	t.Setenv("LOW_STOCK_LIMIT", "25")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, 25, cfg.LowStockLimit)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")
	t.Setenv("METRICS_ENABLED", "maybe")
	t.Setenv("LOW_STOCK_LIMIT", "many")

	cfg := Load()

	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, 10, cfg.LowStockLimit)
}
