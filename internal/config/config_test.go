package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/api", cfg.App.APIPrefix)
	assert.Equal(t, 18.0, cfg.Pricing.DefaultGSTPercent)
	assert.Equal(t, 25.0, cfg.Pricing.DefaultPlatformFeePercent)
	assert.Equal(t, 88.0, cfg.Pricing.DefaultTravelCharge)
	assert.Equal(t, 7, cfg.Moderation.DefaultBanDays)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("PRICING_DEFAULT_GST_PERCENT", "12")
	t.Setenv("MODERATION_SWEEP_INTERVAL", "2m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://admin.mecfinder.in, https://ops.mecfinder.in")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, 12.0, cfg.Pricing.Defaults().GSTPercent)
	assert.Equal(t, 2*time.Minute, cfg.Moderation.SweepInterval)
	assert.Equal(t, []string{"https://admin.mecfinder.in", "https://ops.mecfinder.in"}, cfg.Security.CORSAllowedOrigins)
}

func TestLoad_RejectsInvalidPricingDefaults(t *testing.T) {
	t.Setenv("PRICING_DEFAULT_PLATFORM_FEE_PERCENT", "140")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsShortSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "short")

	_, err := Load()
	assert.Error(t, err)
}
