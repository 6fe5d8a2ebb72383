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

	assert.Equal(t, 30*time.Second, cfg.OTP.ResendCooldown)
	assert.Equal(t, "123456", cfg.OTP.DemoCode)
	assert.Equal(t, "demo@clozet.com", cfg.OTP.DemoEmail)
	assert.Equal(t, PaymentModeDemo, cfg.Checkout.PaymentMode)
	assert.Equal(t, 1200*time.Millisecond, cfg.Checkout.DemoPaymentDelay)
	assert.Equal(t, 3*time.Second, cfg.Map.TrackingInterval)
	assert.InDelta(t, 12.9165, cfg.Map.CenterLat, 1e-9)
	assert.InDelta(t, 79.1325, cfg.Map.CenterLng, 1e-9)
	assert.Equal(t, "inr", cfg.Stripe.Currency)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OTP_RESEND_COOLDOWN", "45s")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://clozet.app, https://admin.clozet.app")
	t.Setenv("OTP_DEMO_EMAIL", "Demo@Clozet.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 45*time.Second, cfg.OTP.ResendCooldown)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, []string{"https://clozet.app", "https://admin.clozet.app"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "demo@clozet.com", cfg.OTP.DemoEmail)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("CHECKOUT_DRAFT_TTL", "soon")
	t.Setenv("MAP_CENTER_LAT", "north")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.Checkout.DraftTTL)
	assert.InDelta(t, 12.9165, cfg.Map.CenterLat, 1e-9)
}

func TestValidate(t *testing.T) {
	t.Run("stripe mode without key", func(t *testing.T) {
		t.Setenv("PAYMENT_MODE", "stripe")
		t.Setenv("STRIPE_SECRET_KEY", "")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("unknown payment mode", func(t *testing.T) {
		t.Setenv("PAYMENT_MODE", "cash")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("demo code length", func(t *testing.T) {
		t.Setenv("OTP_DEMO_CODE", "1234")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "clozet", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=clozet sslmode=disable", c.DSN())

	r := RedisConfig{Host: "cache", Port: "6380"}
	assert.Equal(t, "cache:6380", r.Addr())
}
