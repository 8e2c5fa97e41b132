package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("FRONTEND_URL", "https://pizza.test/")
	t.Setenv("CURRENCY", "EUR")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://pizza.test", cfg.FrontendURL)
	assert.Equal(t, "eur", cfg.Currency)
	assert.Equal(t, 15, cfg.MaxLineQuantity)
	assert.Equal(t, 2, cfg.ReportHour)
	assert.Equal(t, "Europe/Madrid", cfg.Location().String())
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{JWTSecret: "s", DBHost: "localhost", MaxLineQuantity: 15, ReportHour: 2, BusinessTimezone: "Europe/Madrid"}
	}
	require.NoError(t, base().Validate())

	badQty := base()
	badQty.MaxLineQuantity = 0
	assert.Error(t, badQty.Validate())

	badHour := base()
	badHour.ReportHour = 24
	assert.Error(t, badHour.Validate())

	badZone := base()
	badZone.BusinessTimezone = "Mars/Olympus"
	assert.Error(t, badZone.Validate())
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "pizzeria", DBPort: "5432", DBSSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=pizzeria port=5432 sslmode=disable", cfg.DSN())

	cfg.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", cfg.DSN())
}

func TestPaymentsEnabled(t *testing.T) {
	assert.False(t, (&Config{StripeSecretKey: "sk"}).PaymentsEnabled())
	assert.True(t, (&Config{StripeSecretKey: "sk", StripeWebhookSecret: "whsec"}).PaymentsEnabled())
}
