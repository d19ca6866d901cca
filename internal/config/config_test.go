package config_test

import (
	"testing"
	"time"

	"markpedia-os/internal/config"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_NAME", "markpedia")
		for _, key := range []string{"PORT", "LEAVE_CEO_THRESHOLD_DAYS", "LEAVE_DEFAULT_ANNUAL", "CORS_ALLOWED_ORIGINS", "HTTP_WRITE_TIMEOUT", "SMTP_HOST"} {
			t.Setenv(key, "")
		}

		cfg, err := config.Load()

		require.NoError(t, err)
		assert.Equal(t, "3000", cfg.Port)
		assert.Equal(t, 10, cfg.Leave.CEOThresholdDays)
		assert.True(t, decimal.NewFromInt(20).Equal(cfg.Leave.DefaultAllotment.Annual))
		assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
		assert.Equal(t, 10*time.Second, cfg.WriteTimeout)
		assert.False(t, cfg.SMTP.Enabled())
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("DB_HOST", "db")
		t.Setenv("DB_NAME", "markpedia")
		t.Setenv("PORT", "8080")
		t.Setenv("LEAVE_CEO_THRESHOLD_DAYS", "15")
		t.Setenv("LEAVE_DEFAULT_ANNUAL", "22.5")
		t.Setenv("NOTIFY_EMAIL_TO", "hr@example.com, ceo@example.com")
		t.Setenv("NOTIFY_EMAIL_FROM", "noreply@example.com")
		t.Setenv("SMTP_HOST", "smtp.example.com")

		cfg, err := config.Load()

		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, 15, cfg.Leave.CEOThresholdDays)
		assert.True(t, decimal.RequireFromString("22.5").Equal(cfg.Leave.DefaultAllotment.Annual))
		assert.Equal(t, []string{"hr@example.com", "ceo@example.com"}, cfg.SMTP.To)
		assert.True(t, cfg.SMTP.Enabled())
	})

	t.Run("missing database", func(t *testing.T) {
		t.Setenv("DB_HOST", "")
		t.Setenv("DB_NAME", "")

		_, err := config.Load()

		assert.Error(t, err)
	})

	t.Run("negative threshold", func(t *testing.T) {
		t.Setenv("DB_HOST", "db")
		t.Setenv("DB_NAME", "markpedia")
		t.Setenv("LEAVE_CEO_THRESHOLD_DAYS", "-1")

		_, err := config.Load()

		assert.Error(t, err)
	})
}
