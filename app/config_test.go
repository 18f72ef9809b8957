package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{
		"APP_ENV", "PORT", "LOAN_PERIOD_DAYS", "FINE_PER_DAY",
		"TOKEN_TTL_HOURS", "OTP_TTL_MINUTES", "MIDTRANS_ENV",
	} {
		t.Setenv(k, "")
	}

	cfg := loadConfig()
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.LoanPeriod)
	assert.Equal(t, int64(5000), cfg.FinePerDay)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 5*time.Minute, cfg.OTPTTL)
	assert.True(t, cfg.SnapSandbox)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("LOAN_PERIOD_DAYS", "14")
	t.Setenv("FINE_PER_DAY", "2500")
	t.Setenv("MIDTRANS_ENV", "production")
	t.Setenv("PORT", "8080")

	cfg := loadConfig()
	assert.Equal(t, 14*24*time.Hour, cfg.LoanPeriod)
	assert.Equal(t, int64(2500), cfg.FinePerDay)
	assert.False(t, cfg.SnapSandbox)
	assert.Equal(t, "8080", cfg.Port)
}
