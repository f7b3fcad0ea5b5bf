package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 800*time.Millisecond, cfg.BookingDelay)
	assert.Equal(t, 5*time.Second, cfg.LockWait)
	assert.InDelta(t, 0.7, cfg.SlotAvailability, 1e-9)
	assert.Equal(t, 7, cfg.SlotDays)
	assert.True(t, cfg.SeedSamples)
	assert.Equal(t, 1024, cfg.MaxSessions)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("BOOKING_DELAY", "0s")
	t.Setenv("SHUTDOWN_TIMEOUT", "3")
	t.Setenv("SLOT_AVAILABILITY", "1")
	t.Setenv("SEED_SAMPLES", "false")
	t.Setenv("RANDOM_SEED", "42")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, time.Duration(0), cfg.BookingDelay)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.InDelta(t, 1.0, cfg.SlotAvailability, 1e-9)
	assert.False(t, cfg.SeedSamples)
	assert.Equal(t, uint64(42), cfg.RandomSeed)
}

func TestLoadRejectsBadRatio(t *testing.T) {
	t.Setenv("SLOT_AVAILABILITY", "1.5")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsNonPositiveDays(t *testing.T) {
	t.Setenv("SLOT_DAYS", "0")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsBadSeed(t *testing.T) {
	for _, v := range []string{"-1", "abc"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("RANDOM_SEED", v)

			_, err := Load()
			require.ErrorContains(t, err, "RANDOM_SEED")
		})
	}
}

func TestLoadAcceptsLargeSeed(t *testing.T) {
	t.Setenv("RANDOM_SEED", "18446744073709551615")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, uint64(18446744073709551615), cfg.RandomSeed)
}
