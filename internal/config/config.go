package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env              string        // dev, production
	HTTPPort         string        // default 8080
	ShutdownTimeout  time.Duration // graceful shutdown timeout
	BookingDelay     time.Duration // artificial latency before a booking completes
	LockWait         time.Duration // how long to wait for a busy slot lock
	SlotAvailability float64       // probability a generated slot starts available
	SlotDays         int           // number of calendar days to generate slots for
	SeedSamples      bool          // seed the sample appointments at startup
	RandomSeed       uint64        // 0 means seed from the clock
	MaxSessions      int           // selection sessions kept in memory
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		ShutdownTimeout:  getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		BookingDelay:     getDuration("BOOKING_DELAY", 800*time.Millisecond),
		LockWait:         getDuration("LOCK_WAIT", 5*time.Second),
		SlotAvailability: getFloat("SLOT_AVAILABILITY", 0.7),
		SlotDays:         getInt("SLOT_DAYS", 7),
		SeedSamples:      getBool("SEED_SAMPLES", true),
		MaxSessions:      getInt("MAX_SESSIONS", 1024),
	}

	seed, err := getSeed("RANDOM_SEED")
	if err != nil {
		return Config{}, err
	}
	cfg.RandomSeed = seed

	if cfg.SlotAvailability < 0 || cfg.SlotAvailability > 1 {
		return Config{}, fmt.Errorf("SLOT_AVAILABILITY must be within [0, 1], got %v", cfg.SlotAvailability)
	}
	if cfg.SlotDays <= 0 {
		return Config{}, fmt.Errorf("SLOT_DAYS must be > 0, got %d", cfg.SlotDays)
	}
	if cfg.MaxSessions <= 0 {
		return Config{}, fmt.Errorf("MAX_SESSIONS must be > 0, got %d", cfg.MaxSessions)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		fmt.Fprintf(os.Stderr, "invalid duration for %s=%q, using default %s\n", key, v, def)
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		fmt.Fprintf(os.Stderr, "invalid integer for %s=%q, using default %d\n", key, v, def)
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		fmt.Fprintf(os.Stderr, "invalid float for %s=%q, using default %v\n", key, v, def)
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		fmt.Fprintf(os.Stderr, "invalid bool for %s=%q, using default %t\n", key, v, def)
	}
	return def
}

// getSeed rejects values that are not unsigned integers rather than
// wrapping negatives into huge seeds.
func getSeed(key string) (uint64, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, v)
	}
	return n, nil
}
