package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"

	"github.com/hackgods/appointment-booking/internal/api"
	"github.com/hackgods/appointment-booking/internal/appointment"
	"github.com/hackgods/appointment-booking/internal/config"
	"github.com/hackgods/appointment-booking/internal/lock"
	"github.com/hackgods/appointment-booking/internal/logging"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load error: " + err.Error())
	}

	logger := logging.NewLogger(cfg.Env)
	defer func() { _ = logger.Sync() }()

	logger.Info("api-server starting up",
		zap.String("env", cfg.Env),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("version", version),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	faker := gofakeit.New(seed)

	now := time.Now()
	slots := appointment.GenerateTimeSlots(now, cfg.SlotDays, cfg.SlotAvailability, faker)
	repo := appointment.NewMemoryRepository(appointment.DefaultDoctors(), slots)

	if cfg.SeedSamples {
		seeded, err := appointment.SeedSampleAppointments(rootCtx, repo, faker, now)
		if err != nil {
			logger.Fatal("seed sample appointments", zap.Error(err))
		}
		logger.Info("sample appointments seeded", zap.Int("count", len(seeded)))
	}

	logger.Info("store ready",
		zap.Int("slots", len(slots)),
		zap.Duration("booking_delay", cfg.BookingDelay),
		zap.Duration("lock_wait", cfg.LockWait),
	)

	svc := appointment.NewService(repo, lock.NewSlotLocker(cfg.LockWait), cfg, logger.Named("appointment"))

	sessions, err := api.NewSessionRegistry(cfg.MaxSessions)
	if err != nil {
		logger.Fatal("session registry", zap.Error(err))
	}

	srv := &http.Server{
		Addr: ":" + cfg.HTTPPort,
		Handler: api.NewRouter(api.RouterConfig{
			Service:  svc,
			Sessions: sessions,
			Logger:   logger.Named("http"),
			Env:      cfg.Env,
			Version:  version,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-rootCtx.Done():
	case err := <-errCh:
		if err != nil {
			logger.Error("http server error", zap.Error(err))
		}
	}

	logger.Info("shutting down api-server", zap.Duration("timeout", cfg.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
