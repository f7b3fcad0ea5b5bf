package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hackgods/appointment-booking/internal/appointment"
)

type RouterConfig struct {
	Service  *appointment.Service
	Sessions *SessionRegistry
	Logger   *zap.Logger
	Env      string
	Version  string
}

func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))
	r.Use(middleware.Recoverer)

	// Health endpoints
	health := NewHealthHandler(cfg.Service, cfg.Sessions, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Catalogue
	r.Get("/doctors", listDoctorsHandler(cfg.Service))
	r.Get("/doctors/{id}", getDoctorHandler(cfg.Service))
	r.Get("/doctors/{id}/appointments", doctorAppointmentsHandler(cfg.Service))
	r.Get("/slots", listSlotsHandler(cfg.Service))

	// Appointment endpoints
	r.Post("/appointments", createAppointmentHandler(cfg.Service))
	r.Get("/appointments", listAppointmentsHandler(cfg.Service))
	r.Get("/appointments/stats", appointmentStatsHandler(cfg.Service))
	r.Get("/appointments/{id}", getAppointmentHandler(cfg.Service))
	r.Post("/appointments/{id}/cancel", cancelAppointmentHandler(cfg.Service))

	// Selection sessions
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", createSessionHandler(cfg.Sessions))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", getSessionHandler(cfg.Sessions))
			r.Put("/doctor", setSessionDoctorHandler(cfg.Service, cfg.Sessions))
			r.Put("/date", setSessionDateHandler(cfg.Sessions))
			r.Put("/slot", setSessionSlotHandler(cfg.Service, cfg.Sessions))
			r.Put("/modal", setSessionModalHandler(cfg.Sessions))
			r.Post("/book", bookSessionHandler(cfg.Service, cfg.Sessions))
		})
	})

	r.Get("/events", listEventsHandler(cfg.Service))

	return r
}
