package api

import (
	"context"
	"net/http"
	"time"

	"github.com/hackgods/appointment-booking/internal/appointment"
)

type HealthHandler struct {
	svc      *appointment.Service
	sessions *SessionRegistry
	env      string
	version  string
}

func NewHealthHandler(svc *appointment.Service, sessions *SessionRegistry, env, version string) *HealthHandler {
	return &HealthHandler{
		svc:      svc,
		sessions: sessions,
		env:      env,
		version:  version,
	}
}

type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Env     string `json:"env,omitempty"`
}

type ReadinessResponse struct {
	Status         string            `json:"status"`
	Version        string            `json:"version,omitempty"`
	Env            string            `json:"env,omitempty"`
	Dependencies   map[string]string `json:"dependencies"`
	ActiveSessions int               `json:"active_sessions"`
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	resp := LivenessResponse{
		Status:  "ok",
		Version: h.version,
		Env:     h.env,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	deps := make(map[string]string)
	status := "ok"

	// The store is ready once its slot horizon has been generated
	slots, err := h.svc.TimeSlots(ctx)
	if err != nil || len(slots) == 0 {
		deps["store"] = "down"
		status = "error"
	} else {
		deps["store"] = "ok"
	}

	resp := ReadinessResponse{
		Status:         status,
		Version:        h.version,
		Env:            h.env,
		Dependencies:   deps,
		ActiveSessions: h.sessions.Len(),
	}

	httpStatus := http.StatusOK
	if status == "error" {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, resp)
}
