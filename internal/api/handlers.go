package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hackgods/appointment-booking/internal/appointment"
)

func listDoctorsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors, err := svc.Doctors(r.Context())
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, doctors)
	}
}

func getDoctorHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctor, err := svc.Doctor(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, doctor)
	}
}

func doctorAppointmentsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctor, err := svc.Doctor(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err)
			return
		}

		appts, err := svc.DoctorAppointments(r.Context(), doctor.ID)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, nonNil(appts))
	}
}

func listSlotsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var (
			slots []appointment.TimeSlot
			err   error
		)
		if raw := q.Get("date"); raw != "" {
			date, perr := parseDate(raw)
			if perr != nil {
				writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
				return
			}
			slots, err = svc.TimeSlotsForDate(r.Context(), date)
		} else {
			slots, err = svc.TimeSlots(r.Context())
		}
		if err != nil {
			handleServiceError(w, err)
			return
		}

		if raw := q.Get("available"); raw != "" {
			want, perr := strconv.ParseBool(raw)
			if perr != nil {
				writeError(w, http.StatusBadRequest, "invalid_available", "available must be a boolean")
				return
			}
			filtered := slots[:0:0]
			for _, s := range slots {
				if s.IsAvailable == want {
					filtered = append(filtered, s)
				}
			}
			slots = filtered
		}

		writeJSON(w, http.StatusOK, nonNil(slots))
	}
}

func createAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateAppointmentRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		appt, err := svc.BookAppointment(r.Context(), appointment.BookingRequest{
			DoctorID: req.DoctorID,
			SlotID:   req.SlotID,
			PatientDetails: appointment.PatientDetails{
				Name:  req.PatientName,
				Email: req.PatientEmail,
				Notes: req.Notes,
			},
		})
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, appt)
	}
}

func listAppointmentsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := parseFilter(w, r)
		if !ok {
			return
		}

		appts, err := svc.ListAppointments(r.Context(), f)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, nonNil(appts))
	}
}

func appointmentStatsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := parseFilter(w, r)
		if !ok {
			return
		}

		stats, err := svc.Stats(r.Context(), f)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func getAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appt, err := svc.Appointment(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, appt)
	}
}

func cancelAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appt, err := svc.CancelAppointment(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, appt)
	}
}

func listEventsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := svc.Events(r.Context())
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, nonNil(events))
	}
}

func createSessionHandler(sessions *SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, sess := sessions.Create()
		writeJSON(w, http.StatusCreated, SessionResponse{ID: id, Selection: sess.Snapshot()})
	}
}

func getSessionHandler(sessions *SessionRegistry) http.HandlerFunc {
	return withSession(sessions, func(w http.ResponseWriter, r *http.Request, id string, sess *appointment.Session) {
		writeJSON(w, http.StatusOK, SessionResponse{ID: id, Selection: sess.Snapshot()})
	})
}

func setSessionDoctorHandler(svc *appointment.Service, sessions *SessionRegistry) http.HandlerFunc {
	return withSession(sessions, func(w http.ResponseWriter, r *http.Request, id string, sess *appointment.Session) {
		var req SetDoctorRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		var doctor *appointment.Doctor
		if req.DoctorID != nil {
			d, err := svc.Doctor(r.Context(), *req.DoctorID)
			if err != nil {
				handleServiceError(w, err)
				return
			}
			doctor = d
		}

		sess.SetDoctor(doctor)
		writeJSON(w, http.StatusOK, SessionResponse{ID: id, Selection: sess.Snapshot()})
	})
}

func setSessionDateHandler(sessions *SessionRegistry) http.HandlerFunc {
	return withSession(sessions, func(w http.ResponseWriter, r *http.Request, id string, sess *appointment.Session) {
		var req SetDateRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		var date time.Time
		if req.Date != nil {
			d, err := parseDate(*req.Date)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
				return
			}
			date = d
		}

		sess.SetDate(date)
		writeJSON(w, http.StatusOK, SessionResponse{ID: id, Selection: sess.Snapshot()})
	})
}

func setSessionSlotHandler(svc *appointment.Service, sessions *SessionRegistry) http.HandlerFunc {
	return withSession(sessions, func(w http.ResponseWriter, r *http.Request, id string, sess *appointment.Session) {
		var req SetSlotRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		var slot *appointment.TimeSlot
		if req.SlotID != nil {
			s, err := svc.TimeSlot(r.Context(), *req.SlotID)
			if err != nil {
				handleServiceError(w, err)
				return
			}
			slot = s
		}

		sess.SetTimeSlot(slot)
		writeJSON(w, http.StatusOK, SessionResponse{ID: id, Selection: sess.Snapshot()})
	})
}

func setSessionModalHandler(sessions *SessionRegistry) http.HandlerFunc {
	return withSession(sessions, func(w http.ResponseWriter, r *http.Request, id string, sess *appointment.Session) {
		var req SetModalRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		sess.SetBookingModalOpen(req.Open)
		writeJSON(w, http.StatusOK, SessionResponse{ID: id, Selection: sess.Snapshot()})
	})
}

func bookSessionHandler(svc *appointment.Service, sessions *SessionRegistry) http.HandlerFunc {
	return withSession(sessions, func(w http.ResponseWriter, r *http.Request, id string, sess *appointment.Session) {
		var req BookSessionRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		appt, err := svc.BookSelected(r.Context(), sess, appointment.PatientDetails{
			Name:  req.PatientName,
			Email: req.PatientEmail,
			Notes: req.Notes,
		})
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, BookingResponse{
			Appointment: appt,
			Session:     SessionResponse{ID: id, Selection: sess.Snapshot()},
		})
	})
}

type sessionHandlerFunc func(w http.ResponseWriter, r *http.Request, id string, sess *appointment.Session)

func withSession(sessions *SessionRegistry, next sessionHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		sess, ok := sessions.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "session_not_found", "session "+id+" does not exist or has expired")
			return
		}
		next(w, r, id, sess)
	}
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appointment.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, appointment.ErrSlotNotFound):
		writeError(w, http.StatusNotFound, "slot_not_found", err.Error())
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, appointment.ErrNoDoctorSelected):
		writeError(w, http.StatusBadRequest, "no_doctor_selected", err.Error())
	case errors.Is(err, appointment.ErrNoSlotSelected):
		writeError(w, http.StatusBadRequest, "no_slot_selected", err.Error())
	case errors.Is(err, appointment.ErrSlotUnavailable):
		writeError(w, http.StatusConflict, "slot_unavailable", err.Error())
	case errors.Is(err, appointment.ErrSlotBeingBooked):
		writeError(w, http.StatusConflict, "slot_being_booked", "slot is currently being booked, please retry shortly")
	case errors.Is(err, appointment.ErrSlotBusy):
		writeError(w, http.StatusConflict, "slot_busy", err.Error())
	case errors.Is(err, appointment.ErrInvalidStatusTransition):
		writeError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusRequestTimeout, "request_cancelled", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func parseFilter(w http.ResponseWriter, r *http.Request) (appointment.Filter, bool) {
	q := r.URL.Query()

	f := appointment.Filter{
		DoctorID: q.Get("doctor_id"),
		Search:   strings.TrimSpace(q.Get("q")),
		Status:   appointment.AppointmentStatus(q.Get("status")),
	}

	if raw := q.Get("date"); raw != "" {
		date, err := parseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return appointment.Filter{}, false
		}
		f.Date = appointment.DateKey(date)
	}

	if f.Status != "" && !f.Status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid_status", "status must be one of scheduled, completed, cancelled")
		return appointment.Filter{}, false
	}

	return f, true
}

func parseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(appointment.DateLayout, raw, time.Local)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
