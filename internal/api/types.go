package api

import (
	"strings"

	"github.com/hackgods/appointment-booking/internal/appointment"
)

type CreateAppointmentRequest struct {
	DoctorID     string `json:"doctor_id"`
	SlotID       string `json:"slot_id"`
	PatientName  string `json:"patient_name" validate:"required,max=200"`
	PatientEmail string `json:"patient_email" validate:"required,email"`
	Notes        string `json:"notes" validate:"max=2000"`
}

// Blank names are treated as missing.
func (r *CreateAppointmentRequest) normalize() {
	r.PatientName = strings.TrimSpace(r.PatientName)
	r.PatientEmail = strings.TrimSpace(r.PatientEmail)
}

type BookSessionRequest struct {
	PatientName  string `json:"patient_name" validate:"required,max=200"`
	PatientEmail string `json:"patient_email" validate:"required,email"`
	Notes        string `json:"notes" validate:"max=2000"`
}

func (r *BookSessionRequest) normalize() {
	r.PatientName = strings.TrimSpace(r.PatientName)
	r.PatientEmail = strings.TrimSpace(r.PatientEmail)
}

// A null id clears the selection.
type SetDoctorRequest struct {
	DoctorID *string `json:"doctor_id"`
}

type SetDateRequest struct {
	Date *string `json:"date"`
}

type SetSlotRequest struct {
	SlotID *string `json:"slot_id"`
}

type SetModalRequest struct {
	Open bool `json:"open"`
}

type SessionResponse struct {
	ID string `json:"id"`
	appointment.Selection
}

type BookingResponse struct {
	Appointment *appointment.Appointment `json:"appointment"`
	Session     SessionResponse          `json:"session"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
