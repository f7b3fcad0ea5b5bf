package appointment

import (
	"context"
	"errors"
)

var (
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrSlotNotFound        = errors.New("slot not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// Repository contains all storage interactions needed by the service.
type Repository interface {
	ListDoctors(ctx context.Context) ([]Doctor, error)
	GetDoctorByID(ctx context.Context, id string) (*Doctor, error)

	ListSlots(ctx context.Context) ([]TimeSlot, error)
	GetSlotByID(ctx context.Context, id string) (*TimeSlot, error)
	SetSlotAvailability(ctx context.Context, id string, available bool) (*TimeSlot, error)

	// Appointments are returned in insertion order
	ListAppointments(ctx context.Context) ([]Appointment, error)
	GetAppointmentByID(ctx context.Context, id string) (*Appointment, error)
	InsertAppointment(ctx context.Context, appt Appointment) error
	UpdateAppointmentStatus(ctx context.Context, id string, from, to AppointmentStatus) (*Appointment, error)

	// Event logging
	InsertEvent(ctx context.Context, ev EventLog) error
	ListEvents(ctx context.Context) ([]EventLog, error)
}
