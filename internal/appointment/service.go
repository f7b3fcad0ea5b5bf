package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hackgods/appointment-booking/internal/config"
	"github.com/hackgods/appointment-booking/internal/lock"
)

const (
	EventAppointmentBooked    = "APPOINTMENT_BOOKED"
	EventAppointmentCancelled = "APPOINTMENT_CANCELLED"
)

var (
	ErrNoDoctorSelected        = errors.New("no doctor selected")
	ErrNoSlotSelected          = errors.New("no time slot selected")
	ErrSlotUnavailable         = errors.New("time slot is not available")
	ErrSlotBeingBooked         = errors.New("slot is currently being booked, please retry")
	ErrSlotBusy                = errors.New("slot is busy, please retry")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)

type PatientDetails struct {
	Name  string
	Email string
	Notes string
}

type BookingRequest struct {
	DoctorID string
	SlotID   string
	PatientDetails
}

type Service struct {
	repo   Repository
	locker lock.Locker
	cfg    config.Config
	logger *zap.Logger

	now   func() time.Time
	newID func() string
}

func NewService(repo Repository, locker lock.Locker, cfg config.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		locker: locker,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		newID:  newAppointmentID,
	}
}

// UUIDv7 ids sort by creation time.
func newAppointmentID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func (s *Service) Doctors(ctx context.Context) ([]Doctor, error) {
	doctors, err := s.repo.ListDoctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return doctors, nil
}

func (s *Service) Doctor(ctx context.Context, id string) (*Doctor, error) {
	doctor, err := s.repo.GetDoctorByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	return doctor, nil
}

func (s *Service) TimeSlots(ctx context.Context) ([]TimeSlot, error) {
	slots, err := s.repo.ListSlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

func (s *Service) TimeSlot(ctx context.Context, id string) (*TimeSlot, error) {
	slot, err := s.repo.GetSlotByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	return slot, nil
}

// TimeSlotsForDate returns the slots on date's calendar day. The time of day
// is ignored.
func (s *Service) TimeSlotsForDate(ctx context.Context, date time.Time) ([]TimeSlot, error) {
	if date.IsZero() {
		return nil, nil
	}

	slots, err := s.TimeSlots(ctx)
	if err != nil {
		return nil, err
	}

	key := DateKey(date)
	var result []TimeSlot
	for _, slot := range slots {
		if slot.Date == key {
			result = append(result, slot)
		}
	}
	return result, nil
}

func (s *Service) Appointments(ctx context.Context) ([]Appointment, error) {
	appts, err := s.repo.ListAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}

func (s *Service) Appointment(ctx context.Context, id string) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return appt, nil
}

// DoctorAppointments returns the doctor's appointments in booking order.
func (s *Service) DoctorAppointments(ctx context.Context, doctorID string) ([]Appointment, error) {
	return s.ListAppointments(ctx, Filter{DoctorID: doctorID})
}

func (s *Service) ListAppointments(ctx context.Context, f Filter) ([]Appointment, error) {
	appts, err := s.Appointments(ctx)
	if err != nil {
		return nil, err
	}
	return FilterAppointments(appts, f), nil
}

// Stats counts appointments per status after applying every filter field
// except Status.
func (s *Service) Stats(ctx context.Context, f Filter) (Stats, error) {
	f.Status = ""
	appts, err := s.ListAppointments(ctx, f)
	if err != nil {
		return Stats{}, err
	}
	return CountByStatus(appts), nil
}

func (s *Service) Events(ctx context.Context) ([]EventLog, error) {
	events, err := s.repo.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// BookAppointment reserves an available slot with a doctor for a patient.
// Nothing changes unless the booking succeeds.
func (s *Service) BookAppointment(ctx context.Context, req BookingRequest) (*Appointment, error) {
	if req.DoctorID == "" {
		return nil, ErrNoDoctorSelected
	}
	if req.SlotID == "" {
		return nil, ErrNoSlotSelected
	}

	doctor, err := s.repo.GetDoctorByID(ctx, req.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("load doctor: %w", err)
	}
	// Unknown slots are rejected before a lock is taken for them.
	if _, err := s.repo.GetSlotByID(ctx, req.SlotID); err != nil {
		return nil, fmt.Errorf("load slot: %w", err)
	}

	if err := s.wait(ctx, s.cfg.BookingDelay); err != nil {
		return nil, err
	}

	var created *Appointment

	err = s.locker.WithSlotLock(ctx, req.SlotID, func(lockCtx context.Context) error {
		slot, err := s.repo.GetSlotByID(lockCtx, req.SlotID)
		if err != nil {
			return fmt.Errorf("load slot: %w", err)
		}
		if !slot.IsAvailable {
			return ErrSlotUnavailable
		}

		appt := Appointment{
			ID:           s.newID(),
			PatientName:  req.Name,
			PatientEmail: req.Email,
			DoctorID:     doctor.ID,
			TimeSlotID:   slot.ID,
			Status:       StatusScheduled,
			Notes:        req.Notes,
			TimeSlot:     *slot,
			CreatedAt:    s.now(),
		}
		if err := s.repo.InsertAppointment(lockCtx, appt); err != nil {
			return fmt.Errorf("insert appointment: %w", err)
		}
		if _, err := s.repo.SetSlotAvailability(lockCtx, slot.ID, false); err != nil {
			return fmt.Errorf("mark slot booked: %w", err)
		}

		created = &appt

		s.logEvent(lockCtx, appt.ID, EventAppointmentBooked, map[string]any{
			"doctor_id": doctor.ID,
			"slot_id":   slot.ID,
		})
		return nil
	})

	if err != nil {
		if errors.Is(err, lock.ErrLockNotAcquired) {
			return nil, ErrSlotBeingBooked
		}
		return nil, err
	}

	s.logger.Info("appointment booked",
		zap.String("appointment_id", created.ID),
		zap.String("doctor_id", created.DoctorID),
		zap.String("slot_id", created.TimeSlotID),
	)

	return created, nil
}

// CancelAppointment marks a scheduled appointment cancelled and makes its
// slot bookable again.
func (s *Service) CancelAppointment(ctx context.Context, id string) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	var cancelled *Appointment

	err = s.locker.WithSlotLock(ctx, appt.TimeSlotID, func(lockCtx context.Context) error {
		updated, err := s.repo.UpdateAppointmentStatus(lockCtx, id, StatusScheduled, StatusCancelled)
		if err != nil {
			return fmt.Errorf("cancel appointment: %w", err)
		}
		if _, err := s.repo.SetSlotAvailability(lockCtx, updated.TimeSlotID, true); err != nil {
			return fmt.Errorf("release slot: %w", err)
		}

		cancelled = updated

		s.logEvent(lockCtx, updated.ID, EventAppointmentCancelled, map[string]any{
			"slot_id": updated.TimeSlotID,
		})
		return nil
	})

	if err != nil {
		if errors.Is(err, lock.ErrLockNotAcquired) {
			return nil, ErrSlotBusy
		}
		return nil, err
	}

	s.logger.Info("appointment cancelled",
		zap.String("appointment_id", cancelled.ID),
		zap.String("slot_id", cancelled.TimeSlotID),
	)

	return cancelled, nil
}

// wait simulates request latency before a booking completes.
func (s *Service) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) logEvent(ctx context.Context, appointmentID string, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn("failed to marshal event payload", zap.String("event", eventType), zap.Error(err))
		data = nil
	}

	ev := EventLog{
		EventType:     eventType,
		AppointmentID: appointmentID,
		Payload:       data,
		CreatedAt:     s.now(),
	}

	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		s.logger.Error("failed to insert event log",
			zap.String("event", eventType),
			zap.String("appointment_id", appointmentID),
			zap.Error(err),
		)
	}
}
