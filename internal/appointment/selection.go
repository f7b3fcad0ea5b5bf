package appointment

import (
	"context"
	"sync"
	"time"
)

// Session holds one client's in-progress choices. The fields are
// independent: selecting a slot does not open the booking modal.
type Session struct {
	mu        sync.RWMutex
	doctor    *Doctor
	date      time.Time
	slot      *TimeSlot
	modalOpen bool
}

// Selection is a point-in-time copy of a Session.
type Selection struct {
	Doctor           *Doctor   `json:"doctor"`
	Date             string    `json:"date,omitempty"`
	TimeSlot         *TimeSlot `json:"timeSlot"`
	BookingModalOpen bool      `json:"bookingModalOpen"`
}

// NewSession starts with today selected and nothing else.
func NewSession(today time.Time) *Session {
	return &Session{date: today}
}

func (s *Session) SetDoctor(d *Doctor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doctor = clonePtr(d)
}

func (s *Session) SetDate(date time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.date = date
}

func (s *Session) SetTimeSlot(slot *TimeSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slot = clonePtr(slot)
}

func (s *Session) SetBookingModalOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modalOpen = open
}

// clearAfterBooking drops the booked slot and closes the modal in one step.
func (s *Session) clearAfterBooking() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slot = nil
	s.modalOpen = false
}

func (s *Session) Doctor() *Doctor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePtr(s.doctor)
}

// Date returns the zero time when no date is selected.
func (s *Session) Date() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.date
}

func (s *Session) TimeSlot() *TimeSlot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePtr(s.slot)
}

func (s *Session) BookingModalOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modalOpen
}

func (s *Session) Snapshot() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sel := Selection{
		Doctor:           clonePtr(s.doctor),
		TimeSlot:         clonePtr(s.slot),
		BookingModalOpen: s.modalOpen,
	}
	if !s.date.IsZero() {
		sel.Date = DateKey(s.date)
	}
	return sel
}

// BookSelected books the session's selected doctor and slot. On success the
// selected slot is cleared and the booking modal closed; on failure the
// session is left untouched.
func (s *Service) BookSelected(ctx context.Context, sess *Session, patient PatientDetails) (*Appointment, error) {
	sel := sess.Snapshot()
	if sel.Doctor == nil {
		return nil, ErrNoDoctorSelected
	}
	if sel.TimeSlot == nil {
		return nil, ErrNoSlotSelected
	}

	appt, err := s.BookAppointment(ctx, BookingRequest{
		DoctorID:       sel.Doctor.ID,
		SlotID:         sel.TimeSlot.ID,
		PatientDetails: patient,
	})
	if err != nil {
		return nil, err
	}

	sess.clearAfterBooking()

	return appt, nil
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
