package appointment

import (
	"context"
	"fmt"
	"sync"
	"time"
)

var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository keeps doctors, slots, appointments and events in process
// memory. Slots and appointments keep their insertion order.
type MemoryRepository struct {
	mu sync.RWMutex

	doctors      []Doctor
	slots        []TimeSlot
	slotIndex    map[string]int
	appointments []Appointment
	apptIndex    map[string]int
	events       []EventLog
}

func NewMemoryRepository(doctors []Doctor, slots []TimeSlot) *MemoryRepository {
	r := &MemoryRepository{
		doctors:   append([]Doctor(nil), doctors...),
		slots:     append([]TimeSlot(nil), slots...),
		slotIndex: make(map[string]int, len(slots)),
		apptIndex: make(map[string]int),
	}
	for i, s := range r.slots {
		r.slotIndex[s.ID] = i
	}
	return r
}

func (r *MemoryRepository) ListDoctors(ctx context.Context) ([]Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Doctor(nil), r.doctors...), nil
}

func (r *MemoryRepository) GetDoctorByID(ctx context.Context, id string) (*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.doctors {
		if d.ID == id {
			doc := d
			return &doc, nil
		}
	}
	return nil, ErrDoctorNotFound
}

func (r *MemoryRepository) ListSlots(ctx context.Context) ([]TimeSlot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]TimeSlot(nil), r.slots...), nil
}

func (r *MemoryRepository) GetSlotByID(ctx context.Context, id string) (*TimeSlot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.slotIndex[id]
	if !ok {
		return nil, ErrSlotNotFound
	}
	slot := r.slots[idx]
	return &slot, nil
}

func (r *MemoryRepository) SetSlotAvailability(ctx context.Context, id string, available bool) (*TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.slotIndex[id]
	if !ok {
		return nil, ErrSlotNotFound
	}
	r.slots[idx].IsAvailable = available
	slot := r.slots[idx]
	return &slot, nil
}

func (r *MemoryRepository) ListAppointments(ctx context.Context) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Appointment(nil), r.appointments...), nil
}

func (r *MemoryRepository) GetAppointmentByID(ctx context.Context, id string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.apptIndex[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	appt := r.appointments[idx]
	return &appt, nil
}

func (r *MemoryRepository) InsertAppointment(ctx context.Context, appt Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.apptIndex[appt.ID]; exists {
		return fmt.Errorf("insert appointment %s: duplicate id", appt.ID)
	}
	r.apptIndex[appt.ID] = len(r.appointments)
	r.appointments = append(r.appointments, appt)
	return nil
}

// UpdateAppointmentStatus moves an appointment from one status to another.
// It fails with ErrInvalidStatusTransition when the current status is not from.
func (r *MemoryRepository) UpdateAppointmentStatus(ctx context.Context, id string, from, to AppointmentStatus) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.apptIndex[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	if r.appointments[idx].Status != from {
		return nil, fmt.Errorf("%w: %s is %s, not %s", ErrInvalidStatusTransition, id, r.appointments[idx].Status, from)
	}
	r.appointments[idx].Status = to
	appt := r.appointments[idx]
	return &appt, nil
}

func (r *MemoryRepository) InsertEvent(ctx context.Context, ev EventLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ev.ID = int64(len(r.events) + 1)
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	r.events = append(r.events, ev)
	return nil
}

func (r *MemoryRepository) ListEvents(ctx context.Context) ([]EventLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]EventLog(nil), r.events...), nil
}
