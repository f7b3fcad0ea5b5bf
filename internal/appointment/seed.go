package appointment

import (
	"context"
	"fmt"
	"time"
)

// DefaultDoctors is the fixed roster served by the clinic.
func DefaultDoctors() []Doctor {
	return []Doctor{
		{
			ID:        "d1",
			Name:      "Dr. Sarah Johnson",
			Specialty: "General Practitioner",
			Avatar:    "https://randomuser.me/api/portraits/women/44.jpg",
		},
		{
			ID:        "d2",
			Name:      "Dr. Michael Chen",
			Specialty: "Cardiologist",
			Avatar:    "https://randomuser.me/api/portraits/men/46.jpg",
		},
		{
			ID:        "d3",
			Name:      "Dr. Emily Rodriguez",
			Specialty: "Pediatrician",
			Avatar:    "https://randomuser.me/api/portraits/women/65.jpg",
		},
	}
}

type sampleAppointment struct {
	name     string
	email    string
	doctorID string
	status   AppointmentStatus
	notes    string
}

var sampleAppointments = []sampleAppointment{
	{"John Doe", "john.doe@example.com", "d1", StatusScheduled, "Regular checkup"},
	{"Emma Wilson", "emma.wilson@example.com", "d2", StatusCompleted, "Follow-up appointment for heart condition"},
	{"Lucas Smith", "lucas.smith@example.com", "d3", StatusCancelled, "Vaccination"},
	{"Olivia Brown", "olivia.brown@example.com", "d1", StatusScheduled, "Feeling dizzy for the past 3 days"},
}

// SeedSampleAppointments books the demo patients into random available slots.
// Every slot used is marked unavailable, whatever the sample's status. It
// stops early when no slot is left.
func SeedSampleAppointments(ctx context.Context, repo Repository, rnd RandomSource, now time.Time) ([]Appointment, error) {
	var seeded []Appointment

	for i, sample := range sampleAppointments {
		slots, err := repo.ListSlots(ctx)
		if err != nil {
			return nil, fmt.Errorf("list slots: %w", err)
		}

		var available []TimeSlot
		for _, slot := range slots {
			if slot.IsAvailable {
				available = append(available, slot)
			}
		}
		if len(available) == 0 {
			break
		}

		slot := available[rnd.Number(0, len(available)-1)]

		appt := Appointment{
			ID:           fmt.Sprintf("appt-%d", i),
			PatientName:  sample.name,
			PatientEmail: sample.email,
			DoctorID:     sample.doctorID,
			TimeSlotID:   slot.ID,
			Status:       sample.status,
			Notes:        sample.notes,
			TimeSlot:     slot,
			CreatedAt:    now,
		}
		if err := repo.InsertAppointment(ctx, appt); err != nil {
			return nil, fmt.Errorf("insert sample appointment: %w", err)
		}
		if _, err := repo.SetSlotAvailability(ctx, slot.ID, false); err != nil {
			return nil, fmt.Errorf("mark sample slot booked: %w", err)
		}

		seeded = append(seeded, appt)
	}

	return seeded, nil
}
