package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleList() []Appointment {
	return []Appointment{
		{ID: "a1", PatientName: "John Doe", PatientEmail: "john@example.com", DoctorID: "d1", Status: StatusScheduled, TimeSlot: TimeSlot{Date: "2026-03-02"}},
		{ID: "a2", PatientName: "Emma Wilson", PatientEmail: "emma@clinic.org", DoctorID: "d2", Status: StatusCompleted, TimeSlot: TimeSlot{Date: "2026-03-03"}},
		{ID: "a3", PatientName: "Lucas Smith", PatientEmail: "lucas@example.com", DoctorID: "d1", Status: StatusCancelled, TimeSlot: TimeSlot{Date: "2026-03-02"}},
		{ID: "a4", PatientName: "Olivia Brown", PatientEmail: "olivia@example.com", DoctorID: "d1", Status: StatusScheduled, TimeSlot: TimeSlot{Date: "2026-03-04"}},
	}
}

func ids(appts []Appointment) []string {
	out := make([]string, 0, len(appts))
	for _, a := range appts {
		out = append(out, a.ID)
	}
	return out
}

func TestFilterAppointments(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"empty matches all", Filter{}, []string{"a1", "a2", "a3", "a4"}},
		{"doctor", Filter{DoctorID: "d1"}, []string{"a1", "a3", "a4"}},
		{"date", Filter{Date: "2026-03-02"}, []string{"a1", "a3"}},
		{"status", Filter{Status: StatusScheduled}, []string{"a1", "a4"}},
		{"search name ignores case", Filter{Search: "WILSON"}, []string{"a2"}},
		{"search email", Filter{Search: "example.com"}, []string{"a1", "a3", "a4"}},
		{"combined", Filter{DoctorID: "d1", Date: "2026-03-02", Status: StatusCancelled}, []string{"a3"}},
		{"no match", Filter{DoctorID: "d3"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterAppointments(sampleList(), tt.filter)))
		})
	}
}

func TestCountByStatus(t *testing.T) {
	stats := CountByStatus(sampleList())
	assert.Equal(t, Stats{Total: 4, Scheduled: 2, Completed: 1, Cancelled: 1}, stats)
	assert.Equal(t, Stats{}, CountByStatus(nil))
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusScheduled.Valid())
	assert.True(t, StatusCompleted.Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, AppointmentStatus("pending").Valid())
}
