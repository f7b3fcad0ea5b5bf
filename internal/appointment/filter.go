package appointment

import "strings"

// Filter selects appointments for the dashboards. Zero-valued fields match
// everything.
type Filter struct {
	DoctorID string
	Date     string // YYYY-MM-DD of the booked slot
	Search   string // case-insensitive substring of patient name or email
	Status   AppointmentStatus
}

func (f Filter) Matches(a Appointment) bool {
	if f.DoctorID != "" && a.DoctorID != f.DoctorID {
		return false
	}
	if f.Date != "" && a.TimeSlot.Date != f.Date {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(a.PatientName), term) &&
			!strings.Contains(strings.ToLower(a.PatientEmail), term) {
			return false
		}
	}
	return true
}

// FilterAppointments keeps the relative order of appts.
func FilterAppointments(appts []Appointment, f Filter) []Appointment {
	result := make([]Appointment, 0, len(appts))
	for _, a := range appts {
		if f.Matches(a) {
			result = append(result, a)
		}
	}
	return result
}

type Stats struct {
	Total     int `json:"total"`
	Scheduled int `json:"scheduled"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

func CountByStatus(appts []Appointment) Stats {
	stats := Stats{Total: len(appts)}
	for _, a := range appts {
		switch a.Status {
		case StatusScheduled:
			stats.Scheduled++
		case StatusCompleted:
			stats.Completed++
		case StatusCancelled:
			stats.Cancelled++
		}
	}
	return stats
}
