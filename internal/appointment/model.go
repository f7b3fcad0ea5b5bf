package appointment

import (
	"encoding/json"
	"time"
)

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Layouts used for slot dates and times of day.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Doctor struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Avatar    string `json:"avatar"`
}

// TimeSlot is a 30 minute window on a calendar day. Date is YYYY-MM-DD,
// StartTime and EndTime are HH:MM.
type TimeSlot struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	IsAvailable bool   `json:"isAvailable"`
}

type Appointment struct {
	ID           string            `json:"id"`
	PatientName  string            `json:"patientName"`
	PatientEmail string            `json:"patientEmail"`
	DoctorID     string            `json:"doctorId"`
	TimeSlotID   string            `json:"timeSlotId"`
	Status       AppointmentStatus `json:"status"`
	Notes        string            `json:"notes,omitempty"`
	TimeSlot     TimeSlot          `json:"timeSlot"`
	CreatedAt    time.Time         `json:"createdAt"`
}

type EventLog struct {
	ID            int64           `json:"id"`
	EventType     string          `json:"eventType"`
	AppointmentID string          `json:"appointmentId,omitempty"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// DateKey truncates t to the calendar day used to match slots.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}
