package appointment

import (
	"fmt"
	"time"
)

const (
	DefaultSlotDays = 7
	SlotLength      = 30 * time.Minute
	SlotsPerDay     = int((dayEnd - dayStart) / SlotLength)

	dayStart = 9 * time.Hour
	dayEnd   = 17 * time.Hour

	slotMinutes  = int(SlotLength / time.Minute)
	startMinutes = int(dayStart / time.Minute)
)

// RandomSource is the subset of a seeded faker used for cosmetic seed data.
type RandomSource interface {
	Float64() float64
	Number(min, max int) int
}

// GenerateTimeSlots lays out 30 minute slots from 09:00 to 17:00 for days
// consecutive calendar days starting at now's day. Each slot is available
// with probability availability.
func GenerateTimeSlots(now time.Time, days int, availability float64, rnd RandomSource) []TimeSlot {
	if days <= 0 {
		days = DefaultSlotDays
	}

	y, m, d := now.Date()
	loc := now.Location()

	// Slots are built from wall-clock fields so DST changes never shift the grid.
	slots := make([]TimeSlot, 0, days*SlotsPerDay)
	for day := 0; day < days; day++ {
		dateKey := DateKey(time.Date(y, m, d+day, 12, 0, 0, 0, loc))

		for i := 0; i < SlotsPerDay; i++ {
			start := time.Date(y, m, d+day, 0, startMinutes+i*slotMinutes, 0, 0, loc)
			end := time.Date(y, m, d+day, 0, startMinutes+(i+1)*slotMinutes, 0, 0, loc)

			startTime := start.Format(TimeLayout)
			slots = append(slots, TimeSlot{
				ID:          SlotID(dateKey, startTime),
				Date:        dateKey,
				StartTime:   startTime,
				EndTime:     end.Format(TimeLayout),
				IsAvailable: rnd.Float64() < availability,
			})
		}
	}

	return slots
}

func SlotID(date, startTime string) string {
	return fmt.Sprintf("ts-%s-%s", date, startTime)
}
