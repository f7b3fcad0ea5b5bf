package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedSampleAppointments(t *testing.T) {
	ctx := context.Background()
	slots := GenerateTimeSlots(testNow, DefaultSlotDays, 1, fixedSource{})
	repo := NewMemoryRepository(DefaultDoctors(), slots)

	seeded, err := SeedSampleAppointments(ctx, repo, fixedSource{}, testNow)
	require.NoError(t, err)
	require.Len(t, seeded, 4)

	stats := CountByStatus(seeded)
	assert.Equal(t, Stats{Total: 4, Scheduled: 2, Completed: 1, Cancelled: 1}, stats)

	used := make(map[string]bool)
	for i, appt := range seeded {
		assert.False(t, used[appt.TimeSlotID], "slot reused by %s", appt.ID)
		used[appt.TimeSlotID] = true
		assert.False(t, slotByID(t, repo, appt.TimeSlotID).IsAvailable)
		assert.Equal(t, slots[i].ID, appt.TimeSlotID)
	}

	stored, err := repo.ListAppointments(ctx)
	require.NoError(t, err)
	assert.Equal(t, seeded, stored)
}

func TestSeedSampleAppointmentsStopsWhenFull(t *testing.T) {
	ctx := context.Background()
	slots := GenerateTimeSlots(testNow, 1, 1, fixedSource{})
	for i := range slots {
		slots[i].IsAvailable = i < 2
	}
	repo := NewMemoryRepository(DefaultDoctors(), slots)

	seeded, err := SeedSampleAppointments(ctx, repo, fixedSource{}, testNow)
	require.NoError(t, err)
	assert.Len(t, seeded, 2)
}
