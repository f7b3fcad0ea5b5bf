package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hackgods/appointment-booking/internal/config"
	"github.com/hackgods/appointment-booking/internal/lock"
)

// fixedSource always draws the same float and the lowest index.
type fixedSource struct {
	f float64
}

func (s fixedSource) Float64() float64        { return s.f }
func (s fixedSource) Number(min, max int) int { return min }

var testNow = time.Date(2026, time.March, 2, 13, 45, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *MemoryRepository) {
	t.Helper()

	slots := GenerateTimeSlots(testNow, DefaultSlotDays, 0.7, fixedSource{f: 0})
	repo := NewMemoryRepository(DefaultDoctors(), slots)
	svc := NewService(repo, lock.NewSlotLocker(time.Second), config.Config{}, nil)
	svc.now = func() time.Time { return testNow }
	return svc, repo
}

func slotByID(t *testing.T, repo *MemoryRepository, id string) TimeSlot {
	t.Helper()
	slot, err := repo.GetSlotByID(context.Background(), id)
	require.NoError(t, err)
	return *slot
}

func availableIDs(t *testing.T, repo *MemoryRepository) map[string]bool {
	t.Helper()
	slots, err := repo.ListSlots(context.Background())
	require.NoError(t, err)
	ids := make(map[string]bool)
	for _, s := range slots {
		if s.IsAvailable {
			ids[s.ID] = true
		}
	}
	return ids
}
