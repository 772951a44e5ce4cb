package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollcall/internal/attendance"
	"rollcall/pkg/platform/sentinel"
)

func newRecord(employeeID string, at time.Time, status attendance.Status) *attendance.Record {
	return &attendance.Record{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		Name:       "Test Employee",
		Department: "Engineering",
		Status:     status,
		Date:       at,
	}
}

func TestInMemoryInsertAndFind(t *testing.T) {
	s := NewInMemory(time.UTC)
	ctx := context.Background()
	at := time.Date(2026, 3, 2, 8, 45, 0, 0, time.UTC)

	require.NoError(t, s.Insert(ctx, newRecord("EMP001", at, attendance.StatusPresent)))

	dayStart, _ := attendance.DayBucket(at, time.UTC)
	got, err := s.FindByEmployeeAndDay(ctx, "EMP001", dayStart)
	require.NoError(t, err)
	assert.Equal(t, "EMP001", got.EmployeeID)
	assert.Equal(t, attendance.StatusPresent, got.Status)

	_, err = s.FindByEmployeeAndDay(ctx, "EMP002", dayStart)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryDuplicateSameDay(t *testing.T) {
	s := NewInMemory(time.UTC)
	ctx := context.Background()
	morning := time.Date(2026, 3, 2, 8, 45, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 2, 17, 30, 0, 0, time.UTC)

	require.NoError(t, s.Insert(ctx, newRecord("EMP001", morning, attendance.StatusPresent)))

	// Same employee, same calendar day, later instant: rejected, first record intact.
	err := s.Insert(ctx, newRecord("EMP001", evening, attendance.StatusAbsent))
	assert.ErrorIs(t, err, sentinel.ErrConflict)

	dayStart, _ := attendance.DayBucket(morning, time.UTC)
	got, err := s.FindByEmployeeAndDay(ctx, "EMP001", dayStart)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, got.Status)
	assert.Equal(t, morning, got.Date)
}

func TestInMemoryDifferentDayAndEmployee(t *testing.T) {
	s := NewInMemory(time.UTC)
	ctx := context.Background()
	day1 := time.Date(2026, 3, 2, 8, 45, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	require.NoError(t, s.Insert(ctx, newRecord("EMP001", day1, attendance.StatusPresent)))
	require.NoError(t, s.Insert(ctx, newRecord("EMP001", day2, attendance.StatusPresent)))
	require.NoError(t, s.Insert(ctx, newRecord("EMP002", day1, attendance.StatusLate)))
}

func TestInMemoryConcurrentMarksExactlyOneWins(t *testing.T) {
	s := NewInMemory(time.UTC)
	at := time.Date(2026, 3, 2, 8, 45, 0, 0, time.UTC)

	const attempts = 32
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := range attempts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Insert(context.Background(), newRecord("EMP001", at, attendance.StatusPresent))
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, err := range errs {
		switch {
		case err == nil:
			accepted++
		case errors.Is(err, sentinel.ErrConflict):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, accepted)
}

func TestInMemoryRangeInclusiveAndOrdered(t *testing.T) {
	s := NewInMemory(time.UTC)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for day := range 10 {
		require.NoError(t, s.Insert(ctx, newRecord("EMP001", base.AddDate(0, 0, day), attendance.StatusPresent)))
	}

	first := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	last := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	got, err := s.ListByEmployeeAndRange(ctx, "EMP001", first, last)
	require.NoError(t, err)
	require.Len(t, got, 4)
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].Date.Before(got[i].Date))
	}
	assert.Equal(t, 3, got[0].Date.Day())
	assert.Equal(t, 6, got[len(got)-1].Date.Day())
}

func TestInMemoryDeleteByEmployee(t *testing.T) {
	s := NewInMemory(time.UTC)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for day := range 3 {
		require.NoError(t, s.Insert(ctx, newRecord("EMP001", base.AddDate(0, 0, day), attendance.StatusPresent)))
	}
	require.NoError(t, s.Insert(ctx, newRecord("EMP002", base, attendance.StatusLate)))

	n, err := s.DeleteByEmployee(ctx, "EMP001")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	remaining, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "EMP002", remaining[0].EmployeeID)
}

func TestInMemoryReadsReturnCopies(t *testing.T) {
	s := NewInMemory(time.UTC)
	ctx := context.Background()
	at := time.Date(2026, 3, 2, 8, 45, 0, 0, time.UTC)

	require.NoError(t, s.Insert(ctx, newRecord("EMP001", at, attendance.StatusPresent)))

	dayStart, _ := attendance.DayBucket(at, time.UTC)
	got, err := s.FindByEmployeeAndDay(ctx, "EMP001", dayStart)
	require.NoError(t, err)
	got.Status = attendance.StatusAbsent

	again, err := s.FindByEmployeeAndDay(ctx, "EMP001", dayStart)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, again.Status)
}
