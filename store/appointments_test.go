package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjibani/cardiology-ai-agent/types"
)

// nextWeekday returns the next weekday at least one day out, as YYYY-MM-DD.
func nextWeekday(t *testing.T) string {
	t.Helper()
	d := time.Now().AddDate(0, 0, 1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format("2006-01-02")
}

// Both implementations must pass the same suite.
func appointmentStores(t *testing.T) map[string]AppointmentStore {
	t.Helper()
	sqlStore, err := OpenSQLAppointmentStore(":memory:", nil)
	require.NoError(t, err)
	return map[string]AppointmentStore{
		"memory": NewMemoryAppointmentStore(nil),
		"sqlite": sqlStore,
	}
}

func TestAppointmentStoreAvailability(t *testing.T) {
	for name, s := range appointmentStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			date := nextWeekday(t)

			routine, err := s.CheckAvailability(ctx, date, "routine")
			require.NoError(t, err)
			assert.True(t, routine.Available)
			assert.Len(t, routine.Slots, 12)
			assert.NotContains(t, routine.Slots, "08:00")

			urgent, err := s.CheckAvailability(ctx, date, "urgent")
			require.NoError(t, err)
			assert.Len(t, urgent.Slots, 14)
			assert.Contains(t, urgent.Slots, "08:00")
			assert.Contains(t, urgent.Slots, "17:00")

			past, err := s.CheckAvailability(ctx, "2020-01-06", "routine")
			require.NoError(t, err)
			assert.False(t, past.Available)
			assert.Empty(t, past.Slots)

			bad, err := s.CheckAvailability(ctx, "not-a-date", "routine")
			require.NoError(t, err)
			assert.False(t, bad.Available)
		})
	}
}

func TestAppointmentStoreDoubleBooking(t *testing.T) {
	for name, s := range appointmentStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			date := nextWeekday(t)

			first, err := s.Book(ctx, "P001", date, "09:00", "routine", "follow-up")
			require.NoError(t, err)
			require.True(t, first.Success)
			assert.NotEmpty(t, first.BookingID)
			assert.Contains(t, first.BookingID, "CARD-")

			second, err := s.Book(ctx, "P002", date, "09:00", "routine", "")
			require.NoError(t, err)
			assert.False(t, second.Success)
			assert.NotEmpty(t, second.Alternatives)
			assert.LessOrEqual(t, len(second.Alternatives), 3)
			for _, alt := range second.Alternatives {
				assert.NotEqual(t, "09:00", alt.Time)
			}

			// No duplicate entry was created.
			p2, err := s.PatientAppointments(ctx, "P002")
			require.NoError(t, err)
			assert.Empty(t, p2)
		})
	}
}

func TestAppointmentStoreCancelIdempotentOnFailure(t *testing.T) {
	for name, s := range appointmentStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			date := nextWeekday(t)

			missing, err := s.Cancel(ctx, "CARD-nonexistent")
			require.NoError(t, err)
			assert.False(t, missing.Success)

			booked, err := s.Book(ctx, "P001", date, "10:00", "routine", "")
			require.NoError(t, err)
			require.True(t, booked.Success)

			cancelled, err := s.Cancel(ctx, booked.BookingID)
			require.NoError(t, err)
			assert.True(t, cancelled.Success)

			// Second cancel fails, calendar unchanged.
			again, err := s.Cancel(ctx, booked.BookingID)
			require.NoError(t, err)
			assert.False(t, again.Success)

			// The slot is bookable again after cancellation.
			rebooked, err := s.Book(ctx, "P002", date, "10:00", "routine", "")
			require.NoError(t, err)
			assert.True(t, rebooked.Success)
		})
	}
}

func TestAppointmentStoreRescheduleRoundTrip(t *testing.T) {
	for name, s := range appointmentStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			date := nextWeekday(t)

			booked, err := s.Book(ctx, "P001", date, "11:00", "urgent", "recheck BP")
			require.NoError(t, err)
			require.True(t, booked.Success)

			moved, err := s.Reschedule(ctx, booked.BookingID, date, "14:00")
			require.NoError(t, err)
			require.True(t, moved.Success)
			assert.NotEqual(t, booked.BookingID, moved.BookingID)

			entries, err := s.PatientAppointments(ctx, "P001")
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, "14:00", entries[0].Time)
			assert.Equal(t, "urgent", entries[0].Type)
			assert.Equal(t, "recheck BP", entries[0].Notes)

			// Old slot is free again.
			avail, err := s.CheckAvailability(ctx, date, "routine")
			require.NoError(t, err)
			assert.Contains(t, avail.Slots, "11:00")
		})
	}
}

func TestAppointmentStoreRescheduleUnknownID(t *testing.T) {
	for name, s := range appointmentStores(t) {
		t.Run(name, func(t *testing.T) {
			res, err := s.Reschedule(context.Background(), "CARD-missing", nextWeekday(t), "09:30")
			require.NoError(t, err)
			assert.False(t, res.Success)
		})
	}
}

func TestAppointmentStorePatientAppointmentsSorted(t *testing.T) {
	for name, s := range appointmentStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			date := nextWeekday(t)

			for _, slot := range []string{"15:00", "09:30", "11:30"} {
				res, err := s.Book(ctx, "P003", date, slot, "routine", "")
				require.NoError(t, err)
				require.True(t, res.Success)
			}

			entries, err := s.PatientAppointments(ctx, "P003")
			require.NoError(t, err)
			require.Len(t, entries, 3)
			assert.Equal(t, "09:30", entries[0].Time)
			assert.Equal(t, "11:30", entries[1].Time)
			assert.Equal(t, "15:00", entries[2].Time)

			for _, e := range entries {
				assert.Equal(t, types.AppointmentConfirmed, e.Status)
			}
		})
	}
}
