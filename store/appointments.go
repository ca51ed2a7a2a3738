package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sanjibani/cardiology-ai-agent/types"
)

// maxAlternativeSlots caps how many alternatives a failed booking offers.
const maxAlternativeSlots = 3

// AppointmentStore is the calendar contract. Both the in-memory and the
// sqlite-backed implementations satisfy it with identical semantics:
// double-booking a slot fails with alternatives, cancel is
// idempotent-on-failure, reschedule preserves type and notes.
type AppointmentStore interface {
	CheckAvailability(ctx context.Context, date, appointmentType string) (*Availability, error)
	Book(ctx context.Context, patientID, date, slot, appointmentType, notes string) (*types.BookingResult, error)
	Cancel(ctx context.Context, bookingID string) (*types.BookingResult, error)
	Reschedule(ctx context.Context, bookingID, newDate, newSlot string) (*types.BookingResult, error)
	PatientAppointments(ctx context.Context, patientID string) ([]types.CalendarEntry, error)
}

// newBookingID builds a human-readable booking identifier. Uniqueness is
// best-effort, not cryptographic.
func newBookingID() string {
	return fmt.Sprintf("CARD-%s", uuid.NewString()[:8])
}

// MemoryAppointmentStore is the default mutex-guarded calendar.
type MemoryAppointmentStore struct {
	mu      sync.RWMutex
	entries map[string]*types.CalendarEntry // booking ID -> entry
	logger  *zap.Logger
	now     func() time.Time
}

// NewMemoryAppointmentStore creates an empty in-memory calendar.
func NewMemoryAppointmentStore(logger *zap.Logger) *MemoryAppointmentStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryAppointmentStore{
		entries: make(map[string]*types.CalendarEntry),
		logger:  logger.With(zap.String("component", "store.appointments")),
		now:     time.Now,
	}
}

func (s *MemoryAppointmentStore) bookedSlots(date string) map[string]bool {
	booked := make(map[string]bool)
	for _, e := range s.entries {
		if e.Date == date && e.Status == types.AppointmentConfirmed {
			booked[e.Time] = true
		}
	}
	return booked
}

// CheckAvailability implements AppointmentStore.
func (s *MemoryAppointmentStore) CheckAvailability(_ context.Context, date, appointmentType string) (*Availability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slots := removeBooked(openSlots(s.now(), date, appointmentType), s.bookedSlots(date))
	return &Availability{Available: len(slots) > 0, Date: date, Slots: slots}, nil
}

// Book implements AppointmentStore. Booking an unavailable slot fails with
// up to three alternative slots, never a duplicate entry.
func (s *MemoryAppointmentStore) Book(_ context.Context, patientID, date, slot, appointmentType, notes string) (*types.BookingResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	open := removeBooked(openSlots(s.now(), date, appointmentType), s.bookedSlots(date))
	if !containsSlot(open, slot) {
		return failedBooking(date, open), nil
	}

	entry := &types.CalendarEntry{
		ID:        newBookingID(),
		PatientID: patientID,
		Date:      date,
		Time:      slot,
		Type:      appointmentType,
		Status:    types.AppointmentConfirmed,
		Notes:     notes,
		CreatedAt: s.now(),
	}
	s.entries[entry.ID] = entry

	s.logger.Info("appointment booked",
		zap.String("booking_id", entry.ID),
		zap.String("patient_id", patientID),
		zap.String("date", date),
		zap.String("time", slot))

	copied := *entry
	return &types.BookingResult{
		Success:   true,
		BookingID: entry.ID,
		Entry:     &copied,
		Message:   fmt.Sprintf("Appointment confirmed for %s at %s", date, slot),
	}, nil
}

// Cancel implements AppointmentStore. Cancelling an unknown or already
// cancelled booking returns a failure result and leaves the calendar
// unchanged.
func (s *MemoryAppointmentStore) Cancel(_ context.Context, bookingID string) (*types.BookingResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[bookingID]
	if !ok || entry.Status != types.AppointmentConfirmed {
		return &types.BookingResult{Success: false, Message: "Appointment not found"}, nil
	}

	entry.Status = types.AppointmentCancelled
	s.logger.Info("appointment cancelled", zap.String("booking_id", bookingID))

	copied := *entry
	return &types.BookingResult{
		Success:   true,
		BookingID: bookingID,
		Entry:     &copied,
		Message:   "Appointment cancelled successfully",
	}, nil
}

// Reschedule implements AppointmentStore: cancel plus book, preserving the
// original type and notes.
func (s *MemoryAppointmentStore) Reschedule(ctx context.Context, bookingID, newDate, newSlot string) (*types.BookingResult, error) {
	s.mu.RLock()
	existing, ok := s.entries[bookingID]
	var patientID, appointmentType, notes string
	if ok && existing.Status == types.AppointmentConfirmed {
		patientID, appointmentType, notes = existing.PatientID, existing.Type, existing.Notes
	} else {
		ok = false
	}
	s.mu.RUnlock()

	if !ok {
		return &types.BookingResult{Success: false, Message: "Appointment not found"}, nil
	}

	cancelled, err := s.Cancel(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !cancelled.Success {
		return cancelled, nil
	}
	return s.Book(ctx, patientID, newDate, newSlot, appointmentType, notes)
}

// PatientAppointments implements AppointmentStore, returning confirmed
// entries sorted by date then time.
func (s *MemoryAppointmentStore) PatientAppointments(_ context.Context, patientID string) ([]types.CalendarEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []types.CalendarEntry
	for _, e := range s.entries {
		if e.PatientID == patientID && e.Status == types.AppointmentConfirmed {
			out = append(out, *e)
		}
	}
	sortEntries(out)
	return out, nil
}

func containsSlot(slots []string, slot string) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}

func failedBooking(date string, open []string) *types.BookingResult {
	alts := make([]types.Slot, 0, maxAlternativeSlots)
	for _, s := range open {
		if len(alts) == maxAlternativeSlots {
			break
		}
		alts = append(alts, types.Slot{Date: date, Time: s})
	}
	return &types.BookingResult{
		Success:      false,
		Message:      "Requested time slot is not available",
		Alternatives: alts,
	}
}

func sortEntries(entries []types.CalendarEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date < entries[j].Date
		}
		return entries[i].Time < entries[j].Time
	})
}
