package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sanjibani/cardiology-ai-agent/types"
)

// SQLAppointmentStore persists the calendar in sqlite via gorm. Same
// semantics as the in-memory store; booking runs in a transaction so a
// concurrent double-book cannot slip through.
type SQLAppointmentStore struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// OpenSQLAppointmentStore opens (or creates) the sqlite database at path and
// migrates the calendar table. Use ":memory:" for tests.
func OpenSQLAppointmentStore(path string, logger *zap.Logger) (*SQLAppointmentStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, types.NewError(types.ErrStoreUnavailable, "open appointment database").WithCause(err)
	}
	if err := db.AutoMigrate(&types.CalendarEntry{}); err != nil {
		return nil, types.NewError(types.ErrStoreUnavailable, "migrate appointment schema").WithCause(err)
	}
	return &SQLAppointmentStore{
		db:     db,
		logger: logger.With(zap.String("component", "store.appointments_sql")),
		now:    time.Now,
	}, nil
}

func (s *SQLAppointmentStore) bookedSlots(tx *gorm.DB, date string) (map[string]bool, error) {
	var times []string
	err := tx.Model(&types.CalendarEntry{}).
		Where("date = ? AND status = ?", date, types.AppointmentConfirmed).
		Pluck("time", &times).Error
	if err != nil {
		return nil, err
	}
	booked := make(map[string]bool, len(times))
	for _, t := range times {
		booked[t] = true
	}
	return booked, nil
}

// CheckAvailability implements AppointmentStore.
func (s *SQLAppointmentStore) CheckAvailability(ctx context.Context, date, appointmentType string) (*Availability, error) {
	booked, err := s.bookedSlots(s.db.WithContext(ctx), date)
	if err != nil {
		return nil, types.NewError(types.ErrStoreUnavailable, "query booked slots").WithCause(err)
	}
	slots := removeBooked(openSlots(s.now(), date, appointmentType), booked)
	return &Availability{Available: len(slots) > 0, Date: date, Slots: slots}, nil
}

// Book implements AppointmentStore.
func (s *SQLAppointmentStore) Book(ctx context.Context, patientID, date, slot, appointmentType, notes string) (*types.BookingResult, error) {
	var result *types.BookingResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booked, err := s.bookedSlots(tx, date)
		if err != nil {
			return err
		}
		open := removeBooked(openSlots(s.now(), date, appointmentType), booked)
		if !containsSlot(open, slot) {
			result = failedBooking(date, open)
			return nil
		}

		entry := types.CalendarEntry{
			ID:        newBookingID(),
			PatientID: patientID,
			Date:      date,
			Time:      slot,
			Type:      appointmentType,
			Status:    types.AppointmentConfirmed,
			Notes:     notes,
			CreatedAt: s.now(),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		result = &types.BookingResult{
			Success:   true,
			BookingID: entry.ID,
			Entry:     &entry,
			Message:   fmt.Sprintf("Appointment confirmed for %s at %s", date, slot),
		}
		return nil
	})
	if err != nil {
		return nil, types.NewError(types.ErrStoreUnavailable, "book appointment").WithCause(err)
	}
	if result.Success {
		s.logger.Info("appointment booked",
			zap.String("booking_id", result.BookingID),
			zap.String("patient_id", patientID),
			zap.String("date", date),
			zap.String("time", slot))
	}
	return result, nil
}

// Cancel implements AppointmentStore.
func (s *SQLAppointmentStore) Cancel(ctx context.Context, bookingID string) (*types.BookingResult, error) {
	var entry types.CalendarEntry
	err := s.db.WithContext(ctx).
		Where("id = ? AND status = ?", bookingID, types.AppointmentConfirmed).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &types.BookingResult{Success: false, Message: "Appointment not found"}, nil
	}
	if err != nil {
		return nil, types.NewError(types.ErrStoreUnavailable, "look up appointment").WithCause(err)
	}

	entry.Status = types.AppointmentCancelled
	if err := s.db.WithContext(ctx).Save(&entry).Error; err != nil {
		return nil, types.NewError(types.ErrStoreUnavailable, "cancel appointment").WithCause(err)
	}
	s.logger.Info("appointment cancelled", zap.String("booking_id", bookingID))
	return &types.BookingResult{
		Success:   true,
		BookingID: bookingID,
		Entry:     &entry,
		Message:   "Appointment cancelled successfully",
	}, nil
}

// Reschedule implements AppointmentStore.
func (s *SQLAppointmentStore) Reschedule(ctx context.Context, bookingID, newDate, newSlot string) (*types.BookingResult, error) {
	var entry types.CalendarEntry
	err := s.db.WithContext(ctx).
		Where("id = ? AND status = ?", bookingID, types.AppointmentConfirmed).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &types.BookingResult{Success: false, Message: "Appointment not found"}, nil
	}
	if err != nil {
		return nil, types.NewError(types.ErrStoreUnavailable, "look up appointment").WithCause(err)
	}

	cancelled, err := s.Cancel(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !cancelled.Success {
		return cancelled, nil
	}
	return s.Book(ctx, entry.PatientID, newDate, newSlot, entry.Type, entry.Notes)
}

// PatientAppointments implements AppointmentStore.
func (s *SQLAppointmentStore) PatientAppointments(ctx context.Context, patientID string) ([]types.CalendarEntry, error) {
	var entries []types.CalendarEntry
	err := s.db.WithContext(ctx).
		Where("patient_id = ? AND status = ?", patientID, types.AppointmentConfirmed).
		Order("date, time").
		Find(&entries).Error
	if err != nil {
		return nil, types.NewError(types.ErrStoreUnavailable, "list appointments").WithCause(err)
	}
	return entries, nil
}
