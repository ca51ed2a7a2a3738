package metrics

import (
	"context"
	"time"

	"github.com/sanjibani/cardiology-ai-agent/llm"
	"github.com/sanjibani/cardiology-ai-agent/store"
	"github.com/sanjibani/cardiology-ai-agent/types"
)

// InstrumentProvider wraps an oracle provider so every completion is
// recorded on the collector.
func InstrumentProvider(next llm.Provider, c *Collector) llm.Provider {
	return &instrumentedProvider{next: next, collector: c}
}

type instrumentedProvider struct {
	next      llm.Provider
	collector *Collector
}

func (p *instrumentedProvider) Complete(ctx context.Context, systemPrompt string, turns []types.Message) (string, error) {
	start := time.Now()
	out, err := p.next.Complete(ctx, systemPrompt, turns)
	p.collector.RecordOracleRequest(p.next.Name(), callStatus(err), time.Since(start))
	return out, err
}

func (p *instrumentedProvider) HealthCheck(ctx context.Context) (*llm.HealthStatus, error) {
	return p.next.HealthCheck(ctx)
}

func (p *instrumentedProvider) Name() string { return p.next.Name() }

// InstrumentCalendar wraps an appointment store so every operation is
// recorded on the collector under the "calendar" store label.
func InstrumentCalendar(next store.AppointmentStore, c *Collector) store.AppointmentStore {
	return &instrumentedCalendar{next: next, collector: c}
}

type instrumentedCalendar struct {
	next      store.AppointmentStore
	collector *Collector
}

const calendarStoreLabel = "calendar"

func (s *instrumentedCalendar) CheckAvailability(ctx context.Context, date, appointmentType string) (*store.Availability, error) {
	out, err := s.next.CheckAvailability(ctx, date, appointmentType)
	s.collector.RecordStoreOperation(calendarStoreLabel, "check_availability", callStatus(err))
	return out, err
}

func (s *instrumentedCalendar) Book(ctx context.Context, patientID, date, slot, appointmentType, notes string) (*types.BookingResult, error) {
	out, err := s.next.Book(ctx, patientID, date, slot, appointmentType, notes)
	s.collector.RecordStoreOperation(calendarStoreLabel, "book", callStatus(err))
	return out, err
}

func (s *instrumentedCalendar) Cancel(ctx context.Context, bookingID string) (*types.BookingResult, error) {
	out, err := s.next.Cancel(ctx, bookingID)
	s.collector.RecordStoreOperation(calendarStoreLabel, "cancel", callStatus(err))
	return out, err
}

func (s *instrumentedCalendar) Reschedule(ctx context.Context, bookingID, newDate, newSlot string) (*types.BookingResult, error) {
	out, err := s.next.Reschedule(ctx, bookingID, newDate, newSlot)
	s.collector.RecordStoreOperation(calendarStoreLabel, "reschedule", callStatus(err))
	return out, err
}

func (s *instrumentedCalendar) PatientAppointments(ctx context.Context, patientID string) ([]types.CalendarEntry, error) {
	out, err := s.next.PatientAppointments(ctx, patientID)
	s.collector.RecordStoreOperation(calendarStoreLabel, "list", callStatus(err))
	return out, err
}

func callStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
