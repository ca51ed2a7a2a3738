package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sanjibani/cardiology-ai-agent/llm"
	"github.com/sanjibani/cardiology-ai-agent/store"
	"github.com/sanjibani/cardiology-ai-agent/types"
)

const approvalPrompt = `You are assisting a cardiology scheduling desk. Given the patient's
message and the proposed appointment, decide whether a human scheduler must approve it
before confirmation. Reply with JSON only: {"requires_approval": true|false}`

type approvalDecision struct {
	RequiresApproval bool `json:"requires_approval"`
}

// appointmentTypeFor maps urgency to the consultation type offered.
func appointmentTypeFor(u types.Urgency) string {
	switch u {
	case types.UrgencyEmergency:
		return "emergency"
	case types.UrgencyUrgent:
		return "urgent"
	default:
		return "routine"
	}
}

// Appointment books a slot in the calendar based on the session's urgency:
// emergency gets an immediate slot, urgent within 24 hours, everything else
// one to two weeks out.
type Appointment struct {
	oracle llm.Provider
	cal    store.AppointmentStore
	logger *zap.Logger
	now    func() time.Time
}

// NewAppointment creates the appointment handler.
func NewAppointment(oracle llm.Provider, cal store.AppointmentStore, logger *zap.Logger) *Appointment {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Appointment{
		oracle: oracle,
		cal:    cal,
		logger: logger.With(zap.String("component", "agent.appointment")),
		now:    time.Now,
	}
}

// Name implements Handler.
func (a *Appointment) Name() types.HandlerName { return types.HandlerAppointment }

// Run implements Handler.
func (a *Appointment) Run(ctx context.Context, state *types.SessionState) {
	state.CurrentHandler = types.HandlerAppointment

	urgency := state.Urgency
	if !urgency.Valid() {
		urgency = types.UrgencyRoutine
	}
	apptType := appointmentTypeFor(urgency)

	date, slot, alternatives, err := a.findSlot(ctx, urgency, apptType)
	if err != nil {
		state.SetError(fmt.Sprintf("appointment scheduling failed: %v", err))
		return
	}
	state.RecordTool("appointment_system")

	if slot == "" {
		state.SetAppointmentResult(&types.AppointmentResult{
			Success:          false,
			Type:             apptType,
			AlternativeSlots: alternatives,
			Message:          "No slots available in the requested window",
		})
		reply(state, types.HandlerAppointment,
			"Unable to schedule an appointment at this time. Please contact our scheduling department.")
		return
	}

	booking, err := a.cal.Book(ctx, state.PatientID, date, slot, apptType, state.LatestUserMessage())
	if err != nil {
		state.SetError(fmt.Sprintf("appointment booking failed: %v", err))
		return
	}
	if !booking.Success {
		state.SetAppointmentResult(&types.AppointmentResult{
			Success:          false,
			Type:             apptType,
			AlternativeSlots: booking.Alternatives,
			Message:          booking.Message,
		})
		reply(state, types.HandlerAppointment, formatAlternatives(booking))
		return
	}

	// Oracle output has no structural guarantee; unparseable replies fall
	// back to no approval required.
	requiresApproval := false
	if raw, oerr := a.oracle.Complete(ctx, approvalPrompt, state.Messages); oerr == nil {
		decision, _ := llm.ParseOrDefault(raw, approvalDecision{})
		requiresApproval = decision.RequiresApproval
	}

	result := &types.AppointmentResult{
		Success:          true,
		BookingID:        booking.BookingID,
		Date:             date,
		Time:             slot,
		Type:             apptType,
		RequiresApproval: requiresApproval,
	}
	result.Message = booking.Message
	state.SetAppointmentResult(result)

	a.logger.Info("appointment scheduled",
		zap.String("patient_id", state.PatientID),
		zap.String("booking_id", booking.BookingID),
		zap.String("type", apptType),
		zap.Bool("requires_approval", requiresApproval))

	reply(state, types.HandlerAppointment, fmt.Sprintf(
		"APPOINTMENT SCHEDULED\nType: %s cardiology consultation\nDate: %s\nTime: %s\nBooking ID: %s\n\nYou will receive a confirmation shortly.",
		apptType, date, slot, booking.BookingID))
}

// findSlot walks the urgency's scheduling window and returns the first open
// date and slot. Emergency and urgent start today; routine starts a week out.
func (a *Appointment) findSlot(ctx context.Context, urgency types.Urgency, apptType string) (date, slot string, alternatives []types.Slot, err error) {
	startOffset, endOffset := 7, 14 // 1-2 weeks for routine and moderate
	switch urgency {
	case types.UrgencyEmergency:
		startOffset, endOffset = 0, 1
	case types.UrgencyUrgent:
		startOffset, endOffset = 0, 3
	}

	now := a.now()
	for off := startOffset; off <= endOffset; off++ {
		d := now.AddDate(0, 0, off).Format("2006-01-02")
		avail, aerr := a.cal.CheckAvailability(ctx, d, apptType)
		if aerr != nil {
			return "", "", nil, aerr
		}
		if avail.Available {
			return d, avail.Slots[0], nil, nil
		}
	}

	// Nothing open in the window; offer the next open slots beyond it.
	for off := endOffset + 1; off <= endOffset+7; off++ {
		d := now.AddDate(0, 0, off).Format("2006-01-02")
		avail, aerr := a.cal.CheckAvailability(ctx, d, apptType)
		if aerr != nil {
			return "", "", nil, aerr
		}
		for _, s := range avail.Slots {
			if len(alternatives) == 3 {
				break
			}
			alternatives = append(alternatives, types.Slot{Date: d, Time: s})
		}
		if len(alternatives) == 3 {
			break
		}
	}
	return "", "", alternatives, nil
}

func formatAlternatives(b *types.BookingResult) string {
	if len(b.Alternatives) == 0 {
		return "The requested time is not available and no nearby alternatives were found. Please contact scheduling."
	}
	var sb strings.Builder
	sb.WriteString("The requested time is not available. Alternative slots:\n")
	for _, alt := range b.Alternatives {
		fmt.Fprintf(&sb, "- %s at %s\n", alt.Date, alt.Time)
	}
	return strings.TrimSpace(sb.String())
}
