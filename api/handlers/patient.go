package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/sanjibani/cardiology-ai-agent/api"
	"github.com/sanjibani/cardiology-ai-agent/store"
	"github.com/sanjibani/cardiology-ai-agent/types"
)

// PatientHandler serves patient record and calendar lookups.
type PatientHandler struct {
	patients *store.PatientStore
	calendar store.AppointmentStore
	logger   *zap.Logger
}

// NewPatientHandler creates the patient handler.
func NewPatientHandler(patients *store.PatientStore, calendar store.AppointmentStore, logger *zap.Logger) *PatientHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PatientHandler{
		patients: patients,
		calendar: calendar,
		logger:   logger.With(zap.String("component", "handlers.patient")),
	}
}

// HandleGet serves GET /patients/{id}.
func (h *PatientHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	patient, ok := h.patients.Get(id)
	if !ok {
		WriteError(w, types.NewError(types.ErrPatientNotFound, "unknown patient "+id), h.logger)
		return
	}
	WriteSuccess(w, patient)
}

// HandleAppointments serves GET /patients/{id}/appointments.
func (h *PatientHandler) HandleAppointments(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := h.patients.Get(id); !ok {
		WriteError(w, types.NewError(types.ErrPatientNotFound, "unknown patient "+id), h.logger)
		return
	}

	entries, err := h.calendar.PatientAppointments(r.Context(), id)
	if err != nil {
		if typed, ok := err.(*types.Error); ok {
			WriteError(w, typed, h.logger)
			return
		}
		WriteError(w, types.NewError(types.ErrStoreUnavailable, "calendar lookup failed").WithCause(err), h.logger)
		return
	}

	WriteSuccess(w, api.PatientAppointmentsResponse{
		PatientID:    id,
		Appointments: entries,
	})
}
