package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjibani/cardiology-ai-agent/api"
	"github.com/sanjibani/cardiology-ai-agent/store"
	"github.com/sanjibani/cardiology-ai-agent/types"
)

func newPatientMux(t *testing.T) (*http.ServeMux, store.AppointmentStore) {
	t.Helper()
	cal := store.NewMemoryAppointmentStore(nil)
	h := NewPatientHandler(store.NewPatientStore(nil), cal, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /patients/{id}", h.HandleGet)
	mux.HandleFunc("GET /patients/{id}/appointments", h.HandleAppointments)
	return mux, cal
}

func nextOpenWeekday() string {
	d := time.Now().AddDate(0, 0, 1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format("2006-01-02")
}

func TestPatientLookup(t *testing.T) {
	mux, _ := newPatientMux(t)

	req := httptest.NewRequest(http.MethodGet, "/patients/P001", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Success bool          `json:"success"`
		Data    types.Patient `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "John Mitchell", envelope.Data.Name)
	assert.Equal(t, 58, envelope.Data.Age)
}

func TestPatientLookupUnknownID(t *testing.T) {
	mux, _ := newPatientMux(t)

	req := httptest.NewRequest(http.MethodGet, "/patients/P999", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var envelope struct {
		Success bool       `json:"success"`
		Error   *ErrorInfo `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, string(types.ErrPatientNotFound), envelope.Error.Code)
}

func TestPatientAppointmentsListing(t *testing.T) {
	mux, cal := newPatientMux(t)
	ctx := t.Context()

	avail, err := cal.CheckAvailability(ctx, nextOpenWeekday(), "routine")
	require.NoError(t, err)
	require.NotEmpty(t, avail.Slots)
	res, err := cal.Book(ctx, "P002", avail.Date, avail.Slots[0], "routine", "check-up")
	require.NoError(t, err)
	require.True(t, res.Success)

	req := httptest.NewRequest(http.MethodGet, "/patients/P002/appointments", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Success bool                            `json:"success"`
		Data    api.PatientAppointmentsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Appointments, 1)
	assert.Equal(t, res.BookingID, envelope.Data.Appointments[0].ID)
}

func TestPatientAppointmentsUnknownPatient(t *testing.T) {
	mux, _ := newPatientMux(t)

	req := httptest.NewRequest(http.MethodGet, "/patients/NOPE/appointments", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
