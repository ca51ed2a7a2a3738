package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sanjibani/cardiology-ai-agent/types"
)

func TestErrorCodeStatusMapping(t *testing.T) {
	tests := []struct {
		code types.ErrorCode
		want int
	}{
		{types.ErrInvalidRequest, http.StatusBadRequest},
		{types.ErrAuthentication, http.StatusUnauthorized},
		{types.ErrPatientNotFound, http.StatusNotFound},
		{types.ErrAppointmentNotFound, http.StatusNotFound},
		{types.ErrSlotUnavailable, http.StatusConflict},
		{types.ErrRateLimited, http.StatusTooManyRequests},
		{types.ErrUpstreamTimeout, http.StatusGatewayTimeout},
		{types.ErrUpstreamError, http.StatusBadGateway},
		{types.ErrOracleMalformed, http.StatusBadGateway},
		{types.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{types.ErrHandlerFailed, http.StatusInternalServerError},
		{types.ErrInternalError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, types.NewError(tt.code, "boom"), nil)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestWriteErrorHonorsExplicitStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, types.NewError(types.ErrInvalidRequest, "teapot").WithHTTPStatus(http.StatusTeapot), nil)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestResponseWriterCapturesFirstStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := NewResponseWriter(rec)

	rw.WriteHeader(http.StatusAccepted)
	rw.WriteHeader(http.StatusInternalServerError) // ignored

	assert.Equal(t, http.StatusAccepted, rw.StatusCode)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}
