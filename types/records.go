package types

import "time"

// Patient is a read-only patient record loaded at process start.
type Patient struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Age         int      `json:"age"`
	Conditions  []string `json:"conditions,omitempty"`
	Medications []string `json:"medications,omitempty"`
	RiskFactors []string `json:"risk_factors,omitempty"`
	Allergies   []string `json:"allergies,omitempty"`
	LastVisit   string   `json:"last_visit,omitempty"`
}

// AppointmentStatus is the lifecycle state of a calendar entry.
type AppointmentStatus string

const (
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// CalendarEntry is one booked appointment.
type CalendarEntry struct {
	ID        string            `json:"id" gorm:"primaryKey"`
	PatientID string            `json:"patient_id" gorm:"index"`
	Date      string            `json:"date" gorm:"index"`
	Time      string            `json:"time"`
	Type      string            `json:"type"`
	Status    AppointmentStatus `json:"status"`
	Notes     string            `json:"notes,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Slot is one offerable appointment slot.
type Slot struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// BookingResult is the outcome of a booking attempt.
type BookingResult struct {
	Success      bool           `json:"success"`
	BookingID    string         `json:"booking_id,omitempty"`
	Entry        *CalendarEntry `json:"entry,omitempty"`
	Alternatives []Slot         `json:"alternatives,omitempty"`
	Message      string         `json:"message,omitempty"`
}
