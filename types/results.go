package types

// TriageResult is the structured payload produced by the triage handler.
type TriageResult struct {
	Urgency             Urgency  `json:"urgency_level"`
	SeverityScore       float64  `json:"severity_score"`
	CardiacIndicators   []string `json:"cardiac_indicators,omitempty"`
	EmergencyIndicators []string `json:"emergency_indicators,omitempty"`
	RiskFactors         []string `json:"risk_factors,omitempty"`
	Recommendation      string   `json:"recommendation"`

	Escalation *EscalationPayload `json:"escalation,omitempty"`
}

// EscalationPayload carries the emergency-escalation instructions produced
// for the emergency path.
type EscalationPayload struct {
	Contacts     []EmergencyContact `json:"contacts"`
	Instructions []string           `json:"instructions"`
	EMSInfo      *EMSPatientInfo    `json:"ems_patient_info,omitempty"`
}

// EmergencyContact is one entry in the escalation contact list.
type EmergencyContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// EMSPatientInfo is the patient summary prepared for emergency services.
type EMSPatientInfo struct {
	PatientID   string   `json:"patient_id"`
	Name        string   `json:"name,omitempty"`
	Age         int      `json:"age,omitempty"`
	Conditions  []string `json:"conditions,omitempty"`
	Medications []string `json:"medications,omitempty"`
	Allergies   []string `json:"allergies,omitempty"`
}

// AppointmentResult is the structured payload produced by the appointment
// handler.
type AppointmentResult struct {
	Success          bool   `json:"success"`
	BookingID        string `json:"booking_id,omitempty"`
	Date             string `json:"date,omitempty"`
	Time             string `json:"time,omitempty"`
	Type             string `json:"type,omitempty"`
	RequiresApproval bool   `json:"requires_approval"`
	AlternativeSlots []Slot `json:"alternative_slots,omitempty"`
	Message          string `json:"message,omitempty"`
}

// EducationResult is the structured payload produced by the education handler.
type EducationResult struct {
	Topic           string             `json:"topic"`
	Content         string             `json:"content"`
	Concerns        []string           `json:"concerns,omitempty"`
	Recommendations []string           `json:"recommendations,omitempty"`
	Tracking        []TrackingGuidance `json:"tracking,omitempty"`
}

// TrackingGuidance is home-monitoring guidance for one wellness goal.
type TrackingGuidance struct {
	Goal        string   `json:"goal"`
	Frequency   string   `json:"frequency"`
	TargetRange string   `json:"target_range,omitempty"`
	Tips        []string `json:"tips"`
}

// DocsResult is the structured payload produced by the clinical docs handler.
type DocsResult struct {
	Assessment string `json:"assessment"`
	Plan       string `json:"plan"`
	Discharge  string `json:"discharge"`
	Report     string `json:"report"`
}
