package api

import (
	"github.com/sanjibani/cardiology-ai-agent/types"
)

// ChatRequest is one incoming patient message.
type ChatRequest struct {
	PatientID string `json:"patient_id"`
	Message   string `json:"message"`
	// Context carries opaque caller-supplied session data. It is threaded
	// through the routing run untouched.
	Context map[string]string `json:"context,omitempty"`
}

// ChatResponse is the routed reply for one patient message.
type ChatResponse struct {
	Response         string                   `json:"response"`
	AgentUsed        string                   `json:"agent_used"`
	StructuredData   *StructuredData          `json:"structured_data,omitempty"`
	RequiresFollowUp bool                     `json:"requires_follow_up"`
	EmergencyAlert   *types.EscalationPayload `json:"emergency_alert,omitempty"`
}

// StructuredData bundles the machine-readable payloads the specialist
// handlers produced during the run.
type StructuredData struct {
	Urgency       types.Urgency            `json:"urgency_level,omitempty"`
	SeverityScore float64                  `json:"severity_score,omitempty"`
	Triage        *types.TriageResult      `json:"triage,omitempty"`
	Appointment   *types.AppointmentResult `json:"appointment,omitempty"`
	Education     *types.EducationResult   `json:"education,omitempty"`
	Docs          *types.DocsResult        `json:"clinical_docs,omitempty"`
	ToolsUsed     []string                 `json:"tools_used,omitempty"`
}

// PatientAppointmentsResponse lists a patient's calendar entries.
type PatientAppointmentsResponse struct {
	PatientID    string                `json:"patient_id"`
	Appointments []types.CalendarEntry `json:"appointments"`
}
